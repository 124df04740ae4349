package category

import "time"

// Category groups links under a unique name.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LinksCount  int64     `json:"links_count"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest lists the fields a client may change. Pointer
// fields distinguish "not provided" from zero values.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// Stats summarizes categories and their link counts.
type Stats struct {
	TotalCategories     int64        `json:"total_categories"`
	CategoriesWithLinks []LinkCounts `json:"categories_with_links"`
}

// LinkCounts pairs a category with its link count.
type LinkCounts struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LinksCount int64  `json:"links_count"`
}
