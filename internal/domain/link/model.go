package link

import (
	"net/url"
	"time"
)

// Link is a categorized bookmark. JSON field names follow the API's
// camelCase convention.
type Link struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	Description  string     `json:"description,omitempty"`
	CategoryID   *int64     `json:"categoryId"`
	CategoryName string     `json:"categoryName,omitempty"`
	Pinned       bool       `json:"pinned"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateLinkRequest is the payload for creating a link.
type CreateLinkRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	URL         string `json:"url" binding:"required,min=1,max=500"`
	Description string `json:"description" binding:"max=1000"`
	CategoryID  *int64 `json:"categoryId"`
	Pinned      bool   `json:"pinned"`
}

// UpdateLinkRequest lists the fields a client may change. Pointer
// fields distinguish "not provided" from zero values; anything not
// listed here cannot be mutated.
type UpdateLinkRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	URL         *string `json:"url" binding:"omitempty,min=1,max=500"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	CategoryID  *int64  `json:"categoryId"`
	Pinned      *bool   `json:"pinned"`
}

// Stats summarizes the link collection.
type Stats struct {
	TotalLinks         int64           `json:"total_links"`
	PinnedLinks        int64           `json:"pinned_links"`
	UncategorizedLinks int64           `json:"uncategorized_links"`
	LinksPerCategory   []CategoryCount `json:"links_per_category"`
}

// CategoryCount pairs a category name with its link count.
type CategoryCount struct {
	CategoryName string `json:"category_name"`
	LinksCount   int64  `json:"links_count"`
}

// ValidateURL reports whether raw is an absolute URL with both a
// scheme and a host.
func ValidateURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
