package repository

import (
	"database/sql"
	"fmt"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/category"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
)

type CategoryRepository interface {
	Create(c *category.Category) error
	GetByID(id int64) (*category.Category, error)
	GetAll() ([]*category.Category, error)
	FindByName(name string) (*category.Category, error)
	Update(c *category.Category) error
	Delete(id int64) (bool, error)
	Stats() (*category.Stats, error)
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categorySelect = `
	SELECT c.id, c.name, c.description, c.created_at, c.updated_at, COUNT(l.id)
	FROM categories c
	LEFT JOIN links l ON l.category_id = c.id
`

const categoryGroup = ` GROUP BY c.id, c.name, c.description, c.created_at, c.updated_at`

func (r *categoryRepository) Create(c *category.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	metrics.RecordDBQuery("insert", "categories")
	err := r.db.QueryRow(query, c.Name, nullString(c.Description)).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetByID(id int64) (*category.Category, error) {
	metrics.RecordDBQuery("select", "categories")
	c, err := scanCategory(r.db.QueryRow(categorySelect+` WHERE c.id = $1`+categoryGroup, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) GetAll() ([]*category.Category, error) {
	metrics.RecordDBQuery("select", "categories")
	rows, err := r.db.Query(categorySelect + categoryGroup + ` ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	categories := make([]*category.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) FindByName(name string) (*category.Category, error) {
	metrics.RecordDBQuery("select", "categories")
	c, err := scanCategory(r.db.QueryRow(categorySelect+` WHERE c.name = $1`+categoryGroup, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) Update(c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	metrics.RecordDBQuery("update", "categories")
	if err := r.db.QueryRow(query, c.Name, nullString(c.Description), c.ID).Scan(&c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// Delete removes a category; its links become uncategorized first so
// nothing is orphaned mid-delete.
func (r *categoryRepository) Delete(id int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	metrics.RecordDBQuery("update", "links")
	if _, err := tx.Exec(`UPDATE links SET category_id = NULL, updated_at = NOW() WHERE category_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to uncategorize links: %w", err)
	}

	metrics.RecordDBQuery("delete", "categories")
	result, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	return affected > 0, nil
}

func (r *categoryRepository) Stats() (*category.Stats, error) {
	stats := &category.Stats{CategoriesWithLinks: []category.LinkCounts{}}

	metrics.RecordDBQuery("select", "categories")
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&stats.TotalCategories); err != nil {
		return nil, fmt.Errorf("failed to get category statistics: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT c.id, c.name, COUNT(l.id)
		FROM categories c
		LEFT JOIN links l ON l.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category statistics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var counts category.LinkCounts
		if err := rows.Scan(&counts.ID, &counts.Name, &counts.LinksCount); err != nil {
			return nil, fmt.Errorf("failed to get category statistics: %w", err)
		}
		stats.CategoriesWithLinks = append(stats.CategoriesWithLinks, counts)
	}

	return stats, rows.Err()
}

func scanCategory(row rowScanner) (*category.Category, error) {
	c := &category.Category{}
	var description sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Name,
		&description,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.LinksCount,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String

	return c, nil
}
