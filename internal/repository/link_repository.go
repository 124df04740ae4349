package repository

import (
	"database/sql"
	"fmt"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/link"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
)

type LinkRepository interface {
	Create(l *link.Link) error
	GetByID(id int64) (*link.Link, error)
	GetAll(categoryID *int64) ([]*link.Link, error)
	GetPinned() ([]*link.Link, error)
	FindByURL(url string) (*link.Link, error)
	Search(term string) ([]*link.Link, error)
	Update(l *link.Link) error
	Delete(id int64) (bool, error)
	TogglePin(id int64) (bool, error)
	Stats() (*link.Stats, error)
}

type linkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `l.id, l.title, l.url, l.description, l.category_id, c.name, l.pinned, l.created_at, l.updated_at`

const linkSelect = `
	SELECT ` + linkColumns + `
	FROM links l
	LEFT JOIN categories c ON c.id = l.category_id
`

func (r *linkRepository) Create(l *link.Link) error {
	query := `
		INSERT INTO links (title, url, description, category_id, pinned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	metrics.RecordDBQuery("insert", "links")
	err := r.db.QueryRow(
		query,
		l.Title,
		l.URL,
		nullString(l.Description),
		l.CategoryID,
		l.Pinned,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetByID(id int64) (*link.Link, error) {
	metrics.RecordDBQuery("select", "links")
	l, err := scanLink(r.db.QueryRow(linkSelect+` WHERE l.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return l, nil
}

func (r *linkRepository) GetAll(categoryID *int64) ([]*link.Link, error) {
	query := linkSelect
	args := []interface{}{}

	if categoryID != nil {
		query += ` WHERE l.category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY l.pinned DESC, l.created_at DESC`

	metrics.RecordDBQuery("select", "links")
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanLinks(rows)
}

func (r *linkRepository) GetPinned() ([]*link.Link, error) {
	metrics.RecordDBQuery("select", "links")
	rows, err := r.db.Query(linkSelect + ` WHERE l.pinned = TRUE ORDER BY l.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get pinned links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanLinks(rows)
}

func (r *linkRepository) FindByURL(url string) (*link.Link, error) {
	metrics.RecordDBQuery("select", "links")
	l, err := scanLink(r.db.QueryRow(linkSelect+` WHERE l.url = $1`, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link by url: %w", err)
	}

	return l, nil
}

func (r *linkRepository) Search(term string) ([]*link.Link, error) {
	metrics.RecordDBQuery("select", "links")
	rows, err := r.db.Query(
		linkSelect+` WHERE l.title ILIKE $1 ORDER BY l.pinned DESC, l.created_at DESC`,
		"%"+term+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search links: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanLinks(rows)
}

func (r *linkRepository) Update(l *link.Link) error {
	query := `
		UPDATE links
		SET title = $1, url = $2, description = $3, category_id = $4, pinned = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	metrics.RecordDBQuery("update", "links")
	err := r.db.QueryRow(
		query,
		l.Title,
		l.URL,
		nullString(l.Description),
		l.CategoryID,
		l.Pinned,
		l.ID,
	).Scan(&l.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}

	return nil
}

func (r *linkRepository) Delete(id int64) (bool, error) {
	metrics.RecordDBQuery("delete", "links")
	result, err := r.db.Exec(`DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}

	return affected > 0, nil
}

func (r *linkRepository) TogglePin(id int64) (bool, error) {
	metrics.RecordDBQuery("update", "links")
	result, err := r.db.Exec(`UPDATE links SET pinned = NOT pinned, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle pin: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to toggle pin: %w", err)
	}

	return affected > 0, nil
}

func (r *linkRepository) Stats() (*link.Stats, error) {
	stats := &link.Stats{LinksPerCategory: []link.CategoryCount{}}

	metrics.RecordDBQuery("select", "links")
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE pinned),
		       COUNT(*) FILTER (WHERE category_id IS NULL)
		FROM links
	`).Scan(&stats.TotalLinks, &stats.PinnedLinks, &stats.UncategorizedLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to get link statistics: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT c.name, COUNT(l.id)
		FROM categories c
		LEFT JOIN links l ON l.category_id = c.id
		GROUP BY c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get link statistics: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var count link.CategoryCount
		if err := rows.Scan(&count.CategoryName, &count.LinksCount); err != nil {
			return nil, fmt.Errorf("failed to get link statistics: %w", err)
		}
		stats.LinksPerCategory = append(stats.LinksPerCategory, count)
	}

	return stats, rows.Err()
}

func scanLink(row rowScanner) (*link.Link, error) {
	l := &link.Link{}
	var description, categoryName sql.NullString

	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.URL,
		&description,
		&l.CategoryID,
		&categoryName,
		&l.Pinned,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Description = description.String
	l.CategoryName = categoryName.String

	return l, nil
}

func scanLinks(rows *sql.Rows) ([]*link.Link, error) {
	links := make([]*link.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
