package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/link"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/cache"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
	"github.com/krishnapranayangara/linksdisplay/internal/repository"
)

const (
	linkStatsCacheKey  = "links:stats"
	linkPinnedCacheKey = "links:pinned"
)

type LinkService interface {
	GetAll(categoryID *int64) ([]*link.Link, error)
	GetByID(id int64) (*link.Link, error)
	Create(req *link.CreateLinkRequest) (*link.Link, error)
	Update(id int64, req *link.UpdateLinkRequest) (*link.Link, error)
	Delete(id int64) error
	TogglePin(id int64) (*link.Link, error)
	Search(term string) ([]*link.Link, error)
	GetPinned() ([]*link.Link, error)
	Stats() (*link.Stats, error)
}

type linkService struct {
	linkRepo     repository.LinkRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

func NewLinkService(
	linkRepo repository.LinkRepository,
	categoryRepo repository.CategoryRepository,
	c *cache.Cache,
) LinkService {
	return &linkService{
		linkRepo:     linkRepo,
		categoryRepo: categoryRepo,
		cache:        c,
	}
}

func (s *linkService) GetAll(categoryID *int64) ([]*link.Link, error) {
	return s.linkRepo.GetAll(categoryID)
}

func (s *linkService) GetByID(id int64) (*link.Link, error) {
	l, err := s.linkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *linkService) Create(req *link.CreateLinkRequest) (*link.Link, error) {
	if !link.ValidateURL(req.URL) {
		return nil, &ValidationError{Message: "Invalid URL format. Must include scheme (http/https) and domain."}
	}

	if req.CategoryID != nil {
		cat, err := s.categoryRepo.GetByID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Category with ID %d does not exist", *req.CategoryID)}
		}
	}

	existing, err := s.linkRepo.FindByURL(req.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("link with URL '%s' already exists: %w", req.URL, ErrConflict)
	}

	l := &link.Link{
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Pinned:      req.Pinned,
	}

	if err := s.linkRepo.Create(l); err != nil {
		return nil, err
	}

	s.invalidateCaches()

	return s.GetByID(l.ID)
}

// Update applies only the fields present in the request; unknown
// fields never reach this layer because the request struct is closed.
func (s *linkService) Update(id int64, req *link.UpdateLinkRequest) (*link.Link, error) {
	l, err := s.linkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}

	if req.URL != nil && *req.URL != l.URL {
		if !link.ValidateURL(*req.URL) {
			return nil, &ValidationError{Message: "Invalid URL format. Must include scheme (http/https) and domain."}
		}
		existing, err := s.linkRepo.FindByURL(*req.URL)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("link with URL '%s' already exists: %w", *req.URL, ErrConflict)
		}
		l.URL = *req.URL
	}

	if req.CategoryID != nil {
		cat, err := s.categoryRepo.GetByID(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Category with ID %d does not exist", *req.CategoryID)}
		}
		l.CategoryID = req.CategoryID
	}

	if req.Title != nil {
		l.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Pinned != nil {
		l.Pinned = *req.Pinned
	}

	if err := s.linkRepo.Update(l); err != nil {
		return nil, err
	}

	s.invalidateCaches()

	return s.GetByID(id)
}

func (s *linkService) Delete(id int64) error {
	deleted, err := s.linkRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidateCaches()

	return nil
}

func (s *linkService) TogglePin(id int64) (*link.Link, error) {
	toggled, err := s.linkRepo.TogglePin(id)
	if err != nil {
		return nil, err
	}
	if !toggled {
		return nil, ErrNotFound
	}

	s.invalidateCaches()

	return s.GetByID(id)
}

func (s *linkService) Search(term string) ([]*link.Link, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, &ValidationError{Message: "Search term must be at least 2 characters long"}
	}

	return s.linkRepo.Search(term)
}

func (s *linkService) GetPinned() ([]*link.Link, error) {
	ctx := context.Background()

	var cached []*link.Link
	if s.cache.Get(ctx, linkPinnedCacheKey, &cached) {
		return cached, nil
	}

	links, err := s.linkRepo.GetPinned()
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, linkPinnedCacheKey, links)

	return links, nil
}

func (s *linkService) Stats() (*link.Stats, error) {
	ctx := context.Background()

	var cached link.Stats
	if s.cache.Get(ctx, linkStatsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.linkRepo.Stats()
	if err != nil {
		return nil, err
	}

	metrics.LinksTotal.Set(float64(stats.TotalLinks))
	s.cache.Set(ctx, linkStatsCacheKey, stats)

	return stats, nil
}

// Link mutations also change category link counts, so the category
// caches are cleared together with the link caches.
func (s *linkService) invalidateCaches() {
	s.cache.Invalidate(context.Background(),
		linkStatsCacheKey, linkPinnedCacheKey,
		categoryListCacheKey, categoryStatsCacheKey)
}
