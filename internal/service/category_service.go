package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/krishnapranayangara/linksdisplay/internal/domain/category"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/cache"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
	"github.com/krishnapranayangara/linksdisplay/internal/repository"
)

const (
	categoryListCacheKey  = "categories:all"
	categoryStatsCacheKey = "categories:stats"
)

type CategoryService interface {
	GetAll() ([]*category.Category, error)
	GetByID(id int64) (*category.Category, error)
	Create(req *category.CreateCategoryRequest) (*category.Category, error)
	Update(id int64, req *category.UpdateCategoryRequest) (*category.Category, error)
	Delete(id int64) error
	Stats() (*category.Stats, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *cache.Cache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, c *cache.Cache) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        c,
	}
}

func (s *categoryService) GetAll() ([]*category.Category, error) {
	ctx := context.Background()

	var cached []*category.Category
	if s.cache.Get(ctx, categoryListCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, categoryListCacheKey, categories)

	return categories, nil
}

func (s *categoryService) GetByID(id int64) (*category.Category, error) {
	c, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *categoryService) Create(req *category.CreateCategoryRequest) (*category.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Message: "Category name is required"}
	}

	existing, err := s.categoryRepo.FindByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category with name '%s' already exists: %w", name, ErrConflict)
	}

	c := &category.Category{
		Name:        name,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(c); err != nil {
		return nil, err
	}

	s.invalidateCaches()

	return c, nil
}

func (s *categoryService) Update(id int64, req *category.UpdateCategoryRequest) (*category.Category, error) {
	c, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Message: "Category name cannot be empty"}
		}
		if name != c.Name {
			existing, err := s.categoryRepo.FindByName(name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, fmt.Errorf("category with name '%s' already exists: %w", name, ErrConflict)
			}
		}
		c.Name = name
	}

	if req.Description != nil {
		c.Description = *req.Description
	}

	if err := s.categoryRepo.Update(c); err != nil {
		return nil, err
	}

	s.invalidateCaches()

	return c, nil
}

// Delete removes the category; its links survive as uncategorized.
func (s *categoryService) Delete(id int64) error {
	deleted, err := s.categoryRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.invalidateCaches()

	return nil
}

func (s *categoryService) Stats() (*category.Stats, error) {
	ctx := context.Background()

	var cached category.Stats
	if s.cache.Get(ctx, categoryStatsCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.categoryRepo.Stats()
	if err != nil {
		return nil, err
	}

	metrics.CategoriesTotal.Set(float64(stats.TotalCategories))
	s.cache.Set(ctx, categoryStatsCacheKey, stats)

	return stats, nil
}

func (s *categoryService) invalidateCaches() {
	s.cache.Invalidate(context.Background(), categoryListCacheKey, categoryStatsCacheKey)
}
