package service

import (
	"context"

	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory adds a category; slug may be empty.
func (s *CategoryService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	return s.categories.Create(ctx, name, slug)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("category", id)
	}
	return nil
}
