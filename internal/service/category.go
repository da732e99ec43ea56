package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Gallerist/internal/model"
	"Gallerist/internal/repo"

	"go.uber.org/zap"
)

// CategoryService — операции над рубриками галереи.
type CategoryService struct {
	categories repo.CategoryRepository
	gallery    repo.GalleryRepository
	logger     *zap.SugaredLogger
}

func NewCategoryService(c repo.CategoryRepository, g repo.GalleryRepository, logger *zap.SugaredLogger) *CategoryService {
	return &CategoryService{categories: c, gallery: g, logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newError(ErrNotFound, "Category not found")
	}
	return c, err
}

// Create добавляет категорию. Уникальность имени обеспечивает индекс в БД.
func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrValidation, "Category name is required")
	}
	c := &model.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, newError(ErrConflict, "Category already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Infow("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrValidation, "Category name is required")
	}
	c, err := s.categories.Update(ctx, id, name)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, newError(ErrNotFound, "Category not found")
	case errors.Is(err, repo.ErrDuplicate):
		return nil, newError(ErrConflict, "Category name already exists")
	case err != nil:
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete удаляет категорию, только если на неё не ссылается ни один элемент галереи.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.gallery.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count gallery items: %w", err)
	}
	if n > 0 {
		return newError(ErrConflict, "Category is used by %d gallery items", n)
	}
	err = s.categories.Delete(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return newError(ErrNotFound, "Category not found")
	case errors.Is(err, repo.ErrCategoryInUse):
		// элемент мог появиться между подсчётом и удалением
		return newError(ErrConflict, "Category is used by gallery items")
	case err != nil:
		return fmt.Errorf("delete category: %w", err)
	}
	s.logger.Infow("category deleted", "category_id", id)
	return nil
}
