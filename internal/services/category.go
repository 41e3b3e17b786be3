package service

import (
	"context"
	goerrors "errors"

	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{Name: req.Name}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if goerrors.Is(err, repository.ErrDuplicateCategory) {
			return nil, errors.DuplicateEntryError("Category already exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to create category").WithError(err)
	}

	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}
