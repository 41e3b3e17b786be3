package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErrors "github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
	"github.com/javieryacu/sinapsia-polirrubro/internal/repositories/mocks"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.CategoryRepository)
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("CreateCategory", ctx, mock.MatchedBy(func(c *models.Category) bool {
			return c.Name == "Almacén"
		})).Return(nil).Once()

		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Almacén"})

		require.NoError(t, err)
		assert.Equal(t, "Almacén", category.Name)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate", func(t *testing.T) {
		mockRepo := new(mocks.CategoryRepository)
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("CreateCategory", ctx, mock.Anything).Return(repository.ErrDuplicateCategory).Once()

		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Almacén"})

		require.Error(t, err)
		assert.Nil(t, category)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)

		mockRepo.AssertExpectations(t)
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.CategoryRepository)
		categoryService := service.NewCategoryService(mockRepo)

		mockRepo.On("ListCategories", ctx).Return([]models.Category{{ID: 1, Name: "Almacén"}}, nil).Once()

		categories, err := categoryService.ListCategories(ctx)

		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "Almacén", categories[0].Name)
		mockRepo.AssertExpectations(t)
	})
}
