package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javieryacu/sinapsia-polirrubro/internal/cart"
	appErrors "github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
	"github.com/javieryacu/sinapsia-polirrubro/internal/repositories/mocks"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
)

func setupCartServiceTest(t *testing.T) (*service.CartService, *mocks.ProductRepository) {
	t.Helper()

	mockProductRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(cart.NewRegistry(), mockProductRepo)

	return cartService, mockProductRepo
}

func TestCartServiceAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Adds And Merges", func(t *testing.T) {
		cartService, mockProductRepo := setupCartServiceTest(t)
		sessionID := uuid.New()

		product := &models.Product{ID: uuid.New(), Name: "Yerba Mate 1kg", SalePrice: 2200.00, CostPrice: 1500.00, IsActive: true}
		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Twice()

		view, err := cartService.AddItem(ctx, sessionID, product.ID)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 1, view.Items[0].Quantity)

		view, err = cartService.AddItem(ctx, sessionID, product.ID)
		require.NoError(t, err)
		require.Len(t, view.Items, 1, "the same product must merge into one line")
		assert.Equal(t, 2, view.Items[0].Quantity)
		assert.Equal(t, 4400.00, view.Total)

		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		cartService, mockProductRepo := setupCartServiceTest(t)
		sessionID := uuid.New()
		productID := uuid.New()

		mockProductRepo.On("GetProductByID", ctx, productID).Return(nil, repository.ErrProductNotFound).Once()

		view, err := cartService.AddItem(ctx, sessionID, productID)

		require.Error(t, err)
		assert.Nil(t, view)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)

		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Inactive Product", func(t *testing.T) {
		cartService, mockProductRepo := setupCartServiceTest(t)
		sessionID := uuid.New()

		product := &models.Product{ID: uuid.New(), Name: "Discontinued", SalePrice: 100.00, IsActive: false}
		mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

		view, err := cartService.AddItem(ctx, sessionID, product.ID)

		require.Error(t, err)
		assert.Nil(t, view)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)

		assert.True(t, cartService.GetCart(sessionID).Total == 0, "an inactive product must not enter the cart")
		mockProductRepo.AssertExpectations(t)
	})
}

func TestCartServiceSessionIsolation(t *testing.T) {
	ctx := context.Background()
	cartService, mockProductRepo := setupCartServiceTest(t)

	sessionA := uuid.New()
	sessionB := uuid.New()

	product := &models.Product{ID: uuid.New(), Name: "Yerba Mate 1kg", SalePrice: 2200.00, IsActive: true}
	mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

	_, err := cartService.AddItem(ctx, sessionA, product.ID)
	require.NoError(t, err)

	assert.Len(t, cartService.GetCart(sessionA).Items, 1)
	assert.Empty(t, cartService.GetCart(sessionB).Items, "carts belong to one session only")
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	cartService, mockProductRepo := setupCartServiceTest(t)
	sessionID := uuid.New()

	product := &models.Product{ID: uuid.New(), Name: "Azúcar 1kg", SalePrice: 1100.00, IsActive: true}
	mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

	_, err := cartService.AddItem(ctx, sessionID, product.ID)
	require.NoError(t, err)

	// removing something that is not there is a no-op
	view := cartService.RemoveItem(sessionID, uuid.New())
	assert.Len(t, view.Items, 1)

	view = cartService.RemoveItem(sessionID, product.ID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)

	mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()
	_, err = cartService.AddItem(ctx, sessionID, product.ID)
	require.NoError(t, err)

	view = cartService.ClearCart(sessionID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)
}

func TestCartServiceClearReleasesSession(t *testing.T) {
	ctx := context.Background()

	carts := cart.NewRegistry()
	mockProductRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(carts, mockProductRepo)
	sessionID := uuid.New()

	product := &models.Product{ID: uuid.New(), Name: "Azúcar 1kg", SalePrice: 1100.00, IsActive: true}
	mockProductRepo.On("GetProductByID", ctx, product.ID).Return(product, nil).Once()

	_, err := cartService.AddItem(ctx, sessionID, product.ID)
	require.NoError(t, err)

	before := carts.Get(sessionID)
	require.False(t, before.IsEmpty())

	view := cartService.ClearCart(sessionID)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Total)

	after := carts.Get(sessionID)
	assert.NotSame(t, before, after, "clearing must release the session's registry entry")
	assert.True(t, after.IsEmpty())
}
