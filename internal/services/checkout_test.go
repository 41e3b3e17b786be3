package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javieryacu/sinapsia-polirrubro/internal/cart"
	appErrors "github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
	"github.com/javieryacu/sinapsia-polirrubro/internal/repositories/mocks"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
)

func setupCheckoutTest(t *testing.T) (*service.CheckoutService, *cart.Registry, *mocks.SaleRepository, *mocks.RateLimiter) {
	t.Helper()

	mockSaleRepo := new(mocks.SaleRepository)
	mockLimiter := new(mocks.RateLimiter)
	carts := cart.NewRegistry()

	saleService := service.NewSaleService(mockSaleRepo, nil)
	checkoutService := service.NewCheckoutService(carts, saleService, mockLimiter)

	return checkoutService, carts, mockSaleRepo, mockLimiter
}

func fillCart(carts *cart.Registry, sessionID uuid.UUID) {
	c := carts.Get(sessionID)
	c.AddItem(&models.Product{ID: uuid.New(), Name: "Yerba Mate 1kg", SalePrice: 2200.00, CostPrice: 1500.00, IsActive: true})
	c.AddItem(&models.Product{ID: uuid.New(), Name: "Azúcar 1kg", SalePrice: 1100.00, CostPrice: 700.00, IsActive: true})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Records Sale And Clears Cart", func(t *testing.T) {
		checkoutService, carts, mockSaleRepo, mockLimiter := setupCheckoutTest(t)
		sessionID := uuid.New()
		fillCart(carts, sessionID)

		mockLimiter.On("CheckRateLimit", ctx, "checkout", sessionID.String()).Return(true, 4, 0, nil).Once()
		mockSaleRepo.On("CreateSale", ctx, mock.MatchedBy(func(s *models.Sale) bool {
			return len(s.Items) == 2 && s.TotalAmount == 3300.00 && s.PaymentMethod == models.PaymentMethodCash
		})).Return([]repository.StockLevel{}, nil).Once()

		sale, err := checkoutService.Checkout(ctx, sessionID, models.PaymentMethodCash)

		require.NoError(t, err)
		require.NotNil(t, sale)
		require.NotNil(t, sale.UserID)
		assert.Equal(t, sessionID, *sale.UserID)
		assert.True(t, carts.Get(sessionID).IsEmpty(), "the cart should be cleared after a committed sale")

		mockSaleRepo.AssertExpectations(t)
		mockLimiter.AssertExpectations(t)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		checkoutService, _, mockSaleRepo, mockLimiter := setupCheckoutTest(t)
		sessionID := uuid.New()

		mockLimiter.On("CheckRateLimit", ctx, "checkout", sessionID.String()).Return(true, 4, 0, nil).Once()

		sale, err := checkoutService.Checkout(ctx, sessionID, models.PaymentMethodCash)

		require.Error(t, err)
		assert.Nil(t, sale)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)

		mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Sale Error Keeps The Cart", func(t *testing.T) {
		checkoutService, carts, mockSaleRepo, mockLimiter := setupCheckoutTest(t)
		sessionID := uuid.New()
		fillCart(carts, sessionID)

		mockLimiter.On("CheckRateLimit", ctx, "checkout", sessionID.String()).Return(true, 4, 0, nil).Once()
		mockSaleRepo.On("CreateSale", ctx, mock.Anything).Return(nil, repository.ErrInsufficientStock).Once()

		sale, err := checkoutService.Checkout(ctx, sessionID, models.PaymentMethodDebit)

		require.Error(t, err)
		assert.Nil(t, sale)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)

		c := carts.Get(sessionID)
		assert.False(t, c.IsEmpty(), "a failed checkout must not lose the cart")
		assert.Len(t, c.Items(), 2)

		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		checkoutService, carts, mockSaleRepo, mockLimiter := setupCheckoutTest(t)
		sessionID := uuid.New()
		fillCart(carts, sessionID)

		mockLimiter.On("CheckRateLimit", ctx, "checkout", sessionID.String()).Return(false, 0, 12, nil).Once()

		sale, err := checkoutService.Checkout(ctx, sessionID, models.PaymentMethodCash)

		require.Error(t, err)
		assert.Nil(t, sale)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appErr.Code)
		assert.Contains(t, appErr.Detail, "12s")

		mockSaleRepo.AssertNotCalled(t, "CreateSale", mock.Anything, mock.Anything)
		mockLimiter.AssertExpectations(t)
	})
}
