package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/cart"
	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
)

// RateLimiter matches the redis repository's sliding-window check.
// Returns allowed, attempts left, seconds to wait.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, scope, key string) (bool, int, int, error)
}

type CheckoutService struct {
	carts   *cart.Registry
	sales   *SaleService
	limiter RateLimiter
}

func NewCheckoutService(carts *cart.Registry, sales *SaleService, limiter RateLimiter) *CheckoutService {
	return &CheckoutService{carts: carts, sales: sales, limiter: limiter}
}

// Checkout turns the session's cart into a recorded sale. The cart is
// cleared only after the sale committed; on any failure the cart keeps
// its lines so the till can retry or correct it.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID uuid.UUID, paymentMethod models.PaymentMethod) (*models.Sale, error) {

	if s.limiter != nil {

		allowed, _, retryAfter, err := s.limiter.CheckRateLimit(ctx, "checkout", sessionID.String())
		if err != nil {
			return nil, errors.InternalError("Rate limit check failed").WithError(err)
		}

		if !allowed {
			return nil, errors.TooManyRequestsError("Too many checkout attempts. Please try again later.").
				WithDetail(retryAfterDetail(retryAfter))
		}

	}

	c := s.carts.Get(sessionID)

	if c.IsEmpty() {
		return nil, errors.BadRequestError("Cannot checkout an empty cart")
	}

	lines := c.Items()

	req := &models.RecordSaleRequest{
		Items:         make([]models.SaleItemInput, 0, len(lines)),
		Total:         c.Total(),
		PaymentMethod: paymentMethod,
	}

	for _, line := range lines {
		req.Items = append(req.Items, models.SaleItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitSalePrice,
			CostPrice: line.UnitCostPrice,
		})
	}

	sale, err := s.sales.RecordSale(ctx, req, &sessionID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	return sale, nil
}

func retryAfterDetail(seconds int) string {
	if seconds <= 0 {
		return "retry later"
	}

	return fmt.Sprintf("retry after %ds", seconds)
}
