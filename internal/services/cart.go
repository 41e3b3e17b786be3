package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/cart"
	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
)

// CartView is what the till renders: the ordered lines plus the derived total.
type CartView struct {
	Items []cart.Line `json:"items"`
	Total float64     `json:"total"`
}

type CartService struct {
	carts       *cart.Registry
	productRepo repository.ProductRepository
}

func NewCartService(carts *cart.Registry, productRepo repository.ProductRepository) *CartService {
	return &CartService{carts: carts, productRepo: productRepo}
}

func (s *CartService) GetCart(sessionID uuid.UUID) *CartView {
	return viewOf(s.carts.Get(sessionID))
}

// AddItem looks the product up and adds one unit to the session's cart.
// Stock is deliberately not checked here; availability is enforced when
// the sale is recorded.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID uuid.UUID) (*CartView, error) {

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if goerrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if !product.IsActive {
		return nil, errors.BadRequestError("Product is not for sale")
	}

	c := s.carts.Get(sessionID)
	c.AddItem(product)

	return viewOf(c), nil
}

// RemoveItem is a no-op when the product is not in the cart.
func (s *CartService) RemoveItem(sessionID, productID uuid.UUID) *CartView {

	c := s.carts.Get(sessionID)
	c.RemoveItem(productID)

	return viewOf(c)
}

// ClearCart ends the session's cart: the registry entry is released so
// abandoned sessions do not accumulate, and the next request starts
// from a fresh empty cart.
func (s *CartService) ClearCart(sessionID uuid.UUID) *CartView {

	s.carts.Drop(sessionID)

	return &CartView{Items: []cart.Line{}, Total: 0}
}

func viewOf(c *cart.Cart) *CartView {
	return &CartView{Items: c.Items(), Total: c.Total()}
}
