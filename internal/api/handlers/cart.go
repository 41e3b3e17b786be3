package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/api/middleware"
	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils/response"
)

// The cart belongs to the authenticated session: the user id from the
// token doubles as the checkout session id.
type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
	validator       *validator.Validate
}

func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		validator:       validator.New(),
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		response.Success(w, http.StatusOK, h.cartService.GetCart(claims.UserID))
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req addCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")

			return
		}

		view, err := h.cartService.AddItem(r.Context(), claims.UserID, req.ProductID)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, h.cartService.RemoveItem(claims.UserID, id))
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		response.Success(w, http.StatusOK, h.cartService.ClearCart(claims.UserID))
	}
}

func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")

			return
		}

		sale, err := h.checkoutService.Checkout(r.Context(), claims.UserID, req.PaymentMethod)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Checkout completed",
			slog.String("saleId", sale.ID.String()),
			slog.Float64("total", sale.TotalAmount))
		response.Success(w, http.StatusCreated, models.SaleResponse{Sale: sale})
	}
}
