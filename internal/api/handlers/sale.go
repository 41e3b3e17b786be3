package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/javieryacu/sinapsia-polirrubro/internal/api/middleware"
	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils/response"
)

type SaleHandler struct {
	saleService *service.SaleService
	validator   *validator.Validate
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService, validator: validator.New()}
}

// RecordSale accepts already-finalized line items. The till UI normally
// goes through /checkout instead; this is the raw service surface.
func (h *SaleHandler) RecordSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized sale attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.RecordSaleRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid record sale input")

			return
		}

		sale, err := h.saleService.RecordSale(r.Context(), &req, &claims.UserID)
		if err != nil {
			logger.Error("Failed to record sale", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Sale recorded",
			slog.String("saleId", sale.ID.String()),
			slog.Float64("total", sale.TotalAmount),
			slog.String("paymentMethod", string(sale.PaymentMethod)))
		response.Success(w, http.StatusCreated, models.SaleResponse{Sale: sale})
	}
}

func (h *SaleHandler) GetSale() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid sale id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		sale, err := h.saleService.GetSaleByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get sale", slog.String("saleId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.SaleResponse{Sale: sale})
	}
}

func (h *SaleHandler) ListSales() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, size := utils.ParsePagination(r)

		sales, total, err := h.saleService.ListSales(r.Context(), page, size)
		if err != nil {
			logger.Error("Failed to list sales", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.SaleHistoryResponse{
			Sales: sales,
			Total: total,
			Page:  page,
			Size:  size,
		})
	}
}

func (h *SaleHandler) UpdateSaleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid sale id", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		var req models.UpdateSaleStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update sale status input")

			return
		}

		sale, err := h.saleService.UpdateSaleStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update sale status", slog.String("saleId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Sale status updated", slog.String("saleId", id.String()), slog.String("status", string(sale.Status)))
		response.Success(w, http.StatusOK, models.SaleResponse{Sale: sale})
	}
}
