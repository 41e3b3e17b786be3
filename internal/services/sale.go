package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/metrics"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
)

// totals are money values; differences below half a cent are rounding noise.
const totalTolerance = 0.005

// LowStockAlerter is notified after a committed sale for every product
// whose stock fell to or below its minimum.
type LowStockAlerter interface {
	AlertLowStock(ctx context.Context, product repository.StockLevel)
}

type SaleService struct {
	saleRepo repository.SaleRepository
	alerter  LowStockAlerter
}

func NewSaleService(saleRepo repository.SaleRepository, alerter LowStockAlerter) *SaleService {
	return &SaleService{saleRepo: saleRepo, alerter: alerter}
}

// RecordSale converts finalized line items into a persisted sale,
// decrementing stock for every line. Validation happens before any write;
// persistence is a single transaction, so a failure at any step leaves
// nothing behind. An empty item list is accepted and produces a sale
// header with no lines.
func (s *SaleService) RecordSale(ctx context.Context, req *models.RecordSaleRequest, userID *uuid.UUID) (*models.Sale, error) {

	if err := validateSaleRequest(req); err != nil {
		return nil, err
	}

	sale := &models.Sale{
		ID:            uuid.New(),
		TotalAmount:   req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.SaleStatusCompleted,
		UserID:        userID,
	}

	items := make([]models.SaleItem, 0, len(req.Items))

	for _, item := range req.Items {
		items = append(items, models.SaleItem{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
			CostPrice: item.CostPrice,
			Subtotal:  float64(item.Quantity) * item.Price,
		})
	}

	sale.Items = items

	levels, err := s.saleRepo.CreateSale(ctx, sale)
	if err != nil {

		if goerrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		if goerrors.Is(err, repository.ErrInsufficientStock) {
			metrics.IncInsufficientStock()

			return nil, errors.InsufficientStockError("Insufficient stock").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to record sale").WithError(err)
	}

	metrics.ObserveSale(string(sale.PaymentMethod), sale.TotalAmount)

	s.raiseLowStockAlerts(ctx, levels)

	return sale, nil
}

func validateSaleRequest(req *models.RecordSaleRequest) error {

	if !req.PaymentMethod.Valid() {
		return errors.ValidationError("Unknown payment method")
	}

	if req.Total < 0 {
		return errors.ValidationError("Total cannot be negative")
	}

	var sum float64

	for _, item := range req.Items {

		if item.Quantity <= 0 {
			return errors.ValidationError("Quantity must be positive")
		}

		if item.Price < 0 {
			return errors.ValidationError("Price cannot be negative")
		}

		if item.CostPrice < 0 {
			return errors.ValidationError("Cost price cannot be negative")
		}

		sum += float64(item.Quantity) * item.Price

	}

	if math.Abs(sum-req.Total) > totalTolerance {
		return errors.ValidationError("Total does not match the sum of line subtotals")
	}

	return nil
}

// alert failures must never fail a committed sale.
func (s *SaleService) raiseLowStockAlerts(ctx context.Context, levels []repository.StockLevel) {

	if s.alerter == nil {
		return
	}

	for _, level := range levels {
		if level.Stock <= level.MinStock {
			s.alerter.AlertLowStock(ctx, level)
		}
	}
}

func (s *SaleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {

	sale, err := s.saleRepo.GetSaleByID(ctx, id)
	if err != nil {
		if goerrors.Is(err, repository.ErrSaleNotFound) {
			return nil, errors.NotFoundError("Sale not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch sale").WithError(err)
	}

	return sale, nil
}

func (s *SaleService) ListSales(ctx context.Context, page, size int) ([]models.Sale, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 50 {
		size = 20
	}

	sales, total, err := s.saleRepo.ListSales(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch sales").WithError(err)
	}

	return sales, total, nil
}

// UpdateSaleStatus applies a status transition. Sales are immutable
// except for their status: PENDING may complete or cancel, COMPLETED may
// only cancel, CANCELLED is terminal. Cancelling a completed sale puts
// the sold quantities back in stock.
func (s *SaleService) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status models.SaleStatus) (*models.Sale, error) {

	sale, err := s.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(sale.Status, status) {
		return nil, errors.BadRequestError(fmt.Sprintf("Cannot move sale from %s to %s", sale.Status, status))
	}

	if err := s.saleRepo.UpdateSaleStatus(ctx, id, status); err != nil {

		if goerrors.Is(err, repository.ErrSaleNotFound) {
			return nil, errors.NotFoundError("Sale not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update sale status").WithError(err)
	}

	sale.Status = status

	slog.Info("Sale status updated", slog.String("saleId", id.String()), slog.String("status", string(status)))

	return sale, nil
}

func transitionAllowed(from, to models.SaleStatus) bool {
	switch from {
	case models.SaleStatusPending:
		return to == models.SaleStatusCompleted || to == models.SaleStatusCancelled
	case models.SaleStatusCompleted:
		return to == models.SaleStatusCancelled
	default:
		return false
	}
}
