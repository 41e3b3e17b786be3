package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	"github.com/javieryacu/sinapsia-polirrubro/internal/utils"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSaleNotFound      = errors.New("sale not found")
)

// StockLevel is the post-sale stock of one product, reported back so the
// caller can raise low-stock alerts without a second read.
type StockLevel struct {
	ProductID uuid.UUID
	Name      string
	Stock     int
	MinStock  int
}

type SaleRepository interface {
	CreateSale(ctx context.Context, sale *models.Sale) ([]StockLevel, error)
	GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, page, size int) ([]models.Sale, int, error)
	UpdateSaleStatus(ctx context.Context, id uuid.UUID, status models.SaleStatus) error
}

type saleRepository struct {
	DB *sql.DB
}

func NewSaleRepo(db *sql.DB) SaleRepository {
	return &saleRepository{DB: db}
}

// CreateSale persists the sale header, its items and the stock decrements
// as one transaction. On any failure nothing is persisted. The legacy
// flow wrote the three steps without a transaction and could leave a
// header without items or stock half-decremented; that gap is closed here.
//
// Stock is decremented with a conditional update so two tills selling the
// last unit cannot both succeed: zero affected rows means either the
// product is gone or the stock does not cover the quantity, and the two
// cases are told apart inside the same transaction.
func (r *saleRepository) CreateSale(ctx context.Context, sale *models.Sale) ([]StockLevel, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `
		INSERT INTO sales (id, total_amount, payment_method, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, query, sale.ID, sale.TotalAmount, sale.PaymentMethod, sale.Status, sale.UserID).Scan(&sale.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, cost_price, subtotal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	for i := range sale.Items {

		item := &sale.Items[i]

		err := tx.QueryRowContext(dbCtx, itemQuery, item.ID, sale.ID, item.ProductID, item.Quantity, item.UnitPrice, item.CostPrice, item.Subtotal).Scan(&item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale item: %w", err)
		}

	}

	stockQuery := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
		RETURNING name, stock, min_stock
	`

	levels := make([]StockLevel, 0, len(sale.Items))

	for _, item := range sale.Items {

		level := StockLevel{ProductID: item.ProductID}

		err := tx.QueryRowContext(dbCtx, stockQuery, item.Quantity, item.ProductID).Scan(&level.Name, &level.Stock, &level.MinStock)
		if err != nil {

			if errors.Is(err, sql.ErrNoRows) {
				return nil, r.explainFailedDecrement(dbCtx, tx, item)
			}

			return nil, fmt.Errorf("failed to update stock: %w", err)
		}

		levels = append(levels, level)

	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return levels, nil
}

// a conditional decrement that touched no row is either a missing product
// or not enough stock; one extra read inside the transaction decides.
func (r *saleRepository) explainFailedDecrement(ctx context.Context, tx *sql.Tx, item models.SaleItem) error {

	var stock int

	err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&stock)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to read stock: %w", err)
	}

	return fmt.Errorf("product %s: have %d, want %d: %w", item.ProductID, stock, item.Quantity, ErrInsufficientStock)
}

func (r *saleRepository) GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	sale := &models.Sale{ID: id}

	query := `
		SELECT total_amount, payment_method, status, user_id, created_at
		FROM sales
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&sale.TotalAmount, &sale.PaymentMethod, &sale.Status, &sale.UserID, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}

		return nil, fmt.Errorf("failed to get the sale: %w", err)
	}

	items, err := r.saleItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	sale.Items = items

	return sale, nil
}

func (r *saleRepository) saleItems(ctx context.Context, saleID uuid.UUID) ([]models.SaleItem, error) {

	query := `
		SELECT id, product_id, quantity, unit_price, cost_price, subtotal, created_at
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the sale items: %w", err)
	}

	defer rows.Close()

	var items []models.SaleItem

	for rows.Next() {

		var item models.SaleItem

		err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.CostPrice, &item.Subtotal, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}

		item.SaleID = saleID

		items = append(items, item)

	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *saleRepository) ListSales(ctx context.Context, page, size int) ([]models.Sale, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM sales`

	err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, total_amount, payment_method, status, user_id, created_at
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}

	defer rows.Close()

	var sales []models.Sale

	for rows.Next() {

		var sale models.Sale

		err := rows.Scan(&sale.ID, &sale.TotalAmount, &sale.PaymentMethod, &sale.Status, &sale.UserID, &sale.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the sales: %w", err)
		}

		sales = append(sales, sale)

	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range sales {

		items, err := r.saleItems(dbCtx, sales[i].ID)
		if err != nil {
			return nil, 0, err
		}

		sales[i].Items = items

	}

	return sales, total, nil
}

// UpdateSaleStatus moves a sale to a new status. Cancelling restores the
// sold quantities to stock in the same transaction, so a cancelled sale
// and its inventory never diverge.
func (r *saleRepository) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status models.SaleStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if status == models.SaleStatusCancelled {
		if err := r.restoreStock(dbCtx, tx, id); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(dbCtx, `UPDATE sales SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update sale status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return ErrSaleNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	return nil
}

func (r *saleRepository) restoreStock(ctx context.Context, tx *sql.Tx, saleID uuid.UUID) error {

	rows, err := tx.QueryContext(ctx, `SELECT product_id, quantity FROM sale_items WHERE sale_id = $1`, saleID)
	if err != nil {
		return fmt.Errorf("failed to get the sale items: %w", err)
	}

	defer rows.Close()

	type restore struct {
		productID uuid.UUID
		quantity  int
	}

	var restores []restore

	for rows.Next() {

		var re restore

		if err := rows.Scan(&re.productID, &re.quantity); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}

		restores = append(restores, re)

	}

	if err := rows.Err(); err != nil {
		return err
	}

	for _, re := range restores {

		_, err := tx.ExecContext(ctx, `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`, re.quantity, re.productID)
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

	}

	return nil
}
