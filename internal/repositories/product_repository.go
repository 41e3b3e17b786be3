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

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	ListLowStock(ctx context.Context) ([]*models.Product, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, barcode, name, description, cost_price, sale_price, stock, min_stock, category_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.ID, product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT p.id, p.barcode, p.name, p.description, p.cost_price, p.sale_price,
		       p.stock, p.min_stock, p.category_id, p.is_active, p.created_at, p.updated_at,
		       c.id, c.name, c.created_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	var (
		categoryID        sql.NullInt64
		categoryName      sql.NullString
		categoryCreatedAt sql.NullTime
	)

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.Barcode, &product.Name, &product.Description, &product.CostPrice, &product.SalePrice, &product.Stock, &product.MinStock, &product.CategoryID, &product.IsActive, &product.CreatedAt, &product.UpdatedAt, &categoryID, &categoryName, &categoryCreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if categoryID.Valid {
		product.Category = &models.Category{
			ID:        categoryID.Int64,
			Name:      categoryName.String,
			CreatedAt: categoryCreatedAt.Time,
		}
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET barcode = $1, name = $2, description = $3, cost_price = $4, sale_price = $5,
		    stock = $6, min_stock = $7, category_id = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive, product.ID).Scan(&product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}

	return err
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, barcode, name, description, cost_price, sale_price,
		       stock, min_stock, category_id, is_active, created_at, updated_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListLowStock(ctx context.Context) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, barcode, name, description, cost_price, sale_price,
		       stock, min_stock, category_id, is_active, created_at, updated_at
		FROM products
		WHERE is_active AND stock <= min_stock
		ORDER BY name
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {

	var products []*models.Product

	for rows.Next() {

		product := &models.Product{}

		err := rows.Scan(&product.ID, &product.Barcode, &product.Name, &product.Description, &product.CostPrice, &product.SalePrice, &product.Stock, &product.MinStock, &product.CategoryID, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, err
		}

		products = append(products, product)

	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
