package repository_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
)

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewProductRepo(db)
	require.NotNil(t, repo, "NewProductRepo should return a non-nil repository")

	return repo, mock
}

func productColumns() []string {
	return []string{"id", "barcode", "name", "description", "cost_price", "sale_price", "stock", "min_stock", "category_id", "is_active", "created_at", "updated_at"}
}

func TestCreateProduct(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	insertSQL := regexp.QuoteMeta(`
		INSERT INTO products (id, barcode, name, description, cost_price, sale_price, stock, min_stock, category_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`)

	barcode := "7790001001234"
	categoryID := int64(3)

	product := &models.Product{
		ID:         uuid.New(),
		Barcode:    &barcode,
		Name:       "Yerba Mate 1kg",
		CostPrice:  1500.00,
		SalePrice:  2200.00,
		Stock:      40,
		MinStock:   10,
		CategoryID: &categoryID,
		IsActive:   true,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(insertSQL).
			WithArgs(product.ID, product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		err := repo.CreateProduct(ctx, product)

		assert.NoError(t, err)
		assert.Equal(t, now, product.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - DB Error", func(t *testing.T) {
		dbErr := errors.New("DB error on product insert")

		mock.ExpectQuery(insertSQL).
			WithArgs(product.ID, product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive).
			WillReturnError(dbErr)

		err := repo.CreateProduct(ctx, product)

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetProductByID(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	selectSQL := regexp.QuoteMeta(`
		SELECT p.id, p.barcode, p.name, p.description, p.cost_price, p.sale_price,
		       p.stock, p.min_stock, p.category_id, p.is_active, p.created_at, p.updated_at,
		       c.id, c.name, c.created_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`)

	columns := []string{"id", "barcode", "name", "description", "cost_price", "sale_price", "stock", "min_stock", "category_id", "is_active", "created_at", "updated_at", "c_id", "c_name", "c_created_at"}

	t.Run("Success - With Category", func(t *testing.T) {
		productID := uuid.New()
		categoryID := int64(2)

		mock.ExpectQuery(selectSQL).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(productID, nil, "Azúcar 1kg", nil, 700.00, 1100.00, 5, 8, categoryID, true, now, now, categoryID, "Almacén", now))

		product, err := repo.GetProductByID(ctx, productID)

		require.NoError(t, err)
		assert.Equal(t, "Azúcar 1kg", product.Name)
		assert.Nil(t, product.Barcode)
		require.NotNil(t, product.Category)
		assert.Equal(t, "Almacén", product.Category.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Without Category", func(t *testing.T) {
		productID := uuid.New()

		mock.ExpectQuery(selectSQL).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(productID, nil, "Encendedor", nil, 300.00, 600.00, 12, 4, nil, true, now, now, nil, nil, nil))

		product, err := repo.GetProductByID(ctx, productID)

		require.NoError(t, err)
		assert.Nil(t, product.Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		productID := uuid.New()

		mock.ExpectQuery(selectSQL).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(columns))

		product, err := repo.GetProductByID(ctx, productID)

		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		assert.Nil(t, product)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateProduct(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	updateSQL := regexp.QuoteMeta(`
		UPDATE products
		SET barcode = $1, name = $2, description = $3, cost_price = $4, sale_price = $5,
		    stock = $6, min_stock = $7, category_id = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`)

	product := &models.Product{
		ID:        uuid.New(),
		Name:      "Fideos 500g",
		CostPrice: 500.00,
		SalePrice: 900.00,
		Stock:     30,
		MinStock:  6,
		IsActive:  true,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).
			WithArgs(product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive, product.ID).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		err := repo.UpdateProduct(ctx, product)

		assert.NoError(t, err)
		assert.Equal(t, now, product.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).
			WithArgs(product.Barcode, product.Name, product.Description, product.CostPrice, product.SalePrice, product.Stock, product.MinStock, product.CategoryID, product.IsActive, product.ID).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		err := repo.UpdateProduct(ctx, product)

		assert.ErrorIs(t, err, repository.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListProducts(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	countSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)
	listSQL := regexp.QuoteMeta(`
		SELECT id, barcode, name, description, cost_price, sale_price,
		       stock, min_stock, category_id, is_active, created_at, updated_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(countSQL).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(listSQL).
			WithArgs(20, 0).
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(uuid.New(), nil, "Azúcar 1kg", nil, 700.00, 1100.00, 5, 8, nil, true, now, now).
				AddRow(uuid.New(), nil, "Yerba Mate 1kg", nil, 1500.00, 2200.00, 40, 10, nil, true, now, now))

		products, total, err := repo.ListProducts(ctx, 1, 20)

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, products, 2)
		assert.Equal(t, "Azúcar 1kg", products[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListLowStock(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()
	now := time.Now()

	lowStockSQL := regexp.QuoteMeta(`
		SELECT id, barcode, name, description, cost_price, sale_price,
		       stock, min_stock, category_id, is_active, created_at, updated_at
		FROM products
		WHERE is_active AND stock <= min_stock
		ORDER BY name
	`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(lowStockSQL).
			WillReturnRows(sqlmock.NewRows(productColumns()).
				AddRow(uuid.New(), nil, "Azúcar 1kg", nil, 700.00, 1100.00, 5, 8, nil, true, now, now))

		products, err := repo.ListLowStock(ctx)

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.LessOrEqual(t, products[0].Stock, products[0].MinStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - None Low", func(t *testing.T) {
		mock.ExpectQuery(lowStockSQL).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		products, err := repo.ListLowStock(ctx)

		assert.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
