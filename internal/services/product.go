package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/errors"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
)

type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	if req.SalePrice < 0 {
		return nil, errors.ValidationError("Price cannot be negative")
	}

	if req.CostPrice < 0 {
		return nil, errors.ValidationError("Cost price cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Barcode:     req.Barcode,
		Name:        req.Name,
		Description: req.Description,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		CategoryID:  req.CategoryID,
		IsActive:    true,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if goerrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Description != nil {
		product.Description = req.Description
	}

	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}

	if req.SalePrice != nil {
		product.SalePrice = *req.SalePrice
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}

	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if goerrors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	products, total, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *ProductService) ListLowStock(ctx context.Context) ([]*models.Product, error) {

	products, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch low-stock products").WithError(err)
	}

	return products, nil
}
