package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javieryacu/sinapsia-polirrubro/internal/api/handlers"
	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
	repository "github.com/javieryacu/sinapsia-polirrubro/internal/repositories"
	"github.com/javieryacu/sinapsia-polirrubro/internal/repositories/mocks"
	service "github.com/javieryacu/sinapsia-polirrubro/internal/services"
	"github.com/javieryacu/sinapsia-polirrubro/internal/testutils"
)

func setupProductHandlerTest(t *testing.T) (*handlers.ProductHandler, *mocks.ProductRepository) {
	t.Helper()

	mockRepo := new(mocks.ProductRepository)
	productHandler := handlers.NewProductHandler(service.NewProductService(mockRepo))

	return productHandler, mockRepo
}

func TestCreateProductHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		productHandler, mockRepo := setupProductHandlerTest(t)

		mockRepo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Yerba Mate 1kg" && p.IsActive
		})).Return(nil).Once()

		body, _ := json.Marshal(models.CreateProductRequest{
			Name:      "Yerba Mate 1kg",
			CostPrice: 1500.00,
			SalePrice: 2200.00,
			Stock:     40,
			MinStock:  10,
		})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Missing Name", func(t *testing.T) {
		productHandler, mockRepo := setupProductHandlerTest(t)

		body := []byte(`{"sale_price": 100}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		productHandler.CreateProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestGetProductHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		productHandler, mockRepo := setupProductHandlerTest(t)

		productID := uuid.New()
		mockRepo.On("GetProductByID", mock.Anything, productID).Return(&models.Product{ID: productID, Name: "Azúcar 1kg"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/products/"+productID.String(), nil, userID, map[string]string{"id": productID.String()})
		rr := httptest.NewRecorder()

		productHandler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		productHandler, mockRepo := setupProductHandlerTest(t)

		productID := uuid.New()
		mockRepo.On("GetProductByID", mock.Anything, productID).Return(nil, repository.ErrProductNotFound).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/products/"+productID.String(), nil, userID, map[string]string{"id": productID.String()})
		rr := httptest.NewRecorder()

		productHandler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockRepo.AssertExpectations(t)
	})
}

func TestListLowStockHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		productHandler, mockRepo := setupProductHandlerTest(t)

		mockRepo.On("ListLowStock", mock.Anything).Return([]*models.Product{
			{ID: uuid.New(), Name: "Azúcar 1kg", Stock: 5, MinStock: 8},
		}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/products/low-stock", nil, userID, nil)
		rr := httptest.NewRecorder()

		productHandler.ListLowStock().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		resp := decodeResponse(t, rr)
		require.True(t, resp.Success)
		mockRepo.AssertExpectations(t)
	})
}
