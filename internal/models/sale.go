package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

type SaleStatus string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodDebit    PaymentMethod = "DEBIT"
	PaymentMethodCredit   PaymentMethod = "CREDIT"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodOther    PaymentMethod = "OTHER"

	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDebit, PaymentMethodCredit, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}

	return false
}

type SaleItem struct {
	ID        uuid.UUID `json:"id"`
	SaleID    uuid.UUID `json:"sale_id"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	UnitPrice float64   `json:"unit_price" validate:"gte=0"`
	CostPrice float64   `json:"cost_price" validate:"gte=0"`
	Subtotal  float64   `json:"subtotal"`
	CreatedAt time.Time `json:"created_at"`
}

type Sale struct {
	ID            uuid.UUID     `json:"id"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        SaleStatus    `json:"status"`
	UserID        *uuid.UUID    `json:"user_id,omitempty"`
	Items         []SaleItem    `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

type SaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Price     float64   `json:"price" validate:"gte=0"`
	CostPrice float64   `json:"cost_price" validate:"gte=0"`
}

// An empty Items slice is a permitted boundary case: the till records a
// zero-amount sale with no lines. See RecordSale.
type RecordSaleRequest struct {
	Items         []SaleItemInput `json:"items" validate:"dive"`
	Total         float64         `json:"total" validate:"gte=0"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT TRANSFER OTHER"`
}

type UpdateSaleStatusRequest struct {
	Status SaleStatus `json:"status" validate:"required,oneof=PENDING COMPLETED CANCELLED"`
}

type CheckoutRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=CASH DEBIT CREDIT TRANSFER OTHER"`
}

type SaleResponse struct {
	Sale *Sale `json:"sale"`
}

type SaleHistoryResponse struct {
	Sales []Sale `json:"sales"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}
