// Package cart holds the in-memory cart aggregate for one in-progress
// checkout. A cart belongs to exactly one session and is never persisted;
// its lines turn into sale items only when the sale is recorded.
package cart

import (
	"github.com/google/uuid"

	"github.com/javieryacu/sinapsia-polirrubro/internal/models"
)

// Line is one prospective purchase line. Subtotal is always recomputed
// from Quantity and UnitSalePrice, never accepted from outside.
type Line struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	UnitSalePrice float64   `json:"unit_sale_price"`
	UnitCostPrice float64   `json:"unit_cost_price"`
	Quantity      int       `json:"quantity"`
	Subtotal      float64   `json:"subtotal"`
}

// Cart keeps lines in insertion order with unique product ids.
// The total is recomputed synchronously on every mutation.
type Cart struct {
	lines []Line
	total float64
}

func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the product. An existing line gains quantity,
// a new product appends a line with quantity 1. Stock is not checked
// here; availability is enforced when the sale is recorded.
func (c *Cart) AddItem(product *models.Product) {

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity++
			c.lines[i].Subtotal = float64(c.lines[i].Quantity) * c.lines[i].UnitSalePrice
			c.recalculate()

			return
		}
	}

	c.lines = append(c.lines, Line{
		ProductID:     product.ID,
		Name:          product.Name,
		UnitSalePrice: product.SalePrice,
		UnitCostPrice: product.CostPrice,
		Quantity:      1,
		Subtotal:      product.SalePrice,
	})

	c.recalculate()
}

// RemoveItem deletes the line for the product. Removing an absent
// product is a no-op, not an error.
func (c *Cart) RemoveItem(productID uuid.UUID) {

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recalculate()

			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
	c.total = 0
}

// Items returns the lines in insertion order. The returned slice is a
// copy; mutating it does not touch the cart.
func (c *Cart) Items() []Line {
	items := make([]Line, len(c.lines))
	copy(items, c.lines)

	return items
}

func (c *Cart) Total() float64 {
	return c.total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) recalculate() {

	var total float64

	for i := range c.lines {
		total += c.lines[i].Subtotal
	}

	c.total = total
}
