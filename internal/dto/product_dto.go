package dto

import "github.com/shopspring/decimal"

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"name"      validate:"required"`
	Unit         string          `json:"unit"      validate:"required"`
	UnitPrice    decimal.Decimal `json:"unitPrice" validate:"min=0"`
	VATInclusive bool            `json:"vatInclusive"`
}
