package dto

import "github.com/shopspring/decimal"

// LineItemInput is one ordered line. Total is always recomputed server-side
// as quantity × unitPrice regardless of what the client sent.
type LineItemInput struct {
	ProductID   string          `json:"productId"   validate:"required"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"    validate:"required,gt=0"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"   validate:"min=0"`
}

// CreateLPORequest is the body of POST /api/lpos. A non-empty (trimmed)
// ManualLPONumber takes precedence over the sequence generator.
type CreateLPORequest struct {
	CompanyID       string          `json:"companyId" validate:"required"`
	Items           []LineItemInput `json:"items"     validate:"required,min=1,dive"`
	Date            string          `json:"date"`
	ManualLPONumber string          `json:"manualLPONumber"`
}
