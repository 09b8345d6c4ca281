package dto

import "github.com/shopspring/decimal"

// CreatePaymentRequest is the body of POST /api/payments. At most one of
// InvoiceID / LPOID may be set; an untargeted payment is recorded against
// the company only.
type CreatePaymentRequest struct {
	CompanyID  string          `json:"companyId"  validate:"required"`
	InvoiceID  string          `json:"invoiceId"`
	LPOID      string          `json:"lpoId"`
	Date       string          `json:"date"`
	AmountPaid decimal.Decimal `json:"amountPaid" validate:"required,gt=0"`
	Mode       string          `json:"mode"       validate:"required,oneof=cash mpesa bank"`
	Remarks    string          `json:"remarks"`
}
