package model

import "github.com/shopspring/decimal"

// Invoice is a billable document, optionally derived from an LPO. When
// LPOID is set the invoice's payments feed into the parent LPO's aggregate
// payment state (fan-in recompute).
type Invoice struct {
	ID          string          `json:"id,omitempty"`
	InvoiceNo   string          `json:"invoiceNo"`
	CompanyID   string          `json:"companyId"`
	CompanyName string          `json:"companyName"`
	LPOID       string          `json:"lpoId,omitempty"`
	LPONumber   string          `json:"lpoNumber,omitempty"`
	Date        string          `json:"date"`
	Items       []LineItem      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	VAT         decimal.Decimal `json:"vat"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Balance     decimal.Decimal `json:"balance"`
	Status      PaymentStatus   `json:"status"`
	CreatedAt   string          `json:"createdAt"`
}
