package model

import "github.com/shopspring/decimal"

// Payment records money received. Immutable after creation — the lifecycle
// never edits or deletes payments, so reconciliation can always re-derive
// balances from this ledger. At most one of InvoiceID/LPOID is set.
type Payment struct {
	ID          string          `json:"id,omitempty"`
	PaymentNo   string          `json:"paymentNo"`
	CompanyID   string          `json:"companyId"`
	CompanyName string          `json:"companyName"`
	InvoiceID   string          `json:"invoiceId,omitempty"`
	InvoiceNo   string          `json:"invoiceNo,omitempty"`
	LPOID       string          `json:"lpoId,omitempty"`
	LPONumber   string          `json:"lpoNumber,omitempty"`
	Date        string          `json:"date"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Mode        PaymentMode     `json:"mode"`
	Remarks     string          `json:"remarks,omitempty"`
	CreatedAt   string          `json:"createdAt"`
}
