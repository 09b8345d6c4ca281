package model

import "github.com/shopspring/decimal"

// LPO is a Local Purchase Order, the originating commitment document.
// Invariants:
//   - Balance = TotalAmount − AmountPaid after every mutation.
//   - Status only ever moves pending → delivered.
//   - Once invoices reference the LPO, AmountPaid/Balance/PaymentStatus are
//     aggregates over ALL linked invoices, not the LPO's own ledger.
type LPO struct {
	ID            string          `json:"id,omitempty"`
	LPONumber     string          `json:"lpoNumber"`
	CompanyID     string          `json:"companyId"`
	CompanyName   string          `json:"companyName"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VAT           decimal.Decimal `json:"vat"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	Balance       decimal.Decimal `json:"balance"`
	Date          string          `json:"date"`
	Status        LPOStatus       `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     string          `json:"createdAt"`
}
