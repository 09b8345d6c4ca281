package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. Prices are snapshotted into line items at
// document creation time, so later edits don't rewrite history.
type Product struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	VATInclusive bool            `json:"vatInclusive"`
	CreatedAt    string          `json:"createdAt"`
}
