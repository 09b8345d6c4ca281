package model

import "github.com/shopspring/decimal"

// LineItem is embedded in LPOs, Invoices and Deliveries — never a
// top-level record. ProductName and UnitPrice are snapshots taken when the
// parent document was created.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// ItemsSubtotal sums item totals. Each item's Total is expected to already
// equal quantity × unitPrice.
func ItemsSubtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	return subtotal
}
