// Package service implements the document lifecycle: LPO creation and
// delivery, invoice derivation, and payment application with the fan-in
// recompute across all invoices of an LPO.
package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// dateOrToday normalizes the document date: trimmed input or today (UTC).
func dateOrToday(date string) string {
	date = strings.TrimSpace(date)
	if date != "" {
		return date
	}
	return time.Now().UTC().Format("2006-01-02")
}

// buildItems converts line item inputs to model items, recomputing each
// total as quantity × unitPrice. Quantities must be positive.
func buildItems(inputs []dto.LineItemInput) ([]model.LineItem, error) {
	if len(inputs) == 0 {
		return nil, apierror.Validationf("at least one line item is required")
	}
	items := make([]model.LineItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apierror.Validationf("item %d: quantity must be positive", i+1)
		}
		if in.UnitPrice.IsNegative() {
			return nil, apierror.Validationf("item %d: unit price cannot be negative", i+1)
		}
		items = append(items, model.LineItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			UnitPrice:   in.UnitPrice,
			Total:       in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		})
	}
	return items, nil
}
