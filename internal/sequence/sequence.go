// Package sequence derives the next human-readable document number for a
// collection: {PREFIX}-{year}-{NNNNN}.
//
// The counter is global, not per year. The year embedded in the formatted
// number is decorative: the next number after LPO-2024-00042 issued in 2025
// is LPO-2025-00043. Numbers therefore stay monotonically increasing across
// year boundaries and never reset.
//
// Known race: the read-max-then-write pipeline is not atomic, and the store
// offers no compare-and-swap, so two concurrent creations can mint the same
// number. Accepted and documented rather than papered over; the store
// collaborator contract has no primitive that could close it.
package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"tradeledger/internal/store"
)

// Prefixes understood by the generator, each tied to the field that holds
// the document number in its collection.
const (
	PrefixLPO      = "LPO"
	PrefixInvoice  = "INV"
	PrefixPayment  = "PAY"
	PrefixDelivery = "DLV"
)

var numberFieldByPrefix = map[string]string{
	PrefixLPO:      "lpoNumber",
	PrefixInvoice:  "invoiceNo",
	PrefixPayment:  "paymentNo",
	PrefixDelivery: "deliveryNo",
}

var trailingDigits = regexp.MustCompile(`\d+$`)

// Generator scans a collection for the highest trailing numeric suffix and
// formats max+1. An unknown prefix falls back to using the prefix itself as
// the field name, mirroring the original lookup table.
type Generator struct {
	store store.Store
	now   func() time.Time
}

func NewGenerator(s store.Store) *Generator {
	return &Generator{store: s, now: time.Now}
}

// WithClock substitutes the time source (tests pin the year).
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next returns the next number for prefix over the collection at path,
// e.g. Next(ctx, "LPO", "/lpos") → "LPO-2026-00043".
// Empty collections start at 00001; records whose number field is missing
// or has no trailing digits contribute 0 and never fail the scan. Bare
// numeric fields (legacy imports stored numbers, not strings) are
// stringified and scanned like any other value.
func (g *Generator) Next(ctx context.Context, prefix, path string) (string, error) {
	field, ok := numberFieldByPrefix[prefix]
	if !ok {
		field = prefix
	}

	var records map[string]map[string]interface{}
	if _, err := g.store.Read(ctx, path, &records); err != nil {
		return "", err
	}

	maxNumber := 0
	for _, rec := range records {
		var value string
		switch v := rec[field].(type) {
		case string:
			value = v
		case float64: // JSON numbers decode as float64
			value = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue
		}
		match := trailingDigits.FindString(value)
		if match == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(match, "%d", &n); err == nil && n > maxNumber {
			maxNumber = n
		}
	}

	return fmt.Sprintf("%s-%d-%05d", prefix, g.now().Year(), maxNumber+1), nil
}
