// Package repository exposes one typed repository per collection, all backed
// by the document store port. Collections are maps of push-id → record; list
// operations read the whole map and flatten it to a slice with ids injected,
// ordered by push id (which sorts by creation time). There are no secondary
// indexes — lookups beyond FindByID are collection scans by design.
package repository

import (
	"context"
	"sort"

	"tradeledger/internal/store"
)

// Collection paths inside the database tree.
const (
	CompaniesPath  = "/companies"
	ProductsPath   = "/products"
	LPOsPath       = "/lpos"
	InvoicesPath   = "/invoices"
	PaymentsPath   = "/payments"
	DeliveriesPath = "/deliveries"
)

// readAll flattens the collection map at path into a creation-ordered slice,
// handing each record's push id to assign before appending.
func readAll[T any](ctx context.Context, s store.Store, path string, assign func(*T, string)) ([]T, error) {
	var raw map[string]T
	if _, err := s.Read(ctx, path, &raw); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(raw))
	for _, id := range ids {
		rec := raw[id]
		assign(&rec, id)
		out = append(out, rec)
	}
	return out, nil
}

// readOne reads a single record; found=false when the node is absent.
func readOne[T any](ctx context.Context, s store.Store, path, id string, assign func(*T, string)) (*T, bool, error) {
	var rec T
	found, err := s.Read(ctx, path+"/"+id, &rec)
	if err != nil || !found {
		return nil, found, err
	}
	assign(&rec, id)
	return &rec, true, nil
}
