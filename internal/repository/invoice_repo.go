package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) (string, error)
	FindByID(ctx context.Context, id string) (*model.Invoice, bool, error)
	List(ctx context.Context) ([]model.Invoice, error)
	// ListByLPOID scans the whole collection — the store has no secondary
	// indexes. Used by the duplicate-billing check and the fan-in recompute.
	ListByLPOID(ctx context.Context, lpoID string) ([]model.Invoice, error)
	Update(ctx context.Context, id string, partial map[string]interface{}) error
	UpdateFinancials(ctx context.Context, id string, amountPaid, balance decimal.Decimal, status model.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type invoiceRepo struct{ store store.Store }

func NewInvoiceRepository(s store.Store) InvoiceRepository { return &invoiceRepo{store: s} }

func (r *invoiceRepo) Create(ctx context.Context, inv *model.Invoice) (string, error) {
	inv.ID = ""
	return r.store.Push(ctx, InvoicesPath, inv)
}

func (r *invoiceRepo) FindByID(ctx context.Context, id string) (*model.Invoice, bool, error) {
	return readOne(ctx, r.store, InvoicesPath, id, func(i *model.Invoice, id string) { i.ID = id })
}

func (r *invoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	return readAll(ctx, r.store, InvoicesPath, func(i *model.Invoice, id string) { i.ID = id })
}

func (r *invoiceRepo) ListByLPOID(ctx context.Context, lpoID string) ([]model.Invoice, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	linked := make([]model.Invoice, 0, len(all))
	for _, inv := range all {
		if inv.LPOID == lpoID {
			linked = append(linked, inv)
		}
	}
	return linked, nil
}

func (r *invoiceRepo) Update(ctx context.Context, id string, partial map[string]interface{}) error {
	return r.store.Update(ctx, InvoicesPath+"/"+id, partial)
}

func (r *invoiceRepo) UpdateFinancials(ctx context.Context, id string, amountPaid, balance decimal.Decimal, status model.PaymentStatus) error {
	return r.store.Update(ctx, InvoicesPath+"/"+id, map[string]interface{}{
		"amountPaid": amountPaid,
		"balance":    balance,
		"status":     status,
	})
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, InvoicesPath+"/"+id)
}
