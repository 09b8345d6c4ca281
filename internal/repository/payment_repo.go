package repository

import (
	"context"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (string, error)
	FindByID(ctx context.Context, id string) (*model.Payment, bool, error)
	List(ctx context.Context) ([]model.Payment, error)
	// ListByInvoiceID feeds reconciliation: an invoice's amountPaid can
	// always be re-derived from its payment ledger.
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.Payment, error)
	ListByLPOID(ctx context.Context, lpoID string) ([]model.Payment, error)
	Delete(ctx context.Context, id string) error
}

type paymentRepo struct{ store store.Store }

func NewPaymentRepository(s store.Store) PaymentRepository { return &paymentRepo{store: s} }

func (r *paymentRepo) Create(ctx context.Context, p *model.Payment) (string, error) {
	p.ID = ""
	return r.store.Push(ctx, PaymentsPath, p)
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, bool, error) {
	return readOne(ctx, r.store, PaymentsPath, id, func(p *model.Payment, id string) { p.ID = id })
}

func (r *paymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	return readAll(ctx, r.store, PaymentsPath, func(p *model.Payment, id string) { p.ID = id })
}

func (r *paymentRepo) ListByInvoiceID(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	linked := make([]model.Payment, 0, len(all))
	for _, p := range all {
		if p.InvoiceID == invoiceID {
			linked = append(linked, p)
		}
	}
	return linked, nil
}

func (r *paymentRepo) ListByLPOID(ctx context.Context, lpoID string) ([]model.Payment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	linked := make([]model.Payment, 0, len(all))
	for _, p := range all {
		if p.LPOID == lpoID {
			linked = append(linked, p)
		}
	}
	return linked, nil
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, PaymentsPath+"/"+id)
}
