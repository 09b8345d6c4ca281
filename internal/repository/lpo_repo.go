package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type LPORepository interface {
	Create(ctx context.Context, lpo *model.LPO) (string, error)
	FindByID(ctx context.Context, id string) (*model.LPO, bool, error)
	List(ctx context.Context) ([]model.LPO, error)
	Update(ctx context.Context, id string, partial map[string]interface{}) error
	// UpdateFinancials rewrites the aggregate payment state in one shallow
	// merge so the balance invariant can't be half-applied by two updates.
	UpdateFinancials(ctx context.Context, id string, amountPaid, balance decimal.Decimal, status model.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type lpoRepo struct{ store store.Store }

func NewLPORepository(s store.Store) LPORepository { return &lpoRepo{store: s} }

func (r *lpoRepo) Create(ctx context.Context, lpo *model.LPO) (string, error) {
	lpo.ID = ""
	return r.store.Push(ctx, LPOsPath, lpo)
}

func (r *lpoRepo) FindByID(ctx context.Context, id string) (*model.LPO, bool, error) {
	return readOne(ctx, r.store, LPOsPath, id, func(l *model.LPO, id string) { l.ID = id })
}

func (r *lpoRepo) List(ctx context.Context) ([]model.LPO, error) {
	return readAll(ctx, r.store, LPOsPath, func(l *model.LPO, id string) { l.ID = id })
}

func (r *lpoRepo) Update(ctx context.Context, id string, partial map[string]interface{}) error {
	return r.store.Update(ctx, LPOsPath+"/"+id, partial)
}

func (r *lpoRepo) UpdateFinancials(ctx context.Context, id string, amountPaid, balance decimal.Decimal, status model.PaymentStatus) error {
	return r.store.Update(ctx, LPOsPath+"/"+id, map[string]interface{}{
		"amountPaid":    amountPaid,
		"balance":       balance,
		"paymentStatus": status,
	})
}

func (r *lpoRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, LPOsPath+"/"+id)
}
