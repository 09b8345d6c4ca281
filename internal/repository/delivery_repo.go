package repository

import (
	"context"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type DeliveryRepository interface {
	Create(ctx context.Context, d *model.Delivery) (string, error)
	FindByID(ctx context.Context, id string) (*model.Delivery, bool, error)
	List(ctx context.Context) ([]model.Delivery, error)
	ListByLPOID(ctx context.Context, lpoID string) ([]model.Delivery, error)
	Update(ctx context.Context, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type deliveryRepo struct{ store store.Store }

func NewDeliveryRepository(s store.Store) DeliveryRepository { return &deliveryRepo{store: s} }

func (r *deliveryRepo) Create(ctx context.Context, d *model.Delivery) (string, error) {
	d.ID = ""
	return r.store.Push(ctx, DeliveriesPath, d)
}

func (r *deliveryRepo) FindByID(ctx context.Context, id string) (*model.Delivery, bool, error) {
	return readOne(ctx, r.store, DeliveriesPath, id, func(d *model.Delivery, id string) { d.ID = id })
}

func (r *deliveryRepo) List(ctx context.Context) ([]model.Delivery, error) {
	return readAll(ctx, r.store, DeliveriesPath, func(d *model.Delivery, id string) { d.ID = id })
}

func (r *deliveryRepo) ListByLPOID(ctx context.Context, lpoID string) ([]model.Delivery, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	linked := make([]model.Delivery, 0, len(all))
	for _, d := range all {
		if d.LPOID == lpoID {
			linked = append(linked, d)
		}
	}
	return linked, nil
}

func (r *deliveryRepo) Update(ctx context.Context, id string, partial map[string]interface{}) error {
	return r.store.Update(ctx, DeliveriesPath+"/"+id, partial)
}

func (r *deliveryRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, DeliveriesPath+"/"+id)
}
