package repository

import (
	"context"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (string, error)
	FindByID(ctx context.Context, id string) (*model.Product, bool, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type productRepo struct{ store store.Store }

func NewProductRepository(s store.Store) ProductRepository { return &productRepo{store: s} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) (string, error) {
	p.ID = ""
	return r.store.Push(ctx, ProductsPath, p)
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*model.Product, bool, error) {
	return readOne(ctx, r.store, ProductsPath, id, func(p *model.Product, id string) { p.ID = id })
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	return readAll(ctx, r.store, ProductsPath, func(p *model.Product, id string) { p.ID = id })
}

func (r *productRepo) Update(ctx context.Context, id string, partial map[string]interface{}) error {
	return r.store.Update(ctx, ProductsPath+"/"+id, partial)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, ProductsPath+"/"+id)
}
