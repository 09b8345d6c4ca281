package repository

import (
	"context"

	"tradeledger/internal/model"
	"tradeledger/internal/store"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) (string, error)
	FindByID(ctx context.Context, id string) (*model.Company, bool, error)
	List(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type companyRepo struct{ store store.Store }

func NewCompanyRepository(s store.Store) CompanyRepository { return &companyRepo{store: s} }

func (r *companyRepo) Create(ctx context.Context, c *model.Company) (string, error) {
	c.ID = "" // the push id is the identity; never persisted inside the record
	return r.store.Push(ctx, CompaniesPath, c)
}

func (r *companyRepo) FindByID(ctx context.Context, id string) (*model.Company, bool, error) {
	return readOne(ctx, r.store, CompaniesPath, id, func(c *model.Company, id string) { c.ID = id })
}

func (r *companyRepo) List(ctx context.Context) ([]model.Company, error) {
	return readAll(ctx, r.store, CompaniesPath, func(c *model.Company, id string) { c.ID = id })
}

func (r *companyRepo) Update(ctx context.Context, id string, partial map[string]interface{}) error {
	return r.store.Update(ctx, CompaniesPath+"/"+id, partial)
}

func (r *companyRepo) Delete(ctx context.Context, id string) error {
	return r.store.Remove(ctx, CompaniesPath+"/"+id)
}
