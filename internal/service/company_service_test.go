package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
)

func TestCompanyCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.createCompany(t)
	require.NotEmpty(t, company.ID)
	require.NotEmpty(t, company.CreatedAt)

	got, err := env.companySvc.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.Name, got.Name)

	updated, err := env.companySvc.Update(ctx, company.ID, map[string]interface{}{
		"phone": "+254711111111",
	})
	require.NoError(t, err)
	assert.Equal(t, "+254711111111", updated.Phone)
	assert.Equal(t, company.Name, updated.Name, "unmentioned fields survive the merge")

	require.NoError(t, env.companySvc.Delete(ctx, company.ID))
	_, err = env.companySvc.Get(ctx, company.ID)
	assert.IsType(t, &apierror.NotFoundError{}, err)
}

// Company names on documents are historical snapshots: renaming the company
// must not rewrite an LPO issued under the old name.
func TestCompanyRenameLeavesDocumentsUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)

	_, err := env.companySvc.Update(ctx, company.ID, map[string]interface{}{
		"name": "Renamed Holdings Ltd",
	})
	require.NoError(t, err)

	got, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders Ltd", got.CompanyName)
}

func TestCompanyUpdateStripsIdentityFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)

	_, err := env.companySvc.Update(ctx, company.ID, map[string]interface{}{
		"id":        "forged",
		"createdAt": "1999-01-01T00:00:00Z",
	})
	require.Error(t, err)
	assert.IsType(t, &apierror.ValidationError{}, err)

	got, err := env.companySvc.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, company.ID, got.ID)
	assert.Equal(t, company.CreatedAt, got.CreatedAt)
}

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product, err := env.productSvc.Create(ctx, dto.CreateProductRequest{
		Name: "Cement 50kg", Unit: "bag",
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)

	list, err := env.productSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.productSvc.Delete(ctx, product.ID))
	list, err = env.productSvc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
