package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
)

func TestLPOCreateComputesTotals(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	lpo := env.createLPO(t, company.ID)

	assert.True(t, lpo.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal %s", lpo.Subtotal)
	assert.True(t, lpo.VAT.Equal(decimal.NewFromInt(40)), "vat %s", lpo.VAT)
	assert.True(t, lpo.TotalAmount.Equal(decimal.NewFromInt(290)), "total %s", lpo.TotalAmount)
	assert.True(t, lpo.AmountPaid.IsZero())
	assert.True(t, lpo.Balance.Equal(lpo.TotalAmount))
	assert.Equal(t, model.LPOStatusPending, lpo.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, lpo.PaymentStatus)
	assert.Equal(t, "LPO", lpo.LPONumber[:3])
	assert.Equal(t, company.Name, lpo.CompanyName)
}

func TestLPOCreateRecomputesClientTotals(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	// The dto has no Total field at all — whatever a client sends is dropped
	// at bind time; this checks the line total really is qty × unitPrice.
	lpo, err := env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID: company.ID,
		Items: []dto.LineItemInput{
			{ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromFloat(19.99)},
		},
	})
	require.NoError(t, err)
	assert.True(t, lpo.Items[0].Total.Equal(decimal.NewFromFloat(59.97)))
}

func TestLPOCreateRejectsUnknownCompany(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID: "no-such-company",
		Items:     []dto.LineItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
	})
	require.Error(t, err)
	assert.IsType(t, &apierror.ValidationError{}, err)
}

func TestLPOCreateRejectsBadItems(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	_, err := env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID: company.ID,
		Items:     nil,
	})
	assert.IsType(t, &apierror.ValidationError{}, err)

	_, err = env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID: company.ID,
		Items:     []dto.LineItemInput{{ProductID: "p1", Quantity: 0, UnitPrice: decimal.NewFromInt(10)}},
	})
	assert.IsType(t, &apierror.ValidationError{}, err)
}

func TestLPOManualNumber(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	lpo, err := env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID:       company.ID,
		Items:           []dto.LineItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		ManualLPONumber: "  LPO-CUSTOM-7  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "LPO-CUSTOM-7", lpo.LPONumber)

	// Reusing the same number is a conflict, not a silent duplicate.
	_, err = env.lpoSvc.Create(context.Background(), dto.CreateLPORequest{
		CompanyID:       company.ID,
		Items:           []dto.LineItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
		ManualLPONumber: "LPO-CUSTOM-7",
	})
	require.Error(t, err)
	assert.IsType(t, &apierror.ConflictError{}, err)
}

func TestLPOMarkDelivered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)

	updated, delivery, err := env.lpoSvc.MarkDelivered(ctx, lpo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LPOStatusDelivered, updated.Status)
	require.NotNil(t, delivery)
	assert.Equal(t, lpo.ID, delivery.LPOID)
	assert.Equal(t, lpo.LPONumber, delivery.LPONumber)
	assert.Equal(t, model.DeliveryStatusDelivered, delivery.Status)
	assert.Equal(t, "DLV", delivery.DeliveryNo[:3])
	assert.Len(t, delivery.Items, len(lpo.Items))

	// The transition persisted, and exactly one delivery exists.
	stored, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LPOStatusDelivered, stored.Status)

	deliveries, err := env.deliveryRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

func TestLPOMarkDeliveredTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)

	_, _, err := env.lpoSvc.MarkDelivered(ctx, lpo.ID)
	require.NoError(t, err)

	_, _, err = env.lpoSvc.MarkDelivered(ctx, lpo.ID)
	require.Error(t, err)
	assert.IsType(t, &apierror.InvalidStateError{}, err)

	// No second delivery document was written.
	deliveries, err := env.deliveryRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
}

// flakyDeliveryRepo fails the first Create, then delegates.
type flakyDeliveryRepo struct {
	repository.DeliveryRepository
	fail bool
}

func (r *flakyDeliveryRepo) Create(ctx context.Context, d *model.Delivery) (string, error) {
	if r.fail {
		r.fail = false
		return "", errors.New("store write refused")
	}
	return r.DeliveryRepository.Create(ctx, d)
}

// A failed delivery write must not strand the LPO as delivered with no
// delivery document: the status rolls back so the caller can retry.
func TestLPOMarkDeliveredRevertsOnWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)

	flaky := &flakyDeliveryRepo{DeliveryRepository: env.deliveryRepo, fail: true}
	svc := NewLPOService(env.lpoRepo, env.companyRepo, flaky, sequence.NewGenerator(env.store), decimal.New(16, -2))

	_, _, err := svc.MarkDelivered(ctx, lpo.ID)
	require.Error(t, err)

	stored, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LPOStatusPending, stored.Status)

	deliveries, err := env.deliveryRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, deliveries)

	// The transition stays available: a retry completes normally.
	updated, delivery, err := svc.MarkDelivered(ctx, lpo.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LPOStatusDelivered, updated.Status)
	require.NotNil(t, delivery)
}

func TestLPOUpdateRejectsOwnedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)

	// A partial consisting only of flow-owned fields has nothing left to merge.
	_, err := env.lpoSvc.Update(ctx, lpo.ID, map[string]interface{}{
		"amountPaid": 999,
		"status":     "delivered",
	})
	require.Error(t, err)
	assert.IsType(t, &apierror.ValidationError{}, err)

	updated, err := env.lpoSvc.Update(ctx, lpo.ID, map[string]interface{}{"date": "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", updated.Date)
	assert.Equal(t, model.LPOStatusPending, updated.Status)
}

func TestLPOGetNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.lpoSvc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.IsType(t, &apierror.NotFoundError{}, err)
}
