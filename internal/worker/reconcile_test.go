package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/store"
)

type reconcileEnv struct {
	lpoRepo     repository.LPORepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	rec         *Reconciler
}

func newReconcileEnv() *reconcileEnv {
	s := store.NewMemoryStore()
	env := &reconcileEnv{
		lpoRepo:     repository.NewLPORepository(s),
		invoiceRepo: repository.NewInvoiceRepository(s),
		paymentRepo: repository.NewPaymentRepository(s),
	}
	env.rec = NewReconciler(env.lpoRepo, env.invoiceRepo, env.paymentRepo)
	return env
}

func (e *reconcileEnv) seedInvoice(t *testing.T, lpoID string, total int64) string {
	t.Helper()
	id, err := e.invoiceRepo.Create(context.Background(), &model.Invoice{
		InvoiceNo:   "INV-2026-00001",
		LPOID:       lpoID,
		TotalAmount: decimal.NewFromInt(total),
		AmountPaid:  decimal.Zero,
		Balance:     decimal.NewFromInt(total),
		Status:      model.PaymentStatusUnpaid,
	})
	require.NoError(t, err)
	return id
}

func (e *reconcileEnv) seedPayment(t *testing.T, invoiceID, lpoID string, amount int64) {
	t.Helper()
	_, err := e.paymentRepo.Create(context.Background(), &model.Payment{
		PaymentNo:  "PAY-2026-00001",
		InvoiceID:  invoiceID,
		LPOID:      lpoID,
		AmountPaid: decimal.NewFromInt(amount),
		Mode:       model.PaymentModeCash,
	})
	require.NoError(t, err)
}

// A payment exists but the invoice aggregates were never rolled forward —
// the situation the saga leaves behind when its second write fails.
func TestReconcileInvoiceRepairsDrift(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	invoiceID := env.seedInvoice(t, "", 290)
	env.seedPayment(t, invoiceID, "", 100)

	require.NoError(t, env.rec.ReconcileInvoice(ctx, invoiceID))

	inv, found, err := env.invoiceRepo.FindByID(ctx, invoiceID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, inv.AmountPaid.Equal(decimal.NewFromInt(100)))
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(190)))
	assert.Equal(t, model.PaymentStatusPartial, inv.Status)
}

func TestReconcileInvoiceCascadesToLPO(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	lpoID, err := env.lpoRepo.Create(ctx, &model.LPO{
		LPONumber:     "LPO-2026-00001",
		TotalAmount:   decimal.NewFromInt(290),
		AmountPaid:    decimal.Zero,
		Balance:       decimal.NewFromInt(290),
		Status:        model.LPOStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
	})
	require.NoError(t, err)

	invoiceID := env.seedInvoice(t, lpoID, 290)
	env.seedPayment(t, invoiceID, "", 290)

	require.NoError(t, env.rec.ReconcileInvoice(ctx, invoiceID))

	lpo, found, err := env.lpoRepo.FindByID(ctx, lpoID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, lpo.AmountPaid.Equal(decimal.NewFromInt(290)))
	assert.True(t, lpo.Balance.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, lpo.PaymentStatus)
}

// Without linked invoices the LPO's own payment ledger is authoritative.
func TestReconcileLPOFromDirectPayments(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	lpoID, err := env.lpoRepo.Create(ctx, &model.LPO{
		LPONumber:     "LPO-2026-00002",
		TotalAmount:   decimal.NewFromInt(100),
		AmountPaid:    decimal.Zero,
		Balance:       decimal.NewFromInt(100),
		PaymentStatus: model.PaymentStatusUnpaid,
	})
	require.NoError(t, err)
	env.seedPayment(t, "", lpoID, 60)

	require.NoError(t, env.rec.ReconcileLPO(ctx, lpoID))

	lpo, _, err := env.lpoRepo.FindByID(ctx, lpoID)
	require.NoError(t, err)
	assert.True(t, lpo.AmountPaid.Equal(decimal.NewFromInt(60)))
	assert.True(t, lpo.Balance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, model.PaymentStatusPartial, lpo.PaymentStatus)
}

// Running the job against an already-consistent document changes nothing.
func TestReconcileIsIdempotent(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	invoiceID := env.seedInvoice(t, "", 290)
	env.seedPayment(t, invoiceID, "", 290)

	require.NoError(t, env.rec.ReconcileInvoice(ctx, invoiceID))
	first, _, err := env.invoiceRepo.FindByID(ctx, invoiceID)
	require.NoError(t, err)

	require.NoError(t, env.rec.ReconcileInvoice(ctx, invoiceID))
	second, _, err := env.invoiceRepo.FindByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReconcileVanishedDocumentIsNoop(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	assert.NoError(t, env.rec.ReconcileInvoice(ctx, "gone"))
	assert.NoError(t, env.rec.ReconcileLPO(ctx, "gone"))
}

func TestHandleRoutesPayload(t *testing.T) {
	env := newReconcileEnv()
	ctx := context.Background()

	invoiceID := env.seedInvoice(t, "", 100)
	env.seedPayment(t, invoiceID, "", 100)

	raw, err := json.Marshal(ReconcilePayload{InvoiceID: invoiceID})
	require.NoError(t, err)
	require.NoError(t, env.rec.Handle(ctx, raw))

	inv, _, err := env.invoiceRepo.FindByID(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, inv.Status)
}
