package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
)

func payReq(companyID string, amount int64) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		CompanyID:  companyID,
		AmountPaid: decimal.NewFromInt(amount),
		Mode:       "mpesa",
	}
}

func TestPaymentSettlesInvoiceAndLPO(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	invoice := env.invoiceFromLPO(t, lpo.ID)

	req := payReq(company.ID, 290)
	req.InvoiceID = invoice.ID
	payment, err := env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "PAY", payment.PaymentNo[:3])
	assert.Equal(t, invoice.ID, payment.InvoiceID)
	assert.Equal(t, invoice.InvoiceNo, payment.InvoiceNo)

	gotInv, err := env.invoiceSvc.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, gotInv.AmountPaid.Equal(decimal.NewFromInt(290)))
	assert.True(t, gotInv.Balance.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, gotInv.Status)

	// Fan-in: the LPO's aggregates follow its invoice.
	gotLPO, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.True(t, gotLPO.AmountPaid.Equal(decimal.NewFromInt(290)))
	assert.True(t, gotLPO.Balance.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, gotLPO.PaymentStatus)

	assert.Empty(t, env.queue.payloads, "no reconcile job on the happy path")
}

func TestPartialPayments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	invoice := env.invoiceFromLPO(t, lpo.ID)

	for i := 0; i < 2; i++ {
		req := payReq(company.ID, 100)
		req.InvoiceID = invoice.ID
		_, err := env.paymentSvc.Apply(ctx, req)
		require.NoError(t, err)
	}

	gotInv, err := env.invoiceSvc.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, gotInv.AmountPaid.Equal(decimal.NewFromInt(200)))
	assert.True(t, gotInv.Balance.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, model.PaymentStatusPartial, gotInv.Status)

	gotLPO, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.True(t, gotLPO.Balance.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, model.PaymentStatusPartial, gotLPO.PaymentStatus)
}

func TestOverpaymentRejectedBeforeAnyWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	invoice := env.invoiceFromLPO(t, lpo.ID)

	req := payReq(company.ID, 300)
	req.InvoiceID = invoice.ID
	_, err := env.paymentSvc.Apply(ctx, req)
	require.Error(t, err)
	assert.IsType(t, &apierror.OverpaymentError{}, err)

	// Nothing was written: no payment, untouched invoice.
	payments, err := env.paymentRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	gotInv, err := env.invoiceSvc.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, gotInv.AmountPaid.IsZero())
	assert.Equal(t, model.PaymentStatusUnpaid, gotInv.Status)
}

func TestFanInAcrossMultipleInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	first := env.invoiceFromLPO(t, lpo.ID)

	// A second invoice referencing the same LPO can exist in historical data;
	// it is inserted through the repository since the service rejects it.
	second := &model.Invoice{
		InvoiceNo:   "INV-LEGACY-1",
		CompanyID:   company.ID,
		CompanyName: company.Name,
		LPOID:       lpo.ID,
		LPONumber:   lpo.LPONumber,
		TotalAmount: decimal.NewFromInt(150),
		AmountPaid:  decimal.Zero,
		Balance:     decimal.NewFromInt(150),
		Status:      model.PaymentStatusUnpaid,
	}
	secondID, err := env.invoiceRepo.Create(ctx, second)
	require.NoError(t, err)

	req := payReq(company.ID, 290)
	req.InvoiceID = first.ID
	_, err = env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)

	req = payReq(company.ID, 150)
	req.InvoiceID = secondID
	_, err = env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)

	// LPO aggregates sum over BOTH invoices: 440 paid of 440 invoiced.
	gotLPO, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.True(t, gotLPO.AmountPaid.Equal(decimal.NewFromInt(440)), "amountPaid %s", gotLPO.AmountPaid)
	assert.True(t, gotLPO.Balance.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, gotLPO.PaymentStatus)
}

func TestDirectLPOPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290

	req := payReq(company.ID, 90)
	req.LPOID = lpo.ID
	payment, err := env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, lpo.ID, payment.LPOID)
	assert.Equal(t, lpo.LPONumber, payment.LPONumber)
	assert.Empty(t, payment.InvoiceID)

	gotLPO, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.True(t, gotLPO.AmountPaid.Equal(decimal.NewFromInt(90)))
	assert.True(t, gotLPO.Balance.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, model.PaymentStatusPartial, gotLPO.PaymentStatus)
}

// Once an invoice references the LPO, its aggregates are invoice sums; a
// direct payment would be wiped by the next reconcile while the record
// stayed in the ledger, so it must be rejected up front.
func TestDirectPaymentRejectedOnceInvoiced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	env.invoiceFromLPO(t, lpo.ID)

	req := payReq(company.ID, 100)
	req.LPOID = lpo.ID
	_, err := env.paymentSvc.Apply(ctx, req)
	require.Error(t, err)
	assert.IsType(t, &apierror.InvalidStateError{}, err)

	// Nothing entered the ledger and the aggregates are untouched, so a
	// reconcile pass has nothing to erase.
	payments, err := env.paymentRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	gotLPO, err := env.lpoSvc.Get(ctx, lpo.ID)
	require.NoError(t, err)
	assert.True(t, gotLPO.AmountPaid.IsZero())
	assert.True(t, gotLPO.Balance.Equal(gotLPO.TotalAmount))
	assert.Equal(t, model.PaymentStatusUnpaid, gotLPO.PaymentStatus)
}

func TestDirectLPOOverpaymentRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290

	req := payReq(company.ID, 291)
	req.LPOID = lpo.ID
	_, err := env.paymentSvc.Apply(ctx, req)
	require.Error(t, err)
	assert.IsType(t, &apierror.OverpaymentError{}, err)
}

func TestUntargetedPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)

	payment, err := env.paymentSvc.Apply(ctx, payReq(company.ID, 500))
	require.NoError(t, err)
	assert.Empty(t, payment.InvoiceID)
	assert.Empty(t, payment.LPOID)
	assert.Equal(t, company.Name, payment.CompanyName)

	payments, err := env.paymentRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestPaymentRejectsDoubleTarget(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	req := payReq(company.ID, 10)
	req.InvoiceID = "inv"
	req.LPOID = "lpo"
	_, err := env.paymentSvc.Apply(context.Background(), req)
	require.Error(t, err)
	assert.IsType(t, &apierror.ValidationError{}, err)
}

func TestPaymentRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany(t)

	req := payReq(company.ID, 0)
	_, err := env.paymentSvc.Apply(context.Background(), req)
	assert.IsType(t, &apierror.ValidationError{}, err)

	req = payReq(company.ID, 10)
	req.Mode = "cheque"
	_, err = env.paymentSvc.Apply(context.Background(), req)
	assert.IsType(t, &apierror.ValidationError{}, err)

	req = payReq("no-such-company", 10)
	_, err = env.paymentSvc.Apply(context.Background(), req)
	assert.IsType(t, &apierror.ValidationError{}, err)
}

func TestDeletePaymentQueuesRepair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID)
	invoice := env.invoiceFromLPO(t, lpo.ID)

	req := payReq(company.ID, 100)
	req.InvoiceID = invoice.ID
	payment, err := env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)
	require.Empty(t, env.queue.payloads)

	require.NoError(t, env.paymentSvc.Delete(ctx, payment.ID))

	payments, err := env.paymentRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	// Aggregates are stale until the queued reconcile re-derives them.
	require.Len(t, env.queue.payloads, 1)
	assert.Equal(t, invoice.ID, env.queue.payloads[0].InvoiceID)
}

func TestEpsilonSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	company := env.createCompany(t)
	lpo := env.createLPO(t, company.ID) // total 290
	invoice := env.invoiceFromLPO(t, lpo.ID)

	// 289.995 leaves a residual below the 0.01 epsilon: settled.
	req := dto.CreatePaymentRequest{
		CompanyID:  company.ID,
		InvoiceID:  invoice.ID,
		AmountPaid: decimal.NewFromFloat(289.995),
		Mode:       "bank",
	}
	_, err := env.paymentSvc.Apply(ctx, req)
	require.NoError(t, err)

	gotInv, err := env.invoiceSvc.Get(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, gotInv.Balance.IsZero(), "residual should clamp to zero, got %s", gotInv.Balance)
	assert.Equal(t, model.PaymentStatusPaid, gotInv.Status)
}
