package worker

// reconcile.go — the repair job for the non-transactional payment saga.
// A payment is written first and never rolled back; if the follow-up
// invoice/LPO updates fail, a reconcile job re-derives every aggregate from
// the immutable payment ledger. The job is idempotent: running it against a
// consistent document is a no-op write-wise.

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tradeledger/internal/model"
	"tradeledger/internal/repository"
)

// ReconcilePayload names the document(s) to repair. InvoiceID implies the
// parent LPO as well; a bare LPOID re-derives just the LPO aggregates.
type ReconcilePayload struct {
	InvoiceID string `json:"invoiceId,omitempty"`
	LPOID     string `json:"lpoId,omitempty"`
}

// Reconciler re-derives invoice and LPO payment aggregates.
type Reconciler struct {
	lpoRepo     repository.LPORepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

func NewReconciler(
	lpoRepo repository.LPORepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
) *Reconciler {
	return &Reconciler{lpoRepo: lpoRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

// Handle processes one queued job payload.
func (r *Reconciler) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.InvoiceID != "" {
		return r.ReconcileInvoice(ctx, payload.InvoiceID)
	}
	if payload.LPOID != "" {
		return r.ReconcileLPO(ctx, payload.LPOID)
	}
	return nil
}

// ReconcileInvoice recomputes the invoice's amountPaid from its payment
// ledger, then cascades into the parent LPO's fan-in aggregates.
func (r *Reconciler) ReconcileInvoice(ctx context.Context, invoiceID string) error {
	inv, found, err := r.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !found {
		log.Warn().Str("invoice_id", invoiceID).Msg("reconcile: invoice vanished, skipping")
		return nil
	}

	payments, err := r.paymentRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.AmountPaid)
	}

	balance := model.ClampBalance(inv.TotalAmount.Sub(paid))
	status := model.DerivePaymentStatus(paid, inv.TotalAmount)

	if !paid.Equal(inv.AmountPaid) || !balance.Equal(inv.Balance) || status != inv.Status {
		if err := r.invoiceRepo.UpdateFinancials(ctx, invoiceID, paid, balance, status); err != nil {
			return err
		}
		log.Info().
			Str("invoice_id", invoiceID).
			Str("amount_paid", paid.String()).
			Str("balance", balance.String()).
			Msg("reconcile: invoice aggregates repaired")
	}

	if inv.LPOID != "" {
		return r.ReconcileLPO(ctx, inv.LPOID)
	}
	return nil
}

// ReconcileLPO recomputes an LPO's aggregate payment state. With linked
// invoices this is the fan-in rule: sums over ALL invoices referencing the
// LPO, measured against the total invoiced amount. Without invoices the
// LPO's own direct payment ledger is the source of truth.
func (r *Reconciler) ReconcileLPO(ctx context.Context, lpoID string) error {
	lpo, found, err := r.lpoRepo.FindByID(ctx, lpoID)
	if err != nil {
		return err
	}
	if !found {
		log.Warn().Str("lpo_id", lpoID).Msg("reconcile: lpo vanished, skipping")
		return nil
	}

	invoices, err := r.invoiceRepo.ListByLPOID(ctx, lpoID)
	if err != nil {
		return err
	}

	var paid, balance decimal.Decimal
	var status model.PaymentStatus

	if len(invoices) > 0 {
		totalInvoiced := decimal.Zero
		for _, inv := range invoices {
			totalInvoiced = totalInvoiced.Add(inv.TotalAmount)
			paid = paid.Add(inv.AmountPaid)
		}
		balance = model.ClampBalance(totalInvoiced.Sub(paid))
		status = model.DerivePaymentStatus(paid, totalInvoiced)
	} else {
		payments, err := r.paymentRepo.ListByLPOID(ctx, lpoID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			paid = paid.Add(p.AmountPaid)
		}
		balance = model.ClampBalance(lpo.TotalAmount.Sub(paid))
		status = model.DerivePaymentStatus(paid, lpo.TotalAmount)
	}

	if paid.Equal(lpo.AmountPaid) && balance.Equal(lpo.Balance) && status == lpo.PaymentStatus {
		return nil
	}
	if err := r.lpoRepo.UpdateFinancials(ctx, lpoID, paid, balance, status); err != nil {
		return err
	}
	log.Info().
		Str("lpo_id", lpoID).
		Str("amount_paid", paid.String()).
		Str("balance", balance.String()).
		Str("payment_status", string(status)).
		Msg("reconcile: lpo aggregates repaired")
	return nil
}
