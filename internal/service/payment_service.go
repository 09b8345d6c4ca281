package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
	"tradeledger/internal/worker"
)

// ReconcileQueue enqueues balance-repair jobs. Satisfied by
// *worker.Dispatcher; nil disables enqueueing (drift is then left to the
// periodic sweep).
type ReconcileQueue interface {
	EnqueueReconcile(ctx context.Context, payload worker.ReconcilePayload) error
}

// PaymentService applies payments. The store has no transactions, so the
// multi-document write runs as a saga: the payment record is written first
// and never rolled back. If a follow-up aggregate update fails, the flow
// degrades to enqueueing an idempotent reconcile job and still reports the
// payment as accepted — the ledger is the source of truth.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	lpoRepo     repository.LPORepository
	companyRepo repository.CompanyRepository
	generator   *sequence.Generator
	queue       ReconcileQueue
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	lpoRepo repository.LPORepository,
	companyRepo repository.CompanyRepository,
	generator *sequence.Generator,
	queue ReconcileQueue,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		lpoRepo:     lpoRepo,
		companyRepo: companyRepo,
		generator:   generator,
		queue:       queue,
	}
}

// Apply records a payment against an invoice, an LPO, or the company alone.
// Overpayment is rejected before anything is written; after the payment
// record exists, aggregate updates are best-effort with queued repair.
func (s *PaymentService) Apply(ctx context.Context, req dto.CreatePaymentRequest) (*model.Payment, error) {
	if req.InvoiceID != "" && req.LPOID != "" {
		return nil, apierror.Validationf("a payment targets at most one of invoiceId and lpoId")
	}
	if !req.AmountPaid.GreaterThan(decimal.Zero) {
		return nil, apierror.Validationf("amountPaid must be positive")
	}
	mode := model.PaymentMode(req.Mode)
	if !mode.Valid() {
		return nil, apierror.Validationf("mode must be one of cash, mpesa, bank")
	}

	company, found, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.Validationf("companyId %s does not resolve to a company", req.CompanyID)
	}

	payment := &model.Payment{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Date:        dateOrToday(req.Date),
		AmountPaid:  req.AmountPaid,
		Mode:        mode,
		Remarks:     req.Remarks,
		CreatedAt:   nowRFC3339(),
	}

	switch {
	case req.InvoiceID != "":
		return s.applyToInvoice(ctx, payment, req.InvoiceID)
	case req.LPOID != "":
		return s.applyToLPO(ctx, payment, req.LPOID)
	default:
		return s.record(ctx, payment)
	}
}

// applyToInvoice is the main path: pre-check overpayment, write the payment,
// roll the invoice aggregates forward, then fan the result into the parent
// LPO if the invoice is linked to one.
func (s *PaymentService) applyToInvoice(ctx context.Context, payment *model.Payment, invoiceID string) (*model.Payment, error) {
	invoice, found, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("invoice %s not found", invoiceID)
	}

	if payment.AmountPaid.GreaterThan(invoice.Balance.Add(model.Epsilon)) {
		return nil, apierror.Overpaymentf(
			"payment of %s exceeds outstanding balance %s on invoice %s",
			payment.AmountPaid, invoice.Balance, invoice.InvoiceNo,
		)
	}

	payment.InvoiceID = invoice.ID
	payment.InvoiceNo = invoice.InvoiceNo
	if payment, err = s.record(ctx, payment); err != nil {
		return nil, err
	}

	newPaid := invoice.AmountPaid.Add(payment.AmountPaid)
	newBalance := model.ClampBalance(invoice.TotalAmount.Sub(newPaid))
	newStatus := model.DerivePaymentStatus(newPaid, invoice.TotalAmount)

	if err := s.invoiceRepo.UpdateFinancials(ctx, invoice.ID, newPaid, newBalance, newStatus); err != nil {
		s.enqueueRepair(ctx, worker.ReconcilePayload{InvoiceID: invoice.ID}, err)
		return payment, nil
	}

	if invoice.LPOID != "" {
		if err := s.recomputeLPO(ctx, invoice.LPOID, invoice.ID, newPaid); err != nil {
			s.enqueueRepair(ctx, worker.ReconcilePayload{LPOID: invoice.LPOID}, err)
		}
	}
	return payment, nil
}

// recomputeLPO is the fan-in: the LPO's aggregate payment state is the sum
// over ALL invoices referencing it. The just-updated invoice's fresh
// amountPaid is substituted in case the collection read raced the write.
func (s *PaymentService) recomputeLPO(ctx context.Context, lpoID, updatedInvoiceID string, updatedPaid decimal.Decimal) error {
	lpo, found, err := s.lpoRepo.FindByID(ctx, lpoID)
	if err != nil {
		return err
	}
	if !found {
		log.Warn().Str("lpo_id", lpoID).Msg("fan-in skipped: lpo vanished")
		return nil
	}

	invoices, err := s.invoiceRepo.ListByLPOID(ctx, lpoID)
	if err != nil {
		return err
	}

	totalInvoiced, paid := decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		totalInvoiced = totalInvoiced.Add(inv.TotalAmount)
		if inv.ID == updatedInvoiceID {
			paid = paid.Add(updatedPaid)
		} else {
			paid = paid.Add(inv.AmountPaid)
		}
	}

	balance := model.ClampBalance(totalInvoiced.Sub(paid))
	status := model.DerivePaymentStatus(paid, totalInvoiced)
	if err := s.lpoRepo.UpdateFinancials(ctx, lpo.ID, paid, balance, status); err != nil {
		return err
	}

	log.Info().
		Str("lpo_id", lpo.ID).
		Str("amount_paid", paid.String()).
		Str("balance", balance.String()).
		Str("payment_status", string(status)).
		Msg("lpo aggregates recomputed")
	return nil
}

// applyToLPO handles LPOs paid directly, without an intermediary invoice.
// Only un-invoiced LPOs qualify: once invoices reference the LPO its
// aggregates are invoice sums, and a direct payment would be erased by the
// next reconcile while the record stayed in the ledger.
func (s *PaymentService) applyToLPO(ctx context.Context, payment *model.Payment, lpoID string) (*model.Payment, error) {
	lpo, found, err := s.lpoRepo.FindByID(ctx, lpoID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("lpo %s not found", lpoID)
	}

	invoices, err := s.invoiceRepo.ListByLPOID(ctx, lpoID)
	if err != nil {
		return nil, err
	}
	if len(invoices) > 0 {
		return nil, apierror.InvalidStatef(
			"lpo %s is billed by invoice %s, apply the payment to its invoices",
			lpo.LPONumber, invoices[0].InvoiceNo,
		)
	}

	if payment.AmountPaid.GreaterThan(lpo.Balance.Add(model.Epsilon)) {
		return nil, apierror.Overpaymentf(
			"payment of %s exceeds outstanding balance %s on lpo %s",
			payment.AmountPaid, lpo.Balance, lpo.LPONumber,
		)
	}

	payment.LPOID = lpo.ID
	payment.LPONumber = lpo.LPONumber
	if payment, err = s.record(ctx, payment); err != nil {
		return nil, err
	}

	newPaid := lpo.AmountPaid.Add(payment.AmountPaid)
	newBalance := model.ClampBalance(lpo.TotalAmount.Sub(newPaid))
	newStatus := model.DerivePaymentStatus(newPaid, lpo.TotalAmount)

	if err := s.lpoRepo.UpdateFinancials(ctx, lpo.ID, newPaid, newBalance, newStatus); err != nil {
		s.enqueueRepair(ctx, worker.ReconcilePayload{LPOID: lpo.ID}, err)
	}
	return payment, nil
}

// record assigns the payment number and persists the payment. This is the
// point of no return: from here on the payment is never rolled back.
func (s *PaymentService) record(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	number, err := s.generator.Next(ctx, sequence.PrefixPayment, repository.PaymentsPath)
	if err != nil {
		return nil, err
	}
	payment.PaymentNo = number

	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = id

	log.Info().
		Str("payment_id", id).
		Str("payment_no", number).
		Str("amount", payment.AmountPaid.String()).
		Str("mode", string(payment.Mode)).
		Msg("payment recorded")
	return payment, nil
}

func (s *PaymentService) enqueueRepair(ctx context.Context, payload worker.ReconcilePayload, cause error) {
	log.Error().Err(cause).
		Str("invoice_id", payload.InvoiceID).
		Str("lpo_id", payload.LPOID).
		Msg("payment ledger and aggregates out of step, queueing reconcile")
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueReconcile(ctx, payload); err != nil {
		log.Error().Err(err).Msg("reconcile enqueue failed; periodic sweep will repair")
	}
}

func (s *PaymentService) Get(ctx context.Context, id string) (*model.Payment, error) {
	payment, found, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("payment %s not found", id)
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context) ([]model.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// Delete removes a mistaken payment record and queues a reconcile so the
// targeted invoice/LPO aggregates are re-derived from the remaining ledger.
func (s *PaymentService) Delete(ctx context.Context, id string) error {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if payment.InvoiceID != "" || payment.LPOID != "" {
		s.enqueueRepair(ctx,
			worker.ReconcilePayload{InvoiceID: payment.InvoiceID, LPOID: payment.LPOID},
			errors.New("payment removed from ledger"))
	}
	return nil
}
