package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
)

// InvoiceService creates invoices, either derived from an LPO (the normal
// path) or standalone from a raw item list.
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	lpoRepo     repository.LPORepository
	companyRepo repository.CompanyRepository
	generator   *sequence.Generator
	vatRate     decimal.Decimal
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	lpoRepo repository.LPORepository,
	companyRepo repository.CompanyRepository,
	generator *sequence.Generator,
	vatRate decimal.Decimal,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		lpoRepo:     lpoRepo,
		companyRepo: companyRepo,
		generator:   generator,
		vatRate:     vatRate,
	}
}

// Create dispatches on LPOID: set → derive from the LPO, empty → standalone.
func (s *InvoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*model.Invoice, error) {
	if req.LPOID != "" {
		return s.createFromLPO(ctx, req)
	}
	return s.createStandalone(ctx, req)
}

// createFromLPO inherits company, items, subtotal, VAT and total verbatim
// from the LPO — no recomputation, so the invoice bills exactly what was
// ordered. An LPO can be billed at most once.
func (s *InvoiceService) createFromLPO(ctx context.Context, req dto.CreateInvoiceRequest) (*model.Invoice, error) {
	lpo, found, err := s.lpoRepo.FindByID(ctx, req.LPOID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("lpo %s not found", req.LPOID)
	}

	existing, err := s.invoiceRepo.ListByLPOID(ctx, req.LPOID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apierror.Conflictf("lpo %s is already billed by invoice %s", lpo.LPONumber, existing[0].InvoiceNo)
	}

	number, err := s.resolveNumber(ctx, req.InvoiceNo)
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		InvoiceNo:   number,
		CompanyID:   lpo.CompanyID,
		CompanyName: lpo.CompanyName,
		LPOID:       lpo.ID,
		LPONumber:   lpo.LPONumber,
		Date:        dateOrToday(req.Date),
		Items:       lpo.Items,
		Subtotal:    lpo.Subtotal,
		VAT:         lpo.VAT,
		TotalAmount: lpo.TotalAmount,
		AmountPaid:  decimal.Zero,
		Balance:     lpo.TotalAmount,
		Status:      model.PaymentStatusUnpaid,
		CreatedAt:   nowRFC3339(),
	}
	id, err := s.invoiceRepo.Create(ctx, invoice)
	if err != nil {
		return nil, err
	}
	invoice.ID = id

	log.Info().
		Str("invoice_id", id).
		Str("invoice_no", number).
		Str("lpo_number", lpo.LPONumber).
		Msg("invoice created from lpo")
	return invoice, nil
}

func (s *InvoiceService) createStandalone(ctx context.Context, req dto.CreateInvoiceRequest) (*model.Invoice, error) {
	company, found, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.Validationf("companyId %s does not resolve to a company", req.CompanyID)
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.resolveNumber(ctx, req.InvoiceNo)
	if err != nil {
		return nil, err
	}

	subtotal := model.ItemsSubtotal(items)
	vat := subtotal.Mul(s.vatRate).Round(2)
	total := subtotal.Add(vat)

	invoice := &model.Invoice{
		InvoiceNo:   number,
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Date:        dateOrToday(req.Date),
		Items:       items,
		Subtotal:    subtotal,
		VAT:         vat,
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
		Balance:     total,
		Status:      model.PaymentStatusUnpaid,
		CreatedAt:   nowRFC3339(),
	}
	id, err := s.invoiceRepo.Create(ctx, invoice)
	if err != nil {
		return nil, err
	}
	invoice.ID = id

	log.Info().
		Str("invoice_id", id).
		Str("invoice_no", number).
		Msg("standalone invoice created")
	return invoice, nil
}

// resolveNumber prefers a supplied invoice number (collision-checked)
// over the generator.
func (s *InvoiceService) resolveNumber(ctx context.Context, manual string) (string, error) {
	manual = strings.TrimSpace(manual)
	if manual == "" {
		return s.generator.Next(ctx, sequence.PrefixInvoice, repository.InvoicesPath)
	}
	all, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return "", err
	}
	for _, inv := range all {
		if inv.InvoiceNo == manual {
			return "", apierror.Conflictf("invoice number %s already exists", manual)
		}
	}
	return manual, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	invoice, found, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("invoice %s not found", id)
	}
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

// Update applies a shallow merge; payment aggregates belong to the payment
// flow and are rejected here.
func (s *InvoiceService) Update(ctx context.Context, id string, partial map[string]interface{}) (*model.Invoice, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	for _, owned := range []string{"id", "createdAt", "amountPaid", "balance", "status"} {
		delete(partial, owned)
	}
	if len(partial) == 0 {
		return nil, apierror.Validationf("no updatable fields in request body")
	}
	if err := s.invoiceRepo.Update(ctx, id, partial); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}
