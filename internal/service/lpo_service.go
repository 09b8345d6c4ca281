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

// LPOService creates purchase orders and drives the pending → delivered
// transition.
type LPOService struct {
	lpoRepo      repository.LPORepository
	companyRepo  repository.CompanyRepository
	deliveryRepo repository.DeliveryRepository
	generator    *sequence.Generator
	vatRate      decimal.Decimal
}

func NewLPOService(
	lpoRepo repository.LPORepository,
	companyRepo repository.CompanyRepository,
	deliveryRepo repository.DeliveryRepository,
	generator *sequence.Generator,
	vatRate decimal.Decimal,
) *LPOService {
	return &LPOService{
		lpoRepo:      lpoRepo,
		companyRepo:  companyRepo,
		deliveryRepo: deliveryRepo,
		generator:    generator,
		vatRate:      vatRate,
	}
}

// Create validates the company reference, recomputes all money fields
// server-side (line totals, subtotal, VAT, grand total) and stores the LPO
// as pending/unpaid with a zeroed payment ledger.
//
// A manual LPO number, when supplied, must not collide with any existing
// LPO; otherwise the sequence generator assigns the next number.
func (s *LPOService) Create(ctx context.Context, req dto.CreateLPORequest) (*model.LPO, error) {
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

	number := strings.TrimSpace(req.ManualLPONumber)
	if number != "" {
		taken, err := s.numberTaken(ctx, number)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apierror.Conflictf("LPO number %s already exists", number)
		}
	} else {
		number, err = s.generator.Next(ctx, sequence.PrefixLPO, repository.LPOsPath)
		if err != nil {
			return nil, err
		}
	}

	subtotal := model.ItemsSubtotal(items)
	vat := subtotal.Mul(s.vatRate).Round(2)
	total := subtotal.Add(vat)

	lpo := &model.LPO{
		LPONumber:     number,
		CompanyID:     company.ID,
		CompanyName:   company.Name,
		Items:         items,
		Subtotal:      subtotal,
		VAT:           vat,
		TotalAmount:   total,
		AmountPaid:    decimal.Zero,
		Balance:       total,
		Date:          dateOrToday(req.Date),
		Status:        model.LPOStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
		CreatedAt:     nowRFC3339(),
	}

	id, err := s.lpoRepo.Create(ctx, lpo)
	if err != nil {
		return nil, err
	}
	lpo.ID = id

	log.Info().
		Str("lpo_id", id).
		Str("lpo_number", number).
		Str("total", total.String()).
		Msg("lpo created")
	return lpo, nil
}

func (s *LPOService) Get(ctx context.Context, id string) (*model.LPO, error) {
	lpo, found, err := s.lpoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("lpo %s not found", id)
	}
	return lpo, nil
}

func (s *LPOService) List(ctx context.Context) ([]model.LPO, error) {
	return s.lpoRepo.List(ctx)
}

// Update applies a shallow merge. Financial aggregates and the delivery
// status are owned by their respective flows and rejected here.
func (s *LPOService) Update(ctx context.Context, id string, partial map[string]interface{}) (*model.LPO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	for _, owned := range []string{"id", "createdAt", "amountPaid", "balance", "paymentStatus", "status"} {
		delete(partial, owned)
	}
	if len(partial) == 0 {
		return nil, apierror.Validationf("no updatable fields in request body")
	}
	if err := s.lpoRepo.Update(ctx, id, partial); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *LPOService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.lpoRepo.Delete(ctx, id)
}

// MarkDelivered transitions a pending LPO to delivered and records the
// matching delivery document with an auto-assigned DLV number. A second
// call fails: the transition is one-way and one-shot.
func (s *LPOService) MarkDelivered(ctx context.Context, id string) (*model.LPO, *model.Delivery, error) {
	lpo, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if lpo.Status != model.LPOStatusPending {
		return nil, nil, apierror.InvalidStatef("lpo %s is already %s", lpo.LPONumber, lpo.Status)
	}

	if err := s.lpoRepo.Update(ctx, id, map[string]interface{}{
		"status": model.LPOStatusDelivered,
	}); err != nil {
		return nil, nil, err
	}
	lpo.Status = model.LPOStatusDelivered

	deliveryNo, err := s.generator.Next(ctx, sequence.PrefixDelivery, repository.DeliveriesPath)
	if err != nil {
		s.revertDeliveryFlip(ctx, lpo)
		return nil, nil, err
	}
	delivery := &model.Delivery{
		DeliveryNo:  deliveryNo,
		LPOID:       lpo.ID,
		LPONumber:   lpo.LPONumber,
		CompanyID:   lpo.CompanyID,
		CompanyName: lpo.CompanyName,
		Items:       lpo.Items,
		Date:        dateOrToday(""),
		Status:      model.DeliveryStatusDelivered,
		CreatedAt:   nowRFC3339(),
	}
	deliveryID, err := s.deliveryRepo.Create(ctx, delivery)
	if err != nil {
		log.Error().Err(err).Str("lpo_id", id).Msg("delivery record creation failed after status flip")
		s.revertDeliveryFlip(ctx, lpo)
		return nil, nil, err
	}
	delivery.ID = deliveryID

	log.Info().
		Str("lpo_id", id).
		Str("delivery_no", deliveryNo).
		Msg("lpo delivered")
	return lpo, delivery, nil
}

// revertDeliveryFlip rolls the status back to pending after a failure later
// in MarkDelivered, so the caller can retry the whole transition. A delivered
// LPO with no delivery document would otherwise be stuck: the transition is
// one-shot and nothing downstream recreates the record.
func (s *LPOService) revertDeliveryFlip(ctx context.Context, lpo *model.LPO) {
	if err := s.lpoRepo.Update(ctx, lpo.ID, map[string]interface{}{
		"status": model.LPOStatusPending,
	}); err != nil {
		log.Error().Err(err).Str("lpo_id", lpo.ID).Msg("status revert failed, lpo left delivered without a delivery record")
		return
	}
	lpo.Status = model.LPOStatusPending
}

func (s *LPOService) numberTaken(ctx context.Context, number string) (bool, error) {
	all, err := s.lpoRepo.List(ctx)
	if err != nil {
		return false, err
	}
	for _, lpo := range all {
		if lpo.LPONumber == number {
			return true, nil
		}
	}
	return false, nil
}
