package service

import (
	"context"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
	"tradeledger/internal/sequence"
)

// DeliveryService exposes the raw delivery collection. The guarded
// pending → delivered transition lives on LPOService.MarkDelivered; this
// path only auto-assigns the DLV number and stores what it was given.
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	companyRepo  repository.CompanyRepository
	generator    *sequence.Generator
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	companyRepo repository.CompanyRepository,
	generator *sequence.Generator,
) *DeliveryService {
	return &DeliveryService{deliveryRepo: deliveryRepo, companyRepo: companyRepo, generator: generator}
}

func (s *DeliveryService) Create(ctx context.Context, req dto.CreateDeliveryRequest) (*model.Delivery, error) {
	company, found, err := s.companyRepo.FindByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.Validationf("companyId %s does not resolve to a company", req.CompanyID)
	}

	var items []model.LineItem
	if len(req.Items) > 0 {
		if items, err = buildItems(req.Items); err != nil {
			return nil, err
		}
	}

	number, err := s.generator.Next(ctx, sequence.PrefixDelivery, repository.DeliveriesPath)
	if err != nil {
		return nil, err
	}

	delivery := &model.Delivery{
		DeliveryNo:  number,
		LPOID:       req.LPOID,
		LPONumber:   req.LPONumber,
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Items:       items,
		Date:        dateOrToday(req.Date),
		Status:      model.DeliveryStatusDelivered,
		CreatedAt:   nowRFC3339(),
	}
	id, err := s.deliveryRepo.Create(ctx, delivery)
	if err != nil {
		return nil, err
	}
	delivery.ID = id
	return delivery, nil
}

func (s *DeliveryService) Get(ctx context.Context, id string) (*model.Delivery, error) {
	delivery, found, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("delivery %s not found", id)
	}
	return delivery, nil
}

func (s *DeliveryService) List(ctx context.Context) ([]model.Delivery, error) {
	return s.deliveryRepo.List(ctx)
}

func (s *DeliveryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.deliveryRepo.Delete(ctx, id)
}
