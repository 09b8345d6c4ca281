package service

import (
	"context"
	"strings"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
)

// CompanyService manages the trading-partner register. Company names are
// snapshotted onto documents at creation time; Update never touches
// documents issued earlier.
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

func (s *CompanyService) Create(ctx context.Context, req dto.CreateCompanyRequest) (*model.Company, error) {
	company := &model.Company{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		KRAPin:        req.KRAPin,
		CreatedAt:     nowRFC3339(),
	}
	id, err := s.companyRepo.Create(ctx, company)
	if err != nil {
		return nil, err
	}
	company.ID = id
	return company, nil
}

func (s *CompanyService) Get(ctx context.Context, id string) (*model.Company, error) {
	company, found, err := s.companyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("company %s not found", id)
	}
	return company, nil
}

func (s *CompanyService) List(ctx context.Context) ([]model.Company, error) {
	return s.companyRepo.List(ctx)
}

// Update applies a shallow merge of the given fields. The id is never part
// of the stored record, so it is stripped from the partial.
func (s *CompanyService) Update(ctx context.Context, id string, partial map[string]interface{}) (*model.Company, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	delete(partial, "id")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, apierror.Validationf("no updatable fields in request body")
	}
	if err := s.companyRepo.Update(ctx, id, partial); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.companyRepo.Delete(ctx, id)
}
