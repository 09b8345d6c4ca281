package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"tradeledger/internal/apierror"
	"tradeledger/internal/dto"
	"tradeledger/internal/model"
	"tradeledger/internal/repository"
)

const (
	productCacheKey = "cache:products"
	productCacheTTL = 5 * time.Minute
)

// ProductService manages the catalog. The full product list is served
// through a Redis read-through cache — the catalog is read on every
// document-creation screen but changes rarely. Any mutation drops the
// cached list. A nil Redis client disables caching entirely.
type ProductService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, rdb: rdb}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	product := &model.Product{
		Name:         strings.TrimSpace(req.Name),
		Unit:         strings.TrimSpace(req.Unit),
		UnitPrice:    req.UnitPrice,
		VATInclusive: req.VATInclusive,
		CreatedAt:    nowRFC3339(),
	}
	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id
	s.invalidateCache(ctx)
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, found, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierror.NotFoundf("product %s not found", id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, productCacheKey).Result()
		if err == nil {
			var products []model.Product
			if jErr := json.Unmarshal([]byte(cached), &products); jErr == nil {
				return products, nil
			}
			// Corrupt entry: fall through to the store and overwrite it.
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("product cache read failed, falling back to store")
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, jErr := json.Marshal(products); jErr == nil {
			if cErr := s.rdb.Set(ctx, productCacheKey, data, productCacheTTL).Err(); cErr != nil {
				log.Warn().Err(cErr).Msg("product cache write failed")
			}
		}
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id string, partial map[string]interface{}) (*model.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	delete(partial, "id")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, apierror.Validationf("no updatable fields in request body")
	}
	if err := s.productRepo.Update(ctx, id, partial); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
