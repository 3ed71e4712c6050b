package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// listingTTL matches the one-hour expiry the listing cache has always used.
const listingTTL = time.Hour

// ListingCache abstracts the TTL key/value store (Redis) used for service
// listings. Get reports a miss with ok=false and a nil error.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CatalogService implements the service catalog use cases. Listings read
// through the cache; mutations go straight to the store and age out of the
// cache via TTL.
type CatalogService struct {
	repo  ports.ServiceRepository
	cache ListingCache
	log   zerolog.Logger
}

func NewCatalogService(repo ports.ServiceRepository, cache ListingCache, log zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func listingKey(page, limit int) string {
	return fmt.Sprintf("services:%d:%d", page, limit)
}

// List returns one catalog page, served from the cache when possible. The
// same clamping rule as appointment listing applies: non-positive pagination
// degrades to an empty page.
func (s *CatalogService) List(ctx context.Context, page, limit int) (*ports.ServicePage, error) {
	if page <= 0 || limit <= 0 {
		return &ports.ServicePage{Items: []*domain.Service{}, Page: page, Limit: limit}, nil
	}

	key := listingKey(page, limit)
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("listing cache read failed")
	} else if ok {
		var items []*domain.Service
		if err := json.Unmarshal(raw, &items); err == nil {
			return &ports.ServicePage{Items: items, Page: page, Limit: limit, FromCache: true}, nil
		}
		s.log.Warn().Err(err).Str("key", key).Msg("listing cache entry corrupt, falling back to store")
	}

	items, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.SetWithTTL(ctx, key, raw, listingTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("listing cache write failed")
		}
	}

	return &ports.ServicePage{Items: items, Page: page, Limit: limit}, nil
}

func (s *CatalogService) Create(ctx context.Context, in ports.CreateServiceInput) (*domain.Service, error) {
	if in.Name == "" || in.Price <= 0 || in.DurationMinutes <= 0 {
		return nil, domain.NewValidationError("body", "name, price and duration are required")
	}
	created, err := s.repo.Create(ctx, &domain.Service{
		Name:            in.Name,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", created.ID).Str("name", created.Name).Msg("service created")
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in ports.ServicePatchInput) (*domain.Service, error) {
	if in.Name != nil && *in.Name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if in.Price != nil && *in.Price <= 0 {
		return nil, domain.NewValidationError("price", "must be greater than 0")
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		return nil, domain.NewValidationError("duration", "must be greater than 0")
	}

	return s.repo.UpdateByID(ctx, id, ports.ServicePatch{
		Name:            in.Name,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
	})
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("service_id", id).Msg("service deleted")
	return nil
}
