package ports

import (
	"context"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// CreateServiceInput carries the data for a new catalog entry.
type CreateServiceInput struct {
	Name            string
	Price           float64
	DurationMinutes int
}

// ServicePatchInput is the transport-level partial catalog update.
type ServicePatchInput struct {
	Name            *string
	Price           *float64
	DurationMinutes *int
}

// ServicePage is one page of the catalog listing.
type ServicePage struct {
	Items     []*domain.Service
	Page      int
	Limit     int
	FromCache bool
}

// CatalogService defines the service catalog use cases. Listings are served
// through a TTL cache keyed by pagination parameters; mutations go straight
// to the store.
type CatalogService interface {
	List(ctx context.Context, page, limit int) (*ServicePage, error)
	Create(ctx context.Context, in CreateServiceInput) (*domain.Service, error)
	Update(ctx context.Context, id string, patch ServicePatchInput) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}
