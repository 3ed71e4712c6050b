package ports

import (
	"context"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// ServicePatch carries a partial catalog update; nil fields are untouched.
type ServicePatch struct {
	Name            *string
	Price           *float64
	DurationMinutes *int
}

// ServiceRepository defines persistence operations for the service catalog.
type ServiceRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, skip, limit int) ([]*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) (*domain.Service, error)
	UpdateByID(ctx context.Context, id string, patch ServicePatch) (*domain.Service, error)
	DeleteByID(ctx context.Context, id string) error
}
