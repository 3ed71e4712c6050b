package domain

import "errors"

var ErrServiceNotFound = errors.New("service not found")

// Service is a bookable salon service from the catalog.
type Service struct {
	ID              string  `json:"id" bson:"_id,omitempty"`
	Name            string  `json:"name" bson:"name"`
	Price           float64 `json:"price" bson:"price"`
	DurationMinutes int     `json:"duration" bson:"duration"`
}
