package geo

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a query cannot be resolved to a place with
// sufficient confidence. It is a normal outcome, not a provider failure.
var ErrNotFound = errors.New("location not found")

// Place is a resolved geocoded location.
type Place struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country,omitempty"`
}

// Candidate is a single raw geocoding result. Address holds the provider's
// address breakdown keyed by field name (city, town, state, ...).
type Candidate struct {
	Lat         float64
	Lon         float64
	Importance  float64
	DisplayName string
	Address     map[string]string
}

// Geocoder abstracts the external geocoding service.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Resolver turns free-text location queries into canonical places.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Place, error)
}
