package repository

import (
	"context"

	"jito-speedtest/internal/domain/entity"
)

// EndpointRepository defines the interface for accessing endpoint profiles.
type EndpointRepository interface {
	// Endpoints returns the ordered endpoint list of the given network profile.
	Endpoints(ctx context.Context, network entity.NetworkType) ([]entity.Endpoint, error)
}
