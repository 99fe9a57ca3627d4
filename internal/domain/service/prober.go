package service

import (
	"context"

	"jito-speedtest/internal/domain/entity"
)

// Prober defines the interface for measuring one endpoint.
type Prober interface {
	// Probe issues a single timed request. Transport and protocol failures
	// are reported inside the returned Outcome, never as a Go error.
	Probe(ctx context.Context, endpoint entity.Endpoint) entity.Outcome
}
