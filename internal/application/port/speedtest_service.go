package port

import (
	"context"

	"jito-speedtest/internal/domain/entity"
)

// SpeedTestService defines the interface for measuring a network profile.
type SpeedTestService interface {
	// Run probes every endpoint of network and returns the collected outcomes.
	Run(ctx context.Context, network entity.NetworkType) (entity.RunResult, error)

	// Dispatch probes endpoints concurrently. The returned outcomes are in completion
	// order. A non-nil error lists tasks that failed and were left out; it accompanies
	// the partial result and does not invalidate it.
	Dispatch(ctx context.Context, endpoints []entity.Endpoint) ([]entity.Outcome, error)
}
