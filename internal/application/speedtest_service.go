package application

import (
	"context"
	"fmt"
	"sync"

	"jito-speedtest/internal/application/port"
	"jito-speedtest/internal/domain"
	"jito-speedtest/internal/domain/entity"
	domainRepo "jito-speedtest/internal/domain/repository"
	domainService "jito-speedtest/internal/domain/service"
	"jito-speedtest/internal/pkg/apperrors"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Compile-time check to ensure speedTestService implements SpeedTestService
var _ port.SpeedTestService = (*speedTestService)(nil)

// speedTestService implements the port.SpeedTestService interface.
type speedTestService struct {
	endpointRepo domainRepo.EndpointRepository
	prober       domainService.Prober
	logger       *zap.Logger
}

// NewSpeedTestService creates a new instance of the speed test service.
func NewSpeedTestService(
	endpointRepo domainRepo.EndpointRepository,
	prober domainService.Prober,
	logger *zap.Logger,
) port.SpeedTestService {
	return &speedTestService{
		endpointRepo: endpointRepo,
		prober:       prober,
		logger:       logger.Named("SpeedTestService"),
	}
}

// Run loads the endpoint profile of network and probes all of it.
func (s *speedTestService) Run(ctx context.Context, network entity.NetworkType) (entity.RunResult, error) {
	endpoints, err := s.endpointRepo.Endpoints(ctx, network)
	if err != nil {
		return entity.RunResult{}, fmt.Errorf("%w: failed to load %s endpoints: %w", apperrors.ErrInternal, network, err)
	}

	s.logger.Info("Starting speed test",
		zap.String("network", string(network)), zap.Int("endpointCount", len(endpoints)),
	)

	outcomes, taskErr := s.Dispatch(ctx, endpoints)
	omitted := len(multierr.Errors(taskErr))

	if len(outcomes) == 0 && omitted > 0 {
		return entity.RunResult{Network: network, Omitted: omitted},
			fmt.Errorf("%w: %w: %v", apperrors.ErrInternal, domain.ErrNoOutcomes, taskErr)
	}
	if omitted > 0 {
		s.logger.Warn("Speed test finished with omitted endpoints",
			zap.Int("omitted", omitted), zap.Int("collected", len(outcomes)), zap.Error(taskErr),
		)
	}

	s.logger.Info("Speed test finished",
		zap.String("network", string(network)), zap.Int("collected", len(outcomes)),
	)
	return entity.RunResult{Network: network, Outcomes: outcomes, Omitted: omitted}, nil
}

// taskResult carries what one probe goroutine produced.
type taskResult struct {
	outcome entity.Outcome
	err     error
}

// Dispatch starts one goroutine per endpoint and waits for all of them.
func (s *speedTestService) Dispatch(ctx context.Context, endpoints []entity.Endpoint) ([]entity.Outcome, error) {
	if len(endpoints) == 0 {
		return nil, nil
	}

	results := make(chan taskResult, len(endpoints))
	var wg sync.WaitGroup

	for _, endpoint := range endpoints {
		wg.Add(1)
		go func(ep entity.Endpoint) {
			defer wg.Done()
			defer s.recoverTask(ep, results)

			results <- taskResult{outcome: s.prober.Probe(ctx, ep)}
		}(endpoint)
	}

	wg.Wait()
	close(results)

	outcomes := make([]entity.Outcome, 0, len(endpoints))
	var taskErrs error
	for result := range results {
		if result.err != nil {
			taskErrs = multierr.Append(taskErrs, result.err)
			continue
		}
		outcomes = append(outcomes, result.outcome)
	}

	return outcomes, taskErrs
}

// recoverTask turns a panicking probe into a dropped result.
func (s *speedTestService) recoverTask(ep entity.Endpoint, results chan<- taskResult) {
	if r := recover(); r != nil {
		s.logger.Error("Probe task failed, endpoint omitted from report",
			zap.String("endpoint", ep.Name),
			zap.String("url", ep.URL.String()),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
		results <- taskResult{
			err: fmt.Errorf("%w: probe of %s (%s): %v", apperrors.ErrTaskFailed, ep.Name, ep.URL, r),
		}
	}
}
