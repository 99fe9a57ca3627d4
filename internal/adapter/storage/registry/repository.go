package registry

import (
	"context"
	_ "embed"
	"fmt"
	"slices"

	dto "jito-speedtest/internal/adapter/storage/registry/dto"
	"jito-speedtest/internal/domain"
	"jito-speedtest/internal/domain/entity"
	domainRepo "jito-speedtest/internal/domain/repository"
	"jito-speedtest/internal/pkg/apperrors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed endpoints.yaml
var endpointTable []byte

// Compile-time check
var _ domainRepo.EndpointRepository = (*Repository)(nil)

// Repository implements EndpointRepository over the endpoint table compiled into the binary.
type Repository struct {
	profiles map[entity.NetworkType][]entity.Endpoint
	logger   *zap.Logger
}

// NewRepository decodes the built-in endpoint table.
func NewRepository(logger *zap.Logger) (*Repository, error) {
	return newRepository(endpointTable, logger)
}

func newRepository(data []byte, logger *zap.Logger) (*Repository, error) {
	logger = logger.Named("EndpointRegistry")

	var doc dto.DocumentRaw
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse endpoint table: %v", apperrors.ErrInternal, err)
	}

	profiles := toDomainProfiles(doc, logger)
	logger.Debug("Endpoint table loaded",
		zap.Int("mainnet", len(profiles[entity.NetworkMainnet])),
		zap.Int("testnet", len(profiles[entity.NetworkTestnet])),
	)

	return &Repository{profiles: profiles, logger: logger}, nil
}

// Endpoints returns a fresh copy of the endpoint list for network, in table order.
func (r *Repository) Endpoints(_ context.Context, network entity.NetworkType) ([]entity.Endpoint, error) {
	endpoints, ok := r.profiles[network]
	if !ok {
		r.logger.Warn("Requested unknown network profile", zap.String("network", string(network)))
		return nil, fmt.Errorf("%w: %w '%s'", apperrors.ErrInvalidInput, domain.ErrUnknownNetwork, network)
	}
	return slices.Clone(endpoints), nil
}
