package registry

import (
	dto "jito-speedtest/internal/adapter/storage/registry/dto"
	"jito-speedtest/internal/domain/entity"

	"go.uber.org/zap"
)

// mapNetworkType converts a raw DTO network type to its domain entity counterpart.
func mapNetworkType(rawType dto.NetworkTypeRaw) entity.NetworkType {
	switch rawType {
	case dto.NetworkMainnetRaw:
		return entity.NetworkMainnet
	case dto.NetworkTestnetRaw:
		return entity.NetworkTestnet
	default:
		return entity.NetworkType(rawType)
	}
}

// toDomainProfiles converts the raw endpoint table into per-network endpoint lists.
// Entries with an invalid URL are skipped.
func toDomainProfiles(doc dto.DocumentRaw, logger *zap.Logger) map[entity.NetworkType][]entity.Endpoint {
	profiles := make(map[entity.NetworkType][]entity.Endpoint, len(doc.Profiles))
	for _, rawProfile := range doc.Profiles {
		network := mapNetworkType(rawProfile.Network)
		endpoints := make([]entity.Endpoint, 0, len(rawProfile.Endpoints))
		for _, raw := range rawProfile.Endpoints {
			endpointURL, err := entity.NewEndpointURL(raw.URL)
			if err != nil {
				if logger != nil {
					logger.Warn("Skipping invalid endpoint URL during mapping",
						zap.String("rawUrl", raw.URL),
						zap.String("network", string(network)),
						zap.Error(err))
				}
				continue
			}
			endpoints = append(endpoints, entity.Endpoint{Name: raw.Name, URL: endpointURL})
		}
		profiles[network] = append(profiles[network], endpoints...)
	}
	return profiles
}
