package port

import (
	"context"

	"jito-speedtest/internal/domain/entity"
)

// UpdateService defines the interface for self-updating the binary.
type UpdateService interface {
	// Check compares the running version against the latest release.
	Check(ctx context.Context) (entity.UpdateStatus, error)

	// Update installs the latest release over the running binary when it is newer.
	Update(ctx context.Context) (entity.UpdateStatus, error)
}
