package repository

import (
	"context"
	"io"

	"jito-speedtest/internal/domain/entity"
)

// ReleaseRepository defines the interface for reading published builds.
type ReleaseRepository interface {
	// LatestRelease retrieves the newest published release.
	LatestRelease(ctx context.Context) (entity.Release, error)

	// DownloadAsset streams the content of a release asset.
	DownloadAsset(ctx context.Context, asset entity.ReleaseAsset) (io.ReadCloser, error)
}
