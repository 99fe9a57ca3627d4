package service

import (
	"context"
	"io"

	"jito-speedtest/internal/domain/entity"
)

// Installer replaces the running binary with the content of a release asset.
type Installer interface {
	Install(ctx context.Context, asset entity.ReleaseAsset, content io.Reader) error
}
