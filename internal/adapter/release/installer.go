package release

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"jito-speedtest/internal/domain/entity"
	domainService "jito-speedtest/internal/domain/service"
	"jito-speedtest/internal/pkg/apperrors"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/selfupdate"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Installer = (*SelfInstaller)(nil)

// applyFunc matches selfupdate.Apply.
type applyFunc func(update io.Reader, opts selfupdate.Options) error

// SelfInstaller replaces the running executable with a downloaded build.
type SelfInstaller struct {
	binName string
	apply   applyFunc
	logger  *zap.Logger
}

// NewSelfInstaller creates an installer that looks for binName inside archives.
func NewSelfInstaller(binName string, logger *zap.Logger) *SelfInstaller {
	return &SelfInstaller{
		binName: binName,
		apply:   selfupdate.Apply,
		logger:  logger.Named("SelfInstaller"),
	}
}

// Install unpacks the asset if needed and swaps the running binary.
func (i *SelfInstaller) Install(ctx context.Context, asset entity.ReleaseAsset, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: install of %s cancelled: %v", apperrors.ErrTimeout, asset.Name, err)
	}

	binary, err := extractBinary(asset.Name, i.binName, content)
	if err != nil {
		return err
	}

	i.logger.Debug("Applying update", zap.String("asset", asset.Name))
	if err := i.apply(binary, selfupdate.Options{}); err != nil {
		if rerr := selfupdate.RollbackError(err); rerr != nil {
			i.logger.Error("Failed to roll back after a failed update", zap.Error(rerr))
			return fmt.Errorf("%w: update failed and rollback failed: %v (rollback: %v)", apperrors.ErrInternal, err, rerr)
		}
		return fmt.Errorf("%w: failed to apply update: %v", apperrors.ErrInternal, err)
	}
	return nil
}

// extractBinary returns the executable contained in a release asset.
// Plain (non-archive) assets are returned as is.
func extractBinary(assetName, binName string, content io.Reader) (io.Reader, error) {
	lower := strings.ToLower(assetName)

	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gz, err := gzip.NewReader(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a valid gzip stream: %v", apperrors.ErrInvalidInput, assetName, err)
		}
		tr := tar.NewReader(gz)
		for {
			hdr, err := tr.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrInvalidInput, assetName, err)
			}
			if hdr.Typeflag == tar.TypeReg && isBinaryName(hdr.Name, binName) {
				return tr, nil
			}
		}

	case strings.HasSuffix(lower, ".zip"):
		data, err := io.ReadAll(content)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", apperrors.ErrExternalServiceFailure, assetName, err)
		}
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a valid zip archive: %v", apperrors.ErrInvalidInput, assetName, err)
		}
		for _, f := range zr.File {
			if f.FileInfo().IsDir() || !isBinaryName(f.Name, binName) {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: failed to open %s in %s: %v", apperrors.ErrInvalidInput, f.Name, assetName, err)
			}
			defer rc.Close()
			binary, err := io.ReadAll(rc)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to read %s in %s: %v", apperrors.ErrInvalidInput, f.Name, assetName, err)
			}
			return bytes.NewReader(binary), nil
		}

	case strings.HasSuffix(lower, ".gz"):
		gz, err := gzip.NewReader(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a valid gzip stream: %v", apperrors.ErrInvalidInput, assetName, err)
		}
		return gz, nil

	default:
		return content, nil
	}

	return nil, fmt.Errorf("%w: %s not found in %s", apperrors.ErrNotFound, binName, assetName)
}

func isBinaryName(name, binName string) bool {
	base := path.Base(name)
	return base == binName || base == binName+".exe"
}
