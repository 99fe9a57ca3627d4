package application

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"jito-speedtest/internal/application/port"
	"jito-speedtest/internal/domain"
	"jito-speedtest/internal/domain/entity"
	domainRepo "jito-speedtest/internal/domain/repository"
	domainService "jito-speedtest/internal/domain/service"
	"jito-speedtest/internal/pkg/apperrors"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// Compile-time check to ensure updateService implements UpdateService
var _ port.UpdateService = (*updateService)(nil)

// Platform identifies the build target an asset must match.
type Platform struct {
	OS   string
	Arch string
}

// CurrentPlatform returns the platform of the running binary.
func CurrentPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

var (
	osAliases = map[string][]string{
		"darwin":  {"darwin", "apple", "macos"},
		"linux":   {"linux"},
		"windows": {"windows"},
	}
	archAliases = map[string][]string{
		"amd64": {"amd64", "x86_64", "x64"},
		"arm64": {"arm64", "aarch64"},
		"386":   {"386", "i386", "i686"},
	}
	// Checksums and signatures published next to the builds.
	sidecarSuffixes = []string{".sha256", ".sha256sum", ".sig", ".asc", ".txt", ".sbom", ".json"}
)

// updateService implements the port.UpdateService interface.
type updateService struct {
	releaseRepo    domainRepo.ReleaseRepository
	installer      domainService.Installer
	currentVersion string
	binName        string
	platform       Platform
	logger         *zap.Logger
}

// NewUpdateService creates a new instance of the update service.
func NewUpdateService(
	releaseRepo domainRepo.ReleaseRepository,
	installer domainService.Installer,
	currentVersion string,
	binName string,
	platform Platform,
	logger *zap.Logger,
) port.UpdateService {
	return &updateService{
		releaseRepo:    releaseRepo,
		installer:      installer,
		currentVersion: currentVersion,
		binName:        binName,
		platform:       platform,
		logger:         logger.Named("UpdateService"),
	}
}

// Check compares the running version with the latest release.
func (s *updateService) Check(ctx context.Context) (entity.UpdateStatus, error) {
	release, err := s.releaseRepo.LatestRelease(ctx)
	if err != nil {
		return entity.UpdateStatus{}, fmt.Errorf("failed to look up latest release: %w", err)
	}

	status := entity.UpdateStatus{
		CurrentVersion: strings.TrimPrefix(s.currentVersion, "v"),
		LatestVersion:  release.Version(),
	}

	if !isNewer(release.Tag, s.currentVersion) {
		s.logger.Debug("Already up to date",
			zap.String("current", s.currentVersion), zap.String("latest", release.Tag),
		)
		status.UpToDate = true
		return status, nil
	}

	asset, ok := selectAsset(release.Assets, s.binName, s.platform)
	if !ok {
		return status, fmt.Errorf("%w: %w: %s/%s in release %s",
			apperrors.ErrNotFound, domain.ErrNoMatchingAsset, s.platform.OS, s.platform.Arch, release.Tag,
		)
	}
	status.Asset = asset

	s.logger.Debug("Newer release available",
		zap.String("current", s.currentVersion),
		zap.String("latest", release.Tag),
		zap.String("asset", asset.Name),
	)
	return status, nil
}

// Update downloads and installs the latest release if it is newer.
func (s *updateService) Update(ctx context.Context) (entity.UpdateStatus, error) {
	status, err := s.Check(ctx)
	if err != nil || status.UpToDate {
		return status, err
	}

	content, err := s.releaseRepo.DownloadAsset(ctx, status.Asset)
	if err != nil {
		return status, fmt.Errorf("failed to download %s: %w", status.Asset.Name, err)
	}
	defer content.Close()

	if err := s.installer.Install(ctx, status.Asset, content); err != nil {
		return status, fmt.Errorf("failed to install %s: %w", status.Asset.Name, err)
	}

	s.logger.Info("Update installed", zap.String("version", status.LatestVersion))
	status.Installed = true
	return status, nil
}

// isNewer reports whether latest is a higher version than current.
// A current version that is not semver (a dev build) is always considered older.
func isNewer(latest, current string) bool {
	l, c := canonicalVersion(latest), canonicalVersion(current)
	if !semver.IsValid(l) {
		return false
	}
	if !semver.IsValid(c) {
		return true
	}
	return semver.Compare(l, c) > 0
}

func canonicalVersion(v string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// selectAsset picks the build for platform, preferring names that carry binName.
func selectAsset(assets []entity.ReleaseAsset, binName string, platform Platform) (entity.ReleaseAsset, bool) {
	var fallback *entity.ReleaseAsset
	for i := range assets {
		name := strings.ToLower(assets[i].Name)
		if isSidecar(name) ||
			!containsAny(name, aliasesOf(osAliases, platform.OS)) ||
			!containsAny(name, aliasesOf(archAliases, platform.Arch)) {
			continue
		}
		if strings.Contains(name, strings.ToLower(binName)) {
			return assets[i], true
		}
		if fallback == nil {
			fallback = &assets[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return entity.ReleaseAsset{}, false
}

func aliasesOf(table map[string][]string, key string) []string {
	if aliases, ok := table[key]; ok {
		return aliases
	}
	return []string{key}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isSidecar(name string) bool {
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
