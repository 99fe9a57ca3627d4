package release

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"jito-speedtest/internal/config"
	"jito-speedtest/internal/domain/entity"
	domainRepo "jito-speedtest/internal/domain/repository"
	"jito-speedtest/internal/pkg/apperrors"

	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.ReleaseRepository = (*GitHubRepository)(nil)

const (
	latestReleaseKeyPrefix = "latest_release_"
	maxDownloadRedirects   = 10
)

// githubReleaseRaw is the subset of the GitHub release payload we read.
type githubReleaseRaw struct {
	TagName    string           `json:"tag_name"`
	Draft      bool             `json:"draft"`
	Prerelease bool             `json:"prerelease"`
	Assets     []githubAssetRaw `json:"assets"`
}

type githubAssetRaw struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// GitHubRepository implements ReleaseRepository over the GitHub releases API.
// Latest-release lookups are memoized in memory for the configured TTL.
type GitHubRepository struct {
	client   *fasthttp.Client
	cache    *cache.Cache
	cacheTTL time.Duration
	apiURL   string
	owner    string
	repo     string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewGitHubRepository creates a new GitHub release repository instance.
func NewGitHubRepository(cfg config.UpdateConfig, logger *zap.Logger) *GitHubRepository {
	timeout := cfg.GetTimeout()
	cacheTTL := cfg.GetCacheTTL()

	return &GitHubRepository{
		client: &fasthttp.Client{
			Name:         cfg.BinName,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		cache:    cache.New(cacheTTL, 2*cacheTTL),
		cacheTTL: cacheTTL,
		apiURL:   strings.TrimSuffix(cfg.APIURL, "/"),
		owner:    cfg.RepoOwner,
		repo:     cfg.RepoName,
		timeout:  timeout,
		logger:   logger.Named("GitHubReleases"),
	}
}

// LatestRelease fetches the newest published release, serving repeated lookups from cache.
func (r *GitHubRepository) LatestRelease(ctx context.Context) (entity.Release, error) {
	key := latestReleaseKeyPrefix + r.owner + "/" + r.repo
	if x, found := r.cache.Get(key); found {
		if release, ok := x.(entity.Release); ok {
			r.logger.Debug("Release cache hit", zap.String("key", key))
			return release, nil
		}
		r.logger.Warn("Release cache data type mismatch for key",
			zap.String("key", key), zap.String("type", fmt.Sprintf("%T", x)),
		)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", r.apiURL, r.owner, r.repo)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/vnd.github+json")

	timeout := r.requestTimeout(ctx)
	r.logger.Debug("Fetching latest release", zap.String("url", url), zap.Duration("timeout", timeout))

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		return entity.Release{}, fmt.Errorf("%w: failed to query latest release: %v",
			apperrors.ErrExternalServiceFailure, err,
		)
	}

	if resp.StatusCode() == fasthttp.StatusNotFound {
		return entity.Release{}, fmt.Errorf("%w: no published release for %s/%s",
			apperrors.ErrNotFound, r.owner, r.repo,
		)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Warn("Release API returned non-OK status",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return entity.Release{}, fmt.Errorf("%w: release API returned status %d",
			apperrors.ErrExternalServiceFailure, resp.StatusCode(),
		)
	}

	var raw githubReleaseRaw
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return entity.Release{}, fmt.Errorf("%w: failed to parse release payload: %v",
			apperrors.ErrExternalServiceFailure, err,
		)
	}
	if raw.TagName == "" {
		return entity.Release{}, fmt.Errorf("%w: release payload has no tag", apperrors.ErrExternalServiceFailure)
	}

	release := toDomainRelease(raw)
	r.cache.Set(key, release, r.cacheTTL)
	r.logger.Debug("Latest release fetched",
		zap.String("tag", release.Tag), zap.Int("assets", len(release.Assets)),
	)

	return release, nil
}

// DownloadAsset downloads the asset, following redirects to the storage host.
func (r *GitHubRepository) DownloadAsset(ctx context.Context, asset entity.ReleaseAsset) (io.ReadCloser, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: download of %s cancelled: %v", apperrors.ErrTimeout, asset.Name, ctx.Err())
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(asset.DownloadURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/octet-stream")

	r.logger.Debug("Downloading release asset",
		zap.String("asset", asset.Name), zap.String("url", asset.DownloadURL),
	)

	if err := r.client.DoRedirects(req, resp, maxDownloadRedirects); err != nil {
		return nil, fmt.Errorf("%w: failed to download %s: %v", apperrors.ErrExternalServiceFailure, asset.Name, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: download of %s returned status %d",
			apperrors.ErrExternalServiceFailure, asset.Name, resp.StatusCode(),
		)
	}

	body := append([]byte(nil), resp.Body()...)
	r.logger.Debug("Release asset downloaded", zap.String("asset", asset.Name), zap.Int("bytes", len(body)))

	return io.NopCloser(bytes.NewReader(body)), nil
}

func (r *GitHubRepository) requestTimeout(ctx context.Context) time.Duration {
	timeout := r.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// toDomainRelease converts the GitHub payload to a domain release.
func toDomainRelease(raw githubReleaseRaw) entity.Release {
	assets := make([]entity.ReleaseAsset, 0, len(raw.Assets))
	for _, a := range raw.Assets {
		if a.BrowserDownloadURL == "" {
			continue
		}
		assets = append(assets, entity.ReleaseAsset{
			Name:        a.Name,
			DownloadURL: a.BrowserDownloadURL,
			Size:        a.Size,
		})
	}
	return entity.Release{Tag: raw.TagName, Assets: assets}
}
