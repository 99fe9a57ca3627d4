package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jito-speedtest/internal/domain/entity"
	domainService "jito-speedtest/internal/domain/service"
	"jito-speedtest/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Prober = (*Prober)(nil)

const (
	// DefaultTimeout bounds a single probe from send to response.
	DefaultTimeout = 10 * time.Second

	// maxRedirects caps the redirect hops followed within one probe.
	maxRedirects = 10

	tipAccountsPath = "/api/v1/getTipAccounts"
)

// probePayload is the JSON-RPC request sent to every block engine.
var probePayload = []byte(`{"jsonrpc":"2.0","id":1,"method":"getTipAccounts","params":[]}`)

// Option customizes a Prober.
type Option func(*Prober)

// WithTimeout overrides the per-probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// Prober implements the domainService.Prober interface over fasthttp.
type Prober struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewProber creates a new block engine prober.
func NewProber(logger *zap.Logger, opts ...Option) *Prober {
	p := &Prober{
		timeout: DefaultTimeout,
		logger:  logger.Named("Prober"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = &fasthttp.Client{
		Name:        "jito-speedtest",
		ReadTimeout: p.timeout,
	}
	return p
}

// Probe posts the getTipAccounts call to endpoint and times the round trip.
// Only the HTTP status is inspected; the response body is discarded.
func (p *Prober) Probe(ctx context.Context, endpoint entity.Endpoint) entity.Outcome {
	target := endpoint.URL.String() + tipAccountsPath

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(probePayload)

	timeout := p.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		p.logger.Debug("Probe skipped, context deadline already passed", zap.String("url", target))
		return entity.NewFailureOutcome(endpoint, fasthttp.ErrTimeout.Error())
	}

	startTime := time.Now()
	requestErr := p.doFollowingRedirects(req, resp, target, startTime.Add(timeout))
	latency := time.Since(startTime)

	if requestErr != nil {
		p.logger.Debug("Probe request failed",
			zap.String("endpoint", endpoint.Name),
			zap.String("url", target),
			zap.Duration("elapsed", latency),
			zap.Error(classifyTransportError(target, timeout, requestErr)),
		)
		return entity.NewFailureOutcome(endpoint, requestErr.Error())
	}

	statusCode := resp.StatusCode()
	if statusCode < fasthttp.StatusOK || statusCode >= fasthttp.StatusMultipleChoices {
		p.logger.Debug("Probe returned non-success status",
			zap.String("endpoint", endpoint.Name),
			zap.String("url", target),
			zap.Int("statusCode", statusCode),
		)
		return entity.NewFailureOutcome(endpoint, fmt.Sprintf("HTTP %d", statusCode))
	}

	p.logger.Debug("Probe succeeded",
		zap.String("endpoint", endpoint.Name),
		zap.Duration("latency", latency),
	)
	return entity.NewSuccessOutcome(endpoint, latency)
}

// doFollowingRedirects sends req and follows up to maxRedirects redirects, all
// before deadline. 301, 302 and 303 are re-sent as a bodiless GET; 307 and 308
// keep the method and body. A redirect without Location is returned as is.
func (p *Prober) doFollowingRedirects(req *fasthttp.Request, resp *fasthttp.Response, target string, deadline time.Time) error {
	current := target
	for hops := 0; ; hops++ {
		if err := p.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}

		statusCode := resp.StatusCode()
		if !fasthttp.StatusCodeIsRedirect(statusCode) {
			return nil
		}
		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			return nil
		}
		if hops == maxRedirects {
			return fasthttp.ErrTooManyRedirects
		}

		current = resolveLocation(current, location)
		p.logger.Debug("Following redirect",
			zap.String("from", req.URI().String()),
			zap.String("to", current),
			zap.Int("statusCode", statusCode),
		)

		req.SetRequestURI(current)
		switch statusCode {
		case fasthttp.StatusMovedPermanently, fasthttp.StatusFound, fasthttp.StatusSeeOther:
			req.Header.SetMethod(fasthttp.MethodGet)
			req.Header.Del(fasthttp.HeaderContentType)
			req.ResetBody()
		}
		resp.Reset()
	}
}

// resolveLocation returns location as an absolute URL relative to base.
func resolveLocation(base string, location []byte) string {
	u := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(u)

	u.Update(base)
	u.UpdateBytes(location)
	return u.String()
}

// classifyTransportError wraps a fasthttp error with the matching application sentinel.
func classifyTransportError(target string, timeout time.Duration, err error) error {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return fmt.Errorf("%w: request to %s timed out after %v: %v", apperrors.ErrTimeout, target, timeout, err)
	}
	return fmt.Errorf("%w: request to %s failed: %v", apperrors.ErrExternalServiceFailure, target, err)
}
