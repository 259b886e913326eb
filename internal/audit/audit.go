// Package audit orchestrates a full page analysis: admission checks,
// the page fetch, the check registry, performance profiling, and the
// final report composition.
package audit

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pagepulse/seo-audit/internal/captcha"
	"github.com/pagepulse/seo-audit/internal/checks"
	"github.com/pagepulse/seo-audit/internal/metrics"
	"github.com/pagepulse/seo-audit/internal/quota"
	"github.com/pagepulse/seo-audit/internal/scoring"
	"github.com/pagepulse/seo-audit/internal/seo"
)

// DefaultDeadline bounds one end-to-end analysis.
const DefaultDeadline = 45 * time.Second

// PageFetcher downloads and normalizes one page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*seo.Document, error)
}

// PerformanceClient fetches Core Web Vitals profiles, best-effort.
type PerformanceClient interface {
	Fetch(ctx context.Context, targetURL string) *seo.PageSpeedResult
}

// UsageLimiter gates analyses per client and day.
type UsageLimiter interface {
	CheckAndIncrement(ctx context.Context, clientID string, now time.Time) (quota.Decision, error)
	Peek(ctx context.Context, clientID string, now time.Time) (quota.Decision, error)
}

// Request carries everything one analysis needs.
type Request struct {
	URL           string
	TargetKeyword string
	ClientID      string
	CaptchaToken  string
	RemoteIP      string
}

// Service wires the analysis pipeline together.
type Service struct {
	fetcher  PageFetcher
	registry *checks.Registry
	perf     PerformanceClient
	limiter  UsageLimiter
	verifier captcha.Verifier
	logger   *zap.Logger
	deadline time.Duration
	now      func() time.Time
}

// Option tweaks Service construction.
type Option func(*Service)

// WithDeadline overrides the overall analysis deadline.
func WithDeadline(d time.Duration) Option {
	return func(s *Service) { s.deadline = d }
}

// WithClock injects a time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the orchestrator.
func NewService(fetcher PageFetcher, registry *checks.Registry, perf PerformanceClient,
	limiter UsageLimiter, verifier captcha.Verifier, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		fetcher:  fetcher,
		registry: registry,
		perf:     perf,
		limiter:  limiter,
		verifier: verifier,
		logger:   logger,
		deadline: DefaultDeadline,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs the full pipeline for one request. Admission failures
// (input, captcha, quota, fetch) return typed errors; check panics and
// performance outages degrade inside the result instead.
func (s *Service) Analyze(ctx context.Context, req Request) (*seo.AnalysisResult, error) {
	started := s.now()

	target, err := validateURL(req.URL)
	if err != nil {
		metrics.ObserveAnalysis("invalid_input", s.now().Sub(started), 0)
		return nil, err
	}

	if err := s.verifier.Verify(ctx, req.CaptchaToken, req.RemoteIP); err != nil {
		metrics.ObserveAnalysis("captcha_rejected", s.now().Sub(started), 0)
		return nil, err
	}

	clientID := resolveClientID(req)
	decision, err := s.limiter.CheckAndIncrement(ctx, clientID, s.now())
	if err != nil {
		// A broken quota store must not take the product down.
		s.logger.Warn("quota check failed, allowing request",
			zap.String("client", clientID), zap.Error(err))
	} else if !decision.Allowed {
		metrics.ObserveAnalysis("quota_denied", s.now().Sub(started), 0)
		return nil, &seo.UsageLimitError{ClientID: clientID, ResetTime: decision.ResetTime}
	}

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	// Performance profiling runs alongside the fetch; both share the
	// overall deadline but only the profiler is allowed to miss it.
	perfCh := make(chan *seo.PageSpeedResult, 1)
	go func() {
		perfCh <- s.perf.Fetch(ctx, target.String())
	}()

	doc, err := s.fetcher.Fetch(ctx, target.String())
	if err != nil {
		metrics.ObserveAnalysis("fetch_failed", s.now().Sub(started), 0)
		return nil, err
	}

	results := s.registry.Evaluate(doc, checks.Options{
		TargetKeyword: req.TargetKeyword,
		Now:           s.now(),
	})
	categories := make(map[seo.Category]seo.CategoryResult, len(results))
	for cat, checkResults := range results {
		categories[cat] = scoring.Aggregate(checkResults)
	}

	var pageSpeed *seo.PageSpeedResult
	select {
	case pageSpeed = <-perfCh:
	case <-ctx.Done():
		s.logger.Warn("performance profile missed the deadline",
			zap.String("url", target.String()))
	}

	result := &seo.AnalysisResult{
		URL:          doc.FinalURL.String(),
		OverallScore: scoring.Overall(categories),
		Categories:   categories,
		PageSpeed:    pageSpeed,
		Summary:      scoring.Summarize(categories),
		AnalyzedAt:   s.now(),
	}

	metrics.ObserveAnalysis("ok", s.now().Sub(started), doc.BodySize)
	s.logger.Info("analysis complete",
		zap.String("url", result.URL),
		zap.Int("score", result.OverallScore),
		zap.Duration("elapsed", s.now().Sub(started)))
	return result, nil
}

// Usage reports the client's remaining allowance without consuming it.
func (s *Service) Usage(ctx context.Context, clientID, remoteIP string) (quota.Decision, error) {
	return s.limiter.Peek(ctx, resolveClientID(Request{ClientID: clientID, RemoteIP: remoteIP}), s.now())
}

// Consume spends one unit of the client's allowance and reports the
// state afterwards. A denied decision is data, not an error.
func (s *Service) Consume(ctx context.Context, clientID, remoteIP string) (quota.Decision, error) {
	return s.limiter.CheckAndIncrement(ctx, resolveClientID(Request{ClientID: clientID, RemoteIP: remoteIP}), s.now())
}

// validateURL admits absolute http(s) URLs with a host.
func validateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &seo.InputError{Field: "url", Reason: "must not be empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &seo.InputError{Field: "url", Reason: "not a valid URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &seo.InputError{Field: "url", Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return nil, &seo.InputError{Field: "url", Reason: "missing host"}
	}
	return u, nil
}

// resolveClientID keys the quota. Explicit IDs win over the remote
// address so browser and API callers share one bucket per identity.
func resolveClientID(req Request) string {
	if req.ClientID != "" {
		return req.ClientID
	}
	if req.RemoteIP != "" {
		return "ip:" + req.RemoteIP
	}
	return "anonymous"
}
