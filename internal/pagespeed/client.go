// Package pagespeed queries the external performance API for desktop
// and mobile Core Web Vitals. It is strictly best-effort: any failure
// degrades to missing data, never to a failed analysis.
package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pagepulse/seo-audit/internal/metrics"
	"github.com/pagepulse/seo-audit/internal/seo"
)

// Config controls the performance API client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client fetches performance profiles concurrently.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a Client. A zero Timeout defaults to 30s, which must stay
// below the orchestrator's overall deadline.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// apiResponse mirrors the slice of the performance API payload we use.
type apiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits struct {
			LCP struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"largest-contentful-paint"`
			INP struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"interaction-to-next-paint"`
			CLS struct {
				NumericValue float64 `json:"numericValue"`
			} `json:"cumulative-layout-shift"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Fetch runs the desktop and mobile profile calls in parallel and
// returns whatever arrived in time. Both profiles failing yields nil.
func (c *Client) Fetch(ctx context.Context, targetURL string) *seo.PageSpeedResult {
	if c.cfg.Endpoint == "" {
		return nil
	}

	var desktop, mobile *seo.ProfileResult
	g := new(errgroup.Group)
	g.Go(func() error {
		desktop = c.fetchProfile(ctx, targetURL, "desktop")
		return nil
	})
	g.Go(func() error {
		mobile = c.fetchProfile(ctx, targetURL, "mobile")
		return nil
	})
	_ = g.Wait()

	if desktop == nil && mobile == nil {
		return nil
	}
	return &seo.PageSpeedResult{Desktop: desktop, Mobile: mobile}
}

// fetchProfile performs one profile call under its own timeout and
// absorbs every failure into a nil result.
func (c *Client) fetchProfile(ctx context.Context, targetURL, strategy string) *seo.ProfileResult {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.buildRequest(callCtx, targetURL, strategy)
	if err != nil {
		c.logger.Warn("pagespeed request build failed", zap.String("strategy", strategy), zap.Error(err))
		metrics.ObservePageSpeed(strategy, "error")
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("pagespeed call failed", zap.String("strategy", strategy), zap.Error(err))
		metrics.ObservePageSpeed(strategy, "unavailable")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("pagespeed non-200", zap.String("strategy", strategy), zap.Int("status", resp.StatusCode))
		metrics.ObservePageSpeed(strategy, "unavailable")
		return nil
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("pagespeed decode failed", zap.String("strategy", strategy), zap.Error(err))
		metrics.ObservePageSpeed(strategy, "error")
		return nil
	}

	metrics.ObservePageSpeed(strategy, "ok")
	return buildProfile(payload)
}

func (c *Client) buildRequest(ctx context.Context, targetURL, strategy string) (*http.Request, error) {
	endpoint, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", targetURL)
	q.Set("strategy", strategy)
	if c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

func buildProfile(payload apiResponse) *seo.ProfileResult {
	lh := payload.LighthouseResult
	lcpSeconds := lh.Audits.LCP.NumericValue / 1000.0
	inpMs := lh.Audits.INP.NumericValue
	cls := lh.Audits.CLS.NumericValue

	return &seo.ProfileResult{
		Score: int(math.Round(lh.Categories.Performance.Score * 100)),
		CoreWebVitals: seo.CoreWebVitals{
			LCP: seo.CoreWebVitalMetric{Value: lcpSeconds, Rating: RateLCP(lcpSeconds)},
			INP: seo.CoreWebVitalMetric{Value: inpMs, Rating: RateINP(inpMs)},
			CLS: seo.CoreWebVitalMetric{Value: cls, Rating: RateCLS(cls)},
		},
	}
}

// RateLCP classifies Largest Contentful Paint in seconds.
func RateLCP(seconds float64) seo.VitalRating {
	switch {
	case seconds <= 2.5:
		return seo.RatingGood
	case seconds <= 4.0:
		return seo.RatingNeedsImprovement
	default:
		return seo.RatingPoor
	}
}

// RateINP classifies Interaction to Next Paint in milliseconds.
func RateINP(ms float64) seo.VitalRating {
	switch {
	case ms <= 200:
		return seo.RatingGood
	case ms <= 500:
		return seo.RatingNeedsImprovement
	default:
		return seo.RatingPoor
	}
}

// RateCLS classifies Cumulative Layout Shift.
func RateCLS(value float64) seo.VitalRating {
	switch {
	case value <= 0.1:
		return seo.RatingGood
	case value <= 0.25:
		return seo.RatingNeedsImprovement
	default:
		return seo.RatingPoor
	}
}
