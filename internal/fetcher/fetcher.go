// Package fetcher retrieves a target page and normalizes it into the
// document model the check registry evaluates.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/pagepulse/seo-audit/internal/seo"
)

// Config controls fetch behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int
}

// Fetcher fetches pages through a Colly collector.
type Fetcher struct {
	cfg       Config
	transport http.RoundTripper
}

var errTooManyRedirects = errors.New("too many redirects")

// New builds a Fetcher with pooled transport defaults.
func New(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagepulse-audit/1.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 5
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 10 * 1024 * 1024
	}
	return &Fetcher{cfg: cfg, transport: newHTTPTransport()}
}

// Fetch retrieves url and returns the normalized document. Every
// terminal failure is reported as a seo.FetchError; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*seo.Document, error) {
	var (
		body      []byte
		headers   http.Header
		finalURL  string
		status    int
		fetchErr  error
		gotStatus int
	)
	start := time.Now()

	collector := f.buildCollector()
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
		headers = r.Headers.Clone()
		finalURL = r.Request.URL.String()
		status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
		if r != nil {
			gotStatus = r.StatusCode
		}
	})

	if err := f.runCollector(ctx, collector, rawURL); err != nil {
		return nil, f.classify(rawURL, err, gotStatus)
	}
	if fetchErr != nil {
		return nil, f.classify(rawURL, fetchErr, gotStatus)
	}

	contentType := headers.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, &seo.FetchError{URL: rawURL, Kind: seo.FetchNonHTML,
			Err: fmt.Errorf("content type %q", contentType)}
	}

	doc, err := Normalize(rawURL, finalURL, status, contentType, body)
	if err != nil {
		return nil, &seo.FetchError{URL: rawURL, Kind: seo.FetchUnreachable, Err: err}
	}
	doc.FetchTime = time.Since(start)
	return doc, nil
}

func (f *Fetcher) buildCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxBodySize(f.cfg.MaxBodyBytes),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(f.cfg.Timeout)
	c.WithTransport(f.transport)
	maxRedirects := f.cfg.MaxRedirects
	c.SetRedirectHandler(func(_ *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errTooManyRedirects
		}
		return nil
	})
	return c
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visit failed: %w", err)
		}
		return nil
	}
}

func (f *Fetcher) classify(url string, err error, status int) error {
	kind := seo.FetchUnreachable
	switch {
	case errors.Is(err, errTooManyRedirects):
		kind = seo.FetchTooManyRedirects
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		kind = seo.FetchTimeout
	case status >= 400 || (status >= 300 && status < 400):
		kind = seo.FetchBadStatus
	}
	return &seo.FetchError{URL: url, Kind: kind, Err: err}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
