package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pagepulse/seo-audit/internal/audit"
	"github.com/pagepulse/seo-audit/internal/config"
	"github.com/pagepulse/seo-audit/internal/quota"
	"github.com/pagepulse/seo-audit/internal/seo"
)

type fakeService struct {
	result   *seo.AnalysisResult
	err      error
	decision quota.Decision
	usageErr error
	lastReq  audit.Request
	consumed int
}

func (f *fakeService) Analyze(_ context.Context, req audit.Request) (*seo.AnalysisResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeService) Usage(_ context.Context, _, _ string) (quota.Decision, error) {
	return f.decision, f.usageErr
}

func (f *fakeService) Consume(_ context.Context, _, _ string) (quota.Decision, error) {
	f.consumed++
	return f.decision, f.usageErr
}

func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: 8080, RateLimitRPS: 100, RateLimitBurst: 100},
	}
}

func sampleResult() *seo.AnalysisResult {
	return &seo.AnalysisResult{
		URL:          "https://example.com",
		OverallScore: 72,
		Categories: map[seo.Category]seo.CategoryResult{
			seo.CategoryContentQuality: {Score: 24, MaxScore: 32},
		},
		Summary:    seo.Summary{TopPriority: seo.CategoryContentQuality, Strength: seo.CategoryContentQuality},
		AnalyzedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func postAnalyze(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpointSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeService{result: sampleResult()}
	srv := NewServer(svc, testConfig(), nil)

	rec := postAnalyze(t, srv, `{"url":"https://example.com","targetKeyword":"coffee","captchaToken":"tok"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var payload struct {
		Success  bool `json:"success"`
		Analysis struct {
			URL          string `json:"url"`
			OverallScore int    `json:"overallScore"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Success)
	require.Equal(t, "https://example.com", payload.Analysis.URL)
	require.Equal(t, 72, payload.Analysis.OverallScore)

	require.Equal(t, "coffee", svc.lastReq.TargetKeyword)
	require.Equal(t, "tok", svc.lastReq.CaptchaToken)
	require.Equal(t, "203.0.113.7", svc.lastReq.RemoteIP)
}

func TestAnalyzeEndpointRejectsBadJSON(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeService{}, testConfig(), nil)
	rec := postAnalyze(t, srv, `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"input", &seo.InputError{Field: "url", Reason: "must not be empty"}, http.StatusBadRequest},
		{"captcha", &seo.CaptchaError{Err: errors.New("rejected")}, http.StatusBadRequest},
		{"quota", &seo.UsageLimitError{ClientID: "c", ResetTime: time.Now()}, http.StatusTooManyRequests},
		{"fetch", &seo.FetchError{URL: "https://example.com", Kind: seo.FetchTimeout}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := NewServer(&fakeService{err: tt.err}, testConfig(), nil)
			rec := postAnalyze(t, srv, `{"url":"https://example.com"}`)
			require.Equal(t, tt.want, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "error")
		})
	}
}

func TestUsageLimitEndpoint(t *testing.T) {
	t.Parallel()

	decision := quota.Decision{
		Allowed:    true,
		Remaining:  3,
		TotalLimit: 5,
		ResetTime:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}
	svc := &fakeService{decision: decision}
	srv := NewServer(svc, testConfig(), nil)

	// GET peeks without spending allowance.
	req := httptest.NewRequest(http.MethodGet, "/api/usage-limit?clientId=c1", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload quota.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, payload.Allowed)
	require.Equal(t, 3, payload.Remaining)
	require.Equal(t, 5, payload.TotalLimit)
	require.Zero(t, svc.consumed)

	// POST consumes one unit.
	req = httptest.NewRequest(http.MethodPost, "/api/usage-limit",
		strings.NewReader(`{"clientId":"c1"}`))
	req.RemoteAddr = "203.0.113.7:51234"
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.consumed)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeService{}, testConfig(), nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpointServesPrometheus(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeService{}, testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIKeyGuardsAPIRoutes(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKey = "sesame"
	srv := NewServer(&fakeService{result: sampleResult()}, cfg, nil)

	rec := postAnalyze(t, srv, `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"url":"https://example.com"}`))
	req.Header.Set("X-API-Key", "sesame")
	req.RemoteAddr = "203.0.113.7:51234"
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Health stays open without a key.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RateLimitRPS = 1
	cfg.Server.RateLimitBurst = 2
	srv := NewServer(&fakeService{result: sampleResult()}, cfg, nil)

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := postAnalyze(t, srv, `{"url":"https://example.com"}`)
		statuses = append(statuses, rec.Code)
	}
	require.Equal(t, http.StatusOK, statuses[0])
	require.Equal(t, http.StatusOK, statuses[1])
	require.Equal(t, http.StatusTooManyRequests, statuses[2])
	require.Equal(t, http.StatusTooManyRequests, statuses[3])

	// A different caller gets its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"url":"https://example.com"}`))
	req.RemoteAddr = "198.51.100.9:40000"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
