package pagespeed

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"go.uber.org/zap"

	"github.com/pagepulse/seo-audit/internal/seo"
)

const testEndpoint = "https://pagespeed.test/v5/runPagespeed"

func payloadFor(score float64, lcpMs, inpMs, cls float64) string {
	return fmt.Sprintf(`{
		"lighthouseResult": {
			"categories": {"performance": {"score": %f}},
			"audits": {
				"largest-contentful-paint": {"numericValue": %f},
				"interaction-to-next-paint": {"numericValue": %f},
				"cumulative-layout-shift": {"numericValue": %f}
			}
		}
	}`, score, lcpMs, inpMs, cls)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := New(Config{Endpoint: testEndpoint, APIKey: "test-key"}, zap.NewNop())
	httpmock.ActivateNonDefault(c.client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func respondByStrategy(desktop, mobile httpmock.Responder) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("strategy") == "desktop" {
			return desktop(req)
		}
		return mobile(req)
	}
}

func TestFetchBothProfiles(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testEndpoint, respondByStrategy(
		httpmock.NewStringResponder(200, payloadFor(0.92, 2100, 150, 0.05)),
		httpmock.NewStringResponder(200, payloadFor(0.61, 3800, 450, 0.2)),
	))

	result := c.Fetch(context.Background(), "https://example.com")
	if result == nil || result.Desktop == nil || result.Mobile == nil {
		t.Fatalf("expected both profiles, got %+v", result)
	}
	if result.Desktop.Score != 92 {
		t.Errorf("desktop score = %d, want 92", result.Desktop.Score)
	}
	if got := result.Desktop.CoreWebVitals.LCP; got.Value != 2.1 || got.Rating != seo.RatingGood {
		t.Errorf("desktop LCP = %+v, want 2.1s good", got)
	}
	if got := result.Mobile.CoreWebVitals.INP; got.Rating != seo.RatingNeedsImprovement {
		t.Errorf("mobile INP rating = %s, want needs-improvement", got.Rating)
	}
	if got := result.Mobile.CoreWebVitals.CLS; got.Rating != seo.RatingNeedsImprovement {
		t.Errorf("mobile CLS rating = %s, want needs-improvement", got.Rating)
	}
}

func TestScoreRoundsToNearest(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testEndpoint, respondByStrategy(
		httpmock.NewStringResponder(200, payloadFor(0.8999, 2100, 150, 0.05)),
		httpmock.NewStringResponder(200, payloadFor(0.678, 3800, 450, 0.2)),
	))

	result := c.Fetch(context.Background(), "https://example.com")
	if result == nil || result.Desktop == nil || result.Mobile == nil {
		t.Fatalf("expected both profiles, got %+v", result)
	}
	if result.Desktop.Score != 90 {
		t.Errorf("desktop score = %d, want 90 (0.8999 rounds up)", result.Desktop.Score)
	}
	if result.Mobile.Score != 68 {
		t.Errorf("mobile score = %d, want 68", result.Mobile.Score)
	}
}

func TestFetchPartialFailure(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testEndpoint, respondByStrategy(
		httpmock.NewStringResponder(200, payloadFor(0.8, 2400, 180, 0.08)),
		httpmock.NewStringResponder(500, "upstream exploded"),
	))

	result := c.Fetch(context.Background(), "https://example.com")
	if result == nil {
		t.Fatal("one failed profile should not discard the other")
	}
	if result.Desktop == nil || result.Mobile != nil {
		t.Fatalf("expected desktop-only result, got %+v", result)
	}
}

func TestFetchTotalFailureReturnsNil(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	if result := c.Fetch(context.Background(), "https://example.com"); result != nil {
		t.Fatalf("both profiles failing should yield nil, got %+v", result)
	}
}

func TestFetchWithoutEndpoint(t *testing.T) {
	c := New(Config{}, nil)
	if result := c.Fetch(context.Background(), "https://example.com"); result != nil {
		t.Fatalf("unconfigured client should return nil, got %+v", result)
	}
}

func TestFetchMalformedPayload(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testEndpoint,
		httpmock.NewStringResponder(200, "not json"))

	if result := c.Fetch(context.Background(), "https://example.com"); result != nil {
		t.Fatalf("undecodable payloads should yield nil, got %+v", result)
	}
}

func TestVitalThresholds(t *testing.T) {
	lcpCases := []struct {
		seconds float64
		want    seo.VitalRating
	}{
		{2.4, seo.RatingGood},
		{2.5, seo.RatingGood},
		{3.0, seo.RatingNeedsImprovement},
		{4.0, seo.RatingNeedsImprovement},
		{5.0, seo.RatingPoor},
	}
	for _, tc := range lcpCases {
		if got := RateLCP(tc.seconds); got != tc.want {
			t.Errorf("RateLCP(%v) = %s, want %s", tc.seconds, got, tc.want)
		}
	}

	if got := RateINP(200); got != seo.RatingGood {
		t.Errorf("RateINP(200) = %s, want good", got)
	}
	if got := RateINP(500); got != seo.RatingNeedsImprovement {
		t.Errorf("RateINP(500) = %s, want needs-improvement", got)
	}
	if got := RateINP(501); got != seo.RatingPoor {
		t.Errorf("RateINP(501) = %s, want poor", got)
	}

	if got := RateCLS(0.1); got != seo.RatingGood {
		t.Errorf("RateCLS(0.1) = %s, want good", got)
	}
	if got := RateCLS(0.25); got != seo.RatingNeedsImprovement {
		t.Errorf("RateCLS(0.25) = %s, want needs-improvement", got)
	}
	if got := RateCLS(0.3); got != seo.RatingPoor {
		t.Errorf("RateCLS(0.3) = %s, want poor", got)
	}
}
