// Package captcha verifies human-check tokens against an external
// verification service.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pagepulse/seo-audit/internal/seo"
)

// Verifier validates a captcha token. A nil error means the caller is
// allowed to proceed.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Config controls the HTTP verifier.
type Config struct {
	Endpoint string
	Secret   string
	Timeout  time.Duration
}

// HTTPVerifier posts tokens to a siteverify-style endpoint.
type HTTPVerifier struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds an HTTPVerifier. Without a secret the verifier allows
// everything, which keeps local development captcha-free.
func New(cfg Config, logger *zap.Logger) *HTTPVerifier {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with the verification service. Any failure
// to establish the token as valid is a CaptchaError.
func (v *HTTPVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if v.cfg.Secret == "" {
		return nil
	}
	if token == "" {
		return &seo.CaptchaError{Err: fmt.Errorf("missing captcha token")}
	}

	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.Endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return &seo.CaptchaError{Err: fmt.Errorf("build verify request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("captcha verification call failed", zap.Error(err))
		return &seo.CaptchaError{Err: fmt.Errorf("verification service unreachable: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &seo.CaptchaError{Err: fmt.Errorf("verification service returned %d", resp.StatusCode)}
	}

	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return &seo.CaptchaError{Err: fmt.Errorf("decode verification response: %w", err)}
	}
	if !payload.Success {
		v.logger.Info("captcha rejected", zap.Strings("codes", payload.ErrorCodes))
		return &seo.CaptchaError{Err: fmt.Errorf("token rejected: %s", strings.Join(payload.ErrorCodes, ", "))}
	}
	return nil
}
