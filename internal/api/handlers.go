package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/pagepulse/seo-audit/internal/audit"
	"github.com/pagepulse/seo-audit/internal/quota"
	"github.com/pagepulse/seo-audit/internal/seo"
)

// AnalysisService is the pipeline surface the handlers need.
type AnalysisService interface {
	Analyze(ctx context.Context, req audit.Request) (*seo.AnalysisResult, error)
	Usage(ctx context.Context, clientID, remoteIP string) (quota.Decision, error)
	Consume(ctx context.Context, clientID, remoteIP string) (quota.Decision, error)
}

type analyzeRequest struct {
	URL           string `json:"url"`
	TargetKeyword string `json:"targetKeyword"`
	ClientID      string `json:"clientId"`
	CaptchaToken  string `json:"captchaToken"`
}

type usageLimitRequest struct {
	ClientID string `json:"clientId"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := s.svc.Analyze(r.Context(), audit.Request{
		URL:           req.URL,
		TargetKeyword: req.TargetKeyword,
		ClientID:      req.ClientID,
		CaptchaToken:  req.CaptchaToken,
		RemoteIP:      clientIP(r),
	})
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": result,
	})
}

// usageLimitPeek reports the allowance without spending any of it.
func (s *Server) usageLimitPeek(w http.ResponseWriter, r *http.Request) {
	decision, err := s.svc.Usage(r.Context(), r.URL.Query().Get("clientId"), clientIP(r))
	if err != nil {
		s.logger.Error("usage lookup failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "usage lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, decision)
}

// usageLimitConsume spends one unit and returns the updated allowance.
func (s *Server) usageLimitConsume(w http.ResponseWriter, r *http.Request) {
	var req usageLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = usageLimitRequest{}
	}

	decision, err := s.svc.Consume(r.Context(), req.ClientID, clientIP(r))
	if err != nil {
		s.logger.Error("usage update failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "usage update failed")
		return
	}
	s.writeJSON(w, http.StatusOK, decision)
}

// writeAnalysisError maps the pipeline's error taxonomy onto HTTP
// statuses. Anything untyped is a 500 with a generic message.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var inputErr *seo.InputError
	if errors.As(err, &inputErr) {
		s.writeError(w, http.StatusBadRequest, inputErr.Error())
		return
	}
	var captchaErr *seo.CaptchaError
	if errors.As(err, &captchaErr) {
		s.writeError(w, http.StatusBadRequest, captchaErr.Error())
		return
	}
	var limitErr *seo.UsageLimitError
	if errors.As(err, &limitErr) {
		s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":     limitErr.Error(),
			"resetTime": limitErr.ResetTime,
		})
		return
	}
	var fetchErr *seo.FetchError
	if errors.As(err, &fetchErr) {
		s.writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": fetchErr.Error(),
			"kind":  string(fetchErr.Kind),
		})
		return
	}
	s.logger.Error("analysis failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "analysis failed")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
