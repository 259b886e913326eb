// Package main wires together the audit service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pagepulse/seo-audit/internal/api"
	"github.com/pagepulse/seo-audit/internal/audit"
	"github.com/pagepulse/seo-audit/internal/captcha"
	"github.com/pagepulse/seo-audit/internal/checks"
	"github.com/pagepulse/seo-audit/internal/config"
	"github.com/pagepulse/seo-audit/internal/fetcher"
	"github.com/pagepulse/seo-audit/internal/logging"
	"github.com/pagepulse/seo-audit/internal/metrics"
	"github.com/pagepulse/seo-audit/internal/pagespeed"
	"github.com/pagepulse/seo-audit/internal/quota"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	counter, cleanup, err := buildQuotaCounter(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("quota backend init failed", zap.Error(err))
	}
	defer cleanup()

	pageFetcher := fetcher.New(fetcher.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		MaxRedirects: cfg.Fetch.MaxRedirects,
		MaxBodyBytes: cfg.Fetch.MaxBodyKB * 1024,
	})
	perfClient := pagespeed.New(pagespeed.Config{
		Endpoint: cfg.PageSpeed.Endpoint,
		APIKey:   cfg.PageSpeed.APIKey,
		Timeout:  cfg.PageSpeedTimeout(),
	}, logger.Named("pagespeed"))
	verifier := captcha.New(captcha.Config{
		Endpoint: cfg.Captcha.Endpoint,
		Secret:   cfg.Captcha.Secret,
		Timeout:  cfg.CaptchaTimeout(),
	}, logger.Named("captcha"))
	limiter := quota.NewLimiter(counter, cfg.Quota.DailyLimit)

	svc := audit.NewService(
		pageFetcher,
		checks.NewRegistry(),
		perfClient,
		limiter,
		verifier,
		logger.Named("audit"),
		audit.WithDeadline(cfg.AnalysisDeadline()),
	)
	apiServer := api.NewServer(svc, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// buildQuotaCounter selects the configured quota backend and returns a
// cleanup for whatever resources it holds.
func buildQuotaCounter(ctx context.Context, cfg config.Config, logger *zap.Logger) (quota.Counter, func(), error) {
	switch cfg.Quota.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Quota.RedisAddr,
			Password: cfg.Quota.RedisPassword,
			DB:       cfg.Quota.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("quota backend ready", zap.String("backend", "redis"))
		return quota.NewRedisCounter(client), func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", zap.Error(err))
			}
		}, nil
	case "postgres":
		counter, err := quota.NewPostgresCounter(ctx, cfg.Quota.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("quota backend ready", zap.String("backend", "postgres"))
		return counter, counter.Close, nil
	default:
		logger.Info("quota backend ready", zap.String("backend", "memory"))
		return quota.NewMemoryCounter(), func() {}, nil
	}
}
