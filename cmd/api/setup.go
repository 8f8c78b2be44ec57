package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/wolfman30/interview-coach/cmd/mainconfig"
	"github.com/wolfman30/interview-coach/internal/agents"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/internal/observability/metrics"
	"github.com/wolfman30/interview-coach/internal/search"
	"github.com/wolfman30/interview-coach/internal/sessionlog"
	"github.com/wolfman30/interview-coach/internal/webchat"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

func setupMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) (http.Handler, *metrics.InterviewMetrics) {
	m := metrics.NewInterviewMetrics(reg)
	agents.RegisterMetrics(reg)
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), m
}

func crewOptions(cfg *appconfig.Config, logger *logging.Logger) []agents.CrewOption {
	if !cfg.SearchEnabled {
		logger.Info("web search disabled; claims will be reported as unverified")
		return nil
	}
	provider := search.NewDuckDuckGo(cfg.SearchBaseURL,
		search.WithLogger(logger),
		search.WithTimeout(cfg.SearchTimeout),
	)
	return []agents.CrewOption{agents.WithSearch(provider)}
}

func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool; turn ledger will not be stored", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres unreachable; turn ledger will not be stored", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

func setupSessionSinks(ctx context.Context, cfg *appconfig.Config, pool *pgxpool.Pool, hub *webchat.Hub, logger *logging.Logger) interview.SessionSink {
	sinks := []interview.SessionSink{webchat.NewStatusNotifier(hub, logger)}
	if cfg.LogFilePath != "" {
		sinks = append(sinks, sessionlog.NewFileSink(cfg.LogFilePath, cfg.TeamName, logger))
	}
	if pool != nil {
		sinks = append(sinks, sessionlog.NewPostgresSink(pool, logger))
	}
	if cfg.ArchiveBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config; archive disabled", "error", err)
		} else {
			client := mainconfig.NewS3Client(awsCfg, cfg)
			sinks = append(sinks, sessionlog.NewS3Archive(client, cfg.ArchiveBucket, cfg.TeamName, logger))
		}
	}
	return sessionlog.Multi(sinks...)
}

func setupSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (interview.Store, func(), error) {
	if cfg.SessionStore != "redis" {
		logger.Info("using in-memory session store")
		return interview.NewMemoryStore(), func() {}, nil
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, func() {}, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return interview.NewRedisStore(client, cfg.SessionTTL, nil), func() { _ = client.Close() }, nil
}
