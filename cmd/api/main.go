package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wolfman30/interview-coach/cmd/mainconfig"
	"github.com/wolfman30/interview-coach/internal/agents"
	"github.com/wolfman30/interview-coach/internal/api/router"
	appconfig "github.com/wolfman30/interview-coach/internal/config"
	"github.com/wolfman30/interview-coach/internal/interview"
	"github.com/wolfman30/interview-coach/internal/webchat"
	"github.com/wolfman30/interview-coach/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting interview-coach API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"session_store", cfg.SessionStore,
	)
	if errs := cfg.Validate(); len(errs) > 0 {
		logger.Error("invalid configuration", "error", errors.Join(errs...))
		os.Exit(1)
	}

	ctx := context.Background()

	metricsHandler, interviewMetrics := setupMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

	llmClient, closeLLM, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()

	crew := agents.NewCrew(llmClient, agents.CrewConfig{
		Model:                cfg.BedrockModelID,
		Temperature:          cfg.LLMTemperature,
		MaxTokens:            cfg.LLMMaxTokens,
		Timeout:              cfg.LLMTimeout,
		MaxQuestionsPerTopic: cfg.MaxQuestionsPerTopic,
	}, logger, crewOptions(cfg, logger)...)

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}

	hub := webchat.NewHub()
	sink := setupSessionSinks(ctx, cfg, pool, hub, logger)

	engine := interview.NewEngine(crew, logger,
		interview.WithMetrics(interviewMetrics),
		interview.WithSessionSink(sink),
		interview.WithQuestionLimit(cfg.TotalQuestionsLimit),
	)

	store, closeStore, err := setupSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	manager := interview.NewManager(engine, store, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		InterviewHandler:   interview.NewHandler(manager, logger),
		WebChatHandler:     webchat.NewHandler(manager, hub, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// A turn makes several sequential LLM calls, so the write timeout has to
	// cover all of them.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 8*cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
