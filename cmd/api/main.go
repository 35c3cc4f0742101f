package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/saylanihealth/sehat-ai/cmd/mainconfig"
	"github.com/saylanihealth/sehat-ai/internal/api/router"
	"github.com/saylanihealth/sehat-ai/internal/channels/whatsapp"
	appconfig "github.com/saylanihealth/sehat-ai/internal/config"
	"github.com/saylanihealth/sehat-ai/internal/directory"
	"github.com/saylanihealth/sehat-ai/internal/observability/metrics"
	"github.com/saylanihealth/sehat-ai/internal/prefs"
	"github.com/saylanihealth/sehat-ai/internal/session"
	"github.com/saylanihealth/sehat-ai/internal/speech"
	"github.com/saylanihealth/sehat-ai/internal/triage"
	"github.com/saylanihealth/sehat-ai/internal/webhook"
	"github.com/saylanihealth/sehat-ai/pkg/logging"
)

func main() {
	// Production containers set environment variables directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sehat-ai triage server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	llm := buildLLMClient(ctx, cfg, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	triageMetrics := metrics.NewTriageMetrics(reg)

	dir := directory.NewStore(db)
	sessions := session.NewStore(rdb, logger, cfg.ContextTTL, cfg.MaxChatHistory)
	prefStore := prefs.NewStore(rdb, logger)

	extractor := triage.NewFieldExtractor(llm, logger, triageMetrics)
	matcher := triage.NewMatcher(dir, logger, triageMetrics, cfg.MaxBranches, cfg.SearchRadiusKm)
	formatter := triage.NewFormatter(cfg.HelplineNumber, cfg.EmergencyNumber)
	responder := triage.NewResponder(llm, logger)
	engine := triage.NewEngine(extractor, matcher, formatter, responder, logger)

	waClient := whatsapp.NewClient(cfg.WhatsAppAPIBase, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken)

	var transcriber speech.Transcriber
	var synthesizer speech.Synthesizer
	if cfg.GoogleSpeechAPIKey != "" {
		speechClient := speech.NewGoogleClient(cfg.GoogleSpeechAPIKey)
		transcriber = speechClient
		synthesizer = speechClient
	} else {
		logger.Warn("no Google Speech API key configured; voice messages will be rejected")
	}

	handler := webhook.NewHandler(waClient, prefStore, sessions, engine, transcriber, synthesizer, logger, triageMetrics)

	waWebhook := whatsapp.NewWebhookHandler(cfg.WhatsAppVerifyToken, cfg.WhatsAppAppSecret, func(msg whatsapp.ParsedInboundMessage) {
		// Each message gets its own deadline independent of the webhook
		// response, which was acked before dispatch.
		msgCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		handler.Process(msgCtx, msg)
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        waWebhook,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		DB:             db,
		Redis:          rdb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
}

// buildLLMClient wires Bedrock as the primary extraction model with Gemini
// as fallback. Either provider may be absent; with neither configured the
// engine falls back to its deterministic parsers.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) triage.LLMClient {
	var primary, fallback triage.LLMClient

	if cfg.BedrockModelID != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config; Bedrock disabled", "error", err)
		} else {
			bedrock := triage.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
			primary = triage.PinModel(bedrock, cfg.BedrockModelID)
			logger.Info("bedrock extraction model configured", "model", cfg.BedrockModelID)
		}
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := triage.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
		} else {
			fallback = gemini
			logger.Info("gemini extraction model configured", "model", cfg.GeminiModel)
		}
	}

	switch {
	case primary != nil && fallback != nil:
		return triage.NewFallbackLLMClient(primary, fallback, logger.Logger)
	case primary != nil:
		return primary
	case fallback != nil:
		return fallback
	default:
		logger.Warn("no LLM provider configured; relying on deterministic symptom parsing")
		return nil
	}
}
