package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/alokrajg/hcp-profiling-agent/internal/adapters/cache"
	"github.com/alokrajg/hcp-profiling-agent/internal/api/handlers"
	"github.com/alokrajg/hcp-profiling-agent/internal/api/routes"
	"github.com/alokrajg/hcp-profiling-agent/internal/application/services"
	"github.com/alokrajg/hcp-profiling-agent/internal/domain/providers"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/clinicaltrials"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/npiregistry"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/openai"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/pubmed"
	redisclient "github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/redis"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/clients/websearch"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/notifications"
	"github.com/alokrajg/hcp-profiling-agent/internal/infrastructure/observability"
	"github.com/alokrajg/hcp-profiling-agent/pkg/config"
	"github.com/alokrajg/hcp-profiling-agent/pkg/secrets"
)

func main() {
	// Local development picks up environment from .env; absence is fine.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pull secrets from Vault before reading configuration, if enabled.
	vaultCfg := secrets.LoadVaultConfigFromEnv()
	if vaultCfg.Enabled {
		if result, err := secrets.ApplyVaultSecrets(ctx, vaultCfg); err != nil {
			log.Warn().Err(err).Msg("failed to apply Vault secrets")
		} else {
			log.Info().Int("loaded", result.Loaded).Int("skipped", result.Skipped).Msg("Vault secrets applied")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis is optional; the pipeline works without the profile cache.
	var cacheProvider providers.CacheProvider
	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without profile cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis profile cache initialized")
	}

	// Source clients
	registryClient := npiregistry.NewClient(&cfg.Registry)
	pubmedClient := pubmed.NewClient(&cfg.PubMed)
	webSearchClient := websearch.NewClient(&cfg.WebSearch)
	trialsClient := clinicaltrials.NewClient(&cfg.ClinicalTrials)

	// Enrichment chain: OpenAI when configured, deterministic floor otherwise.
	var strategies []services.EnrichmentStrategy
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			strategies = append(strategies, services.EnrichmentStrategy{Name: "openai", Provider: openaiClient})
			log.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI enrichment enabled")
		}
	} else {
		log.Info().Msg("no OpenAI key configured, profiles will be deterministic only")
	}
	chain := services.NewEnrichmentChain(strategies...)

	profileService := services.NewProfileService(
		registryClient,
		pubmedClient,
		webSearchClient,
		trialsClient,
		chain,
		cacheProvider,
		cfg.Pipeline.CacheTTLSeconds,
		cfg.Pipeline.Workers,
		metrics,
	)
	ingestionService := services.NewIngestionService()
	emailSender := notifications.NewSMTPSender(&cfg.SMTP)

	router := routes.NewRouter(
		handlers.NewProfileHandler(profileService),
		handlers.NewIngestHandler(ingestionService, profileService),
		handlers.NewEmailHandler(profileService, emailSender),
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
}
