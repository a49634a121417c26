package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/analyzer/internal/analyzer"
	"github.com/jonesrussell/analyzer/internal/api"
	"github.com/jonesrussell/analyzer/internal/config"
	"github.com/jonesrussell/analyzer/internal/httpserver"
	"github.com/jonesrussell/analyzer/internal/inference"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/processor"
	"github.com/jonesrussell/analyzer/internal/telemetry"
)

const (
	providerSidecar   = "sidecar"
	providerAnthropic = "anthropic"
	providerNone      = "none"

	sidecarProbeTimeout = 2 * time.Second
	backendPingTimeout  = 2 * time.Second
)

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB        *sqlx.DB
	Redis     *redis.Client
	Service   *analyzer.Service
	Handler   *api.Handler
	Server    *httpserver.Server
	Telemetry *telemetry.Provider
}

// NewHTTPComponents creates all components for the HTTP server. Postgres,
// Elasticsearch and Redis are wired only when enabled; the analyze
// endpoints work without any of them.
func NewHTTPComponents(cfg *config.Config, log logger.Logger) (*HTTPComponents, error) {
	tel := telemetry.NewProvider()

	mock := analyzer.NewMockScorer(rand.NewSource(time.Now().UnixNano()))
	cues := analyzer.NewCueEngine(analyzer.DefaultCueLexicon(), log)

	provider, err := createInferenceProvider(cfg, log)
	if err != nil {
		return nil, err
	}

	serviceCfg := analyzer.Config{
		MaxInputChars: cfg.Inference.MaxInputChars,
		Timeout:       cfg.Inference.Timeout,
	}
	if provider != nil {
		serviceCfg.Provider = provider
	}

	handlerCfg := api.HandlerConfig{
		Logger:         log,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		BaseURL:        cfg.Service.PublicURL,
		BatchLimit:     cfg.Service.BatchLimit,
	}

	checks := make(map[string]httpserver.HealthChecker)

	var db *sqlx.DB
	if cfg.Database.Enabled {
		dbComps, dbErr := SetupDatabase(cfg, log)
		if dbErr != nil {
			return nil, fmt.Errorf("setup database: %w", dbErr)
		}
		db = dbComps.DB
		serviceCfg.History = dbComps.HistoryRepo
		serviceCfg.Reputation = analyzer.NewDomainReputationScorer(log, dbComps.ReputationRepo)
		handlerCfg.History = dbComps.HistoryRepo
		handlerCfg.Domains = dbComps.ReputationRepo
		checks["database"] = httpserver.DatabaseHealthChecker(db.Ping)
	}

	if cfg.Elasticsearch.Enabled {
		if archive := SetupElasticsearch(cfg, log); archive != nil {
			serviceCfg.Archive = archive
			handlerCfg.Archive = archive
			checks["elasticsearch"] = httpserver.ElasticsearchHealthChecker(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), backendPingTimeout)
				defer cancel()
				return archive.TestConnection(ctx)
			})
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, shareStore := SetupRedis(cfg, log)
		if shareStore != nil {
			redisClient = client
			handlerCfg.Shares = shareStore
			checks["redis"] = httpserver.RedisHealthChecker(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), backendPingTimeout)
				defer cancel()
				return client.Ping(ctx).Err()
			})
		}
	}

	if cfg.Inference.Provider == providerSidecar {
		checks["inference"] = sidecarHealthChecker(cfg.Inference.SidecarURL)
	}

	service := analyzer.NewService(mock, cues, tel, log, serviceCfg)
	handlerCfg.Service = service

	batchProcessor := processor.NewBatchProcessor(service, cfg.Service.Concurrency, tel, log)
	handlerCfg.BatchProcessor = batchProcessor
	log.Info("Batch processor initialized",
		logger.Int("concurrency", batchProcessor.Concurrency()))

	handler := api.NewHandler(handlerCfg)
	server := api.NewServer(cfg, handler, tel, log, checks)

	return &HTTPComponents{
		DB:        db,
		Redis:     redisClient,
		Service:   service,
		Handler:   handler,
		Server:    server,
		Telemetry: tel,
	}, nil
}

// createInferenceProvider builds the configured inference backend. "none"
// disables the model-backed path so every analysis uses the statistical
// scorer.
func createInferenceProvider(cfg *config.Config, log logger.Logger) (inference.Provider, error) {
	switch cfg.Inference.Provider {
	case providerSidecar:
		log.Info("Inference provider configured",
			logger.String("provider", providerSidecar),
			logger.String("url", cfg.Inference.SidecarURL))
		return inference.NewSidecarProvider(inference.SidecarConfig{
			BaseURL:           cfg.Inference.SidecarURL,
			Timeout:           cfg.Inference.Timeout,
			RequestsPerSecond: cfg.Inference.RequestsPerSecond,
			Burst:             cfg.Inference.Burst,
		}, log), nil
	case providerAnthropic:
		log.Info("Inference provider configured",
			logger.String("provider", providerAnthropic),
			logger.String("model", cfg.Inference.AnthropicModel))
		return inference.NewAnthropicProvider(inference.AnthropicConfig{
			APIKey: cfg.Inference.AnthropicAPIKey,
			Model:  cfg.Inference.AnthropicModel,
		}, log), nil
	case providerNone, "":
		log.Info("Inference disabled, statistical analysis only")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown inference provider: %q", cfg.Inference.Provider)
	}
}

// sidecarHealthChecker reports sidecar reachability on the readiness
// endpoint. An unreachable sidecar degrades rather than fails readiness
// since analysis falls back to the statistical scorer.
func sidecarHealthChecker(baseURL string) httpserver.HealthChecker {
	probeClient := &http.Client{Timeout: sidecarProbeTimeout}
	return func() httpserver.CheckResult {
		ctx, cancel := context.WithTimeout(context.Background(), sidecarProbeTimeout)
		defer cancel()

		start := time.Now()
		reachable, _, _, err := inference.DoHealth(ctx, probeClient, baseURL)
		latency := time.Since(start)

		if err != nil || !reachable {
			return httpserver.CheckResult{
				Status:  httpserver.HealthStatusDegraded,
				Message: "Sentiment sidecar unreachable",
				Latency: latency.String(),
			}
		}
		return httpserver.CheckResult{
			Status:  httpserver.HealthStatusHealthy,
			Message: "Sentiment sidecar OK",
			Latency: latency.String(),
		}
	}
}
