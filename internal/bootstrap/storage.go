package bootstrap

import (
	"context"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/analyzer/internal/config"
	"github.com/jonesrussell/analyzer/internal/logger"
	"github.com/jonesrussell/analyzer/internal/share"
	"github.com/jonesrussell/analyzer/internal/storage"
)

const storageSetupTimeout = 10 * time.Second

// SetupElasticsearch creates the optional result archive. Returns nil if
// Elasticsearch is unavailable (the service runs without search).
func SetupElasticsearch(cfg *config.Config, log logger.Logger) *storage.ElasticsearchArchive {
	client, err := es.NewClient(es.Config{
		Addresses:  []string{cfg.Elasticsearch.URL},
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	})
	if err != nil {
		log.Warn("Failed to create Elasticsearch client", logger.Error(err))
		log.Info("Archive search endpoint will not be available")
		return nil
	}

	archive := storage.NewElasticsearchArchive(client, cfg.Elasticsearch.Index)

	ctx, cancel := context.WithTimeout(context.Background(), storageSetupTimeout)
	defer cancel()

	if err := archive.TestConnection(ctx); err != nil {
		log.Warn("Failed to verify Elasticsearch connection", logger.Error(err))
		log.Info("Archive search endpoint will not be available")
		return nil
	}

	if err := archive.EnsureIndex(ctx); err != nil {
		log.Warn("Failed to ensure archive index", logger.Error(err))
		log.Info("Archive search endpoint will not be available")
		return nil
	}

	log.Info("Elasticsearch connected successfully",
		logger.String("index", cfg.Elasticsearch.Index))
	return archive
}

// SetupRedis creates the optional share-link store. Returns nils if redis
// is unavailable (the service runs without share links).
func SetupRedis(cfg *config.Config, log logger.Logger) (*redis.Client, *share.Store) {
	client, err := share.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Failed to connect to Redis", logger.Error(err))
		log.Info("Share links will not be available")
		return nil, nil
	}

	log.Info("Redis connected successfully",
		logger.String("addr", cfg.Redis.URL))
	return client, share.NewStore(client, cfg.Redis.ShareTTL)
}
