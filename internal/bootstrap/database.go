package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/analyzer/internal/config"
	"github.com/jonesrussell/analyzer/internal/database"
	"github.com/jonesrussell/analyzer/internal/logger"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB             *sqlx.DB
	HistoryRepo    *database.AnalysisHistoryRepository
	ReputationRepo *database.DomainReputationRepository
}

// SetupDatabase creates the database connection and repositories.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*DatabaseComponents, error) {
	log.Info("Connecting to PostgreSQL database",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:             db,
		HistoryRepo:    database.NewAnalysisHistoryRepository(db),
		ReputationRepo: database.NewDomainReputationRepository(db),
	}, nil
}
