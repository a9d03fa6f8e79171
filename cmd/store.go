package cmd

import (
	"context"
	"fmt"

	"ledger/api"
	"ledger/config"
	"ledger/database"
	"ledger/events"
	"ledger/repository"
	"ledger/repository/sqlite"
	"ledger/service"

	log "github.com/sirupsen/logrus"
)

// store is the opened account store for the configured driver
type store struct {
	uowFactory service.UnitOfWorkFactory
	health     api.HealthCheck
	close      func()
}

// openStore migrates and connects the configured database
func openStore(ctx context.Context, cfg *config.Config, eventBus *events.Bus) (*store, error) {
	switch cfg.DatabaseDriver {
	case database.DriverPostgres:
		url := cfg.GetDatabaseURL()

		log.Info("Running PostgreSQL migrations...")
		if err := database.RunMigrationsWithURL(url); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := database.NewConnection(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		return &store{
			uowFactory: repository.NewUnitOfWorkFactory(db, eventBus),
			health:     db.Ping,
			close:      db.Close,
		}, nil

	case database.DriverSQLite:
		log.WithField("path", cfg.SQLitePath).Info("Running SQLite migrations...")
		if err := database.RunSQLiteMigrations(cfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		return &store{
			uowFactory: sqlite.NewUnitOfWorkFactory(db, eventBus),
			health:     db.PingContext,
			close: func() {
				if err := db.Close(); err != nil {
					log.WithError(err).Warn("Failed to close SQLite database")
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
