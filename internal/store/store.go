// Package store opens the persistence backend named by configuration and
// exposes it through the repository interfaces.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"notely/internal/config"
	"notely/internal/db"
	"notely/internal/repository"
)

// Store bundles the repositories of one backend.
type Store struct {
	Users repository.UserRepository
	Notes repository.NoteRepository

	close func(context.Context) error
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the configured backend and prepares its schema or indexes.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		logger.Info("store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return &Store{
			Users: repository.NewMongoUserRepository(database),
			Notes: repository.NewMongoNoteRepository(database),
			close: client.Disconnect,
		}, nil

	case config.DriverMySQL, config.DriverPostgres, config.DriverSQLite:
		var open func(string, *slog.Logger) (*gorm.DB, error)
		var dsn string
		switch cfg.StoreDriver {
		case config.DriverMySQL:
			open, dsn = db.NewMySQL, cfg.MySQLDSN
		case config.DriverPostgres:
			open, dsn = db.NewPostgres, cfg.PostgresDSN
		default:
			open, dsn = db.NewSQLite, cfg.SQLitePath
		}
		gormDB, err := open(dsn, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
		logger.Info("store ready", "driver", cfg.StoreDriver)
		return &Store{
			Users: repository.NewUserRepository(gormDB),
			Notes: repository.NewNoteRepository(gormDB),
			close: func(context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMemory:
		mem := repository.NewMemoryStore()
		logger.Warn("store ready", "driver", cfg.StoreDriver, "note", "data is lost on restart")
		return &Store{Users: mem.Users(), Notes: mem.Notes()}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
