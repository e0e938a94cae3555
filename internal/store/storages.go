package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
)

// Storages bundles every persistence component used by the services.
type Storages struct {
	DB             *DB
	Feed           ChangeFeed
	Documents      DocumentStore
	UserRepository UserRepository
}

// NewStorages connects the configured database, applies migrations and
// builds the repositories. With an empty Feed.RedisAddress the change feed
// stays in-process.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)
	switch cfg.Storage.DB.Driver {
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg.Storage.DB, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg.Storage.DB, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	var feed ChangeFeed = NewLocalFeed()
	if cfg.Feed.RedisAddress != "" {
		feed, err = NewRedisFeed(ctx, cfg.Feed, log)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return NewStoragesFromDB(db, feed, log), nil
}

// NewStoragesFromDB wires repositories over an already migrated connection.
func NewStoragesFromDB(db *DB, feed ChangeFeed, log *logger.Logger) *Storages {
	return &Storages{
		DB:             db,
		Feed:           feed,
		Documents:      NewDocumentRepository(db, feed, utils.NewUUIDGenerator(), log),
		UserRepository: NewUserRepository(db, log),
	}
}

// Close releases the feed and the database pool.
func (s *Storages) Close() error {
	if s.Feed != nil {
		s.Feed.Close()
	}
	return s.DB.Close()
}
