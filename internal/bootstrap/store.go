// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package bootstrap builds the runtime collaborators shared by the binaries:
// the byte store selected by configuration and the dispatcher on top of it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/migration"
	pgstore "github.com/taibuivan/bookshelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookshelf/internal/platform/redis"
)

// Store is an opened byte store together with its lifecycle hooks.
type Store struct {
	book.ByteStore

	// Name is the storage driver that produced the store.
	Name string

	// Ping checks the remote dependency. Nil for local drivers.
	Ping func(ctx context.Context) error

	// Close releases connections. Always safe to call.
	Close func()
}

/*
OpenStore connects the byte store named by cfg.StorageDriver.

Description: The postgres driver also applies pending migrations so the
kvstore table exists before the first load.

Returns:
  - *Store: The ready store
  - error: Connection or migration failures
*/
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Store, error) {
	switch cfg.StorageDriver {
	case constants.StorageDriverMemory:
		return &Store{ByteStore: book.NewMemoryStore(), Name: cfg.StorageDriver, Close: func() {}}, nil

	case constants.StorageDriverFile:
		return &Store{ByteStore: book.NewFileStore(cfg.DataFile), Name: cfg.StorageDriver, Close: func() {}}, nil

	case constants.StorageDriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			ByteStore: book.NewRedisStore(client, cfg.StorageKey),
			Name:      cfg.StorageDriver,
			Ping: func(ctx context.Context) error {
				return redisstore.Ping(ctx, client)
			},
			Close: func() {
				log.Info("closing_redis_client")
				if err := client.Close(); err != nil {
					log.Error("redis_close_failed", slog.Any("error", err))
				}
			},
		}, nil

	case constants.StorageDriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, err
		}

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return &Store{
			ByteStore: book.NewPostgresStore(pool, cfg.StorageKey),
			Name:      cfg.StorageDriver,
			Ping: func(ctx context.Context) error {
				return pgstore.Ping(ctx, pool)
			},
			Close: func() {
				log.Info("closing_postgres_pool")
				pool.Close()
			},
		}, nil
	}

	return nil, fmt.Errorf("bootstrap: unknown storage driver %q", cfg.StorageDriver)
}

// NewDispatcher loads the collection from store and returns a dispatcher over it.
func NewDispatcher(ctx context.Context, store *Store, log *slog.Logger, opts ...book.Option) (*book.Dispatcher, error) {
	opts = append([]book.Option{book.WithLogger(log)}, opts...)

	dispatcher, err := book.NewDispatcher(ctx, book.NewPersister(store), opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load collection from %s store: %w", store.Name, err)
	}

	return dispatcher, nil
}
