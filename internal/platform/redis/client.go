// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis opens the client behind the redis storage driver.
//
// The collection is one string value: a GET at startup and a SET after each
// change. Pool sizing and timeouts follow that access pattern.
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

const (
	poolSize    = 2
	dialTimeout = 3 * time.Second
	readTimeout = 2 * time.Second
	pingTimeout = 2 * time.Second
	maxRetries  = 2

	// writeTimeout covers a SET of the whole encoded list.
	writeTimeout = 5 * time.Second
)

// NewClient parses redisURL, connects and pings once.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = 1
	options.MaxRetries = maxRetries
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)

	return client, nil
}

// Ping reports whether the server answers within the readiness deadline.
func Ping(context stdctx.Context, client redis.Cmdable) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
