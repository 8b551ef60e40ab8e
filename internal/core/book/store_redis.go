// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the encoded collection under one Redis key, without expiry.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a Redis-backed ByteStore for key.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

/*
Load retrieves the stored collection.

Description: A missing key (redis.Nil) means nothing has been saved yet.

Returns:
  - []byte: The stored value
  - bool: Whether the key exists
  - error: Connectivity errors
*/
func (store *RedisStore) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := store.client.Get(ctx, store.key).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_collection_get_failed: %w", err)
	}

	return data, true, nil
}

/*
Save overwrites the stored collection.

Returns:
  - error: Execution errors
*/
func (store *RedisStore) Save(ctx context.Context, data []byte) error {
	// A zero TTL keeps the key until it is overwritten
	if err := store.client.Set(ctx, store.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis_collection_set_failed: %w", err)
	}

	return nil
}
