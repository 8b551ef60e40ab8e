// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

// Querier is the subset of [pgxpool.Pool] used by [PostgresStore].
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps the encoded collection as one row of library.kvstore.
type PostgresStore struct {
	db  Querier
	key string
}

// NewPostgresStore creates a PostgreSQL-backed ByteStore for key.
func NewPostgresStore(db Querier, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// Load selects the stored value; no row means nothing has been saved yet.
func (repository *PostgresStore) Load(ctx context.Context) ([]byte, bool, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.LibraryKVStore.Value,
		schema.LibraryKVStore.Table,
		schema.LibraryKVStore.Key,
	)

	var data []byte
	err := repository.db.QueryRow(ctx, query, repository.key).Scan(&data)
	if err != nil {
		wrapped := dberr.Wrap(err, "load_collection")
		if dberr.IsNotFound(wrapped) {
			return nil, false, nil
		}
		return nil, false, wrapped
	}

	return data, true, nil
}

// Save upserts the stored value.
func (repository *PostgresStore) Save(ctx context.Context, data []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = NOW();
	`,
		schema.LibraryKVStore.Table,
		strings.Join(schema.LibraryKVStore.Columns(), ", "),
		schema.LibraryKVStore.Key,
		schema.LibraryKVStore.Value, schema.LibraryKVStore.Value, schema.LibraryKVStore.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query, repository.key, data)
	return dberr.Wrap(err, "save_collection")
}
