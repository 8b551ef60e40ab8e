// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// # Storage Contract

// ByteStore is a single-key byte store holding the encoded collection.
type ByteStore interface {

	/*
		Load returns the stored bytes.

		Returns:
		  - []byte: The stored value
		  - bool: false when nothing has been saved yet
		  - error: Storage failures
	*/
	Load(ctx context.Context) ([]byte, bool, error)

	/*
		Save replaces the stored bytes.

		Returns:
		  - error: Storage failures
	*/
	Save(ctx context.Context, data []byte) error
}

// # Persistence Adapter

// Persister reads and writes the whole collection through a [ByteStore].
// Every save is a full overwrite.
type Persister struct {
	store ByteStore
}

// NewPersister creates a Persister over store.
func NewPersister(store ByteStore) *Persister {
	return &Persister{store: store}
}

// Load returns the persisted collection, or an empty one when nothing is stored.
func (p *Persister) Load(ctx context.Context) ([]Book, error) {
	data, found, err := p.store.Load(ctx)
	if err != nil {
		return nil, asInternal(err, "load collection")
	}

	if !found || len(data) == 0 {
		return []Book{}, nil
	}

	books, err := decode(data)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("decode collection: %w", err))
	}

	return books, nil
}

// Save encodes books and replaces the stored collection.
func (p *Persister) Save(ctx context.Context, books []Book) error {
	data, err := encode(books)
	if err != nil {
		return apperr.Internal(fmt.Errorf("encode collection: %w", err))
	}

	if err := p.store.Save(ctx, data); err != nil {
		return asInternal(err, "save collection")
	}

	return nil
}

// asInternal keeps AppErrors produced by a store and wraps anything else.
func asInternal(err error, action string) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
