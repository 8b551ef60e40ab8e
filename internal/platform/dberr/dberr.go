// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level storage errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// ErrNotFound is a standard error returned when a queried key doesn't exist.
var ErrNotFound = apperr.NotFound("Record")

// Wrap inspects a storage error and wraps it into a meaningful [apperr.AppError].
// It hides internal storage details from the client while classifying the error type.
// The action names the failing operation and becomes part of the logged cause.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping (PostgreSQL rows, Redis keys)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, redis.Nil) {
		return ErrNotFound
	}

	// 2. Unknown storage errors become Internal Server Errors
	return apperr.Internal(&actionError{action: action, err: err})
}

// IsNotFound reports whether err is (or wraps) [ErrNotFound].
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }

func (e *actionError) Unwrap() error { return e.err }
