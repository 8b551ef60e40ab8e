// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestConvertToPgx5DSN rewrites libpq URL schemes for golang-migrate.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/books", "pgx5://u:p@localhost:5432/books"},
		{"postgresql://u:p@localhost/books", "pgx5://u:p@localhost/books"},
		{"pgx5://u:p@localhost/books", "pgx5://u:p@localhost/books"},
		{"host=localhost dbname=books", "host=localhost dbname=books"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.in))
		})
	}
}
