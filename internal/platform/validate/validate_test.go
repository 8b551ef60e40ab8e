// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Dune", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Range checks the inclusive bounds of the range rule.
*/
func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		isValid bool
	}{
		{"lower_bound", 1, true},
		{"upper_bound", 10, true},
		{"below", 0, false},
		{"above", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Range("rating", tt.value, 1, 10)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").              // Fails
		Required("author", " ").            // Fails
		Range("rating", 11, 1, 10).         // Fails
		Custom("year", false, "never seen"). // Passes
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Fail keeps the caller's error code and status.
*/
func TestValidator_Fail(t *testing.T) {
	base := apperr.New("MISSING_REQUIRED_FIELD", http.StatusBadRequest, "Title and author are required")

	v := &validate.Validator{}
	assert.NoError(t, v.Required("title", "Dune").Fail(base))

	err := v.Required("author", "").Fail(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, base))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "author", ae.Details[0].Field)
	assert.Empty(t, base.Details)
}
