// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

/*
TestAppError_IsMatchesCode verifies that errors.Is compares codes, not messages.
*/
func TestAppError_IsMatchesCode(t *testing.T) {
	sentinel := apperr.New("INVALID_YEAR", http.StatusBadRequest, "Invalid year")
	specific := sentinel.WithMessage("Year must be between 1000 and 2024")

	assert.True(t, errors.Is(specific, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", specific), sentinel))
	assert.False(t, errors.Is(specific, apperr.NotFound("Book")))
	assert.Equal(t, "Invalid year", sentinel.Message, "the sentinel must not be mutated")
}

/*
TestAppError_WithDetails verifies details are copied onto a new value.
*/
func TestAppError_WithDetails(t *testing.T) {
	base := apperr.ValidationError("Validation failed")
	withDetails := base.WithDetails(apperr.FieldError{Field: "title", Message: "required"})

	assert.Empty(t, base.Details)
	require.Len(t, withDetails.Details, 1)
	assert.Equal(t, "title", withDetails.Details[0].Field)
}

/*
TestAppError_InternalHidesCause verifies the client-facing message of Internal.
*/
func TestAppError_InternalHidesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Internal(cause)

	assert.Equal(t, "An unexpected error occurred", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)

	ae := apperr.As(fmt.Errorf("save: %w", err))
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	assert.Nil(t, apperr.As(cause))
}
