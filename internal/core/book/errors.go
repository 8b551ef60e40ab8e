// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"net/http"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// # Error Taxonomy
//
// Validation failures are recoverable: the operation is aborted and the
// collection is left untouched. Compare with [errors.Is]; matching is by code.

var (
	// ErrMissingRequiredField is returned when title or author is blank.
	ErrMissingRequiredField = apperr.New("MISSING_REQUIRED_FIELD", http.StatusBadRequest,
		"Title and author are required")

	// ErrInvalidYear is returned when the year is non-numeric or out of range.
	ErrInvalidYear = apperr.New("INVALID_YEAR", http.StatusBadRequest,
		"The year is not valid")

	// ErrDuplicateBook is returned when another record has the same title and author.
	ErrDuplicateBook = apperr.New("DUPLICATE_BOOK", http.StatusConflict,
		"This book already exists, you cannot add it twice")

	// ErrInvalidRating is returned when the rating is not an integer in [1, 10].
	ErrInvalidRating = apperr.New("INVALID_RATING", http.StatusBadRequest,
		fmt.Sprintf("Invalid rating, enter a whole number between %d and %d", MinRating, MaxRating))

	// ErrBookNotFound is returned when an index does not address a record.
	ErrBookNotFound = apperr.New("BOOK_NOT_FOUND", http.StatusNotFound,
		"Book not found")

	// ErrNoPendingPrompt is returned when a prompt is answered that was never opened.
	ErrNoPendingPrompt = apperr.New("NO_PENDING_PROMPT", http.StatusConflict,
		"There is no pending confirmation to answer")
)

// yearOutOfRange builds the INVALID_YEAR error naming the accepted range.
func yearOutOfRange(currentYear int) error {
	return ErrInvalidYear.
		WithMessage(fmt.Sprintf("The year must be between %d and %d", MinYear, currentYear)).
		WithDetails(apperr.FieldError{
			Field:   FieldYear,
			Message: fmt.Sprintf("Must be between %d and %d", MinYear, currentYear),
		})
}

// yearNotNumeric builds the INVALID_YEAR error for non-numeric input.
func yearNotNumeric() error {
	return ErrInvalidYear.WithDetails(apperr.FieldError{
		Field:   FieldYear,
		Message: "Must be a whole number",
	})
}

// indexOutOfRange builds the BOOK_NOT_FOUND error for a stale index.
func indexOutOfRange(index int) error {
	return ErrBookNotFound.WithMessage(fmt.Sprintf("No book at position %d", index))
}
