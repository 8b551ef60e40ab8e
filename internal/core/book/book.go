// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book implements the reading-list engine: one ordered collection of
book records, the operations that mutate it, its persistence round-trip and
the projection of the collection into an unread view and a read view.

Architecture:

  - Repository: the in-memory collection and its validation rules. No I/O.
  - Session: the create/edit mode of the book form.
  - Persister: encodes the collection into a [ByteStore] (memory, file, Redis, PostgreSQL).
  - Dispatcher: routes user intents, persists after every mutation and
    returns a fresh [Snapshot] for the caller to render.

Records are addressed by position. Deleting a record shifts every later index
down by one, so callers re-read the snapshot after each mutation.
*/
package book

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// # Domain Model

// Book is one tracked book entry.
//
// Rating and Review are non-nil exactly when IsRead is true.
type Book struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Publisher *string `json:"publisher"`
	Edition   *string `json:"edition"`
	Year      *int    `json:"year"`
	Language  *string `json:"language"`
	IsRead    bool    `json:"is_read"`
	Rating    *int    `json:"rating,omitempty"`
	Review    *string `json:"review,omitempty"`
}

// Fields holds the raw values of the book form, before normalization.
type Fields struct {
	Title     string       `json:"title"`
	Author    string       `json:"author"`
	Publisher string       `json:"publisher"`
	Edition   string       `json:"edition"`
	Year      NumericInput `json:"year"`
	Language  string       `json:"language"`
}

// # Limits

const (
	// MinYear is the earliest accepted publication year.
	MinYear = 1000
	// MinRating and MaxRating bound the score given when a book is read.
	MinRating = 1
	MaxRating = 10

	// NoReview is stored when a book is marked read without a review.
	NoReview = "Sin reseña"
)

// Field names used in validation details.
const (
	FieldTitle     = "title"
	FieldAuthor    = "author"
	FieldPublisher = "publisher"
	FieldEdition   = "edition"
	FieldYear      = "year"
	FieldLanguage  = "language"
	FieldRating    = "rating"
	FieldReview    = "review"
)

// # Raw Numeric Input

// NumericInput is the raw text of a numeric form field.
//
// It stays unparsed until validation so that non-numeric input produces a
// domain error instead of a decoding failure. In JSON it accepts a string,
// a number or null.
type NumericInput string

// UnmarshalJSON implements [json.Unmarshaler].
func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*n = NumericInput(num.String())
	}

	return nil
}

// IsBlank reports whether no value was supplied.
func (n NumericInput) IsBlank() bool {
	return strings.TrimSpace(string(n)) == ""
}

// Int parses the value as a base-10 integer.
func (n NumericInput) Int() (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(string(n)))
	return v, err == nil
}

// IntInput formats v as a [NumericInput].
func IntInput(v int) NumericInput {
	return NumericInput(strconv.Itoa(v))
}

// # Copying

// clone returns a deep copy of b so no two records share pointer storage.
func (b Book) clone() Book {
	out := b
	out.Publisher = pointer.Clone(b.Publisher)
	out.Edition = pointer.Clone(b.Edition)
	out.Year = pointer.Clone(b.Year)
	out.Language = pointer.Clone(b.Language)
	out.Rating = pointer.Clone(b.Rating)
	out.Review = pointer.Clone(b.Review)
	return out
}

func cloneAll(books []Book) []Book {
	out := make([]Book, len(books))
	for i, b := range books {
		out[i] = b.clone()
	}
	return out
}
