// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/fold"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// draft is a normalized, validated set of editable fields.
type draft struct {
	title     string
	author    string
	publisher *string
	edition   *string
	year      *int
	language  *string
}

// normalize trims every field, coerces blank optional fields to nil and
// validates in a fixed order: required fields, then the year.
func normalize(fields Fields, currentYear int) (draft, error) {
	d := draft{
		title:     strings.TrimSpace(fields.Title),
		author:    strings.TrimSpace(fields.Author),
		publisher: pointer.NonEmpty(fields.Publisher),
		edition:   pointer.NonEmpty(fields.Edition),
		language:  pointer.NonEmpty(fields.Language),
	}

	// 1. Required fields
	validator := &validate.Validator{}
	validator.Required(FieldTitle, d.title).Required(FieldAuthor, d.author)
	if err := validator.Fail(ErrMissingRequiredField); err != nil {
		return draft{}, err
	}

	// 2. Optional year
	if !fields.Year.IsBlank() {
		year, ok := fields.Year.Int()
		if !ok {
			return draft{}, yearNotNumeric()
		}
		if year < MinYear || year > currentYear {
			return draft{}, yearOutOfRange(currentYear)
		}
		d.year = &year
	}

	return d, nil
}

// key is the duplicate-detection identity of the draft.
func (d draft) key() identity {
	return identityOf(d.title, d.author)
}

// identity is the case and whitespace insensitive (title, author) pair.
type identity struct {
	title  string
	author string
}

func identityOf(title, author string) identity {
	return identity{title: fold.Key(title), author: fold.Key(author)}
}

// fieldsOf converts a stored record back into form values.
func fieldsOf(b Book) Fields {
	fields := Fields{
		Title:     b.Title,
		Author:    b.Author,
		Publisher: pointer.Val(b.Publisher),
		Edition:   pointer.Val(b.Edition),
		Language:  pointer.Val(b.Language),
	}
	if b.Year != nil {
		fields.Year = IntInput(*b.Year)
	}
	return fields
}

// ParseRating converts a raw rating into an integer in [MinRating, MaxRating].
func ParseRating(raw NumericInput) (int, error) {
	rating, ok := raw.Int()

	validator := &validate.Validator{}
	validator.Custom(FieldRating, !ok, "Must be a whole number")
	if ok {
		validator.Range(FieldRating, rating, MinRating, MaxRating)
	}
	if err := validator.Fail(ErrInvalidRating); err != nil {
		return 0, err
	}

	return rating, nil
}
