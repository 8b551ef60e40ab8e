// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/taibuivan/bookshelf/internal/core/book"
)

// huhConfirmer asks yes/no questions in the terminal.
type huhConfirmer struct{}

// Confirm implements [book.Confirmer]. Aborting the form counts as "no".
func (huhConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	confirmed := false

	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(message).
			Affirmative("Yes, delete it").
			Negative("Cancel").
			Value(&confirmed),
	)).RunWithContext(ctx)

	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return confirmed, err
}

// assumeYes confirms without asking, for --yes.
var assumeYes = book.ConfirmerFunc(func(context.Context, string, string) (bool, error) {
	return true, nil
})

// askFields collects the book form interactively, starting from fields.
func askFields(ctx context.Context, heading string, fields *book.Fields) error {
	year := string(fields.Year)

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&fields.Title),
		huh.NewInput().Title("Author").Value(&fields.Author),
		huh.NewInput().Title("Publisher").Placeholder("optional").Value(&fields.Publisher),
		huh.NewInput().Title("Edition").Placeholder("optional").Value(&fields.Edition),
		huh.NewInput().Title("Year").Placeholder("optional").Value(&year),
		huh.NewInput().Title("Language").Placeholder("optional").Value(&fields.Language),
	).Title(heading)).RunWithContext(ctx)

	fields.Year = book.NumericInput(year)
	return err
}

// askRating collects the answer to a rating prompt. The form re-asks until
// the rating parses, matching the open prompt of the dispatcher.
func askRating(ctx context.Context, prompt book.Prompt) (book.Answer, error) {
	var rating, review string

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Rating").
			Placeholder("1-10").
			Validate(func(value string) error {
				_, err := book.ParseRating(book.NumericInput(value))
				return err
			}).
			Value(&rating),
		huh.NewText().Title("Review").Placeholder("optional").Value(&review),
	).Title(prompt.Title).Description(prompt.Message)).RunWithContext(ctx)

	return book.Answer{Rating: book.NumericInput(rating), Review: review}, err
}
