// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"fmt"
)

// # Suspension Points
//
// Marking a book as read and deleting a book both wait for a user decision.
// The dispatcher keeps at most one open [Prompt]; answering it resumes the
// intent, cancelling it drops the intent without touching the collection.

// PromptKind identifies what a pending prompt is waiting for.
type PromptKind string

const (
	// PromptRate waits for a rating and an optional review.
	PromptRate PromptKind = "rate"
	// PromptConfirmDelete waits for a yes or no on deleting a book.
	PromptConfirmDelete PromptKind = "confirm-delete"
)

// Prompt is an open question addressed to the user about one record.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Index   int        `json:"index"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Book    Descriptor `json:"book"`
}

// Answer is the user's reply to a [PromptRate]. A delete confirmation ignores it.
type Answer struct {
	Rating NumericInput `json:"rating"`
	Review string       `json:"review"`
}

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// ConfirmerFunc adapts a function to [Confirmer].
type ConfirmerFunc func(ctx context.Context, title, message string) (bool, error)

// Confirm calls fn.
func (fn ConfirmerFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return fn(ctx, title, message)
}

func ratePrompt(index int, b Book) Prompt {
	return Prompt{
		Kind:    PromptRate,
		Index:   index,
		Title:   "Rate this book",
		Message: fmt.Sprintf("How would you rate %q from %d to %d?", b.Title, MinRating, MaxRating),
		Book:    Describe(index, b),
	}
}

func deletePrompt(index int, b Book) Prompt {
	return Prompt{
		Kind:    PromptConfirmDelete,
		Index:   index,
		Title:   "Are you sure?",
		Message: fmt.Sprintf("%q will be removed from your library. This cannot be undone.", b.Title),
		Book:    Describe(index, b),
	}
}
