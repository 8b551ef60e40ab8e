// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// # Repository

// Repository is the ordered, in-memory collection of books.
//
// It validates every mutation and never touches storage. It is not safe for
// concurrent use; the [Dispatcher] serializes access.
type Repository struct {
	books []Book
	now   func() time.Time
}

// RepositoryOption customizes a [Repository].
type RepositoryOption func(*Repository)

// WithClock sets the time source used for the current-year bound.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository constructs a Repository holding a copy of books.
func NewRepository(books []Book, opts ...RepositoryOption) *Repository {
	repo := &Repository{
		books: cloneAll(books),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// # Reads

// Len returns the number of records.
func (r *Repository) Len() int {
	return len(r.books)
}

// Get returns a copy of the record at index.
func (r *Repository) Get(index int) (Book, error) {
	if err := r.checkIndex(index); err != nil {
		return Book{}, err
	}
	return r.books[index].clone(), nil
}

// All returns a copy of every record in insertion order.
func (r *Repository) All() []Book {
	return cloneAll(r.books)
}

// Replace swaps the whole collection, e.g. to roll back a failed save.
func (r *Repository) Replace(books []Book) {
	r.books = cloneAll(books)
}

// CurrentYear is the upper bound for publication years.
func (r *Repository) CurrentYear() int {
	return r.now().Year()
}

// # Mutations

/*
Create validates fields and appends a new unread record.

Validation order is required fields, year, then duplicates across the whole
collection.

Returns:
  - error: ErrMissingRequiredField, ErrInvalidYear or ErrDuplicateBook
*/
func (r *Repository) Create(fields Fields) error {
	d, err := normalize(fields, r.CurrentYear())
	if err != nil {
		return err
	}

	if r.exists(d.key(), -1) {
		return ErrDuplicateBook
	}

	r.books = append(r.books, Book{
		Title:     d.title,
		Author:    d.author,
		Publisher: d.publisher,
		Edition:   d.edition,
		Year:      d.year,
		Language:  d.language,
	})

	return nil
}

/*
Update replaces the editable fields of the record at index.

The duplicate check ignores the record itself. Read state, rating and review
are preserved.

Returns:
  - error: ErrBookNotFound or any error of [Repository.Create]
*/
func (r *Repository) Update(index int, fields Fields) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}

	d, err := normalize(fields, r.CurrentYear())
	if err != nil {
		return err
	}

	if r.exists(d.key(), index) {
		return ErrDuplicateBook
	}

	target := &r.books[index]
	target.Title = d.title
	target.Author = d.author
	target.Publisher = d.publisher
	target.Edition = d.edition
	target.Year = d.year
	target.Language = d.language

	return nil
}

/*
MarkRead records the book at index as read with a rating and review.

A blank review is replaced with [NoReview].

Returns:
  - error: ErrBookNotFound or ErrInvalidRating
*/
func (r *Repository) MarkRead(index, rating int, review string) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}

	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}

	review = strings.TrimSpace(review)
	if review == "" {
		review = NoReview
	}

	target := &r.books[index]
	target.IsRead = true
	target.Rating = pointer.To(rating)
	target.Review = pointer.To(review)

	return nil
}

// MarkUnread returns the book at index to the unread list and clears its
// rating and review. Calling it on an unread book is a no-op.
func (r *Repository) MarkUnread(index int) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}

	target := &r.books[index]
	target.IsRead = false
	target.Rating = nil
	target.Review = nil

	return nil
}

// Delete removes the record at index; later records shift down by one.
func (r *Repository) Delete(index int) error {
	if err := r.checkIndex(index); err != nil {
		return err
	}

	r.books = slices.Delete(r.books, index, index+1)
	return nil
}

// # Helpers

// exists reports whether any record other than skip has the given identity.
func (r *Repository) exists(key identity, skip int) bool {
	for i, b := range r.books {
		if i == skip {
			continue
		}
		if identityOf(b.Title, b.Author) == key {
			return true
		}
	}
	return false
}

func (r *Repository) checkIndex(index int) error {
	if index < 0 || index >= len(r.books) {
		return indexOutOfRange(index)
	}
	return nil
}
