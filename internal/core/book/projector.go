// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"fmt"
	"strconv"

	"github.com/taibuivan/bookshelf/pkg/pointer"
	"github.com/taibuivan/bookshelf/pkg/slice"
)

// # View Model

// Status labels shown next to each book.
const (
	StatusRead   = "Read"
	StatusToRead = "To read"
)

// Detail is one labelled optional field, present only when the value is set.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Descriptor is the display form of one record.
//
// Index is the position of the record in the collection at projection time
// and is the address every intent about this record must use.
type Descriptor struct {
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Publisher   *string  `json:"publisher"`
	Edition     *string  `json:"edition"`
	Year        *int     `json:"year"`
	Language    *string  `json:"language"`
	IsRead      bool     `json:"is_read"`
	Rating      *int     `json:"rating,omitempty"`
	Review      *string  `json:"review,omitempty"`
	Status      string   `json:"status"`
	RatingLabel string   `json:"rating_label,omitempty"`
	Details     []Detail `json:"details"`
}

// Views holds the two partitions of the collection.
type Views struct {
	Unread []Descriptor `json:"unread"`
	Read   []Descriptor `json:"read"`
}

// Counts holds the size of each partition.
type Counts struct {
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

// Snapshot is everything a driver needs for one render.
//
// Version increases with every published state change, so a consumer can
// discard a snapshot older than one it already rendered.
type Snapshot struct {
	Version uint64       `json:"version"`
	Views   Views        `json:"views"`
	Counts  Counts       `json:"counts"`
	Session SessionState `json:"session"`
}

// # Projection

// Project partitions books by read state, keeping source order inside each view.
func Project(books []Book) Views {
	all := make([]Descriptor, len(books))
	for index, b := range books {
		all[index] = Describe(index, b)
	}

	return Views{
		Unread: slice.Filter(all, func(d Descriptor) bool { return !d.IsRead }),
		Read:   slice.Filter(all, func(d Descriptor) bool { return d.IsRead }),
	}
}

// CountOf returns the partition sizes of books.
func CountOf(books []Book) Counts {
	read := slice.Count(books, func(b Book) bool { return b.IsRead })
	return Counts{
		Unread: len(books) - read,
		Read:   read,
	}
}

// Describe builds the descriptor of the record found at index.
func Describe(index int, b Book) Descriptor {
	b = b.clone()

	descriptor := Descriptor{
		Index:     index,
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		Edition:   b.Edition,
		Year:      b.Year,
		Language:  b.Language,
		IsRead:    b.IsRead,
		Status:    StatusToRead,
		Details:   details(b),
	}

	if b.IsRead {
		descriptor.Status = StatusRead
		descriptor.Rating = b.Rating
		descriptor.Review = b.Review
		if b.Rating != nil {
			descriptor.RatingLabel = fmt.Sprintf("%d/%d", *b.Rating, MaxRating)
		}
	}

	return descriptor
}

// details lists the optional fields that are set, in display order.
func details(b Book) []Detail {
	out := []Detail{}

	add := func(label string, value *string) {
		if value != nil {
			out = append(out, Detail{Label: label, Value: *value})
		}
	}

	add("Publisher", b.Publisher)
	add("Edition", b.Edition)
	if b.Year != nil {
		add("Year", pointer.To(strconv.Itoa(*b.Year)))
	}
	add("Language", b.Language)

	return out
}
