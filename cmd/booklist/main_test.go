// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

/*
TestRenderSnapshot verifies that both views list their cards with source indices.
*/
func TestRenderSnapshot(t *testing.T) {
	books := []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Year: pointer.To(1965)},
		{Title: "Emma", Author: "Jane Austen", IsRead: true, Rating: pointer.To(8), Review: pointer.To("Witty")},
	}
	snapshot := book.Snapshot{Views: book.Project(books), Counts: book.CountOf(books)}

	var out bytes.Buffer
	renderSnapshot(&out, snapshot)

	text := out.String()
	assert.Contains(t, text, "To read (1)")
	assert.Contains(t, text, "Read (1)")
	assert.Contains(t, text, "#0")
	assert.Contains(t, text, "Dune")
	assert.Contains(t, text, "Year: 1965")
	assert.Contains(t, text, "#1")
	assert.Contains(t, text, "8/10")
	assert.Contains(t, text, "Witty")
}

/*
TestRenderSnapshot_Empty verifies the placeholder lines of empty views.
*/
func TestRenderSnapshot_Empty(t *testing.T) {
	var out bytes.Buffer
	renderSnapshot(&out, book.Snapshot{Views: book.Project(nil)})

	assert.Contains(t, out.String(), "No books waiting to be read.")
	assert.Contains(t, out.String(), "You have not finished any book yet.")
}

/*
TestParseIndex verifies positional argument parsing.
*/
func TestParseIndex(t *testing.T) {
	index, err := parseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, index)

	for _, bad := range []string{"-1", "two", ""} {
		_, err := parseIndex(bad)
		assert.Error(t, err, bad)
	}
}

/*
TestApplyFieldFlags verifies that only flags the user set overwrite form values.
*/
func TestApplyFieldFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	registerFieldFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--year", "1966", "--language", "English"}))

	fields := book.Fields{Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton"}
	changed := applyFieldFlags(cmd, &fields)

	assert.True(t, changed)
	assert.Equal(t, book.Fields{
		Title:     "Dune",
		Author:    "Frank Herbert",
		Publisher: "Chilton",
		Year:      "1966",
		Language:  "English",
	}, fields)

	untouched := &cobra.Command{Use: "edit"}
	registerFieldFlags(untouched)
	assert.False(t, applyFieldFlags(untouched, &fields))
}

/*
TestTerminalNotifier verifies that error notifications are remembered.
*/
func TestTerminalNotifier(t *testing.T) {
	var out bytes.Buffer
	notifier := newTerminalNotifier(&out)

	notifier.Notify(context.Background(), book.NotifySuccess, "Deleted!", "The book has been removed from your library.")
	assert.False(t, notifier.reportedError())

	notifier.Notify(context.Background(), book.NotifyError, "Error", "Title and author are required")
	assert.True(t, notifier.reportedError())
	assert.Contains(t, out.String(), "Deleted!")
	assert.Contains(t, out.String(), "Title and author are required")
}
