// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/pkg/pointer"
	"github.com/taibuivan/bookshelf/pkg/slice"
)

// # Styles

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	readStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	toReadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Padding(0, 2, 1, 1)
)

// # Views

// renderSnapshot prints both views with their counts.
func renderSnapshot(w io.Writer, snapshot book.Snapshot) {
	fmt.Fprintln(w, renderView(
		fmt.Sprintf("To read (%d)", snapshot.Counts.Unread),
		snapshot.Views.Unread,
		"No books waiting to be read.",
	))
	fmt.Fprintln(w, renderView(
		fmt.Sprintf("Read (%d)", snapshot.Counts.Read),
		snapshot.Views.Read,
		"You have not finished any book yet.",
	))

	if snapshot.Session.Mode == book.ModeEdit && snapshot.Session.EditingIndex != nil {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Editing book #%d", *snapshot.Session.EditingIndex)))
	}
}

func renderView(heading string, descriptors []book.Descriptor, empty string) string {
	lines := []string{headerStyle.Render(heading)}

	if len(descriptors) == 0 {
		lines = append(lines, emptyStyle.Render(empty))
	}
	lines = append(lines, slice.Map(descriptors, renderCard)...)

	return sectionStyle.Render(strings.Join(lines, "\n"))
}

// renderCard formats one descriptor. The leading number is the index every
// command takes.
func renderCard(d book.Descriptor) string {
	status := toReadStyle.Render(d.Status)
	if d.IsRead {
		status = readStyle.Render(d.Status)
	}

	lines := []string{
		fmt.Sprintf("#%d %s by %s  %s", d.Index, titleStyle.Render(d.Title), d.Author, status),
	}

	if len(d.Details) > 0 {
		parts := slice.Map(d.Details, func(detail book.Detail) string {
			return detail.Label + ": " + detail.Value
		})
		lines = append(lines, mutedStyle.Render("   "+strings.Join(parts, " | ")))
	}

	if d.IsRead {
		review := pointer.Fallback(d.Review, book.NoReview)
		lines = append(lines, fmt.Sprintf("   Rating: %s  Review: %s", d.RatingLabel, review))
	}

	return strings.Join(lines, "\n")
}

// # Notifications

// terminalNotifier prints notifications to the error stream.
type terminalNotifier struct {
	mu      sync.Mutex
	w       io.Writer
	errored bool
}

func newTerminalNotifier(w io.Writer) *terminalNotifier {
	return &terminalNotifier{w: w}
}

// Notify implements [book.Notifier].
func (n *terminalNotifier) Notify(_ context.Context, kind book.NotifyKind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	style := successStyle
	if kind != book.NotifySuccess {
		style = errorStyle
	}
	if kind == book.NotifyError {
		n.errored = true
	}

	fmt.Fprintln(n.w, style.Render(title+" "+message))
}

func (n *terminalNotifier) reportedError() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.errored
}
