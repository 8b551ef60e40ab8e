// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// snapshotLog records every published snapshot.
type snapshotLog struct {
	mu        sync.Mutex
	snapshots []book.Snapshot
}

func (l *snapshotLog) Publish(snapshot book.Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, snapshot)
}

func (l *snapshotLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snapshots)
}

type fixture struct {
	dispatcher *book.Dispatcher
	store      *flakyStore
	notices    *book.Recorder
	published  *snapshotLog
}

func newFixture(t *testing.T, seed ...book.Book) *fixture {
	t.Helper()

	ctx := context.Background()
	store := &flakyStore{}
	if len(seed) > 0 {
		require.NoError(t, book.NewPersister(store).Save(ctx, seed))
	}

	f := &fixture{
		store:     store,
		notices:   &book.Recorder{},
		published: &snapshotLog{},
	}

	dispatcher, err := book.NewDispatcher(ctx, book.NewPersister(store),
		book.WithNotifier(f.notices),
		book.WithObserver(f.published),
		book.WithLogger(quietLogger()),
		book.WithRepositoryOptions(fixedClock(2024)),
	)
	require.NoError(t, err)

	f.dispatcher = dispatcher
	return f
}

// persisted reloads the collection from the store.
func (f *fixture) persisted(t *testing.T) []book.Book {
	t.Helper()
	books, err := book.NewPersister(&f.store.MemoryStore).Load(context.Background())
	require.NoError(t, err)
	return books
}

/*
TestNewDispatcher_LoadFailure verifies that a broken store prevents startup.
*/
func TestNewDispatcher_LoadFailure(t *testing.T) {
	store := &flakyStore{loadErr: errors.New("connection refused")}

	_, err := book.NewDispatcher(context.Background(), book.NewPersister(store), book.WithLogger(quietLogger()))

	assert.ErrorIs(t, err, apperr.Internal(nil))
}

/*
TestDispatcher_SubmitForm verifies that creates are persisted, projected and published.
*/
func TestDispatcher_SubmitForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snapshot, mode, err := f.dispatcher.SubmitForm(ctx, dune())

	require.NoError(t, err)
	assert.Equal(t, book.ModeCreate, mode)
	assert.Equal(t, book.Counts{Unread: 1}, snapshot.Counts)
	require.Len(t, snapshot.Views.Unread, 1)
	assert.Equal(t, "Dune", snapshot.Views.Unread[0].Title)
	assert.Len(t, f.persisted(t), 1)
	assert.Equal(t, 1, f.published.count())
}

/*
TestDispatcher_SubmitFormValidation verifies that failures notify and leave everything untouched.
*/
func TestDispatcher_SubmitFormValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.dispatcher.SubmitForm(ctx, dune())
	require.NoError(t, err)

	_, _, err = f.dispatcher.SubmitForm(ctx, book.Fields{Title: "dune", Author: " frank   herbert "})

	assert.ErrorIs(t, err, book.ErrDuplicateBook)
	assert.Len(t, f.persisted(t), 1)
	assert.Equal(t, 1, f.published.count())

	notice, ok := f.notices.Last()
	require.True(t, ok)
	assert.Equal(t, book.NotifyError, notice.Kind)
	assert.Equal(t, "Error", notice.Title)
	assert.Equal(t, book.ErrDuplicateBook.Message, notice.Message)
}

/*
TestDispatcher_EditFlow verifies that a submit in edit mode updates in place.
*/
func TestDispatcher_EditFlow(t *testing.T) {
	f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
	ctx := context.Background()

	fields, err := f.dispatcher.BeginEdit(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, book.ModeEdit, f.dispatcher.Session().Mode)

	fields.Year = "1965"
	snapshot, mode, err := f.dispatcher.SubmitForm(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, book.ModeEdit, mode)

	assert.Equal(t, book.ModeCreate, snapshot.Session.Mode)
	assert.Nil(t, snapshot.Session.EditingIndex)
	require.Len(t, snapshot.Views.Unread, 1)
	assert.Equal(t, 1965, *snapshot.Views.Unread[0].Year)
	assert.Len(t, f.persisted(t), 1)

	// Cancel always lands in create mode
	_, err = f.dispatcher.BeginEdit(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, book.ModeCreate, f.dispatcher.CancelEdit(ctx).Session.Mode)
}

/*
TestDispatcher_MarkReadPrompt verifies the rate prompt suspension point.
*/
func TestDispatcher_MarkReadPrompt(t *testing.T) {
	f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
	ctx := context.Background()

	// 1. Requesting opens a prompt without mutating
	prompt, err := f.dispatcher.RequestMarkRead(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, book.PromptRate, prompt.Kind)
	assert.Equal(t, "Dune", prompt.Book.Title)
	assert.Equal(t, 0, f.published.count())

	// 2. An invalid rating keeps the prompt open
	_, err = f.dispatcher.ConfirmMarkRead(ctx, "11", "great")
	assert.ErrorIs(t, err, book.ErrInvalidRating)
	_, open := f.dispatcher.Pending()
	assert.True(t, open)
	assert.False(t, f.persisted(t)[0].IsRead)

	// 3. A valid rating completes the intent
	snapshot, err := f.dispatcher.ConfirmMarkRead(ctx, "8", "")
	require.NoError(t, err)
	require.Len(t, snapshot.Views.Read, 1)
	assert.Equal(t, book.NoReview, *snapshot.Views.Read[0].Review)
	assert.Equal(t, "8/10", snapshot.Views.Read[0].RatingLabel)

	_, open = f.dispatcher.Pending()
	assert.False(t, open)

	stored := f.persisted(t)[0]
	assert.True(t, stored.IsRead)
	assert.Equal(t, 8, *stored.Rating)
}

/*
TestDispatcher_CancelPrompts verifies that cancelling is a no-op on the collection.
*/
func TestDispatcher_CancelPrompts(t *testing.T) {
	f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
	ctx := context.Background()

	_, err := f.dispatcher.RequestMarkRead(ctx, 0)
	require.NoError(t, err)

	// Cancelling the wrong kind is rejected
	assert.ErrorIs(t, f.dispatcher.CancelDelete(ctx), book.ErrNoPendingPrompt)
	require.NoError(t, f.dispatcher.CancelMarkRead(ctx))

	_, err = f.dispatcher.RequestDelete(ctx, 0)
	require.NoError(t, err)
	require.NoError(t, f.dispatcher.Cancel(ctx))

	assert.Len(t, f.persisted(t), 1)
	assert.Equal(t, 0, f.published.count())
	assert.ErrorIs(t, f.dispatcher.Cancel(ctx), book.ErrNoPendingPrompt)
}

/*
TestDispatcher_ConfirmWithoutPrompt verifies NO_PENDING_PROMPT for unsolicited answers.
*/
func TestDispatcher_ConfirmWithoutPrompt(t *testing.T) {
	f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
	ctx := context.Background()

	_, err := f.dispatcher.ConfirmMarkRead(ctx, "8", "")
	assert.ErrorIs(t, err, book.ErrNoPendingPrompt)

	_, err = f.dispatcher.ConfirmDelete(ctx)
	assert.ErrorIs(t, err, book.ErrNoPendingPrompt)

	_, err = f.dispatcher.Confirm(ctx, book.Answer{})
	assert.ErrorIs(t, err, book.ErrNoPendingPrompt)
}

/*
TestDispatcher_DeletePrompt verifies confirmation, index shifting and the success notice.
*/
func TestDispatcher_DeletePrompt(t *testing.T) {
	f := newFixture(t,
		book.Book{Title: "One", Author: "A"},
		book.Book{Title: "Two", Author: "B"},
		book.Book{Title: "Three", Author: "C"},
	)
	ctx := context.Background()

	// Edit the last record, then delete the first one
	_, err := f.dispatcher.BeginEdit(ctx, 2)
	require.NoError(t, err)

	prompt, err := f.dispatcher.RequestDelete(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, book.PromptConfirmDelete, prompt.Kind)

	snapshot, err := f.dispatcher.Confirm(ctx, book.Answer{})
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.Counts.Unread)
	assert.Equal(t, "Two", snapshot.Views.Unread[0].Title)
	assert.Equal(t, 0, snapshot.Views.Unread[0].Index)

	// The session follows the edited record to its new index
	require.NotNil(t, snapshot.Session.EditingIndex)
	assert.Equal(t, 1, *snapshot.Session.EditingIndex)

	notice, ok := f.notices.Last()
	require.True(t, ok)
	assert.Equal(t, book.Notification{
		Kind:    book.NotifySuccess,
		Title:   "Deleted!",
		Message: "The book has been removed from your library.",
	}, notice)
}

/*
TestDispatcher_DeleteEditedRecord verifies that deleting the edited record resets the form.
*/
func TestDispatcher_DeleteEditedRecord(t *testing.T) {
	f := newFixture(t, book.Book{Title: "One", Author: "A"}, book.Book{Title: "Two", Author: "B"})
	ctx := context.Background()

	_, err := f.dispatcher.BeginEdit(ctx, 1)
	require.NoError(t, err)
	_, err = f.dispatcher.RequestDelete(ctx, 1)
	require.NoError(t, err)

	snapshot, err := f.dispatcher.ConfirmDelete(ctx)
	require.NoError(t, err)

	assert.Equal(t, book.SessionState{Mode: book.ModeCreate}, snapshot.Session)
}

/*
TestDispatcher_DeleteWithConfirmation verifies the synchronous confirmation path.
*/
func TestDispatcher_DeleteWithConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
		var asked string

		_, deleted, err := f.dispatcher.DeleteWithConfirmation(ctx, 0, book.ConfirmerFunc(
			func(_ context.Context, title, message string) (bool, error) {
				asked = message
				return false, nil
			}))

		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Contains(t, asked, "Dune")
		assert.Len(t, f.persisted(t), 1)
	})

	t.Run("accepted", func(t *testing.T) {
		f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})

		snapshot, deleted, err := f.dispatcher.DeleteWithConfirmation(ctx, 0, book.ConfirmerFunc(
			func(context.Context, string, string) (bool, error) { return true, nil }))

		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, book.Counts{}, snapshot.Counts)
		assert.Empty(t, f.persisted(t))
	})

	t.Run("confirmer error", func(t *testing.T) {
		f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
		failure := errors.New("terminal closed")

		_, _, err := f.dispatcher.DeleteWithConfirmation(ctx, 0, book.ConfirmerFunc(
			func(context.Context, string, string) (bool, error) { return false, failure }))

		assert.ErrorIs(t, err, failure)
		assert.Len(t, f.persisted(t), 1)
	})
}

/*
TestDispatcher_SaveFailureRollsBack verifies that the in-memory state matches storage after a failed save.
*/
func TestDispatcher_SaveFailureRollsBack(t *testing.T) {
	f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"})
	ctx := context.Background()

	_, err := f.dispatcher.BeginEdit(ctx, 0)
	require.NoError(t, err)

	f.store.saveErr = errors.New("disk full")
	_, _, err = f.dispatcher.SubmitForm(ctx, book.Fields{Title: "Dune Messiah", Author: "Frank Herbert"})

	assert.ErrorIs(t, err, apperr.Internal(nil))
	assert.Equal(t, "Dune", f.dispatcher.Books()[0].Title)
	assert.Equal(t, book.ModeEdit, f.dispatcher.Session().Mode)
	assert.Equal(t, 1, f.published.count())

	// Once storage recovers the same submit succeeds
	f.store.saveErr = nil
	_, _, err = f.dispatcher.SubmitForm(ctx, book.Fields{Title: "Dune Messiah", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", f.persisted(t)[0].Title)
}

/*
TestDispatcher_MutationClearsStalePrompt verifies that a mutation invalidates an open prompt.
*/
func TestDispatcher_MutationClearsStalePrompt(t *testing.T) {
	f := newFixture(t, book.Book{Title: "One", Author: "A"}, book.Book{Title: "Two", Author: "B"})
	ctx := context.Background()

	_, err := f.dispatcher.RequestDelete(ctx, 1)
	require.NoError(t, err)

	_, _, err = f.dispatcher.SubmitForm(ctx, book.Fields{Title: "Three", Author: "C"})
	require.NoError(t, err)

	_, open := f.dispatcher.Pending()
	assert.False(t, open)
}

/*
TestDispatcher_Dispatch verifies routing of per-record intents.
*/
func TestDispatcher_Dispatch(t *testing.T) {
	read := book.Book{Title: "Emma", Author: "Jane Austen", IsRead: true, Rating: pointer.To(7), Review: pointer.To("Good")}

	tests := []struct {
		name   string
		intent book.Intent
		check  func(t *testing.T, outcome book.Outcome)
	}{
		{"mark-read opens a prompt", book.Intent{Kind: book.IntentMarkRead, Index: 0}, func(t *testing.T, outcome book.Outcome) {
			require.NotNil(t, outcome.Prompt)
			assert.Equal(t, book.PromptRate, outcome.Prompt.Kind)
		}},
		{"mark-unread mutates", book.Intent{Kind: book.IntentMarkUnread, Index: 1}, func(t *testing.T, outcome book.Outcome) {
			require.NotNil(t, outcome.Snapshot)
			assert.Equal(t, book.Counts{Unread: 2}, outcome.Snapshot.Counts)
		}},
		{"edit returns the form", book.Intent{Kind: book.IntentEdit, Index: 1}, func(t *testing.T, outcome book.Outcome) {
			require.NotNil(t, outcome.Form)
			assert.Equal(t, "Emma", outcome.Form.Title)
		}},
		{"delete opens a prompt", book.Intent{Kind: book.IntentDelete, Index: 0}, func(t *testing.T, outcome book.Outcome) {
			require.NotNil(t, outcome.Prompt)
			assert.Equal(t, book.PromptConfirmDelete, outcome.Prompt.Kind)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, book.Book{Title: "Dune", Author: "Frank Herbert"}, read)

			outcome, err := f.dispatcher.Dispatch(context.Background(), tt.intent)

			require.NoError(t, err)
			tt.check(t, outcome)
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.dispatcher.Dispatch(context.Background(), book.Intent{Kind: "archive"})

		assert.ErrorIs(t, err, apperr.ValidationError(""))
	})

	t.Run("stale index", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.dispatcher.Dispatch(context.Background(), book.Intent{Kind: book.IntentMarkUnread, Index: 4})

		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

/*
TestDispatcher_Concurrent verifies that concurrent intents are serialized.
*/
func TestDispatcher_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = f.dispatcher.SubmitForm(ctx, book.Fields{Title: "Same", Author: "Author"})
		}()
	}
	wg.Wait()

	assert.Len(t, f.dispatcher.Books(), 1)
	assert.Len(t, f.persisted(t), 1)
}

/*
TestDispatcher_SnapshotVersion verifies that every published change carries a
higher version and that rejected or rolled back changes keep it.
*/
func TestDispatcher_SnapshotVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Zero(t, f.dispatcher.Snapshot().Version)

	created, _, err := f.dispatcher.SubmitForm(ctx, dune())
	require.NoError(t, err)

	_, err = f.dispatcher.BeginEdit(ctx, 0)
	require.NoError(t, err)
	cancelled := f.dispatcher.CancelEdit(ctx)

	// Rejected and rolled back changes do not advance
	_, _, err = f.dispatcher.SubmitForm(ctx, dune())
	require.Error(t, err)
	f.store.saveErr = errors.New("disk full")
	_, err = f.dispatcher.MarkUnread(ctx, 0)
	require.Error(t, err)

	f.published.mu.Lock()
	defer f.published.mu.Unlock()
	require.Len(t, f.published.snapshots, 3)
	for i, snapshot := range f.published.snapshots {
		assert.Equal(t, uint64(i+1), snapshot.Version)
	}
	assert.Equal(t, uint64(1), created.Version)
	assert.Equal(t, uint64(3), cancelled.Version)
	assert.Equal(t, uint64(3), f.dispatcher.Snapshot().Version)
}
