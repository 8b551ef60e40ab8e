// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// # Intents

// IntentKind names a per-record action raised from a rendered view.
type IntentKind string

const (
	IntentMarkRead   IntentKind = "mark-read"
	IntentMarkUnread IntentKind = "mark-unread"
	IntentEdit       IntentKind = "edit"
	IntentDelete     IntentKind = "delete"
)

// Intent is an action addressed to the record at Index of the last render.
type Intent struct {
	Kind  IntentKind `json:"kind"`
	Index int        `json:"index"`
}

// Outcome is the result of [Dispatcher.Dispatch]. Exactly one field is set:
// a new snapshot after a mutation, an opened prompt, or the form values of
// the record being edited.
type Outcome struct {
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Prompt   *Prompt   `json:"prompt,omitempty"`
	Form     *Fields   `json:"form,omitempty"`
}

// Observer receives every snapshot produced after a state change.
// Publish must not block.
type Observer interface {
	Publish(snapshot Snapshot)
}

// # Dispatcher

// Dispatcher routes user intents to the repository and session, persists
// after every successful mutation and republishes the projected views.
//
// # Concurrency
//
// Every method holds one mutex for its whole duration, so intents are applied
// one at a time and an index read from a render stays valid until the next
// mutation.
type Dispatcher struct {
	mu sync.Mutex

	persister *Persister
	repo      *Repository
	session   *Session
	pending   *Prompt
	version   uint64

	notifier  Notifier
	observers []Observer
	logger    *slog.Logger
}

// Option customizes a [Dispatcher].
type Option func(*dispatcherConfig)

type dispatcherConfig struct {
	notifier  Notifier
	observers []Observer
	logger    *slog.Logger
	repoOpts  []RepositoryOption
}

// WithNotifier sets where user-facing messages are delivered.
func WithNotifier(notifier Notifier) Option {
	return func(c *dispatcherConfig) {
		c.notifier = notifier
	}
}

// WithObserver adds a subscriber for snapshots.
func WithObserver(observer Observer) Option {
	return func(c *dispatcherConfig) {
		c.observers = append(c.observers, observer)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		c.logger = logger
	}
}

// WithRepositoryOptions forwards options to the underlying [Repository].
func WithRepositoryOptions(opts ...RepositoryOption) Option {
	return func(c *dispatcherConfig) {
		c.repoOpts = append(c.repoOpts, opts...)
	}
}

/*
NewDispatcher loads the persisted collection and returns a ready dispatcher.

Returns:
  - *Dispatcher: The dispatcher in create mode with no pending prompt
  - error: INTERNAL_ERROR when the collection cannot be loaded
*/
func NewDispatcher(ctx context.Context, persister *Persister, opts ...Option) (*Dispatcher, error) {
	cfg := dispatcherConfig{
		notifier: discardNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	books, err := persister.Load(ctx)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(books, cfg.repoOpts...)
	cfg.logger.InfoContext(ctx, "collection_loaded", slog.Int("count", repo.Len()))

	return &Dispatcher{
		persister: persister,
		repo:      repo,
		session:   NewSession(repo),
		notifier:  cfg.notifier,
		observers: cfg.observers,
		logger:    cfg.logger,
	}, nil
}

// # Reads

// Snapshot returns the current views, counts and session state.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.snapshot()
}

// Session returns the current form state.
func (d *Dispatcher) Session() SessionState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.session.State()
}

// Pending returns the open prompt, if any.
func (d *Dispatcher) Pending() (Prompt, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return Prompt{}, false
	}
	return *d.pending, true
}

// Books returns a copy of the collection in insertion order.
func (d *Dispatcher) Books() []Book {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.repo.All()
}

// # Form

/*
SubmitForm creates a record, or updates the edited one when the session is in
edit mode.

Returns:
  - Snapshot: The views after the change
  - Mode: The mode the submission ran in (ModeCreate created a record)
  - error: Validation errors (session unchanged) or INTERNAL_ERROR
*/
func (d *Dispatcher) SubmitForm(ctx context.Context, fields Fields) (Snapshot, Mode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := d.session.State()

	event := "book_created"
	attrs := []slog.Attr{}
	if state.Mode == ModeEdit {
		event = "book_updated"
		attrs = append(attrs, slog.Int("index", *state.EditingIndex))
	}

	snapshot, err := d.commit(ctx, event, func() error {
		return d.session.Submit(fields)
	}, attrs...)
	if err != nil {
		return Snapshot{}, state.Mode, err
	}
	return snapshot, state.Mode, nil
}

// BeginEdit switches the form to edit mode and returns the record's values.
func (d *Dispatcher) BeginEdit(ctx context.Context, index int) (Fields, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fields, err := d.session.BeginEdit(index)
	if err != nil {
		d.report(ctx, err)
		return Fields{}, err
	}

	d.logger.DebugContext(ctx, "edit_started", slog.Int("index", index))
	d.publish(d.advance())

	return fields, nil
}

// CancelEdit returns the form to create mode.
func (d *Dispatcher) CancelEdit(ctx context.Context) Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.session.CancelEdit()
	d.logger.DebugContext(ctx, "edit_cancelled")

	snapshot := d.advance()
	d.publish(snapshot)
	return snapshot
}

// # Read State

// RequestMarkRead opens the rating prompt for the record at index.
func (d *Dispatcher) RequestMarkRead(ctx context.Context, index int) (Prompt, error) {
	return d.open(ctx, index, ratePrompt)
}

/*
ConfirmMarkRead answers the open rating prompt.

Description: An invalid rating leaves the prompt open so the user can retry.

Returns:
  - Snapshot: The views after the change
  - error: ErrNoPendingPrompt, ErrInvalidRating or INTERNAL_ERROR
*/
func (d *Dispatcher) ConfirmMarkRead(ctx context.Context, rating NumericInput, review string) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.confirmMarkRead(ctx, rating, review)
}

func (d *Dispatcher) confirmMarkRead(ctx context.Context, rating NumericInput, review string) (Snapshot, error) {
	prompt, err := d.expect(PromptRate)
	if err != nil {
		return Snapshot{}, err
	}

	return d.commit(ctx, "book_marked_read", func() error {
		value, err := ParseRating(rating)
		if err != nil {
			return err
		}
		return d.repo.MarkRead(prompt.Index, value, review)
	}, slog.Int("index", prompt.Index))
}

// CancelMarkRead closes the rating prompt without changing anything.
func (d *Dispatcher) CancelMarkRead(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dismiss(ctx, PromptRate)
}

// MarkUnread moves the record at index back to the unread list.
func (d *Dispatcher) MarkUnread(ctx context.Context, index int) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.commit(ctx, "book_marked_unread", func() error {
		return d.repo.MarkUnread(index)
	}, slog.Int("index", index))
}

// # Deletion

// RequestDelete opens the delete confirmation prompt for the record at index.
func (d *Dispatcher) RequestDelete(ctx context.Context, index int) (Prompt, error) {
	return d.open(ctx, index, deletePrompt)
}

// ConfirmDelete answers the open delete prompt with yes.
func (d *Dispatcher) ConfirmDelete(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.confirmDelete(ctx)
}

func (d *Dispatcher) confirmDelete(ctx context.Context) (Snapshot, error) {
	prompt, err := d.expect(PromptConfirmDelete)
	if err != nil {
		return Snapshot{}, err
	}

	return d.delete(ctx, prompt.Index)
}

// CancelDelete closes the delete prompt; the record is kept.
func (d *Dispatcher) CancelDelete(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dismiss(ctx, PromptConfirmDelete)
}

/*
DeleteWithConfirmation asks confirmer before deleting the record at index.

Description: Used by drivers that can block on a question. A declined
confirmation is not an error and leaves the collection untouched.

Returns:
  - Snapshot: The current views (after the delete when confirmed)
  - bool: Whether the record was deleted
  - error: ErrBookNotFound, confirmer errors or INTERNAL_ERROR
*/
func (d *Dispatcher) DeleteWithConfirmation(ctx context.Context, index int, confirmer Confirmer) (Snapshot, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.repo.Get(index)
	if err != nil {
		d.report(ctx, err)
		return Snapshot{}, false, err
	}

	prompt := deletePrompt(index, b)
	confirmed, err := confirmer.Confirm(ctx, prompt.Title, prompt.Message)
	if err != nil {
		return Snapshot{}, false, err
	}
	if !confirmed {
		d.logger.DebugContext(ctx, "delete_declined", slog.Int("index", index))
		return d.snapshot(), false, nil
	}

	snapshot, err := d.delete(ctx, index)
	if err != nil {
		return Snapshot{}, false, err
	}
	return snapshot, true, nil
}

// # Prompts

// Confirm answers whichever prompt is open.
func (d *Dispatcher) Confirm(ctx context.Context, answer Answer) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return Snapshot{}, ErrNoPendingPrompt
	}

	if d.pending.Kind == PromptRate {
		return d.confirmMarkRead(ctx, answer.Rating, answer.Review)
	}
	return d.confirmDelete(ctx)
}

// Cancel closes whichever prompt is open.
func (d *Dispatcher) Cancel(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return ErrNoPendingPrompt
	}
	return d.dismiss(ctx, d.pending.Kind)
}

// # Routing

/*
Dispatch routes a per-record intent.

Description: mark-read and delete suspend on a prompt, edit returns the form
values, mark-unread mutates right away.

Returns:
  - Outcome: The snapshot, prompt or form produced by the intent
  - error: Any error of the routed operation
*/
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) (Outcome, error) {
	switch intent.Kind {
	case IntentMarkRead:
		prompt, err := d.RequestMarkRead(ctx, intent.Index)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Prompt: &prompt}, nil

	case IntentMarkUnread:
		snapshot, err := d.MarkUnread(ctx, intent.Index)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Snapshot: &snapshot}, nil

	case IntentEdit:
		fields, err := d.BeginEdit(ctx, intent.Index)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Form: &fields}, nil

	case IntentDelete:
		prompt, err := d.RequestDelete(ctx, intent.Index)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Prompt: &prompt}, nil
	}

	return Outcome{}, apperr.ValidationError("Unknown intent", apperr.FieldError{
		Field:   "kind",
		Message: "Must be one of mark-read, mark-unread, edit, delete",
	})
}

// # Helpers

// commit applies mutate, persists the result and republishes the views.
// A failed save restores the collection and session to their prior state.
// Callers must hold d.mu.
func (d *Dispatcher) commit(ctx context.Context, event string, mutate func() error, attrs ...slog.Attr) (Snapshot, error) {
	previousBooks := d.repo.All()
	previousSession := d.session.State()

	if err := mutate(); err != nil {
		d.report(ctx, err)
		return Snapshot{}, err
	}

	if err := d.persister.Save(ctx, d.repo.All()); err != nil {
		d.repo.Replace(previousBooks)
		d.session.restore(previousSession)

		d.logger.ErrorContext(ctx, "collection_save_failed",
			slog.String("event", event),
			slog.Any("error", errorCause(err)),
		)
		d.report(ctx, err)
		return Snapshot{}, err
	}

	d.pending = nil

	args := make([]any, 0, len(attrs)+1)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	args = append(args, slog.Int("count", d.repo.Len()))
	d.logger.InfoContext(ctx, event, args...)

	snapshot := d.advance()
	d.publish(snapshot)
	return snapshot, nil
}

// delete removes the record at index and keeps the session aligned.
// Callers must hold d.mu.
func (d *Dispatcher) delete(ctx context.Context, index int) (Snapshot, error) {
	snapshot, err := d.commit(ctx, "book_deleted", func() error {
		if err := d.repo.Delete(index); err != nil {
			return err
		}
		d.session.recordDeleted(index)
		return nil
	}, slog.Int("index", index))
	if err != nil {
		return Snapshot{}, err
	}

	d.notifier.Notify(ctx, NotifySuccess, "Deleted!", "The book has been removed from your library.")
	return snapshot, nil
}

// open replaces the pending prompt with one built for the record at index.
func (d *Dispatcher) open(ctx context.Context, index int, build func(int, Book) Prompt) (Prompt, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.repo.Get(index)
	if err != nil {
		d.report(ctx, err)
		return Prompt{}, err
	}

	prompt := build(index, b)
	d.pending = &prompt

	d.logger.DebugContext(ctx, "prompt_opened",
		slog.String("kind", string(prompt.Kind)),
		slog.Int("index", index),
	)
	return prompt, nil
}

// expect returns the pending prompt when it has the given kind.
// Callers must hold d.mu.
func (d *Dispatcher) expect(kind PromptKind) (Prompt, error) {
	if d.pending == nil || d.pending.Kind != kind {
		return Prompt{}, ErrNoPendingPrompt
	}
	return *d.pending, nil
}

// dismiss closes the pending prompt of the given kind.
// Callers must hold d.mu.
func (d *Dispatcher) dismiss(ctx context.Context, kind PromptKind) error {
	if _, err := d.expect(kind); err != nil {
		return err
	}

	d.pending = nil
	d.logger.DebugContext(ctx, "prompt_cancelled", slog.String("kind", string(kind)))
	return nil
}

// report forwards the user-facing part of err to the notifier.
func (d *Dispatcher) report(ctx context.Context, err error) {
	message := err.Error()
	if appErr := apperr.As(err); appErr != nil {
		message = appErr.Message
	}
	d.notifier.Notify(ctx, NotifyError, "Error", message)
}

// snapshot projects the current state. Callers must hold d.mu.
func (d *Dispatcher) snapshot() Snapshot {
	books := d.repo.All()
	return Snapshot{
		Version: d.version,
		Views:   Project(books),
		Counts:  CountOf(books),
		Session: d.session.State(),
	}
}

// advance bumps the state version and projects the new state.
// Callers must hold d.mu.
func (d *Dispatcher) advance() Snapshot {
	d.version++
	return d.snapshot()
}

func (d *Dispatcher) publish(snapshot Snapshot) {
	for _, observer := range d.observers {
		observer.Publish(snapshot)
	}
}

// errorCause returns the server-side cause of an AppError, or err itself.
func errorCause(err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}
