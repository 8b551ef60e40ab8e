// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// NotifyKind is the severity of a user-facing notification.
type NotifyKind string

const (
	NotifyError   NotifyKind = "error"
	NotifySuccess NotifyKind = "success"
	NotifyWarning NotifyKind = "warning"
)

// Notifier shows a short message to the user. It must not block.
type Notifier interface {
	Notify(ctx context.Context, kind NotifyKind, title, message string)
}

// Notification is one message delivered to a [Notifier].
type Notification struct {
	Kind    NotifyKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// LogNotifier writes notifications to a structured logger. Used by headless drivers.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its kind.
func (n *LogNotifier) Notify(ctx context.Context, kind NotifyKind, title, message string) {
	level := slog.LevelInfo
	if kind != NotifySuccess {
		level = slog.LevelWarn
	}

	n.logger.Log(ctx, level, "user_notified",
		slog.String("kind", string(kind)),
		slog.String("title", title),
		slog.String("message", message),
	)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify appends the notification.
func (r *Recorder) Notify(_ context.Context, kind NotifyKind, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, Notification{Kind: kind, Title: title, Message: message})
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.items)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, NotifyKind, string, string) {}
