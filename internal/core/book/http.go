// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// # Handler Implementation

// Handler exposes the [Dispatcher] intents over HTTP.
//
// Every mutating route answers with the fresh [Snapshot]; routes that open a
// prompt answer 202 Accepted with the [Prompt] to show.
type Handler struct {
	dispatcher *Dispatcher
	feed       *Feed
}

// NewHandler constructs a Handler. feed may be nil when no live updates are served.
func NewHandler(dispatcher *Dispatcher, feed *Feed) *Handler {
	return &Handler{dispatcher: dispatcher, feed: feed}
}

// Routes returns a [chi.Router] with the collection endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Views and form
	router.Get("/", handler.getSnapshot)
	router.Post("/", handler.submitForm)
	router.Post("/intents", handler.dispatch)

	router.Get("/session", handler.getSession)
	router.Delete("/session", handler.cancelEdit)

	// ## Per-record intents
	router.Post("/{index}/edit", handler.beginEdit)
	router.Post("/{index}/read", handler.requestMarkRead)
	router.Post("/{index}/unread", handler.markUnread)
	router.Delete("/{index}", handler.requestDelete)

	// ## Suspension point
	router.Get("/prompt", handler.getPrompt)
	router.Post("/prompt/confirm", handler.confirmPrompt)
	router.Post("/prompt/cancel", handler.cancelPrompt)

	return router
}

// ServeFeed upgrades the request to the snapshot WebSocket feed.
//
// It must be mounted outside any request timeout middleware.
func (handler *Handler) ServeFeed(writer http.ResponseWriter, request *http.Request) {
	if handler.feed == nil {
		http.NotFound(writer, request)
		return
	}
	handler.feed.Accept(writer, request, handler.dispatcher.Snapshot)
}

// # Views and form

func (handler *Handler) getSnapshot(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.dispatcher.Snapshot())
}

func (handler *Handler) submitForm(writer http.ResponseWriter, request *http.Request) {
	var input Fields
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, mode, err := handler.dispatcher.SubmitForm(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if mode == ModeEdit {
		respond.OK(writer, snapshot)
		return
	}
	respond.Created(writer, snapshot)
}

func (handler *Handler) dispatch(writer http.ResponseWriter, request *http.Request) {
	var intent Intent
	if err := requestutil.DecodeJSON(request, &intent); err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := handler.dispatcher.Dispatch(request.Context(), intent)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if outcome.Prompt != nil {
		respond.Accepted(writer, outcome)
		return
	}
	respond.OK(writer, outcome)
}

func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.dispatcher.Session())
}

func (handler *Handler) cancelEdit(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.dispatcher.CancelEdit(request.Context()))
}

// # Per-record intents

func (handler *Handler) beginEdit(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.Index(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fields, err := handler.dispatcher.BeginEdit(request.Context(), index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, fields)
}

func (handler *Handler) requestMarkRead(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.Index(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	prompt, err := handler.dispatcher.RequestMarkRead(request.Context(), index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Accepted(writer, prompt)
}

func (handler *Handler) markUnread(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.Index(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.dispatcher.MarkUnread(request.Context(), index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}

func (handler *Handler) requestDelete(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.Index(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	prompt, err := handler.dispatcher.RequestDelete(request.Context(), index)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Accepted(writer, prompt)
}

// # Suspension point

func (handler *Handler) getPrompt(writer http.ResponseWriter, request *http.Request) {
	prompt, ok := handler.dispatcher.Pending()
	if !ok {
		respond.Error(writer, request, ErrNoPendingPrompt)
		return
	}
	respond.OK(writer, prompt)
}

func (handler *Handler) confirmPrompt(writer http.ResponseWriter, request *http.Request) {
	var answer Answer
	if err := requestutil.DecodeOptionalJSON(request, &answer); err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.dispatcher.Confirm(request.Context(), answer)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}

func (handler *Handler) cancelPrompt(writer http.ResponseWriter, request *http.Request) {
	if err := handler.dispatcher.Cancel(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
