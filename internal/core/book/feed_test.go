// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/core/book"
)

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) book.FeedMessage {
	t.Helper()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var message book.FeedMessage
	require.NoError(t, json.Unmarshal(data, &message))
	return message
}

/*
TestFeed_StreamsSnapshots verifies the initial frame and a frame per mutation.
*/
func TestFeed_StreamsSnapshots(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed := book.NewFeed(quietLogger(), nil)
	t.Cleanup(func() { _ = feed.Close() })

	store := book.NewMemoryStore()
	dispatcher, err := book.NewDispatcher(ctx, book.NewPersister(store),
		book.WithObserver(feed),
		book.WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(book.NewHandler(dispatcher, feed).ServeFeed))
	t.Cleanup(server.Close)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// 1. Initial snapshot on connect
	initial := readFrame(t, ctx, conn)
	assert.Equal(t, book.FeedMessageSnapshot, initial.Type)
	assert.Equal(t, book.Counts{}, initial.Data.Counts)

	require.Eventually(t, func() bool { return feed.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// 2. A mutation pushes a new snapshot
	_, _, err = dispatcher.SubmitForm(ctx, book.Fields{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	update := readFrame(t, ctx, conn)
	assert.Equal(t, book.Counts{Unread: 1}, update.Data.Counts)
	assert.Equal(t, "Dune", update.Data.Views.Unread[0].Title)
}

/*
TestFeed_PublishWithoutClients verifies that publishing never blocks.
*/
func TestFeed_PublishWithoutClients(t *testing.T) {
	feed := book.NewFeed(quietLogger(), nil)
	t.Cleanup(func() { _ = feed.Close() })

	done := make(chan struct{})
	go func() {
		for range 1000 {
			feed.Publish(book.Snapshot{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked")
	}
	assert.Equal(t, 0, feed.ClientCount())
}

func dialFeed(t *testing.T, ctx context.Context, feed *book.Feed, current func() book.Snapshot) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		feed.Accept(writer, request, current)
	}))
	t.Cleanup(server.Close)

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	return conn
}

/*
TestFeed_CommitDuringConnect verifies that a change committed while a client
connects reaches it and is never followed by the older initial state.
*/
func TestFeed_CommitDuringConnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed := book.NewFeed(quietLogger(), nil)
	t.Cleanup(func() { _ = feed.Close() })

	dispatcher, err := book.NewDispatcher(ctx, book.NewPersister(book.NewMemoryStore()),
		book.WithObserver(feed),
		book.WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	// The initial state is read, then a commit lands before it is delivered
	conn := dialFeed(t, ctx, feed, func() book.Snapshot {
		stale := dispatcher.Snapshot()
		_, _, err := dispatcher.SubmitForm(ctx, book.Fields{Title: "Dune", Author: "Frank Herbert"})
		assert.NoError(t, err)
		return stale
	})

	first := readFrame(t, ctx, conn)
	assert.Equal(t, uint64(1), first.Data.Version)
	assert.Equal(t, book.Counts{Unread: 1}, first.Data.Counts)

	// The next frame is the next change, not the stale initial state
	_, err = dispatcher.MarkUnread(ctx, 0)
	require.NoError(t, err)

	second := readFrame(t, ctx, conn)
	assert.Equal(t, uint64(2), second.Data.Version)
	assert.Equal(t, book.Counts{Unread: 1}, second.Data.Counts)
}

/*
TestFeed_EndsOnLatestSnapshot verifies that a burst of snapshots is delivered
in order and always ends on the newest one.
*/
func TestFeed_EndsOnLatestSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed := book.NewFeed(quietLogger(), nil)
	t.Cleanup(func() { _ = feed.Close() })

	conn := dialFeed(t, ctx, feed, func() book.Snapshot { return book.Snapshot{} })
	assert.Zero(t, readFrame(t, ctx, conn).Data.Version)

	// A second client that never reads must not hold the first one back
	idle := dialFeed(t, ctx, feed, func() book.Snapshot { return book.Snapshot{} })
	require.NotNil(t, idle)
	require.Eventually(t, func() bool { return feed.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	const latest = 500
	for version := uint64(1); version <= latest; version++ {
		feed.Publish(book.Snapshot{Version: version})
	}

	var previous uint64
	for previous < latest {
		frame := readFrame(t, ctx, conn)
		require.Greater(t, frame.Data.Version, previous)
		previous = frame.Data.Version
	}
	assert.Equal(t, uint64(latest), previous)
}
