// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// # Snapshot Feed

// FeedMessage is one frame sent to feed subscribers.
type FeedMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      Snapshot  `json:"data"`
}

// FeedMessageSnapshot is the type of every frame carrying views.
const FeedMessageSnapshot = "snapshot"

// Feed pushes every published [Snapshot] to connected WebSocket clients.
//
// Each client has its own writer holding only the newest snapshot offered to
// it. Publish never blocks and a slow client never delays the others; it
// skips intermediate states but always ends on the latest one. A client whose
// write fails is disconnected.
type Feed struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	clients   map[*websocket.Conn]*feedClient
	clientsMu sync.RWMutex

	origins []string
	logger  *slog.Logger
}

// feedClient is the per-connection delivery slot.
type feedClient struct {
	conn *websocket.Conn

	mu      sync.Mutex
	pending *Snapshot
	sent    bool
	last    uint64

	wake chan struct{}
	done chan struct{}
}

// NewFeed creates a feed. origins are host patterns accepted for
// cross-origin upgrades; nil accepts same-origin requests only.
func NewFeed(logger *slog.Logger, origins []string) *Feed {
	ctx, cancel := context.WithCancel(context.Background())

	return &Feed{
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[*websocket.Conn]*feedClient),
		origins: origins,
		logger:  logger,
	}
}

// Publish offers snapshot to every client. It implements [Observer].
func (feed *Feed) Publish(snapshot Snapshot) {
	feed.clientsMu.RLock()
	defer feed.clientsMu.RUnlock()

	for _, client := range feed.clients {
		client.offer(snapshot)
	}
}

/*
Accept upgrades the request to a WebSocket and streams snapshots until the
client disconnects or the feed is closed.

Description: The client is registered before current is called, so a change
committed while the connection is being set up reaches it either through
current or through Publish. Snapshots older than the last one written
are discarded. Accept blocks for the lifetime of the connection.
*/
func (feed *Feed) Accept(writer http.ResponseWriter, request *http.Request, current func() Snapshot) {
	conn, err := websocket.Accept(writer, request, &websocket.AcceptOptions{
		OriginPatterns: feed.origins,
	})
	if err != nil {
		feed.logger.Warn("feed_upgrade_failed", slog.Any("error", err))
		return
	}

	client := &feedClient{
		conn: conn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	feed.clientsMu.Lock()
	if feed.ctx.Err() != nil {
		feed.clientsMu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		return
	}
	feed.clients[conn] = client
	clientCount := len(feed.clients)
	feed.wg.Add(1)
	feed.clientsMu.Unlock()

	feed.logger.Info("feed_client_connected", slog.Int("clients", clientCount))

	go feed.writeLoop(client)

	client.offer(current())

	feed.readLoop(conn)
}

// ClientCount returns the number of connected clients.
func (feed *Feed) ClientCount() int {
	feed.clientsMu.RLock()
	defer feed.clientsMu.RUnlock()

	return len(feed.clients)
}

// Close disconnects every client and waits for their writers to stop.
func (feed *Feed) Close() error {
	feed.cancel()

	feed.clientsMu.Lock()
	for conn, client := range feed.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		close(client.done)
		delete(feed.clients, conn)
	}
	feed.clientsMu.Unlock()

	feed.wg.Wait()
	return nil
}

// writeLoop delivers the client's newest pending snapshot until the client
// is removed or the feed is closed.
func (feed *Feed) writeLoop(client *feedClient) {
	defer feed.wg.Done()

	for {
		select {
		case <-feed.ctx.Done():
			return
		case <-client.done:
			return
		case <-client.wake:
		}

		snapshot, ok := client.take()
		if !ok {
			continue
		}

		if err := feed.write(client.conn, snapshot); err != nil {
			feed.logger.Warn("feed_client_write_failed", slog.Any("error", err))
			feed.removeClient(client.conn)
			return
		}
		client.written(snapshot.Version)
	}
}

func (feed *Feed) write(conn *websocket.Conn, snapshot Snapshot) error {
	data, err := json.Marshal(FeedMessage{
		Type:      FeedMessageSnapshot,
		Timestamp: time.Now().UTC(),
		Data:      snapshot,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(feed.ctx, constants.FeedWriteTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, data)
}

// readLoop keeps the connection open; client frames are ignored.
func (feed *Feed) readLoop(conn *websocket.Conn) {
	defer feed.removeClient(conn)

	for {
		if _, _, err := conn.Read(feed.ctx); err != nil {
			return
		}
	}
}

func (feed *Feed) removeClient(conn *websocket.Conn) {
	feed.clientsMu.Lock()
	client, exists := feed.clients[conn]
	if !exists {
		feed.clientsMu.Unlock()
		return
	}
	delete(feed.clients, conn)
	clientCount := len(feed.clients)
	feed.clientsMu.Unlock()

	close(client.done)
	_ = conn.Close(websocket.StatusNormalClosure, "")
	feed.logger.Info("feed_client_disconnected", slog.Int("clients", clientCount))
}

// offer replaces the pending snapshot unless it is older than what the
// client already has or is about to receive.
func (client *feedClient) offer(snapshot Snapshot) {
	client.mu.Lock()
	switch {
	case client.sent && snapshot.Version <= client.last:
		client.mu.Unlock()
		return
	case client.pending != nil && snapshot.Version < client.pending.Version:
		client.mu.Unlock()
		return
	}
	client.pending = &snapshot
	client.mu.Unlock()

	select {
	case client.wake <- struct{}{}:
	default:
	}
}

// take removes the pending snapshot, skipping one that is no newer than the
// last write.
func (client *feedClient) take() (Snapshot, bool) {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.pending == nil {
		return Snapshot{}, false
	}
	snapshot := *client.pending
	client.pending = nil

	if client.sent && snapshot.Version <= client.last {
		return Snapshot{}, false
	}
	return snapshot, true
}

// written records the version of the last delivered snapshot.
func (client *feedClient) written(version uint64) {
	client.mu.Lock()
	defer client.mu.Unlock()

	client.sent = true
	if version > client.last {
		client.last = version
	}
}
