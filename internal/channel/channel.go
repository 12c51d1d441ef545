// Package channel owns the duplex WebSocket transport to the commerce backend.
package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// ErrNotOpen is returned by Send when the transport is not in an open state.
var ErrNotOpen = errors.New("channel not open")

// Handler receives channel lifecycle events. HandleFrame and HandleClose are
// invoked from the channel's read loop goroutine, one event at a time.
type Handler interface {
	// HandleOpen fires once, after the transport is established and before
	// any frame is delivered.
	HandleOpen()

	// HandleFrame delivers one raw inbound frame.
	HandleFrame(raw []byte)

	// HandleError reports a mid-session transport fault. A close event
	// follows separately.
	HandleError(err error)

	// HandleClose fires exactly once when the transport terminates. clean
	// reports whether the peer completed the close handshake.
	HandleClose(code websocket.StatusCode, reason string, clean bool)
}

// Channel is one duplex connection. There is no automatic reconnect: once
// closed, the only recovery path is a fresh Dial with a fresh session.
type Channel struct {
	conn *websocket.Conn

	mu   sync.Mutex
	open bool
}

// Dial establishes the transport. No events fire until Start is called, so
// the caller can hand the channel to its handler first.
func Dial(ctx context.Context, wsURL string) (*Channel, error) {
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	slog.Info("Channel opened", "url", wsURL)
	return &Channel{conn: conn, open: true}, nil
}

// Start emits HandleOpen synchronously and then begins delivering frames
// from the read loop. HandleOpen completes before the first inbound frame,
// so the credential frame wins the race with server traffic.
func (c *Channel) Start(ctx context.Context, h Handler) {
	h.HandleOpen()
	go c.readLoop(ctx, h)
}

// Send transmits one text frame. Returns ErrNotOpen after close.
func (c *Channel) Send(ctx context.Context, text string) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return ErrNotOpen
	}

	if err := c.conn.Write(ctx, websocket.MessageText, []byte(text)); err != nil {
		slog.Debug("Channel write error", "error", err)
		return err
	}
	return nil
}

// Close shuts the transport down from the client side. The read loop then
// delivers the close event to the handler.
func (c *Channel) Close() error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil
	}
	c.open = false
	c.mu.Unlock()
	return c.conn.Close(websocket.StatusNormalClosure, "client shutdown")
}

func (c *Channel) readLoop(ctx context.Context, h Handler) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			c.open = false
			c.mu.Unlock()

			status := websocket.CloseStatus(err)
			if status == -1 {
				// Not a close frame: transport fault or cancelled context.
				if !errors.Is(err, context.Canceled) {
					slog.Warn("Channel read error", "error", err)
					h.HandleError(err)
				}
				h.HandleClose(websocket.StatusAbnormalClosure, err.Error(), false)
				return
			}

			slog.Info("Channel closed", "code", status)
			h.HandleClose(status, "", status == websocket.StatusNormalClosure)
			return
		}

		h.HandleFrame(data)
	}
}
