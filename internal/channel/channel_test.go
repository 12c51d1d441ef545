package channel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
)

type recordingHandler struct {
	mu     sync.Mutex
	opened bool
	frames []string
	code   websocket.StatusCode
	clean  bool
	closed chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{closed: make(chan struct{})}
}

func (h *recordingHandler) HandleOpen() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opened = true
}

func (h *recordingHandler) HandleFrame(raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, string(raw))
}

func (h *recordingHandler) HandleError(error) {}

func (h *recordingHandler) HandleClose(code websocket.StatusCode, _ string, clean bool) {
	h.mu.Lock()
	h.code = code
	h.clean = clean
	h.mu.Unlock()
	close(h.closed)
}

func (h *recordingHandler) frameCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestChannel_DeliversFramesAndClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("Accept failed: %v", err)
			return
		}
		ctx := r.Context()
		_ = ws.Write(ctx, websocket.MessageText, []byte("first"))
		// Echo one inbound frame, then close cleanly.
		_, msg, err := ws.Read(ctx)
		if err != nil {
			return
		}
		_ = ws.Write(ctx, websocket.MessageText, append([]byte("echo:"), msg...))
		_ = ws.Close(websocket.StatusNormalClosure, "done")
	}))
	defer srv.Close()

	h := newRecordingHandler()
	ch, err := Dial(context.Background(), wsURL(srv))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	ch.Start(context.Background(), h)

	if !h.opened {
		t.Error("HandleOpen must fire synchronously from Start")
	}

	if err := ch.Send(context.Background(), "ping"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case <-h.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close event never delivered")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.frames) != 2 || h.frames[0] != "first" || h.frames[1] != "echo:ping" {
		t.Errorf("Unexpected frames: %v", h.frames)
	}
	if h.code != websocket.StatusNormalClosure || !h.clean {
		t.Errorf("Expected clean normal closure, got code=%d clean=%v", h.code, h.clean)
	}
}

func TestChannel_SendAfterCloseReturnsErrNotOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		// Hold the connection open until the client closes.
		_, _, _ = ws.Read(r.Context())
	}))
	defer srv.Close()

	h := newRecordingHandler()
	ch, err := Dial(context.Background(), wsURL(srv))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	ch.Start(context.Background(), h)

	if err := ch.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := ch.Send(context.Background(), "too late"); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Expected ErrNotOpen, got %v", err)
	}
}

func TestChannel_DialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws://127.0.0.1:1/ws"); err == nil {
		t.Error("Expected dial error for unreachable host")
	}
}

var _ Handler = (*recordingHandler)(nil)
