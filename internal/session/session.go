// Package session implements the connection lifecycle, authentication
// handshake, outbound message queue, and inbound dispatch for one
// conversation with the commerce backend.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/verato-labs/concierge/internal/channel"
	"github.com/verato-labs/concierge/internal/domain"
	"github.com/verato-labs/concierge/internal/history"
	"github.com/verato-labs/concierge/internal/render"
	"github.com/verato-labs/concierge/internal/shop"
)

// State is the session connection state. Transitions are monotonic:
// Connecting -> AuthPending -> Ready -> Closed, with Closed reachable from
// any state. A closed session is never reused; reconnecting means a new
// Session with a fresh handshake.
type State int

const (
	Connecting State = iota
	AuthPending
	Ready
	Closed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case AuthPending:
		return "auth_pending"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Status notices surfaced through the render sink.
const (
	noticeAuthenticating = "Authenticating... your message will be sent shortly."
	noticeConnectionLost = "Connection lost. Please restart to reconnect."
	noticeConnectionErr  = "Connection error. Please check your network and restart."
	noticeClosed         = "Connection closed. Restart to reconnect."
	noticeSendFailed     = "Failed to send message. Please try again."
)

// Sender transmits outbound frames. *channel.Channel satisfies it.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// ProductResolver turns an ordered id sequence into ordered records.
// *catalog.Resolver satisfies it.
type ProductResolver interface {
	Resolve(ctx context.Context, ids []int) []domain.Product
}

// Options configures a Session.
type Options struct {
	Token    string
	Renderer render.Renderer
	Resolver ProductResolver
	Shop     *shop.State
	History  history.Repository // optional transcript store
}

// Session is the per-connection state machine. All transitions are
// serialized by the session mutex; lifecycle events arrive from the channel
// read loop, Submit and the commerce actions from the UI, and resolution
// completions from lookup goroutines.
type Session struct {
	mu       sync.Mutex
	state    State
	pending  []string
	authSent bool
	sender   Sender

	token    string
	renderer render.Renderer
	resolver ProductResolver
	shop     *shop.State
	history  history.Repository

	// ctx is cancelled on close so product resolutions that finish after
	// the session ended never reach the render sink.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a session in the Connecting state.
func New(ctx context.Context, opts Options) *Session {
	sctx, cancel := context.WithCancel(ctx)
	return &Session{
		state:    Connecting,
		token:    opts.Token,
		renderer: opts.Renderer,
		resolver: opts.Resolver,
		shop:     opts.Shop,
		history:  opts.History,
		ctx:      sctx,
		cancel:   cancel,
	}
}

// Connect dials the backend and starts event delivery. On open the session
// emits the credential frame and enters AuthPending; readiness arrives later
// as an inbound signal.
func (s *Session) Connect(ctx context.Context, wsURL string) (*channel.Channel, error) {
	ch, err := channel.Dial(ctx, wsURL)
	if err != nil {
		s.mu.Lock()
		s.state = Closed
		s.cancel()
		s.mu.Unlock()
		s.renderer.DisplaySystemNotice(noticeConnectionErr)
		return nil, err
	}

	s.mu.Lock()
	s.sender = ch
	s.mu.Unlock()

	ch.Start(ctx, s)
	return ch, nil
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleOpen sends the single credential frame for this session and moves
// Connecting -> AuthPending.
func (s *Session) HandleOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connecting || s.authSent {
		return
	}

	frame, err := json.Marshal(struct {
		Token string `json:"token"`
	}{Token: s.token})
	if err != nil {
		// Marshalling a string cannot fail; guard for completeness.
		slog.Error("Failed to encode credential frame", "error", err)
		return
	}

	s.authSent = true
	s.state = AuthPending
	slog.Info("Session authenticating")

	if err := s.sender.Send(s.ctx, string(frame)); err != nil {
		slog.Warn("Failed to send credential frame", "error", err)
	}
}

// HandleFrame classifies and dispatches one inbound frame. Decode failures
// degrade to opaque text display; nothing thrown past this boundary.
func (s *Session) HandleFrame(raw []byte) {
	in := interpret(raw)

	if in.Ready {
		s.markReady()
	}

	id := render.NewMessageID()
	s.renderer.DisplayAgentMessage(id, in.Agent, in.Text)
	s.record(history.RoleAgent, in.Agent, in.Text)

	if len(in.ProductIDs) > 0 {
		// Ownership of the attachment target is captured here, at
		// dispatch time; display of the text is not gated on resolution.
		go s.resolveProducts(id, in.ProductIDs)
	}
}

// markReady moves AuthPending -> Ready and drains the outbound queue in
// submission order, exactly once.
func (s *Session) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AuthPending {
		return
	}
	s.state = Ready
	slog.Info("Session ready", "queued", len(s.pending))

	for _, text := range s.pending {
		if err := s.sender.Send(s.ctx, text); err != nil {
			slog.Warn("Failed to send queued message", "error", err)
		}
	}
	s.pending = nil
}

// HandleError surfaces a mid-session transport fault. The close event
// arrives separately.
func (s *Session) HandleError(err error) {
	slog.Warn("Session transport error", "error", err)
	s.renderer.DisplaySystemNotice(noticeConnectionErr)
}

// HandleClose makes the session terminal. There is no automatic reconnect;
// recovery is a fresh session initiated externally.
func (s *Session) HandleClose(code websocket.StatusCode, reason string, clean bool) {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.state = Closed
	s.cancel()
	s.mu.Unlock()

	slog.Info("Session closed", "code", code, "reason", reason, "clean", clean)
	s.renderer.DisplaySystemNotice(noticeClosed)
}

// Submit accepts user input. Empty or whitespace-only input is ignored. The
// user's bubble is echoed immediately in every non-closed state; queueing
// only defers the transmission.
func (s *Session) Submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	state := s.state
	if state == Connecting || state == AuthPending {
		s.pending = append(s.pending, text)
	}
	s.mu.Unlock()

	switch state {
	case Closed:
		s.renderer.DisplaySystemNotice(noticeConnectionLost)
		return
	case Connecting, AuthPending:
		s.renderer.DisplayUserMessage(text)
		s.renderer.DisplaySystemNotice(noticeAuthenticating)
	case Ready:
		s.renderer.DisplayUserMessage(text)
		if err := s.sender.Send(s.ctx, text); err != nil {
			slog.Warn("Failed to send message", "error", err)
			s.renderer.DisplaySystemNotice(noticeSendFailed)
		}
	}

	s.record(history.RoleUser, "", text)
}

// resolveProducts runs off the frame path so later frames are not blocked
// on lookups. Late completions after close are suppressed.
func (s *Session) resolveProducts(id render.MessageID, ids []int) {
	products := s.resolver.Resolve(s.ctx, ids)
	if len(products) == 0 {
		return
	}
	if s.ctx.Err() != nil {
		slog.Debug("Dropping product resolution for closed session", "message_id", string(id))
		return
	}

	s.shop.ShowProducts(string(id), products)
	s.renderer.AttachProducts(id, products)
	s.renderer.UpdateProductStack(s.shop.RecentStack(), s.shop.TotalShown())
}

// record appends to the transcript store without blocking the event path.
func (s *Session) record(role history.Role, agent, text string) {
	if s.history == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.history.AppendMessage(ctx, &history.Message{Role: role, Agent: agent, Text: text})
		if err != nil {
			slog.Warn("Failed to record transcript message", "error", err)
		}
	}()
}
