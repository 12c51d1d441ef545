// Package stub is a local stand-in for the commerce backend, used for
// development and integration tests: the websocket chat endpoint with the
// token handshake, the product lookup API, and logout.
package stub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/verato-labs/concierge/internal/domain"
)

// envelope is the outbound wire format.
type envelope struct {
	Message    string `json:"message"`
	Agent      string `json:"agent,omitempty"`
	Ready      *bool  `json:"ready,omitempty"`
	ProductIDs []int  `json:"product_ids,omitempty"`
}

// authFrame is the first inbound frame on a new connection.
type authFrame struct {
	Token string `json:"token"`
}

// Server serves the stub backend. An empty token accepts any credential.
type Server struct {
	token   string
	catalog map[int]domain.Product
}

// NewServer creates a stub backend that accepts the given token.
func NewServer(token string) *Server {
	return &Server{token: token, catalog: seedCatalog()}
}

// RegisterRoutes mounts the stub endpoints on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/api/products/{id}", s.handleProduct)
	r.Post("/api/logout", s.handleLogout)
	r.Get("/ws", s.handleWS)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	product, ok := s.catalog[id]
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(product); err != nil {
		slog.Debug("Failed to encode product", "error", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx := r.Context()

	// Handshake: the first frame must carry the credential.
	_, raw, err := ws.Read(ctx)
	if err != nil {
		slog.Debug("Connection dropped before handshake", "error", err)
		return
	}
	var auth authFrame
	if err := json.Unmarshal(raw, &auth); err != nil || auth.Token == "" || (s.token != "" && auth.Token != s.token) {
		_ = ws.Close(websocket.StatusPolicyViolation, "authentication failed")
		return
	}

	ready := true
	if err := s.writeEnvelope(ctx, ws, envelope{
		Message: "Welcome back! How can I help you shop today?",
		Ready:   &ready,
	}); err != nil {
		return
	}
	slog.Info("Stub session authenticated", "ip", r.RemoteAddr)

	for {
		_, msg, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 {
				slog.Debug("Stub session read error", "error", err)
			}
			return
		}
		if err := s.writeEnvelope(ctx, ws, s.reply(string(msg))); err != nil {
			return
		}
	}
}

// reply produces a canned agent response for the given user message.
func (s *Server) reply(msg string) envelope {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "recommend"), strings.Contains(lower, "show"), strings.Contains(lower, "looking for"):
		return envelope{
			Message:    "Here are a few options I think you'll like.",
			Agent:      "Recommendation Agent",
			ProductIDs: []int{1, 3, 5},
		}
	case strings.Contains(lower, "cart"):
		return envelope{
			Message: "I can help with your cart. Use the product cards to add or remove items.",
			Agent:   "Shopping Cart Specialist",
		}
	case strings.Contains(lower, "price"), strings.Contains(lower, "buy"), strings.Contains(lower, "deal"):
		return envelope{
			Message:    "This one is on offer right now.",
			Agent:      "Sales Specialist",
			ProductIDs: []int{2},
		}
	default:
		return envelope{
			Message: "Tell me what you're shopping for and I'll find it.",
			Agent:   "Recommendation Agent",
		}
	}
}

func (s *Server) writeEnvelope(ctx context.Context, ws *websocket.Conn, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("Stub write error", "error", err)
		return err
	}
	return nil
}

func seedCatalog() map[int]domain.Product {
	products := []domain.Product{
		{ID: 1, Name: "Trailhead Daypack", Category: "Outdoor", Description: "Lightweight 22L daypack with a ventilated back panel.", Variants: []domain.PriceVariant{{Price: 1899, Color: "Moss"}, {Price: 1899, Color: "Slate"}}},
		{ID: 2, Name: "Cedarwood Desk Lamp", Category: "Home", Description: "Warm LED desk lamp with a solid cedar base.", Variants: []domain.PriceVariant{{Price: 1299}}},
		{ID: 3, Name: "Meridian Running Shoes", Category: "Footwear", Description: "Neutral road shoes with a responsive foam midsole.", Variants: []domain.PriceVariant{{Price: 3499, Size: "9"}, {Price: 3499, Size: "10"}}},
		{ID: 4, Name: "Stoneware Pour-Over Set", Category: "Kitchen", Description: "Two-piece pour-over brewer and carafe.", Variants: []domain.PriceVariant{{Price: 999}}},
		{ID: 5, Name: "Atlas Canvas Jacket", Category: "Apparel", Description: "Water-resistant waxed canvas jacket with a quilted lining.", Variants: []domain.PriceVariant{{Price: 4599, Size: "M"}, {Price: 4599, Size: "L"}}},
		{ID: 6, Name: "Harbor Wool Throw", Category: "Home", Description: "Merino wool throw blanket, loom woven.", Variants: []domain.PriceVariant{{Price: 2199}}},
	}
	catalog := make(map[int]domain.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return catalog
}
