package stub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/verato-labs/concierge/internal/catalog"
	"github.com/verato-labs/concierge/internal/domain"
	"github.com/verato-labs/concierge/internal/render"
	"github.com/verato-labs/concierge/internal/session"
	"github.com/verato-labs/concierge/internal/shop"
)

func newStubServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewServer(token).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestProductEndpoint(t *testing.T) {
	srv := newStubServer(t, "")

	resp, err := http.Get(srv.URL + "/api/products/1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var p domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 1 || p.Name == "" {
		t.Errorf("Unexpected product: %+v", p)
	}

	missing, err := http.Get(srv.URL + "/api/products/999")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", missing.StatusCode)
	}
}

func TestLogoutEndpoint_RequiresBearer(t *testing.T) {
	srv := newStubServer(t, "")

	resp, err := http.Post(srv.URL+"/api/logout", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without bearer, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	ok, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	ok.Body.Close()
	if ok.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 with bearer, got %d", ok.StatusCode)
	}
}

// captureRenderer is a test sink for full end-to-end flows.
type captureRenderer struct {
	mu       sync.Mutex
	agent    []string
	attached [][]domain.Product
	notices  []string
}

func (c *captureRenderer) DisplayUserMessage(string) {}

func (c *captureRenderer) DisplayAgentMessage(_ render.MessageID, agent, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.agent = append(c.agent, agent)
}

func (c *captureRenderer) AttachProducts(_ render.MessageID, products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = append(c.attached, products)
}

func (c *captureRenderer) DisplaySystemNotice(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, text)
}

func (c *captureRenderer) UpdateCartBadge(int)                      {}
func (c *captureRenderer) UpdateWishlistBadge(int)                  {}
func (c *captureRenderer) UpdateProductStack([]domain.Product, int) {}

func TestEndToEnd_HandshakeAndRecommendation(t *testing.T) {
	srv := newStubServer(t, "tok-e2e")
	wsEndpoint := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	renderer := &captureRenderer{}
	st := shop.NewState(5)
	sess := session.New(context.Background(), session.Options{
		Token:    "tok-e2e",
		Renderer: renderer,
		Resolver: catalog.NewResolver(catalog.NewClient(srv.URL, 5*time.Second)),
		Shop:     st,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := sess.Connect(ctx, wsEndpoint)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Submitted before readiness: must queue and replay after the welcome.
	sess.Submit("recommend something for a hike")

	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		renderer.mu.Lock()
		done := len(renderer.attached) > 0
		renderer.mu.Unlock()
		if done {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if len(renderer.attached) == 0 {
		t.Fatal("No products attached before deadline")
	}
	products := renderer.attached[0]
	if len(products) != 3 || products[0].ID != 1 || products[1].ID != 3 || products[2].ID != 5 {
		t.Errorf("Unexpected resolved products: %v", products)
	}

	foundAgent := false
	for _, a := range renderer.agent {
		if a == "Recommendation Agent" {
			foundAgent = true
		}
	}
	if !foundAgent {
		t.Errorf("Expected a Recommendation Agent reply, got agents %v", renderer.agent)
	}

	if st.UniqueShown() != 3 {
		t.Errorf("Shop state not updated: %d unique shown", st.UniqueShown())
	}
}

func TestEndToEnd_BadTokenRejected(t *testing.T) {
	srv := newStubServer(t, "tok-good")
	wsEndpoint := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	renderer := &captureRenderer{}
	sess := session.New(context.Background(), session.Options{
		Token:    "tok-bad",
		Renderer: renderer,
		Resolver: catalog.NewResolver(catalog.NewClient(srv.URL, time.Second)),
		Shop:     shop.NewState(5),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := sess.Connect(ctx, wsEndpoint)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer func() { _ = ch.Close() }()

	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		if sess.State() == session.Closed {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("Session with a bad token never reached closed state")
}
