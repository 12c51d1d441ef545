package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("Unexpected default server URL: %s", cfg.ServerURL)
	}
	if cfg.WSPath != "/ws" {
		t.Errorf("Unexpected default WS path: %s", cfg.WSPath)
	}
	if cfg.StackSize != 5 {
		t.Errorf("Unexpected default stack size: %d", cfg.StackSize)
	}
	if cfg.LookupTimeout != 10*time.Second {
		t.Errorf("Unexpected default lookup timeout: %v", cfg.LookupTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONCIERGE_SERVER_URL", "https://shop.example.com")
	t.Setenv("CONCIERGE_STACK_SIZE", "3")
	t.Setenv("CONCIERGE_LOOKUP_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "https://shop.example.com" {
		t.Errorf("Env override ignored: %s", cfg.ServerURL)
	}
	if cfg.StackSize != 3 {
		t.Errorf("Expected stack size 3, got %d", cfg.StackSize)
	}
	if cfg.LookupTimeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %v", cfg.LookupTimeout)
	}
	if cfg.IsDevelopment() {
		t.Error("Remote server treated as development")
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONCIERGE_STACK_SIZE", "not-a-number")
	t.Setenv("CONCIERGE_LOOKUP_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StackSize != 5 {
		t.Errorf("Expected fallback stack size 5, got %d", cfg.StackSize)
	}
	if cfg.LookupTimeout != 10*time.Second {
		t.Errorf("Expected fallback timeout, got %v", cfg.LookupTimeout)
	}
}

func TestValidate_RejectsBadServerURL(t *testing.T) {
	t.Setenv("CONCIERGE_SERVER_URL", "ftp://shop.example.com")
	if _, err := Load(); err == nil {
		t.Error("Expected validation error for non-http URL")
	}
}

func TestWebSocketURL(t *testing.T) {
	cases := []struct {
		server string
		want   string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://shop.example.com", "wss://shop.example.com/ws"},
	}
	for _, tc := range cases {
		cfg := &Config{ServerURL: tc.server, WSPath: "/ws"}
		if got := cfg.WebSocketURL(); got != tc.want {
			t.Errorf("WebSocketURL(%s): expected %s, got %s", tc.server, tc.want, got)
		}
	}
}
