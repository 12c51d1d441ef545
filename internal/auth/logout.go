package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Logout posts to the backend logout endpoint with the stored bearer token
// and then clears the local credentials. The credential clear happens
// regardless of the request outcome; a failed logout request is logged and
// otherwise ignored.
func Logout(ctx context.Context, serverURL, credentialsPath, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/logout", nil)
	if err != nil {
		slog.Warn("Failed to build logout request", "error", err)
		return Clear(credentialsPath)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("Logout request failed", "error", err)
	} else {
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			slog.Warn("Logout request rejected", "status", resp.StatusCode)
		}
	}

	return Clear(credentialsPath)
}
