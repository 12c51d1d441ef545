// Package auth handles stored credentials and the logout flow.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verato-labs/concierge/internal/domain"
)

// ErrNoCredentials indicates there is no stored token; the caller should
// direct the user to the login surface.
var ErrNoCredentials = errors.New("no stored credentials")

// Credentials is the client-side credential record written at login time.
type Credentials struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

// Load reads credentials from path. Returns ErrNoCredentials when the file
// is absent or carries no token.
func Load(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if creds.Token == "" {
		return nil, ErrNoCredentials
	}
	return &creds, nil
}

// Save writes credentials to path, creating parent directories as needed.
func Save(path string, creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Profile returns the stored user profile, falling back to token claims
// when the profile record is empty.
func (c *Credentials) Profile() domain.Profile {
	if c.User.FullName != "" || c.User.Email != "" {
		return c.User
	}
	if p, ok := ProfileFromToken(c.Token); ok {
		return p
	}
	return domain.Profile{}
}

// ProfileFromToken extracts display claims from the access token without
// verifying its signature. Verification belongs to the server; the client
// only needs a name to show.
func ProfileFromToken(token string) (domain.Profile, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.Profile{}, false
	}

	var p domain.Profile
	if v, ok := claims["full_name"].(string); ok {
		p.FullName = v
	} else if v, ok := claims["name"].(string); ok {
		p.FullName = v
	}
	if v, ok := claims["email"].(string); ok {
		p.Email = v
	} else if v, ok := claims["sub"].(string); ok && p.Email == "" {
		p.Email = v
	}
	if p.FullName == "" && p.Email == "" {
		return domain.Profile{}, false
	}
	return p, true
}
