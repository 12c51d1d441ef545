// Package history provides local persistence for the conversation transcript.
package history

import (
	"context"
	"time"
)

// Role identifies who produced a transcript message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Message is one persisted transcript entry.
type Message struct {
	ID        int64
	Role      Role
	Agent     string // agent label, empty for user/system messages
	Text      string
	CreatedAt time.Time
}

// Repository defines the interface for persisting the transcript.
type Repository interface {
	// AppendMessage stores one transcript entry.
	AppendMessage(ctx context.Context, msg *Message) error

	// RecentMessages retrieves the last n entries in chronological order.
	RecentMessages(ctx context.Context, n int) ([]*Message, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store.
	Close() error
}
