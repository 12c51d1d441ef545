// Package render defines the display boundary consumed by the session core.
// Implementations own the actual UI; the session only pushes fully resolved
// display events through this interface.
package render

import (
	"github.com/google/uuid"

	"github.com/verato-labs/concierge/internal/domain"
)

// MessageID identifies a displayed message element. It is minted when the
// message is dispatched and is the sole key used to attach product cards
// later, so a resolution that finishes out of order still lands on the
// message that requested it.
type MessageID string

// NewMessageID returns a fresh message element identifier.
func NewMessageID() MessageID {
	return MessageID(uuid.NewString())
}

// Renderer receives display events from the session core.
//
// All methods are invoked from the session's event path and must not block;
// UI implementations should hand events off to their own loop.
type Renderer interface {
	// DisplayUserMessage shows the user's own bubble.
	DisplayUserMessage(text string)

	// DisplayAgentMessage shows an inbound message. agent is empty for
	// untagged messages.
	DisplayAgentMessage(id MessageID, agent, text string)

	// AttachProducts adds resolved product cards to a previously displayed
	// message.
	AttachProducts(id MessageID, products []domain.Product)

	// DisplaySystemNotice shows a transient or persistent status line.
	DisplaySystemNotice(text string)

	UpdateCartBadge(count int)
	UpdateWishlistBadge(count int)

	// UpdateProductStack refreshes the compact recently-viewed affordance.
	// recent is deduplicated most-recent-first; total counts every product
	// occurrence shown so far.
	UpdateProductStack(recent []domain.Product, total int)
}
