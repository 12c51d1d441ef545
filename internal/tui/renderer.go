// Package tui renders the conversation in the terminal. It is the render
// sink for the session core: display events arrive through the Renderer
// adapter and are applied on the bubbletea loop.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verato-labs/concierge/internal/domain"
	"github.com/verato-labs/concierge/internal/render"
)

// Display event messages delivered to the bubbletea loop.
type (
	userMsg struct{ text string }
	agentMsg struct {
		id    render.MessageID
		agent string
		text  string
	}
	attachMsg struct {
		id       render.MessageID
		products []domain.Product
	}
	noticeMsg struct{ text string }
	cartMsg   struct{ count int }
	wishMsg   struct{ count int }
	stackMsg struct {
		recent []domain.Product
		total  int
	}
)

// Renderer adapts the render.Renderer boundary onto a running program.
// Each call hands the event to the UI loop; ordering per sender is
// preserved by the program's message queue.
//
// The program is attached after construction: the session needs the
// renderer before the program exists, and no session event fires until the
// connection is started, which happens after Attach.
type Renderer struct {
	program *tea.Program
}

// NewRenderer creates an unattached render sink.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Attach binds the running program.
func (r *Renderer) Attach(p *tea.Program) {
	r.program = p
}

func (r *Renderer) send(msg tea.Msg) {
	if r.program == nil {
		return
	}
	r.program.Send(msg)
}

func (r *Renderer) DisplayUserMessage(text string) {
	r.send(userMsg{text: text})
}

func (r *Renderer) DisplayAgentMessage(id render.MessageID, agent, text string) {
	r.send(agentMsg{id: id, agent: agent, text: text})
}

func (r *Renderer) AttachProducts(id render.MessageID, products []domain.Product) {
	r.send(attachMsg{id: id, products: products})
}

func (r *Renderer) DisplaySystemNotice(text string) {
	r.send(noticeMsg{text: text})
}

func (r *Renderer) UpdateCartBadge(count int) {
	r.send(cartMsg{count: count})
}

func (r *Renderer) UpdateWishlistBadge(count int) {
	r.send(wishMsg{count: count})
}

func (r *Renderer) UpdateProductStack(recent []domain.Product, total int) {
	r.send(stackMsg{recent: recent, total: total})
}
