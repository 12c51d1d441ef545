package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verato-labs/concierge/internal/domain"
	"github.com/verato-labs/concierge/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	agentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	cardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// chatLine is one rendered transcript element.
type chatLine struct {
	id       render.MessageID
	kind     string // "user", "agent", "notice"
	agent    string
	text     string
	products []domain.Product
}

// Controller is the session surface the UI drives: chat input plus the
// commerce actions addressed by displayed product id.
type Controller interface {
	Submit(text string)
	AddToCartByID(id int)
	AddToWishlistByID(id int)
	RemoveFromCart(id int)
	RemoveFromWishlist(id int)
	AdjustQuantity(id, delta int)
	MoveToCartByID(id int)
	DismissDetail()
}

// Model is the root bubbletea model.
type Model struct {
	sess    Controller
	profile domain.Profile

	viewport viewport.Model
	input    textinput.Model
	lines    []chatLine

	cartCount int
	wishCount int
	stack     []domain.Product
	stackSeen int

	width  int
	height int
	sized  bool
}

// NewModel creates the root model driving the given session.
func NewModel(sess Controller, profile domain.Profile) Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Focus()
	input.CharLimit = 2000

	return Model{
		sess:     sess,
		profile:  profile,
		input:    input,
		viewport: viewport.New(80, 20),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sized = true
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if text == "" {
				return m, nil
			}
			if strings.HasPrefix(text, "/") {
				m.runCommand(text)
				return m, nil
			}
			m.sess.Submit(text)
			return m, nil
		}

	case userMsg:
		m.lines = append(m.lines, chatLine{kind: "user", text: msg.text})
		m.refresh()
		return m, nil

	case agentMsg:
		m.lines = append(m.lines, chatLine{id: msg.id, kind: "agent", agent: msg.agent, text: msg.text})
		m.refresh()
		return m, nil

	case attachMsg:
		for i := range m.lines {
			if m.lines[i].id == msg.id {
				m.lines[i].products = msg.products
				break
			}
		}
		m.refresh()
		return m, nil

	case noticeMsg:
		m.lines = append(m.lines, chatLine{kind: "notice", text: msg.text})
		m.refresh()
		return m, nil

	case cartMsg:
		m.cartCount = msg.count
		return m, nil

	case wishMsg:
		m.wishCount = msg.count
		return m, nil

	case stackMsg:
		m.stack = msg.recent
		m.stackSeen = msg.total
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCommand dispatches a slash command against the session. Unknown
// commands surface a local notice rather than going to the assistant.
func (m *Model) runCommand(text string) {
	fields := strings.Fields(text)
	cmd := fields[0]

	if cmd == "/close" {
		m.sess.DismissDetail()
		return
	}

	if len(fields) < 2 {
		m.lines = append(m.lines, chatLine{kind: "notice", text: "Usage: " + cmd + " <product id>"})
		m.refresh()
		return
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		m.lines = append(m.lines, chatLine{kind: "notice", text: "Product id must be a number."})
		m.refresh()
		return
	}

	switch cmd {
	case "/cart":
		m.sess.AddToCartByID(id)
	case "/uncart":
		m.sess.RemoveFromCart(id)
	case "/plus":
		m.sess.AdjustQuantity(id, 1)
	case "/minus":
		m.sess.AdjustQuantity(id, -1)
	case "/wish":
		m.sess.AddToWishlistByID(id)
	case "/unwish":
		m.sess.RemoveFromWishlist(id)
	case "/move":
		m.sess.MoveToCartByID(id)
	default:
		m.lines = append(m.lines, chatLine{kind: "notice", text: "Unknown command: " + cmd})
		m.refresh()
	}
}

// refresh rebuilds the viewport content and pins it to the bottom.
func (m *Model) refresh() {
	var b strings.Builder
	for _, line := range m.lines {
		switch line.kind {
		case "user":
			b.WriteString(userStyle.Render("you") + "  " + line.text + "\n")
		case "agent":
			label := line.agent
			if label == "" {
				label = "Assistant"
			}
			b.WriteString(agentStyle.Render(label) + "  " + line.text + "\n")
			for _, p := range line.products {
				b.WriteString("    " + cardStyle.Render(formatCard(p)) + "\n")
			}
		case "notice":
			b.WriteString(noticeStyle.Render(line.text) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func formatCard(p domain.Product) string {
	if price, ok := p.FirstPrice(); ok {
		return fmt.Sprintf("[%d] %s (%s) ₹%.0f", p.ID, p.Name, p.Category, price)
	}
	return fmt.Sprintf("[%d] %s (%s)", p.ID, p.Name, p.Category)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.sized {
		return "loading..."
	}

	name := m.profile.FullName
	if name == "" {
		name = m.profile.Email
	}
	header := headerStyle.Render("Concierge") + "  " + name + "  " +
		badgeStyle.Render(fmt.Sprintf("cart %d · wishlist %d", m.cartCount, m.wishCount))

	stackLine := ""
	if len(m.stack) > 0 {
		names := make([]string, 0, len(m.stack))
		for _, p := range m.stack {
			names = append(names, p.Name)
		}
		stackLine = noticeStyle.Render(fmt.Sprintf("recently viewed (%d): %s", m.stackSeen, strings.Join(names, " · ")))
	}

	return header + "\n" + m.viewport.View() + "\n" + stackLine + "\n> " + m.input.View()
}
