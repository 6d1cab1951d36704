package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser      Role = "You"
	RoleAssistant Role = "Assistant"
)

// ChatMessage is one turn in the session history.
type ChatMessage struct {
	Role    Role
	Content string
}

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	service  ChatPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	messages []ChatMessage
	thinking bool
	ready    bool
}

// New creates a new chat model instance.
func New(service ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message RAG Chatbot"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, spinner: sp}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct {
	answer string
	err    error
}

func askCmd(service ChatPort, query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := service.Ask(context.Background(), query)
		return answerMsg{answer: answer, err: err}
	}
}

// Update handles key, window and answer events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + ih + 1 + 1 // header, input frame, status, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.thinking {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.messages = append(m.messages, ChatMessage{Role: RoleUser, Content: q})
				m.input.Reset()
				m.thinking = true
				m.viewport.SetContent(m.renderMessages())
				m.viewport.GotoBottom()
				return m, tea.Batch(m.spinner.Tick, askCmd(m.service, q))
			}
		}
	case answerMsg:
		m.thinking = false
		content := msg.answer
		if msg.err != nil {
			// The session survives any pipeline failure; the error is
			// rendered as a regular assistant turn.
			content = "Error: " + msg.err.Error()
		}
		m.messages = append(m.messages, ChatMessage{Role: RoleAssistant, Content: content})
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil
	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("RAG Chatbot")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := ""
	if m.thinking {
		status = statusStyle.Render(m.spinner.View() + " Thinking...")
	}
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderMessages() string {
	if len(m.messages) == 0 {
		return dimStyle.Render("Ask anything. Sources are fetched and indexed per question.")
	}
	blocks := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		role := assistantStyle.Render(string(msg.Role) + ":")
		if msg.Role == RoleUser {
			role = userStyle.Render(string(msg.Role) + ":")
		}
		blocks = append(blocks, role+" "+msg.Content)
	}
	return strings.Join(blocks, "\n\n")
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
