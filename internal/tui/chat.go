package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/model"
)

// Chatter is the conversation the chat screen drives.
type Chatter interface {
	Messages() []conversation.Message
	Send(ctx context.Context, text string) (string, error)
	Analyze(ctx context.Context) (*model.Analysis, error)
	Reset()
}

var (
	chatBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	chatTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

// Rows taken by the title, the viewport border, the input box and the status bar.
const (
	inputHeight    = 3
	chatChromeRows = 1 + 2 + inputHeight + 2 + 1
)

// replyMsg is sent when a Send call completes.
type replyMsg struct {
	err error
}

// analysisMsg is sent when the final analysis completes.
type analysisMsg struct {
	analysis *model.Analysis
	err      error
}

type chatModel struct {
	ctx      context.Context
	chatter  Chatter
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	ready    bool

	// lines shown in the viewport; only rebuilt from chatter while idle
	messages []conversation.Message
	waiting  bool
	frame    int
	errText  string

	result *model.Analysis
}

func newChatModel(ctx context.Context, chatter Chatter) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Describe the role or paste a job description..."
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return chatModel{
		ctx:      ctx,
		chatter:  chatter,
		input:    ta,
		messages: chatter.Messages(),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case spinnerTickMsg:
		if !m.waiting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		m.refresh()
		return m, tick()

	case replyMsg:
		m.waiting = false
		m.messages = m.chatter.Messages()
		if msg.err != nil {
			m.errText = fmt.Sprintf("send failed: %v", msg.err)
		}
		m.refresh()
		return m, nil

	case analysisMsg:
		m.waiting = false
		m.messages = m.chatter.Messages()
		if msg.err != nil {
			if errors.Is(msg.err, model.ErrEmptyDescription) {
				m.errText = "describe the role before asking for the analysis"
			} else {
				m.errText = fmt.Sprintf("analysis failed: %v", msg.err)
			}
			m.refresh()
			return m, nil
		}
		m.result = msg.analysis
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.send()
		case "ctrl+a":
			return m.analyze()
		case "ctrl+r":
			if m.waiting {
				return m, nil
			}
			m.chatter.Reset()
			m.messages = m.chatter.Messages()
			m.errText = ""
			m.input.Reset()
			m.refresh()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if m.waiting || text == "" {
		return m, nil
	}
	m.input.Reset()
	m.errText = ""
	m.waiting = true
	m.messages = append(m.messages, conversation.Message{Role: conversation.RoleUser, Content: text})
	m.refresh()

	ctx, chatter := m.ctx, m.chatter
	return m, tea.Batch(func() tea.Msg {
		_, err := chatter.Send(ctx, text)
		return replyMsg{err: err}
	}, tick())
}

func (m chatModel) analyze() (tea.Model, tea.Cmd) {
	if m.waiting {
		return m, nil
	}
	m.errText = ""
	m.waiting = true
	m.refresh()

	ctx, chatter := m.ctx, m.chatter
	return m, tea.Batch(func() tea.Msg {
		a, err := chatter.Analyze(ctx)
		return analysisMsg{analysis: a, err: err}
	}, tick())
}

func (m *chatModel) recalcLayout() {
	w := max(m.width-2, 20)
	h := max(m.height-chatChromeRows, 3)
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.input.SetWidth(max(m.width-2, 20))
	m.refresh()
}

// refresh re-renders the transcript and keeps the newest turn in view.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m chatModel) renderMessages() string {
	wrap := lipgloss.NewStyle().Width(max(m.viewport.Width-2, 10))
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch msg.Role {
		case conversation.RoleUser:
			b.WriteString(userStyle.Render("You") + "\n")
		default:
			b.WriteString(assistantStyle.Render("Assistant") + "\n")
		}
		b.WriteString(wrap.Render(msg.Content) + "\n")
	}
	if m.waiting {
		b.WriteString("\n" + spinnerStyle.Render(spinnerFrames[m.frame]) + " thinking...\n")
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("⚠ "+m.errText) + "\n")
	}
	return b.String()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	title := chatTitleStyle.Render("Job Description Chat")
	content := chatBorderStyle.Width(m.viewport.Width).Render(m.viewport.View())
	status := statusBarStyle.Width(m.width).Render(" enter send  ctrl+a analyze  ctrl+r reset  pgup/pgdn scroll  esc quit")
	return title + "\n" + content + "\n" + chatBorderStyle.Render(m.input.View()) + "\n" + status
}

// RunChat runs the full-screen chat until the user requests the analysis or
// quits. It returns nil without error when the user quits first.
func RunChat(ctx context.Context, chatter Chatter) (*model.Analysis, error) {
	p := tea.NewProgram(newChatModel(ctx, chatter), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run chat: %w", err)
	}
	return final.(chatModel).result, nil
}
