// Package tui provides the interactive terminal chat interface for goimon.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goimon-labs/goimon-cli/internal/adapters/driving/tui/styles"
)

// replyMsg carries the result of one chat turn back into the update loop.
type replyMsg struct {
	reply     string
	sessionID string
	err       error
}

// chatLine is a single rendered line of the conversation transcript.
type chatLine struct {
	role string // "user", "assistant" or "error"
	text string
}

// App is the chat TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// input is the message entry field.
	input textinput.Model

	// transcript scrolls the conversation history.
	transcript viewport.Model

	// lines is the conversation so far.
	lines []chatLine

	// sessionID identifies the conversation across turns.
	sessionID string

	// waiting is true while a turn is being processed.
	waiting bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Nhập tin nhắn..."
	input.CharLimit = 256
	input.Focus()

	app := &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: styles.DefaultStyles(),
		input:  input,
	}
	app.lines = append(app.lines, chatLine{role: "assistant", text: ports.Chat.Welcome()})

	return app, nil
}

// WithContext sets the context used for chat turns.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		chromeHeight := 5 // title, input box and help line
		if !a.ready {
			a.transcript = viewport.New(msg.Width, msg.Height-chromeHeight)
			a.ready = true
		} else {
			a.transcript.Width = msg.Width
			a.transcript.Height = msg.Height - chromeHeight
		}
		a.input.Width = msg.Width - 6
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(a.input.Value())
			if text == "" || a.waiting {
				return a, nil
			}
			a.input.SetValue("")
			a.waiting = true
			a.lines = append(a.lines, chatLine{role: "user", text: text})
			a.refreshTranscript()
			return a, a.sendChat(text)
		}

	case replyMsg:
		a.waiting = false
		if msg.err != nil {
			a.err = msg.err
			a.lines = append(a.lines, chatLine{role: "error", text: msg.err.Error()})
		} else {
			a.sessionID = msg.sessionID
			a.lines = append(a.lines, chatLine{role: "assistant", text: msg.reply})
		}
		a.refreshTranscript()
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.transcript, cmd = a.transcript.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// sendChat runs one chat turn asynchronously.
func (a *App) sendChat(text string) tea.Cmd {
	return func() tea.Msg {
		reply, sessionID, err := a.ports.Chat.Handle(a.ctx, text, a.sessionID)
		return replyMsg{reply: reply, sessionID: sessionID, err: err}
	}
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the latest line.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}

	width := a.transcript.Width
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, line := range a.lines {
		switch line.role {
		case "user":
			b.WriteString(wrap.Render(a.styles.User.Render("Bạn: ") + line.text))
		case "error":
			b.WriteString(wrap.Render(a.styles.Error.Render(line.text)))
		default:
			b.WriteString(wrap.Render(a.styles.Assistant.Render(line.text)))
		}
		b.WriteString("\n\n")
	}
	a.transcript.SetContent(b.String())
	a.transcript.GotoBottom()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Đang khởi động..."
	}

	title := a.styles.Title.Render("🍜 goimon")
	status := ""
	if a.waiting {
		status = a.styles.Muted.Render("  đang trả lời...")
	}
	help := a.styles.Help.Render("Enter gửi · Esc thoát")

	return fmt.Sprintf(
		"%s%s\n%s\n%s\n%s",
		title,
		status,
		a.transcript.View(),
		a.styles.InputField.Render(a.input.View()),
		help,
	)
}
