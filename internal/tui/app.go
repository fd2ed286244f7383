// Package tui provides the interactive terminal chat for elhem.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	suggestionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366F1")).
			Padding(0, 1)

	userStyle  = lipgloss.NewStyle().Foreground(cyanColor).Bold(true)
	botStyle   = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(errorColor)
)

// Responder answers one line of session input.
type Responder interface {
	Respond(ctx context.Context, role, id, input string) (string, error)
}

// Chat is the chat TUI model for one role and user id.
type Chat struct {
	ctx         context.Context
	responder   Responder
	role        string
	userID      string
	systemName  string
	input       textinput.Model
	viewport    viewport.Model
	transcript  []Entry
	suggestions *Suggestions
	width       int
	height      int
	waiting     bool
}

// New creates a chat session.
func New(ctx context.Context, r Responder, role, userID, systemName string) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Type a request, / for commands, @ for tasks"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	return &Chat{
		ctx:         ctx,
		responder:   r,
		role:        strings.ToLower(role),
		userID:      userID,
		systemName:  systemName,
		input:       ti,
		viewport:    viewport.New(80, 20),
		suggestions: NewSuggestions(strings.ToLower(role)),
	}
}

// Run starts the TUI application.
func (c *Chat) Run() error {
	p := tea.NewProgram(c, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Transcript returns the exchanged messages, oldest first.
func (c *Chat) Transcript() []Entry {
	return append([]Entry(nil), c.transcript...)
}

// Init implements tea.Model
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit

		case "up":
			if c.suggestions.IsVisible() {
				c.suggestions.Prev()
				return c, nil
			}

		case "down":
			if c.suggestions.IsVisible() {
				c.suggestions.Next()
				return c, nil
			}

		case "pgup", "pgdown":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd

		case "tab", "enter":
			if c.suggestions.IsVisible() {
				c.accept()
				return c, nil
			}
			if msg.String() == "tab" {
				return c, nil
			}
			line := strings.TrimSpace(c.input.Value())
			if line == "" || c.waiting {
				return c, nil
			}
			c.input.SetValue("")
			c.suggestions.Update("")
			c.waiting = true
			c.append(Entry{From: FromUser, Text: line})
			return c, c.send(line)
		}

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.input.Width = msg.Width - 6
		c.viewport.Width = msg.Width
		c.viewport.Height = max(msg.Height-8, 3)
		c.refresh()

	case replyMsg:
		c.waiting = false
		c.append(Entry{From: FromAssistant, Text: msg.text})
		if ids := taskIDs(msg.text); ids != nil {
			c.suggestions.SetTasks(ids)
		}

	case errMsg:
		c.waiting = false
		c.append(Entry{From: FromError, Text: msg.err.Error()})
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	c.suggestions.Update(c.input.Value())

	return c, tea.Batch(cmds...)
}

func (c *Chat) accept() {
	selected := c.suggestions.Selected()
	if selected == nil {
		return
	}
	text := selected.Text
	if selected.Type == "task" {
		text = "update task " + selected.Text
	}
	c.input.SetValue(text + " ")
	c.input.CursorEnd()
	c.suggestions.Update("")
}

func (c *Chat) send(line string) tea.Cmd {
	ctx, r, role, id := c.ctx, c.responder, c.role, c.userID
	return func() tea.Msg {
		text, err := r.Respond(ctx, role, id, line)
		if err != nil {
			return errMsg{err}
		}
		return replyMsg{text}
	}
}

func (c *Chat) append(e Entry) {
	c.transcript = append(c.transcript, e)
	c.refresh()
}

func (c *Chat) refresh() {
	var b strings.Builder
	for _, e := range c.transcript {
		switch e.From {
		case FromUser:
			b.WriteString(userStyle.Render(c.userID+" ›") + " " + e.Text)
		case FromAssistant:
			b.WriteString(botStyle.Render(c.systemName+" ›") + " " + e.Text)
		case FromError:
			b.WriteString(errorStyle.Render("Error: " + e.Text))
		}
		b.WriteString("\n\n")
	}
	c.viewport.SetContent(b.String())
	c.viewport.GotoBottom()
}

// View implements tea.Model
func (c *Chat) View() string {
	var b strings.Builder

	header := titleStyle.Render(c.systemName)
	header += "  " + lipgloss.NewStyle().Foreground(cyanColor).Render(fmt.Sprintf("[%s %s]", c.role, c.userID))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(c.width, 1)) + "\n")

	if len(c.transcript) == 0 {
		b.WriteString(helpStyle.Render("  Start typing. Try / to see what you can ask.") + "\n")
	} else {
		b.WriteString(c.viewport.View() + "\n")
	}

	if c.waiting {
		b.WriteString(helpStyle.Render("  thinking...") + "\n")
	}

	b.WriteString(inputBoxStyle.Render(c.input.View()))
	if c.suggestions.IsVisible() {
		b.WriteString("\n")
		b.WriteString(c.suggestions.Render(c.width))
	}
	b.WriteString("\n")

	status := fmt.Sprintf(" Messages: %d | Enter:send | Tab:complete | PgUp/PgDn:scroll | Esc:quit", len(c.transcript))
	b.WriteString(statusBarStyle.Width(c.width).Render(status))

	return b.String()
}

// taskIDs extracts task ids from a JSON array response, or nil if text is
// not one.
func taskIDs(text string) []string {
	if !strings.HasPrefix(text, "[") {
		return nil
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil
	}
	ids := []string{}
	for _, r := range records {
		if id, ok := r["taskId"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
