package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	calls []string
	reply string
	err   error
}

func (f *fakeResponder) Respond(_ context.Context, role, id, input string) (string, error) {
	f.calls = append(f.calls, role+"/"+id+"/"+input)
	return f.reply, f.err
}

func typeLine(t *testing.T, c *Chat, line string) tea.Cmd {
	t.Helper()
	c.input.SetValue(line)
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestChat_Send(t *testing.T) {
	r := &fakeResponder{reply: `[
  {
    "taskId": "T001"
  },
  {
    "taskId": "T004"
  }
]`}
	c := New(context.Background(), r, "Employee", "E001", "Elhem")
	c.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	cmd := typeLine(t, c, "  check my tasks ")
	require.NotNil(t, cmd)
	assert.True(t, c.waiting)
	assert.Equal(t, "", c.input.Value())

	msg := cmd()
	c.Update(msg)

	assert.Equal(t, []string{"employee/E001/check my tasks"}, r.calls)
	assert.False(t, c.waiting)
	assert.Equal(t, []Entry{
		{From: FromUser, Text: "check my tasks"},
		{From: FromAssistant, Text: r.reply},
	}, c.Transcript())
	assert.Contains(t, c.View(), "[employee E001]")

	c.input.SetValue("@T00")
	c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	require.True(t, c.suggestions.IsVisible())
	assert.Equal(t, "T004", c.suggestions.Selected().Text)

	c.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "update task T004 ", c.input.Value())
	assert.False(t, c.suggestions.IsVisible())
}

func TestChat_Error(t *testing.T) {
	r := &fakeResponder{err: errors.New("malformed collection content")}
	c := New(context.Background(), r, "manager", "M001", "Elhem")

	cmd := typeLine(t, c, "show all team tasks")
	c.Update(cmd())

	got := c.Transcript()
	require.Len(t, got, 2)
	assert.Equal(t, Entry{From: FromError, Text: "malformed collection content"}, got[1])
}

func TestChat_EmptyLineIgnored(t *testing.T) {
	r := &fakeResponder{}
	c := New(context.Background(), r, "employee", "E001", "Elhem")

	cmd := typeLine(t, c, "   ")
	assert.Nil(t, cmd)
	assert.Empty(t, r.calls)
	assert.Empty(t, c.Transcript())
}

func TestChat_Quit(t *testing.T) {
	c := New(context.Background(), &fakeResponder{}, "employee", "E001", "Elhem")

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestSuggestions(t *testing.T) {
	s := NewSuggestions("manager")

	s.Update("/perf")
	require.True(t, s.IsVisible())
	assert.Equal(t, "show performance reports", s.Selected().Text)

	s.Update("/")
	assert.Len(t, s.filtered, 3)
	s.Prev()
	assert.Equal(t, "update task T001 status to completed", s.Selected().Text)
	s.Next()
	assert.Equal(t, "show all team tasks", s.Selected().Text)

	s.Update("@")
	assert.False(t, s.IsVisible(), "no tasks known yet")
	s.SetTasks([]string{"T001", "T002"})
	assert.True(t, s.IsVisible())
	assert.NotEmpty(t, s.Render(60))

	s.Update("hello")
	assert.False(t, s.IsVisible())
	assert.Nil(t, s.Selected())
}

func TestTaskIDs(t *testing.T) {
	assert.Equal(t, []string{"T001"}, taskIDs(`[{"taskId":"T001"},{"name":"x"}]`))
	assert.Equal(t, []string{}, taskIDs(`[]`))
	assert.Nil(t, taskIDs("Task T001 updated successfully"))
	assert.Nil(t, taskIDs("[not json"))
}
