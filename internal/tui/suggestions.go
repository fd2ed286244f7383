package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Suggestions provides autocomplete for chat input
type Suggestions struct {
	commands     []SuggestionItem
	tasks        []SuggestionItem
	items        []SuggestionItem
	filtered     []SuggestionItem
	selectedIdx  int
	visible      bool
	prefix       string // "/" or "@"
	currentInput string
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
	Type        string // "command" or "task"
}

var employeeSuggestions = []SuggestionItem{
	{Text: "check my tasks", Description: "List tasks assigned to you", Type: "command"},
	{Text: "update task T001 to in_progress", Description: "Change the status of your task", Type: "command"},
}

var managerSuggestions = []SuggestionItem{
	{Text: "show all team tasks", Description: "List tasks of you and your reports", Type: "command"},
	{Text: "show performance reports", Description: "List performance records", Type: "command"},
	{Text: "update task T001 status to completed", Description: "Change the status of any task", Type: "command"},
}

// NewSuggestions creates a suggestions handler for role
func NewSuggestions(role string) *Suggestions {
	commands := employeeSuggestions
	if role == "manager" {
		commands = managerSuggestions
	}
	return &Suggestions{commands: commands}
}

// Update updates suggestions based on current input
func (s *Suggestions) Update(input string) {
	s.currentInput = input
	switch {
	case strings.HasPrefix(input, "/"):
		s.prefix = "/"
		s.items = s.commands
		s.visible = true
		s.filter(strings.ToLower(strings.TrimPrefix(input, "/")))
	case strings.HasPrefix(input, "@"):
		s.prefix = "@"
		s.items = s.tasks
		s.visible = true
		s.filter(strings.ToLower(strings.TrimPrefix(input, "@")))
	default:
		s.visible = false
		s.filtered = nil
		s.prefix = ""
	}
}

// SetTasks replaces the task id suggestions offered after "@"
func (s *Suggestions) SetTasks(ids []string) {
	s.tasks = make([]SuggestionItem, len(ids))
	for i, id := range ids {
		s.tasks[i] = SuggestionItem{Text: id, Description: "Reference this task", Type: "task"}
	}
	if s.prefix == "@" {
		s.items = s.tasks
		s.filter(strings.ToLower(strings.TrimPrefix(s.currentInput, "@")))
	}
}

func (s *Suggestions) filter(query string) {
	if query == "" {
		s.filtered = s.items
		s.selectedIdx = 0
		return
	}

	s.filtered = []SuggestionItem{}
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Text), query) {
			s.filtered = append(s.filtered, item)
		}
	}
	s.selectedIdx = 0
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	header := "Commands"
	if s.prefix == "@" {
		header = "Tasks"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render(header))
	b.WriteString("\n")

	maxVisible := 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			b.WriteString(helpStyle.Render(fmt.Sprintf("  ... and %d more", len(s.filtered)-maxVisible)))
			break
		}

		var line string
		if i == s.selectedIdx {
			line = selectedStyle.Render("▶ " + item.Text)
			if item.Description != "" {
				line += " " + selectedStyle.Render(item.Description)
			}
		} else {
			line = "  " + item.Text
			if item.Description != "" {
				line += " " + helpStyle.Render(item.Description)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return suggestionStyle.Width(max(width-4, 20)).Render(b.String())
}
