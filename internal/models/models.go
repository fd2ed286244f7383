// Package models defines the core domain types for elhem.
package models

import (
	"strings"
	"time"
)

// TimeLayout is the timestamp format used for createdAt and dueDate.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// TaskStatus represents the current state of a task. Values outside the
// constants below are allowed and stored as given.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalizes s to a known priority. An empty string maps to
// PriorityMedium.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, true
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	default:
		return "", false
	}
}

// Record is a single stored entity: a mapping of field names to values.
type Record map[string]any

// String returns the field as a string, or "" if it is absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Task field names as stored in the tasks collection.
const (
	FieldTaskID       = "taskId"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldAssignedToID = "assignedToId"
	FieldStatus       = "status"
	FieldPriority     = "priority"
	FieldCreatedAt    = "createdAt"
	FieldDueDate      = "dueDate"
)

// Team field names as stored in the team collection.
const (
	FieldEmployeeID = "employeeId"
	FieldManagerID  = "managerId"
)

// Task represents a unit of work assigned to an employee.
type Task struct {
	TaskID       string     `json:"taskId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	AssignedToID string     `json:"assignedToId"`
	Status       TaskStatus `json:"status"`
	Priority     Priority   `json:"priority"`
	CreatedAt    string     `json:"createdAt"`
	DueDate      string     `json:"dueDate"`
}

// Record converts the task to its stored form.
func (t Task) Record() Record {
	return Record{
		FieldTaskID:       t.TaskID,
		FieldTitle:        t.Title,
		FieldDescription:  t.Description,
		FieldAssignedToID: t.AssignedToID,
		FieldStatus:       string(t.Status),
		FieldPriority:     string(t.Priority),
		FieldCreatedAt:    t.CreatedAt,
		FieldDueDate:      t.DueDate,
	}
}

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Decision is an audit entry for a state-mutating action.
type Decision struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	Actor      string `json:"actor,omitempty"`
	TaskID     string `json:"taskId,omitempty"`
	InputsHash string `json:"inputsHash"`
	Outcome    string `json:"outcome"`
	Timestamp  string `json:"timestamp"`
}

// Record converts the decision to its stored form.
func (d Decision) Record() Record {
	r := Record{
		"id":         d.ID,
		"action":     d.Action,
		"inputsHash": d.InputsHash,
		"outcome":    d.Outcome,
		"timestamp":  d.Timestamp,
	}
	if d.Actor != "" {
		r["actor"] = d.Actor
	}
	if d.TaskID != "" {
		r["taskId"] = d.TaskID
	}
	return r
}
