package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"", PriorityMedium, true},
		{"low", PriorityLow, true},
		{" High ", PriorityHigh, true},
		{"MEDIUM", PriorityMedium, true},
		{"urgent", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePriority(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRecordString(t *testing.T) {
	r := Record{"taskId": "T001", "hours": 3}
	assert.Equal(t, "T001", r.String("taskId"))
	assert.Equal(t, "", r.String("hours"))
	assert.Equal(t, "", r.String("missing"))
}

func TestFormatTime(t *testing.T) {
	tunis := time.FixedZone("CET", 3600)
	assert.Equal(t, "2025-09-22T12:43:05.120Z", FormatTime(time.Date(2025, 9, 22, 13, 43, 5, 120e6, tunis)))
}

func TestDecisionRecord(t *testing.T) {
	d := Decision{ID: "d1", Action: "task.create", InputsHash: "abc", Outcome: "created", Timestamp: "t"}
	r := d.Record()
	assert.NotContains(t, r, "actor")
	assert.NotContains(t, r, "taskId")

	d.Actor, d.TaskID = "M001", "T001"
	r = d.Record()
	assert.Equal(t, "M001", r.String("actor"))
	assert.Equal(t, "T001", r.String("taskId"))
}
