// Package intent maps free-text commands to tagged intents.
//
// Matching is keyword based: each role has an ordered rule table and the
// first rule whose predicate holds for the lowercased input wins. Positional
// fields are taken from the whitespace-split raw input, so "update" and
// "task" must appear in lower case for an update to be extracted.
package intent

import "strings"

// Kind tags an interpreted command.
type Kind string

const (
	ListOwn           Kind = "list_own"
	UpdateStatus      Kind = "update_status"
	ListTeam          Kind = "list_team"
	Performance       Kind = "performance"
	UpdateAny         Kind = "update_any"
	CreateUnsupported Kind = "create_unsupported"
	Usage             Kind = "usage"
	Help              Kind = "help"
)

// Intent is the result of interpreting one input line. TaskID and Status
// are set only for UpdateStatus and UpdateAny.
type Intent struct {
	Kind   Kind
	TaskID string
	Status string
}

type rule struct {
	match func(lower string) bool
	build func(tokens []string) Intent
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

func fixed(k Kind) func([]string) Intent {
	return func([]string) Intent { return Intent{Kind: k} }
}

var employeeRules = []rule{
	{containsAny("check", "see", "my tasks"), fixed(ListOwn)},
	{containsAny("update", "status"), func(tokens []string) Intent {
		// update task <id> <connector> <status>
		if len(tokens) >= 5 && tokens[0] == "update" && tokens[1] == "task" {
			return Intent{Kind: UpdateStatus, TaskID: tokens[2], Status: tokens[4]}
		}
		return Intent{Kind: Usage}
	}},
}

var managerRules = []rule{
	{containsAny("all tasks", "team tasks"), fixed(ListTeam)},
	{containsAny("performance", "reports"), fixed(Performance)},
	{containsAll("update", "task"), func(tokens []string) Intent {
		// update task <id> <field> <connector> <status>
		if len(tokens) >= 6 {
			return Intent{Kind: UpdateAny, TaskID: tokens[2], Status: tokens[5]}
		}
		return Intent{Kind: Usage}
	}},
	{containsAll("create", "task"), fixed(CreateUnsupported)},
}

func interpret(rules []rule, input string) Intent {
	lower := strings.ToLower(input)
	for _, r := range rules {
		if r.match(lower) {
			return r.build(strings.Fields(input))
		}
	}
	return Intent{Kind: Help}
}

// ParseEmployee interprets input from an employee session.
func ParseEmployee(input string) Intent {
	return interpret(employeeRules, input)
}

// ParseManager interprets input from a manager session.
func ParseManager(input string) Intent {
	return interpret(managerRules, input)
}
