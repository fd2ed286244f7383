// Package assistant executes interpreted commands for employee and manager
// sessions and renders the text response.
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/intent"
	"github.com/fentz26/elhem/internal/metrics"
	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
	"github.com/fentz26/elhem/internal/tasks"
)

// Role names accepted by Respond.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

// Fixed responses.
const (
	EmployeeUsage = "Please specify the task ID and new status. Example: 'update task T001 to in_progress'"
	EmployeeHelp  = "I can help you check your tasks or update task status. What would you like to do?"
	ManagerUsage  = "Please specify the task ID and updates. Example: 'update task T001 status to completed'"
	ManagerCreate = "Task creation requires more specific input. Please use the API directly."
	ManagerHelp   = "I can help you view all team tasks, update any task, or view performance reports. What would you like to do?"
	InvalidRole   = "Invalid role. Use 'employee' or 'manager'"
)

// Assistant answers session input against the task repository.
type Assistant struct {
	tasks   *tasks.Repository
	store   store.Store
	metrics *metrics.Collector
	log     *zap.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(a *Assistant) { a.log = l } }

// WithMetrics counts interpreted intents.
func WithMetrics(m *metrics.Collector) Option { return func(a *Assistant) { a.metrics = m } }

// New creates an assistant. Performance records are read from s.
func New(repo *tasks.Repository, s store.Store, opts ...Option) *Assistant {
	a := &Assistant{tasks: repo, store: s, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Respond dispatches input to the session for role. An unknown role yields
// InvalidRole and a nil error.
func (a *Assistant) Respond(ctx context.Context, role, id, input string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleEmployee:
		return a.Employee(ctx, id, input)
	case RoleManager:
		return a.Manager(ctx, id, input)
	default:
		return InvalidRole, nil
	}
}

// Employee handles input from the employee employeeID.
func (a *Assistant) Employee(ctx context.Context, employeeID, input string) (string, error) {
	in := intent.ParseEmployee(input)
	a.observe(RoleEmployee, employeeID, in)

	switch in.Kind {
	case intent.ListOwn:
		records, err := a.tasks.TasksFor(ctx, employeeID)
		if err != nil {
			return "", err
		}
		return render(records)
	case intent.UpdateStatus:
		res, err := a.tasks.UpdateStatus(ctx, in.TaskID, in.Status, employeeID)
		if err != nil {
			return "", err
		}
		return res.Message, nil
	case intent.Usage:
		return EmployeeUsage, nil
	default:
		return EmployeeHelp, nil
	}
}

// Manager handles input from the manager managerID.
func (a *Assistant) Manager(ctx context.Context, managerID, input string) (string, error) {
	in := intent.ParseManager(input)
	a.observe(RoleManager, managerID, in)

	switch in.Kind {
	case intent.ListTeam:
		records, err := a.tasks.TasksForManager(ctx, managerID)
		if err != nil {
			return "", err
		}
		return render(records)
	case intent.Performance:
		records, err := a.store.Load(ctx, store.Performance)
		if err != nil {
			return "", err
		}
		return render(records)
	case intent.UpdateAny:
		res, err := a.tasks.UpdateAny(ctx, managerID, in.TaskID, map[string]any{models.FieldStatus: in.Status})
		if err != nil {
			return "", err
		}
		return res.Message, nil
	case intent.CreateUnsupported:
		return ManagerCreate, nil
	case intent.Usage:
		return ManagerUsage, nil
	default:
		return ManagerHelp, nil
	}
}

func (a *Assistant) observe(role, id string, in intent.Intent) {
	a.metrics.Intent(role, string(in.Kind))
	a.log.Debug("intent",
		zap.String("role", role), zap.String("actor", id), zap.String("kind", string(in.Kind)), zap.String("task_id", in.TaskID))
}

func render(records []models.Record) (string, error) {
	data, err := store.Encode(records)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
