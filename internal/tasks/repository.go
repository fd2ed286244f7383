// Package tasks implements queries and mutations over the task collection.
//
// Every mutation is a full read-modify-write of the collection. A Repository
// serializes its own mutations. Separate processes sharing a store are not
// coordinated: two of them creating tasks at once can both generate the same
// id, and the last Save wins.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fentz26/elhem/internal/metrics"
	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

// DueIn is the time between a task's creation and its due date.
const DueIn = 30 * 24 * time.Hour

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidTask     = errors.New("invalid task")
)

// Outcome classifies the result of an update.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	// OutcomeNotFound covers both a missing task and, for status updates,
	// a task assigned to someone else.
	OutcomeNotFound Outcome = "not_found"
)

// Result is the observable outcome of an update.
type Result struct {
	Outcome Outcome
	TaskID  string
	Message string
}

// OK reports whether the update was applied.
func (r Result) OK() bool { return r.Outcome == OutcomeUpdated }

// MemberResolver resolves the set of ids reporting to a manager.
type MemberResolver interface {
	MembersOf(ctx context.Context, managerID string) ([]string, error)
}

// Auditor records decisions for mutations.
type Auditor interface {
	Record(ctx context.Context, action, actor string, inputs any, outcome, taskID string) (*models.Decision, error)
}

// NewTask holds the caller-supplied fields of a task to create.
type NewTask struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedToID string `json:"assignedToId"`
	Priority     string `json:"priority"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// Repository provides task operations over a record store. It is safe for
// concurrent use.
type Repository struct {
	mu      sync.Mutex // held across load-modify-save
	store   store.Store
	team    MemberResolver
	audit   Auditor
	metrics *metrics.Collector
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithAuditor records a decision for every mutation.
func WithAuditor(a Auditor) Option { return func(r *Repository) { r.audit = a } }

// WithMetrics counts mutations by action and outcome.
func WithMetrics(m *metrics.Collector) Option { return func(r *Repository) { r.metrics = m } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(r *Repository) { r.log = l } }

// WithClock overrides the time source used for createdAt and dueDate.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

// NewRepository creates a task repository.
func NewRepository(s store.Store, team MemberResolver, opts ...Option) *Repository {
	r := &Repository{
		store: s,
		team:  team,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// All returns every task.
func (r *Repository) All(ctx context.Context) ([]models.Record, error) {
	return r.store.Load(ctx, store.Tasks)
}

// TasksFor returns the tasks assigned to employeeID in stored order.
func (r *Repository) TasksFor(ctx context.Context, employeeID string) ([]models.Record, error) {
	return r.filter(ctx, func(assignee string) bool { return assignee == employeeID })
}

// TasksForManager returns the tasks assigned to the manager or any direct
// report, in stored order.
func (r *Repository) TasksForManager(ctx context.Context, managerID string) ([]models.Record, error) {
	ids, err := r.team.MembersOf(ctx, managerID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(ids))
	for _, id := range ids {
		members[id] = true
	}
	return r.filter(ctx, func(assignee string) bool { return members[assignee] })
}

func (r *Repository) filter(ctx context.Context, keep func(assignee string) bool) ([]models.Record, error) {
	records, err := r.store.Load(ctx, store.Tasks)
	if err != nil {
		return nil, err
	}
	out := []models.Record{}
	for _, rec := range records {
		if keep(rec.String(models.FieldAssignedToID)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Get returns the first task with the given id.
func (r *Repository) Get(ctx context.Context, taskID string) (models.Record, bool, error) {
	records, err := r.store.Load(ctx, store.Tasks)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range records {
		if rec.String(models.FieldTaskID) == taskID {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// UpdateStatus sets the status of the first task that has the given id and
// is assigned to callerID. A missing task and a task assigned to someone
// else produce the same result.
func (r *Repository) UpdateStatus(ctx context.Context, taskID, status, callerID string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx, store.Tasks)
	if err != nil {
		return Result{}, err
	}
	for _, rec := range records {
		if rec.String(models.FieldTaskID) != taskID || rec.String(models.FieldAssignedToID) != callerID {
			continue
		}
		rec[models.FieldStatus] = status
		if err := r.store.Save(ctx, store.Tasks, records); err != nil {
			return Result{}, err
		}
		r.log.Info("task status updated",
			zap.String("task_id", taskID), zap.String("status", status), zap.String("actor", callerID))
		res := Result{
			Outcome: OutcomeUpdated,
			TaskID:  taskID,
			Message: fmt.Sprintf("Task %s status updated to %s", taskID, status),
		}
		r.record(ctx, "task.update_status", callerID, map[string]string{"status": status}, res)
		return res, nil
	}

	r.log.Debug("status update rejected", zap.String("task_id", taskID), zap.String("actor", callerID))
	res := Result{
		Outcome: OutcomeNotFound,
		TaskID:  taskID,
		Message: fmt.Sprintf("Task %s not found or not assigned to you", taskID),
	}
	r.record(ctx, "task.update_status", callerID, map[string]string{"status": status}, res)
	return res, nil
}

// UpdateAny merges fields into the first task with the given id, without
// an ownership check. Existing keys are overwritten and unknown keys added.
func (r *Repository) UpdateAny(ctx context.Context, actorID, taskID string, fields map[string]any) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx, store.Tasks)
	if err != nil {
		return Result{}, err
	}
	for _, rec := range records {
		if rec.String(models.FieldTaskID) != taskID {
			continue
		}
		for k, v := range fields {
			rec[k] = v
		}
		if err := r.store.Save(ctx, store.Tasks, records); err != nil {
			return Result{}, err
		}
		r.log.Info("task updated",
			zap.String("task_id", taskID), zap.String("actor", actorID), zap.Int("fields", len(fields)))
		res := Result{
			Outcome: OutcomeUpdated,
			TaskID:  taskID,
			Message: fmt.Sprintf("Task %s updated successfully", taskID),
		}
		r.record(ctx, "task.update", actorID, fields, res)
		return res, nil
	}

	res := Result{
		Outcome: OutcomeNotFound,
		TaskID:  taskID,
		Message: fmt.Sprintf("Task %s not found", taskID),
	}
	r.record(ctx, "task.update", actorID, fields, res)
	return res, nil
}

// Create appends a new pending task. Its id is "T" followed by the
// collection size plus one, zero-padded to three digits.
func (r *Repository) Create(ctx context.Context, in NewTask) (models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title required", ErrInvalidTask)
	}
	if strings.TrimSpace(in.AssignedToID) == "" {
		return models.Task{}, fmt.Errorf("%w: assignee required", ErrInvalidTask)
	}
	priority, ok := models.ParsePriority(in.Priority)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %q (want low, medium or high)", ErrInvalidPriority, in.Priority)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx, store.Tasks)
	if err != nil {
		return models.Task{}, err
	}

	now := r.now()
	task := models.Task{
		TaskID:       fmt.Sprintf("T%03d", len(records)+1),
		Title:        in.Title,
		Description:  in.Description,
		AssignedToID: in.AssignedToID,
		Status:       models.TaskStatusPending,
		Priority:     priority,
		CreatedAt:    models.FormatTime(now),
		DueDate:      models.FormatTime(now.Add(DueIn)),
	}
	records = append(records, task.Record())
	if err := r.store.Save(ctx, store.Tasks, records); err != nil {
		return models.Task{}, err
	}

	r.log.Info("task created",
		zap.String("task_id", task.TaskID), zap.String("assignee", task.AssignedToID), zap.String("actor", in.CreatedBy))
	r.record(ctx, "task.create", in.CreatedBy, in, Result{Outcome: "created", TaskID: task.TaskID})
	return task, nil
}

func (r *Repository) record(ctx context.Context, action, actor string, inputs any, res Result) {
	r.metrics.TaskMutation(action, string(res.Outcome))
	if r.audit == nil {
		return
	}
	if _, err := r.audit.Record(ctx, action, actor, inputs, string(res.Outcome), res.TaskID); err != nil {
		r.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
