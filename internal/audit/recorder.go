// Package audit records decisions for state-mutating actions.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

// Recorder appends decision entries to the decisions collection.
type Recorder struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time
}

// NewRecorder creates a new decision recorder.
func NewRecorder(s store.Store) *Recorder {
	return &Recorder{store: s, now: time.Now}
}

// Record writes a decision entry for a state-mutating action.
func (r *Recorder) Record(ctx context.Context, action, actor string, inputs any, outcome, taskID string) (*models.Decision, error) {
	entry := &models.Decision{
		ID:         uuid.New().String(),
		Action:     action,
		Actor:      actor,
		TaskID:     taskID,
		InputsHash: hashInputs(inputs),
		Outcome:    outcome,
		Timestamp:  models.FormatTime(r.now()),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.Load(ctx, store.Decisions)
	if err != nil {
		return nil, fmt.Errorf("load decisions: %w", err)
	}
	records = append(records, entry.Record())
	if err := r.store.Save(ctx, store.Decisions, records); err != nil {
		return nil, fmt.Errorf("save decisions: %w", err)
	}
	return entry, nil
}

// List returns every recorded decision, oldest first.
func (r *Recorder) List(ctx context.Context) ([]models.Record, error) {
	return r.store.Load(ctx, store.Decisions)
}

// hashInputs creates a SHA256 hash of the inputs for reproducibility.
func hashInputs(inputs any) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
