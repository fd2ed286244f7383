// Package team resolves reporting relationships from the team collection.
package team

import (
	"context"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

// Resolver answers membership questions over the team collection.
type Resolver struct {
	store store.Store
}

// NewResolver creates a resolver backed by s.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// MembersOf returns the ids of employees whose managerId is managerID,
// followed by managerID itself. Only direct reports are included. Ids are
// unique and keep the order they appear in the team collection.
func (r *Resolver) MembersOf(ctx context.Context, managerID string) ([]string, error) {
	records, err := r.store.Load(ctx, store.Team)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{managerID: true}
	var ids []string
	for _, rec := range records {
		if rec.String(models.FieldManagerID) != managerID {
			continue
		}
		id := rec.String(models.FieldEmployeeID)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return append(ids, managerID), nil
}

// Lookup returns the team record whose employeeId is id.
func (r *Resolver) Lookup(ctx context.Context, id string) (models.Record, bool, error) {
	records, err := r.store.Load(ctx, store.Team)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range records {
		if rec.String(models.FieldEmployeeID) == id {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// All returns the whole team collection.
func (r *Resolver) All(ctx context.Context) ([]models.Record, error) {
	return r.store.Load(ctx, store.Team)
}
