package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

func newTestResolver(t *testing.T, members ...models.Record) *Resolver {
	t.Helper()
	s := store.NewMemory()
	require.NoError(t, s.Save(context.Background(), store.Team, members))
	return NewResolver(s)
}

func TestMembersOf(t *testing.T) {
	r := newTestResolver(t,
		models.Record{"employeeId": "E001", "managerId": "M001", "name": "سارة"},
		models.Record{"employeeId": "E002", "managerId": "M002"},
		models.Record{"employeeId": "E003", "managerId": "M001"},
		models.Record{"employeeId": "M001", "managerId": "X001"},
		models.Record{"employeeId": "E001", "managerId": "M001"},
	)
	ctx := context.Background()

	ids, err := r.MembersOf(ctx, "M001")
	require.NoError(t, err)
	assert.Equal(t, []string{"E001", "E003", "M001"}, ids)

	ids, err = r.MembersOf(ctx, "M002")
	require.NoError(t, err)
	assert.Equal(t, []string{"E002", "M002"}, ids)
}

func TestMembersOf_OneLevelOnly(t *testing.T) {
	r := newTestResolver(t,
		models.Record{"employeeId": "M002", "managerId": "M001"},
		models.Record{"employeeId": "E010", "managerId": "M002"},
	)

	ids, err := r.MembersOf(context.Background(), "M001")
	require.NoError(t, err)
	assert.Equal(t, []string{"M002", "M001"}, ids)
}

func TestMembersOf_UnknownManager(t *testing.T) {
	r := newTestResolver(t)

	ids, err := r.MembersOf(context.Background(), "M404")
	require.NoError(t, err)
	assert.Equal(t, []string{"M404"}, ids)
}

func TestMembersOf_SelfManaged(t *testing.T) {
	r := newTestResolver(t, models.Record{"employeeId": "M001", "managerId": "M001"})

	ids, err := r.MembersOf(context.Background(), "M001")
	require.NoError(t, err)
	assert.Equal(t, []string{"M001"}, ids)
}

func TestLookup(t *testing.T) {
	r := newTestResolver(t,
		models.Record{"employeeId": "E001", "managerId": "M001", "name": "Sara"},
	)
	ctx := context.Background()

	rec, ok, err := r.Lookup(ctx, "E001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sara", rec.String("name"))

	_, ok, err = r.Lookup(ctx, "E999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolver_StorageFault(t *testing.T) {
	s := store.NewMemory()
	s.SetRaw(store.Team, []byte("[{"))
	r := NewResolver(s)

	_, err := r.MembersOf(context.Background(), "M001")
	assert.ErrorIs(t, err, store.ErrMalformed)
}
