package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fentz26/elhem/internal/models"
	"github.com/fentz26/elhem/internal/store"
)

func TestCopy_FileToSQLite(t *testing.T) {
	ctx := context.Background()
	src, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	dst, err := store.NewSQLite(filepath.Join(t.TempDir(), "elhem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dst.Close() })

	tasks := []models.Record{
		{"taskId": "T001", "assignedToId": "E001", "title": "مراجعة التقرير"},
		{"taskId": "T002", "assignedToId": "E002"},
	}
	team := []models.Record{{"employeeId": "E001", "managerId": "M001"}}
	require.NoError(t, src.Save(ctx, store.Tasks, tasks))
	require.NoError(t, src.Save(ctx, store.Team, team))
	require.NoError(t, dst.Save(ctx, store.Performance, []models.Record{{"stale": true}}))

	counts, err := Copy(ctx, src, dst, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{Collection: store.Tasks, Records: 2},
		{Collection: store.Team, Records: 1},
		{Collection: store.Performance, Records: 0},
	}, counts)

	got, err := dst.Load(ctx, store.Tasks)
	require.NoError(t, err)
	assert.Equal(t, tasks, got)

	perf, err := dst.Load(ctx, store.Performance)
	require.NoError(t, err)
	assert.Empty(t, perf, "destination collection is replaced")
}

func TestCopy_Selected(t *testing.T) {
	ctx := context.Background()
	src, dst := store.NewMemory(), store.NewMemory()
	require.NoError(t, src.Save(ctx, store.Decisions, []models.Record{{"id": "d1"}}))

	counts, err := Copy(ctx, src, dst, nil, store.Decisions)
	require.NoError(t, err)
	assert.Equal(t, []Count{{Collection: store.Decisions, Records: 1}}, counts)
}

func TestCopy_MalformedSource(t *testing.T) {
	ctx := context.Background()
	src, dst := store.NewMemory(), store.NewMemory()
	require.NoError(t, src.Save(ctx, store.Tasks, []models.Record{{"taskId": "T001"}}))
	src.SetRaw(store.Performance, []byte("{"))

	_, err := Copy(ctx, src, dst, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, store.ErrMalformed)

	_, ok := dst.Raw(store.Tasks)
	assert.False(t, ok, "nothing written when a source collection is malformed")
}
