package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsim/workcell-engine/internal/adapters/persistence"
	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/database"
)

func TestGormSnapshotRepository_SaveAndRestore(t *testing.T) {
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	repo := persistence.NewGormSnapshotRepository(db)

	e := orchestrator.NewEngine(orchestrator.Hooks[string, string]{})
	require.NoError(t, e.AddStorage("eis", orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage("iis", orchestrator.RoleIIS, ptrStr("Flour"), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage("ios", orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation("ws", []string{"eis"}, []string{"iis"}, []string{"ios"}, nil, orchestrator.PriorityHigh, 5, nil))
	require.True(t, e.ItemAdded("eis", "Flour"))
	require.NoError(t, e.AddWorker("w1"))

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "demo", e))

	restored := orchestrator.NewEngine(orchestrator.Hooks[string, string]{})
	require.NoError(t, repo.Restore(ctx, "demo", restored))

	counts := restored.GetCounts()
	assert.Equal(t, 1, counts.Workers)
	assert.Equal(t, 3, counts.Storages)
	assert.Equal(t, 1, counts.Workstations)

	ws := restored.GetWorkstationInfo("ws")
	require.NotNil(t, ws)
	assert.Equal(t, orchestrator.PriorityHigh, ws.Priority())
}

func TestGormSnapshotRepository_ListAndDeleteRuns(t *testing.T) {
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	repo := persistence.NewGormSnapshotRepository(db)
	ctx := context.Background()

	e := orchestrator.NewEngine(orchestrator.Hooks[string, string]{})
	require.NoError(t, e.AddStorage("eis", orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))

	require.NoError(t, repo.Save(ctx, "run-a", e))
	require.NoError(t, repo.Save(ctx, "run-b", e))

	runs, err := repo.ListRuns(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run-a", "run-b"}, runs)

	require.NoError(t, repo.DeleteRun(ctx, "run-a"))
	runs, err = repo.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-b"}, runs)
}

func ptrStr(s string) *string { return &s }
