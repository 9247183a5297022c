package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
)

func ptrStr(s string) *string { return &s }

func TestHooks_WorkstationActivated_IncrementsCounterAndGauge(t *testing.T) {
	collector := NewHookCollector()
	hooks := Hooks[string, string](collector)

	e := orchestrator.NewEngine(hooks)
	require.NoError(t, e.AddStorage("eis", orchestrator.RoleEIS, nil, orchestrator.PriorityCritical))
	require.NoError(t, e.AddStorage("iis", orchestrator.RoleIIS, ptrStr("Flour"), orchestrator.PriorityCritical))
	require.NoError(t, e.AddWorkstation("ws", []string{"eis"}, []string{"iis"}, nil, nil, orchestrator.PriorityCritical, 5, nil))
	require.True(t, e.ItemAdded("eis", "Flour"))
	require.NoError(t, e.AddWorker("w1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.workstationActivatedTotal.WithLabelValues("ws")))
	assert.Equal(t, float64(statusValueActive), testutil.ToFloat64(collector.workstationStatus.WithLabelValues("ws", "CRITICAL")))
}

func TestHooks_CycleCompleted_IncrementsCounter(t *testing.T) {
	collector := NewHookCollector()
	hooks := Hooks[string, string](collector)

	e := orchestrator.NewEngine(hooks)
	require.NoError(t, e.AddStorage("eis", orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage("iis", orchestrator.RoleIIS, ptrStr("Flour"), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage("ios", orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage("eos", orchestrator.RoleEOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation("ws", []string{"eis"}, []string{"iis"}, []string{"ios"}, []string{"eos"}, orchestrator.PriorityNormal, 1, ptrStr("Bread")))
	require.True(t, e.ItemAdded("eis", "Flour"))
	require.NoError(t, e.AddWorker("w1"))

	require.True(t, e.PickupCompleted("w1"))
	require.True(t, e.WorkCompleted("ws"))
	require.True(t, e.StoreCompleted("w1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.cyclesCompletedTotal.WithLabelValues("ws")))
}

func TestHooks_DanglingDelivery_IncrementsPickupAndDeliveryCounters(t *testing.T) {
	collector := NewHookCollector()
	hooks := Hooks[string, string](collector)

	e := orchestrator.NewEngine(hooks)
	require.NoError(t, e.AddStorage("eis", orchestrator.RoleEIS, ptrStr("Flour"), orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorker("w1"))
	require.NoError(t, e.DanglingItemAdded("d1", "Flour"))

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.danglingPickupsTotal.WithLabelValues("eis")))

	require.True(t, e.PickupCompleted("w1"))
	require.True(t, e.StoreCompleted("w1"))

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.itemsDeliveredTotal.WithLabelValues("eis")))
}

func TestCollector_Register_NoopWithoutRegistry(t *testing.T) {
	Registry = nil
	collector := NewHookCollector()
	require.NoError(t, collector.Register())
}

func TestCollector_Register_WithRegistry(t *testing.T) {
	InitRegistry()
	t.Cleanup(func() { Registry = nil })

	collector := NewHookCollector()
	require.NoError(t, collector.Register())
	assert.True(t, IsEnabled())
}
