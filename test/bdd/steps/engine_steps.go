package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
)

// EngineContext holds the live engine for one scenario exercising the
// orchestrator directly, bypassing the CLI and persistence adapters.
type EngineContext struct {
	eng *orchestrator.Engine[string, string]
}

func InitializeEngineScenario(ctx *godog.ScenarioContext) {
	ec := &EngineContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.eng = orchestrator.NewEngine(orchestrator.Hooks[string, string]{})
		return c, nil
	})

	ctx.Step(`^storage "([^"]+)" with role (EIS|IIS|IOS|EOS)$`, ec.storageWithRole)
	ctx.Step(`^storage "([^"]+)" with role (EIS|IIS|IOS|EOS) accepting "([^"]+)"$`, ec.storageWithRoleAccepting)
	ctx.Step(`^storage "([^"]+)" holds item "([^"]+)"$`, ec.storageHoldsItem)
	ctx.Step(`^storage "([^"]+)" is emptied$`, ec.storageIsEmptied)

	ctx.Step(`^workstation "([^"]+)" wired with EIS "([^"]*)"(?:, IIS "([^"]*)")?(?:, IOS "([^"]*)")?(?:, EOS "([^"]*)")?$`, ec.workstationWired)
	ctx.Step(`^workstation "([^"]+)" with priority (LOW|NORMAL|HIGH|CRITICAL) wired with EIS "([^"]*)"(?:, IIS "([^"]*)")?(?:, IOS "([^"]*)")?(?:, EOS "([^"]*)")?$`, ec.workstationWithPriorityWired)

	ctx.Step(`^worker "([^"]+)" becomes available$`, ec.workerBecomesAvailable)
	ctx.Step(`^worker "([^"]+)" becomes unavailable$`, ec.workerBecomesUnavailable)
	ctx.Step(`^worker "([^"]+)" completes pickup$`, ec.workerCompletesPickup)
	ctx.Step(`^workstation "([^"]+)" completes work$`, ec.workstationCompletesWork)
	ctx.Step(`^worker "([^"]+)" completes store$`, ec.workerCompletesStore)

	ctx.Step(`^dangling item "([^"]+)" with item "([^"]+)" is added$`, ec.danglingItemAdded)

	ctx.Step(`^storage "([^"]+)" has an item$`, ec.storageHasAnItem)
	ctx.Step(`^storage "([^"]+)" has no item$`, ec.storageHasNoItem)
	ctx.Step(`^workstation "([^"]+)" status is (Queued|Active|Blocked)$`, ec.workstationStatusIs)
	ctx.Step(`^workstation "([^"]+)" current step is (Pickup|Process|Store)$`, ec.workstationCurrentStepIs)
	ctx.Step(`^workstation "([^"]+)" has completed (\d+) cycles$`, ec.workstationHasCompletedCycles)
	ctx.Step(`^worker "([^"]+)" state is (Idle|Working)$`, ec.workerStateIs)
	ctx.Step(`^worker "([^"]+)" is assigned to dangling item "([^"]+)"$`, ec.workerIsAssignedToDanglingItem)
	ctx.Step(`^there are no dangling items$`, ec.thereAreNoDanglingItems)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func (ec *EngineContext) storageWithRole(id, role string) error {
	return ec.eng.AddStorage(id, mustParseRole(role), nil, orchestrator.PriorityNormal)
}

func (ec *EngineContext) storageWithRoleAccepting(id, role, accepts string) error {
	return ec.eng.AddStorage(id, mustParseRole(role), &accepts, orchestrator.PriorityNormal)
}

func (ec *EngineContext) storageHoldsItem(id, item string) error {
	if !ec.eng.ItemAdded(id, item) {
		return fmt.Errorf("item_added(%s, %s) was rejected", id, item)
	}
	return nil
}

func (ec *EngineContext) storageIsEmptied(id string) error {
	if !ec.eng.ItemRemoved(id) {
		return fmt.Errorf("item_removed(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) workstationWired(id, eis, iis, ios, eos string) error {
	return ec.eng.AddWorkstation(id, splitIDs(eis), splitIDs(iis), splitIDs(ios), splitIDs(eos), orchestrator.PriorityNormal, 1, nil)
}

func (ec *EngineContext) workstationWithPriorityWired(id, priority, eis, iis, ios, eos string) error {
	return ec.eng.AddWorkstation(id, splitIDs(eis), splitIDs(iis), splitIDs(ios), splitIDs(eos), mustParsePriority(priority), 1, nil)
}

func (ec *EngineContext) workerBecomesAvailable(id string) error {
	if err := ec.eng.AddWorker(id); err == nil {
		return nil
	}
	if !ec.eng.WorkerAvailable(id) {
		return fmt.Errorf("worker_available(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) workerBecomesUnavailable(id string) error {
	if !ec.eng.WorkerUnavailable(id) {
		return fmt.Errorf("worker_unavailable(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) workerCompletesPickup(id string) error {
	if !ec.eng.PickupCompleted(id) {
		return fmt.Errorf("pickup_completed(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) workstationCompletesWork(id string) error {
	if !ec.eng.WorkCompleted(id) {
		return fmt.Errorf("work_completed(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) workerCompletesStore(id string) error {
	if !ec.eng.StoreCompleted(id) {
		return fmt.Errorf("store_completed(%s) was rejected", id)
	}
	return nil
}

func (ec *EngineContext) danglingItemAdded(id, item string) error {
	return ec.eng.DanglingItemAdded(id, item)
}

func (ec *EngineContext) storageHasAnItem(id string) error {
	has, exists := ec.eng.GetStorageHasItem(id)
	if !exists {
		return fmt.Errorf("no such storage %s", id)
	}
	if !has {
		return fmt.Errorf("expected storage %s to have an item", id)
	}
	return nil
}

func (ec *EngineContext) storageHasNoItem(id string) error {
	has, exists := ec.eng.GetStorageHasItem(id)
	if !exists {
		return fmt.Errorf("no such storage %s", id)
	}
	if has {
		return fmt.Errorf("expected storage %s to have no item", id)
	}
	return nil
}

func (ec *EngineContext) workstationStatusIs(id, status string) error {
	ws := ec.eng.GetWorkstationInfo(id)
	if ws == nil {
		return fmt.Errorf("no such workstation %s", id)
	}
	if ws.Status().String() != strings.ToUpper(status) {
		return fmt.Errorf("expected workstation %s status %s, got %s", id, status, ws.Status().String())
	}
	return nil
}

func (ec *EngineContext) workstationCurrentStepIs(id, step string) error {
	ws := ec.eng.GetWorkstationInfo(id)
	if ws == nil {
		return fmt.Errorf("no such workstation %s", id)
	}
	if ws.CurrentStep().String() != strings.ToUpper(step) {
		return fmt.Errorf("expected workstation %s step %s, got %s", id, step, ws.CurrentStep().String())
	}
	return nil
}

func (ec *EngineContext) workstationHasCompletedCycles(id string, n int) error {
	ws := ec.eng.GetWorkstationInfo(id)
	if ws == nil {
		return fmt.Errorf("no such workstation %s", id)
	}
	if ws.CyclesCompleted() != n {
		return fmt.Errorf("expected workstation %s to have completed %d cycles, got %d", id, n, ws.CyclesCompleted())
	}
	return nil
}

func (ec *EngineContext) workerStateIs(id, state string) error {
	st, exists := ec.eng.GetWorkerState(id)
	if !exists {
		return fmt.Errorf("no such worker %s", id)
	}
	if st.String() != strings.ToUpper(state) {
		return fmt.Errorf("expected worker %s state %s, got %s", id, state, st.String())
	}
	return nil
}

func (ec *EngineContext) workerIsAssignedToDanglingItem(workerID, danglingID string) error {
	info := ec.eng.GetWorkerInfo(workerID)
	if info == nil {
		return fmt.Errorf("no such worker %s", workerID)
	}
	a := info.Assignment()
	if a == nil || !a.IsDangling() || a.DanglingItemID() != danglingID {
		return fmt.Errorf("expected worker %s assigned to dangling item %s", workerID, danglingID)
	}
	return nil
}

func (ec *EngineContext) thereAreNoDanglingItems() error {
	if len(ec.eng.ListDanglingItemIDs()) != 0 {
		return fmt.Errorf("expected no dangling items, got %v", ec.eng.ListDanglingItemIDs())
	}
	return nil
}

func mustParseRole(s string) orchestrator.StorageRole {
	switch s {
	case "EIS":
		return orchestrator.RoleEIS
	case "IIS":
		return orchestrator.RoleIIS
	case "IOS":
		return orchestrator.RoleIOS
	case "EOS":
		return orchestrator.RoleEOS
	}
	return orchestrator.RoleEIS
}

func mustParsePriority(s string) orchestrator.Priority {
	switch s {
	case "LOW":
		return orchestrator.PriorityLow
	case "HIGH":
		return orchestrator.PriorityHigh
	case "CRITICAL":
		return orchestrator.PriorityCritical
	default:
		return orchestrator.PriorityNormal
	}
}
