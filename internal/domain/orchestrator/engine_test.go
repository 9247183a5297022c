package orchestrator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
)

// item is the test module's concrete Item instantiation: a small closed
// enumeration compared only for equality, per orchestrator.Item's contract.
type item int

const (
	itemFlour item = iota
	itemDough
	itemBread
	itemOre
)

func ptr[T any](v T) *T { return &v }

func newTestEngine(t *testing.T) *orchestrator.Engine[int, item] {
	t.Helper()
	return orchestrator.NewEngine(orchestrator.Hooks[int, item]{})
}

// --- Scenario 1: basic single-EIS/IIS/IOS/EOS cycle -------------------

func TestEngine_BasicCycle_PickupProcessStoreCompletesAndReleasesWorker(t *testing.T) {
	e := newTestEngine(t)

	var blocked, queued, activated, cycles int
	e = orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkstationBlocked:   func(orchestrator.WorkstationStatusEvent[int]) { blocked++ },
		OnWorkstationQueued:    func(orchestrator.WorkstationStatusEvent[int]) { queued++ },
		OnWorkstationActivated: func(orchestrator.WorkstationStatusEvent[int]) { activated++ },
		OnCycleCompleted:       func(orchestrator.CycleCompletedEvent[int]) { cycles++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(4, orchestrator.RoleEOS, ptr(itemBread), orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, []int{2}, []int{3}, []int{4}, orchestrator.PriorityNormal, 3, ptr(itemBread)))
	require.NoError(t, e.AddWorker(200))

	status, ok := e.GetWorkstationStatus(100)
	require.True(t, ok)
	assert.Equal(t, orchestrator.StatusBlocked, status)
	assert.Equal(t, 0, blocked, "status starts Blocked by default, so no transition hook fires on creation")

	require.True(t, e.ItemAdded(1, itemFlour))

	status, _ = e.GetWorkstationStatus(100)
	assert.Equal(t, orchestrator.StatusActive, status, "adding EIS stock plus an idle worker should bind immediately")
	assert.Equal(t, 1, activated)

	ws := e.GetWorkstationInfo(100)
	require.NotNil(t, ws)
	require.NotNil(t, ws.SelectedEIS())
	assert.Equal(t, 1, *ws.SelectedEIS())

	require.True(t, e.PickupCompleted(200))
	hasItem, _ := e.GetStorageHasItem(2)
	assert.True(t, hasItem, "picked-up flour should land in the IIS")

	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep())

	e.Tick()
	e.Tick()
	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep(), "process_duration is 3, two ticks should not finish it")

	e.Tick()
	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepStore, ws.CurrentStep(), "third tick reaches process_duration")

	hasItem, _ = e.GetStorageHasItem(3)
	assert.True(t, hasItem, "work_completed should fill the IOS")

	require.True(t, e.StoreCompleted(200))
	assert.Equal(t, 1, cycles)

	hasItem, _ = e.GetStorageHasItem(4)
	assert.True(t, hasItem, "bread should have been stored into the EOS")

	workerState, _ := e.GetWorkerState(200)
	assert.Equal(t, orchestrator.WorkerIdle, workerState, "worker should be released back to idle")

	status, _ = e.GetWorkstationStatus(100)
	assert.Equal(t, orchestrator.StatusBlocked, status, "IIS was consumed and no new EIS stock remains")
}

// runScheduler is level-triggered: a second call with no intervening event
// produces no further hook invocations.
func TestEngine_RunSchedulerIsIdempotentBetweenEvents(t *testing.T) {
	var activations int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkstationActivated: func(orchestrator.WorkstationStatusEvent[int]) { activations++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleIIS, ptr(itemOre), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, []int{1}, []int{2}, nil, orchestrator.PriorityNormal, 5, nil))
	require.NoError(t, e.AddWorker(200))
	require.True(t, e.ItemAdded(1, itemOre))

	assert.Equal(t, 1, activations)
	e.EvaluateDanglingItems() // drives another scheduler pass with nothing pending
	assert.Equal(t, 1, activations, "an extra scheduler pass with no new events must not re-fire hooks")
}

// --- Scenario 2: priority-ordered worker assignment --------------------

func TestEngine_Scheduler_PicksHighestPriorityWorkstationFirst(t *testing.T) {
	var assignedTo []int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkerAssigned: func(ev orchestrator.WorkerAssignedEvent[int]) { assignedTo = append(assignedTo, ev.Workstation) },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleIIS, ptr(itemOre), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, []int{1}, []int{2}, nil, orchestrator.PriorityLow, 5, nil))

	require.NoError(t, e.AddStorage(3, orchestrator.RoleIIS, ptr(itemOre), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(4, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(101, nil, []int{3}, []int{4}, nil, orchestrator.PriorityCritical, 5, nil))

	require.True(t, e.ItemAdded(1, itemOre))
	require.True(t, e.ItemAdded(3, itemOre))

	// Only one worker exists, added last so both workstations are already
	// Queued when the scheduler runs.
	require.NoError(t, e.AddWorker(200))

	require.Len(t, assignedTo, 1)
	assert.Equal(t, 101, assignedTo[0], "the critical-priority workstation must win the single idle worker")

	st100, _ := e.GetWorkstationStatus(100)
	assert.Equal(t, orchestrator.StatusQueued, st100, "the loser stays Queued, not Blocked")
}

// --- Scenario 3: worker abandonment preserves partial progress --------

func TestEngine_WorkerUnavailable_AbandonsWithoutLosingIISContents(t *testing.T) {
	var released []int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkerReleased: func(ev orchestrator.WorkerReleasedEvent[int]) { released = append(released, ev.Worker) },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, []int{2}, []int{3}, nil, orchestrator.PriorityNormal, 10, nil))
	require.NoError(t, e.AddWorker(200))
	require.True(t, e.ItemAdded(1, itemFlour))

	require.True(t, e.PickupCompleted(200))
	hasItem, _ := e.GetStorageHasItem(2)
	require.True(t, hasItem)

	require.True(t, e.WorkerUnavailable(200))
	require.Len(t, released, 1)

	ws := e.GetWorkstationInfo(100)
	assert.Nil(t, ws.AssignedWorker())
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep(), "IIS is already staged with IOS empty, so PRODUCE holds and resumption starts at Process")

	hasItem, _ = e.GetStorageHasItem(2)
	assert.True(t, hasItem, "IIS contents survive abandonment")

	require.True(t, e.WorkerAvailable(200))
	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StatusActive, ws.Status(), "a fresh idle worker should re-bind to the still-eligible workstation")
}

// --- Scenario 4: dangling item delivery --------------------------------

func TestEngine_DanglingItem_DeliveredToAcceptingEIS(t *testing.T) {
	var pickupStarted, delivered int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnPickupDanglingStarted: func(orchestrator.PickupDanglingStartedEvent[int]) { pickupStarted++ },
		OnItemDelivered:         func(orchestrator.ItemDeliveredEvent[int]) { delivered++ },
	})

	require.NoError(t, e.AddStorage(50, orchestrator.RoleEIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorker(200))

	require.NoError(t, e.DanglingItemAdded(900, itemFlour))
	assert.Equal(t, 1, pickupStarted)

	require.True(t, e.PickupCompleted(200))
	require.True(t, e.StoreCompleted(200))
	assert.Equal(t, 1, delivered)

	hasItem, _ := e.GetStorageHasItem(50)
	assert.True(t, hasItem)
	item := e.GetStorageItemType(50)
	require.NotNil(t, item)
	assert.Equal(t, itemFlour, *item)

	state, _ := e.GetWorkerState(200)
	assert.Equal(t, orchestrator.WorkerIdle, state)
	assert.Empty(t, e.ListDanglingItemIDs())
}

// A worker arriving at a workstation where FLUSH already holds (an IOS item
// waiting on an empty, accepting EOS) must enter Store directly rather than
// Pickup, per §4.2's FLUSH > PRODUCE > PICKUP-FEASIBLE worker-arrival order.
func TestEngine_BindWorkstation_EntersStoreDirectlyWhenFlushHolds(t *testing.T) {
	var storeStarted, pickupStarted int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnStoreStarted:  func(orchestrator.StoreStartedEvent[int, item]) { storeStarted++ },
		OnPickupStarted: func(orchestrator.PickupStartedEvent[int, item]) { pickupStarted++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(4, orchestrator.RoleEOS, ptr(itemBread), orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, []int{2}, []int{3}, []int{4}, orchestrator.PriorityNormal, 5, ptr(itemBread)))

	// Stage an IOS item directly (as if a previous worker produced it and was
	// then abandoned before Store) with no EIS/IIS stock present at all.
	require.True(t, e.ItemAdded(3, itemBread))
	require.NoError(t, e.AddWorker(200))

	assert.Equal(t, 1, storeStarted)
	assert.Equal(t, 0, pickupStarted)
	ws := e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepStore, ws.CurrentStep())
	require.NotNil(t, ws.SelectedEOS())
	assert.Equal(t, 4, *ws.SelectedEOS())
}

// A non-producer workstation whose IIS is already fully staged with its IOS
// empty should enter Process directly on bind, skipping Pickup even though
// it has EIS slots.
func TestEngine_BindWorkstation_EntersProcessDirectlyWhenProduceHolds(t *testing.T) {
	var processStarted, pickupStarted int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnProcessStarted: func(orchestrator.ProcessStartedEvent[int]) { processStarted++ },
		OnPickupStarted:  func(orchestrator.PickupStartedEvent[int, item]) { pickupStarted++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, []int{2}, []int{3}, nil, orchestrator.PriorityNormal, 5, nil))

	require.True(t, e.ItemAdded(2, itemFlour)) // IIS pre-staged, IOS empty, EIS empty
	require.NoError(t, e.AddWorker(200))

	assert.Equal(t, 1, processStarted)
	assert.Equal(t, 0, pickupStarted)
	ws := e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep())
}

// --- Scenario 5: a dangling item waits for its EIS to empty ------------

// EIS-cleared should immediately trigger a pending dangling item's pickup,
// since the storage event fans out through reevaluateReferencing into the
// scheduler.
func TestEngine_DanglingItem_WaitsForEISThenAssignsOnClear(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddStorage(50, orchestrator.RoleEIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.True(t, e.ItemAdded(50, itemFlour)) // EIS already full

	require.NoError(t, e.AddWorker(200))
	require.NoError(t, e.DanglingItemAdded(900, itemFlour))

	assignment := e.GetWorkerInfo(200).Assignment()
	assert.Nil(t, assignment, "no empty accepting EIS exists yet, so the worker stays idle")

	require.True(t, e.ItemRemoved(50))

	assignment = e.GetWorkerInfo(200).Assignment()
	require.NotNil(t, assignment)
	assert.True(t, assignment.IsDangling())
}

// --- Scenario 6: multi-IIS pickup drains one EIS slot at a time --------

func TestEngine_MultiIIS_PickupRepeatsUntilAllIISFilled(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(10, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(11, orchestrator.RoleIIS, ptr(itemOre), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(20, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1, 2}, []int{10, 11}, []int{20}, nil, orchestrator.PriorityNormal, 1, nil))
	require.NoError(t, e.AddWorker(200))

	require.True(t, e.ItemAdded(1, itemFlour))
	require.True(t, e.ItemAdded(2, itemOre))

	ws := e.GetWorkstationInfo(100)
	require.Equal(t, orchestrator.StatusActive, ws.Status())
	require.Equal(t, orchestrator.StepPickup, ws.CurrentStep())

	require.True(t, e.PickupCompleted(200))
	ws = e.GetWorkstationInfo(100)
	require.Equal(t, orchestrator.StepPickup, ws.CurrentStep(), "second IIS still empty, must re-enter Pickup")

	require.True(t, e.PickupCompleted(200))
	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep(), "both IIS slots now full")

	flourHeld, _ := e.GetStorageHasItem(10)
	oreHeld, _ := e.GetStorageHasItem(11)
	assert.True(t, flourHeld)
	assert.True(t, oreHeld)
}

// --- Boundary: producer with no EIS/IIS starts directly at Process --

func TestEngine_Producer_NoInputsStartsAtProcessAndFillsIOS(t *testing.T) {
	var processStarted int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnProcessStarted: func(orchestrator.ProcessStartedEvent[int]) { processStarted++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, nil, []int{1}, nil, orchestrator.PriorityNormal, 2, ptr(itemOre)))
	require.NoError(t, e.AddWorker(200))

	assert.Equal(t, 1, processStarted)
	ws := e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepProcess, ws.CurrentStep())

	e.Tick()
	e.Tick()

	hasItem, _ := e.GetStorageHasItem(1)
	assert.True(t, hasItem)
	item := e.GetStorageItemType(1)
	require.NotNil(t, item)
	assert.Equal(t, itemOre, *item)

	// No EOS: work_completed should complete the cycle immediately.
	state, _ := e.GetWorkerState(200)
	assert.Equal(t, orchestrator.WorkerIdle, state)
}

// --- Universal invariants ----------------------------------------------

func TestEngine_StaleEvents_AreSilentNoOpsButCounted(t *testing.T) {
	e := newTestEngine(t)

	require.False(t, e.WorkerAvailable(999), "unknown worker")
	require.False(t, e.PickupCompleted(999), "unknown worker")
	require.False(t, e.ItemAdded(999, itemFlour), "unknown storage")

	diag := e.GetDiagnostics()
	assert.Equal(t, 3, diag.StaleEvents)
	assert.Equal(t, 0, diag.ValidationErrors)
}

func TestEngine_DuplicateID_ReturnsValidationErrorAndCounts(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddWorker(1))
	err := e.AddWorker(1)
	require.Error(t, err)

	var dup *orchestrator.DuplicateIDError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, 1, e.GetDiagnostics().ValidationErrors)
}

func TestEngine_IISWithoutAccepts_IsRejected(t *testing.T) {
	e := newTestEngine(t)

	err := e.AddStorage(1, orchestrator.RoleIIS, nil, orchestrator.PriorityNormal)
	require.Error(t, err)

	var iisErr *orchestrator.IISRequiresAcceptsError
	assert.ErrorAs(t, err, &iisErr)
}

func TestEngine_AttachStorageToWorkstation_RejectsRoleMismatch(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, nil, nil, nil, orchestrator.PriorityNormal, 1, nil))

	err := e.AttachStorageToWorkstation(1, 100, orchestrator.RoleIOS)
	require.Error(t, err)

	var mismatch *orchestrator.RoleMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

// Degenerate workstations (no IIS and no IOS) can never become eligible.
func TestEngine_DegenerateWorkstation_StaysPermanentlyBlocked(t *testing.T) {
	var blocked, queued, activated int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkstationBlocked:   func(orchestrator.WorkstationStatusEvent[int]) { blocked++ },
		OnWorkstationQueued:    func(orchestrator.WorkstationStatusEvent[int]) { queued++ },
		OnWorkstationActivated: func(orchestrator.WorkstationStatusEvent[int]) { activated++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, nil, nil, nil, orchestrator.PriorityNormal, 1, nil))
	require.NoError(t, e.AddWorker(200))
	require.True(t, e.ItemAdded(1, itemFlour))

	assert.Equal(t, 0, queued)
	assert.Equal(t, 0, activated)
	ws := e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StatusBlocked, ws.Status())
}

// Disabling an Active workstation releases its worker and forces Blocked
// regardless of eligibility; re-enabling re-evaluates normally.
func TestEngine_WorkstationDisabled_ForcesBlockedAndReleasesWorker(t *testing.T) {
	var blockedEvents, workerReleased int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnWorkstationBlocked: func(orchestrator.WorkstationStatusEvent[int]) { blockedEvents++ },
		OnWorkerReleased:     func(orchestrator.WorkerReleasedEvent[int]) { workerReleased++ },
	})

	require.NoError(t, e.AddStorage(1, orchestrator.RoleIIS, ptr(itemOre), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, []int{1}, []int{2}, nil, orchestrator.PriorityNormal, 5, nil))
	require.NoError(t, e.AddWorker(200))
	require.True(t, e.ItemAdded(1, itemOre))

	ws := e.GetWorkstationInfo(100)
	require.Equal(t, orchestrator.StatusActive, ws.Status())

	require.True(t, e.WorkstationDisabled(100))
	assert.Equal(t, 1, blockedEvents)
	assert.Equal(t, 1, workerReleased)

	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StatusBlocked, ws.Status())
	assert.True(t, ws.IsDisabled())

	state, _ := e.GetWorkerState(200)
	assert.Equal(t, orchestrator.WorkerIdle, state)

	require.True(t, e.WorkstationEnabled(100))
	ws = e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StatusActive, ws.Status(), "re-enabling with the same ore stock and an idle worker should re-activate")
}

// Round-trip law: releasing a worker after a completed cycle must always
// re-expose the workstation to eligibility recomputation, not freeze it in
// StatusActive.
func TestEngine_CycleCompletion_AlwaysExitsActiveStatus(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddStorage(1, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, []int{1}, []int{2}, nil, orchestrator.PriorityNormal, 1, nil))
	require.NoError(t, e.AddWorker(200))
	require.True(t, e.ItemAdded(1, itemFlour))

	ws := e.GetWorkstationInfo(100)
	require.Equal(t, orchestrator.StatusActive, ws.Status())

	e.Tick()

	ws = e.GetWorkstationInfo(100)
	require.NotEqual(t, orchestrator.StatusActive, ws.Status(), "a completed cycle must leave StatusActive, not stay latched in it")
	assert.Equal(t, orchestrator.StatusBlocked, ws.Status(), "the only IIS slot was consumed and no more EIS stock exists")
}

func TestEngine_RemoveStorage_DetachesAndReevaluates(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddStorage(1, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{1}, []int{2}, []int{3}, nil, orchestrator.PriorityNormal, 1, nil))

	require.True(t, e.RemoveStorage(1))

	ws := e.GetWorkstationInfo(100)
	assert.NotContains(t, ws.EIS(), 1)
}

func TestEngine_GetCounts_TalliesEveryEntityKind(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.AddWorker(1))
	require.NoError(t, e.AddWorker(2))
	require.NoError(t, e.AddStorage(10, orchestrator.RoleEIS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(11, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, []int{10}, nil, []int{11}, nil, orchestrator.PriorityNormal, 1, nil))
	require.NoError(t, e.AddTransport(200, 10, 11, itemFlour, orchestrator.PriorityNormal))

	counts := e.GetCounts()
	assert.Equal(t, 2, counts.Workers)
	assert.Equal(t, 2, counts.IdleWorkers)
	assert.Equal(t, 1, counts.Workstations)
	assert.Equal(t, 2, counts.Storages)
	assert.Equal(t, 1, counts.Transports)
}

// produceHolds, unlike flushHolds, does not require a placeable EOS before a
// workstation is bound into Process. If every EOS is already full by the
// time work_completed fires, enter_store latches nothing and the worker
// parks in Store indefinitely. Freeing an EOS afterward must resume that
// same workstation's Store step rather than leaving it stuck, since
// evaluate_eligibility refuses to touch an Active workstation.
func TestEngine_ProduceHolds_BackedUpEOS_ResumesStoreWhenEOSFrees(t *testing.T) {
	var storeStarted, processStarted int
	e := orchestrator.NewEngine(orchestrator.Hooks[int, item]{
		OnProcessStarted: func(orchestrator.ProcessStartedEvent[int]) { processStarted++ },
		OnStoreStarted:   func(orchestrator.StoreStartedEvent[int, item]) { storeStarted++ },
	})

	require.NoError(t, e.AddStorage(2, orchestrator.RoleIIS, ptr(itemFlour), orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(3, orchestrator.RoleIOS, nil, orchestrator.PriorityNormal))
	require.NoError(t, e.AddStorage(4, orchestrator.RoleEOS, ptr(itemBread), orchestrator.PriorityNormal))
	require.NoError(t, e.AddWorkstation(100, nil, []int{2}, []int{3}, []int{4}, orchestrator.PriorityNormal, 1, ptr(itemBread)))

	require.True(t, e.ItemAdded(2, itemFlour))
	require.True(t, e.ItemAdded(4, itemBread)) // EOS already backed up before the worker ever binds

	require.NoError(t, e.AddWorker(200))
	assert.Equal(t, 1, processStarted, "produceHolds is true regardless of EOS fullness, so binding enters Process directly")

	require.True(t, e.WorkCompleted(100))
	assert.Equal(t, 0, storeStarted, "no EOS was placeable, so enter_store could not latch one")

	ws := e.GetWorkstationInfo(100)
	assert.Equal(t, orchestrator.StepStore, ws.CurrentStep())
	assert.Nil(t, ws.SelectedEOS())

	state, ok := e.GetWorkerState(200)
	require.True(t, ok)
	assert.Equal(t, orchestrator.WorkerWorking, state, "worker stays parked in Store with no latch")

	require.True(t, e.ItemRemoved(4)) // EOS frees; resumeOrEvaluate must retry enter_store on the Active workstation

	assert.Equal(t, 1, storeStarted, "enter_store is retried directly since evaluate_eligibility ignores Active workstations")
	ws = e.GetWorkstationInfo(100)
	require.NotNil(t, ws.SelectedEOS())
	assert.Equal(t, 4, *ws.SelectedEOS())

	require.True(t, e.StoreCompleted(200))
	state, ok = e.GetWorkerState(200)
	require.True(t, ok)
	assert.Equal(t, orchestrator.WorkerIdle, state)

	hasItem, _ := e.GetStorageHasItem(4)
	assert.True(t, hasItem)
	item := e.GetStorageItemType(4)
	require.NotNil(t, item)
	assert.Equal(t, itemBread, *item)
}
