package orchestrator

// WorkerState is the high-level activity state of a worker.
type WorkerState int

const (
	WorkerIdle WorkerState = iota
	WorkerWorking
	WorkerUnavailable
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "IDLE"
	case WorkerWorking:
		return "WORKING"
	case WorkerUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// DanglingPhase distinguishes the two stages of a dangling-item assignment.
type DanglingPhase int

const (
	DanglingPickup DanglingPhase = iota
	DanglingDeliver
)

// assignmentKind tags which variant of Assignment a worker currently holds.
type assignmentKind int

const (
	assignNone assignmentKind = iota
	assignWorkstation
	assignTransport
	assignDangling
)

// Assignment is a tagged union over the three things a working worker may be
// bound to: a workstation cycle, a transport route, or a dangling-item
// delivery task. Exactly one of the accessor methods is meaningful, gated by
// IsWorkstation, IsTransport or IsDangling.
type Assignment[K ID] struct {
	kind          assignmentKind
	workstationID K
	currentStep   StepType
	transportID   K
	danglingID    K
	danglingPhase DanglingPhase
}

// IsWorkstation reports whether this assignment binds to a workstation cycle.
func (a Assignment[K]) IsWorkstation() bool { return a.kind == assignWorkstation }

// IsTransport reports whether this assignment binds to a transport route.
func (a Assignment[K]) IsTransport() bool { return a.kind == assignTransport }

// IsDangling reports whether this assignment binds to a dangling-item task.
func (a Assignment[K]) IsDangling() bool { return a.kind == assignDangling }

// WorkstationID returns the bound workstation id; valid only if IsWorkstation.
func (a Assignment[K]) WorkstationID() K { return a.workstationID }

// CurrentStep returns the cycle step of a workstation assignment.
func (a Assignment[K]) CurrentStep() StepType { return a.currentStep }

// TransportID returns the bound transport id; valid only if IsTransport.
func (a Assignment[K]) TransportID() K { return a.transportID }

// DanglingItemID returns the bound dangling item id; valid only if IsDangling.
func (a Assignment[K]) DanglingItemID() K { return a.danglingID }

// Phase returns the phase (pickup/deliver) of a dangling assignment.
func (a Assignment[K]) Phase() DanglingPhase { return a.danglingPhase }

// Worker is an agent the host moves through the world; the engine tracks
// only its activity state and current binding, never position or movement.
type Worker[K ID] struct {
	id         K
	state      WorkerState
	assignment *Assignment[K]
}

func newWorker[K ID](id K) *Worker[K] {
	return &Worker[K]{id: id, state: WorkerIdle}
}

// ID returns the worker's identifier.
func (w *Worker[K]) ID() K { return w.id }

// State returns the worker's current activity state.
func (w *Worker[K]) State() WorkerState { return w.state }

// Assignment returns the worker's current binding, or nil if idle or unavailable.
func (w *Worker[K]) Assignment() *Assignment[K] { return w.assignment }

// IsIdle reports whether the worker is idle (equivalently, unassigned).
func (w *Worker[K]) IsIdle() bool { return w.state == WorkerIdle && w.assignment == nil }

func (w *Worker[K]) bindWorkstation(wsID K, step StepType) {
	w.state = WorkerWorking
	w.assignment = &Assignment[K]{kind: assignWorkstation, workstationID: wsID, currentStep: step}
}

func (w *Worker[K]) bindTransport(routeID K) {
	w.state = WorkerWorking
	w.assignment = &Assignment[K]{kind: assignTransport, transportID: routeID}
}

func (w *Worker[K]) bindDangling(itemID K, phase DanglingPhase) {
	w.state = WorkerWorking
	w.assignment = &Assignment[K]{kind: assignDangling, danglingID: itemID, danglingPhase: phase}
}

func (w *Worker[K]) setStep(step StepType) {
	if w.assignment != nil && w.assignment.kind == assignWorkstation {
		w.assignment.currentStep = step
	}
}

func (w *Worker[K]) setDanglingPhase(phase DanglingPhase) {
	if w.assignment != nil && w.assignment.kind == assignDangling {
		w.assignment.danglingPhase = phase
	}
}

// release returns the worker to Idle, clearing its binding. Used on cycle
// completion, transport completion, and dangling delivery.
func (w *Worker[K]) release() {
	w.state = WorkerIdle
	w.assignment = nil
}

// markUnavailable transitions the worker to Unavailable, clearing any binding.
// Callers in the event handler are responsible for releasing the bound
// workstation/transport first so its state reflects the abandonment.
func (w *Worker[K]) markUnavailable() {
	w.state = WorkerUnavailable
	w.assignment = nil
}

// markIdle transitions the worker to Idle from Unavailable (or a no-op from Idle).
func (w *Worker[K]) markIdle() {
	w.state = WorkerIdle
	w.assignment = nil
}
