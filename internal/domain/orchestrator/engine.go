// Package orchestrator implements a task orchestration state machine for
// worker/workstation assignment: the Pickup->Process->Store cycle, recurring
// transports, and dangling-item delivery. The engine is deterministic,
// single-threaded, and purely reactive — every mutation is triggered by an
// explicit call from the host.
package orchestrator

// WorkerFinder asks the host which idle worker to pick for a piece of
// pending work (§4.4 find_best_worker). targetID is the workstation id for
// workstation work, or the relevant storage id (transport source, or the
// dangling item's target EIS) otherwise. A nil return skips the item for the
// remainder of the scheduler pass.
type WorkerFinder[K ID] func(targetID *K, candidates []K) *K

// DistanceFunc optionally supplies a distance metric between two ids,
// consulted only by the default WorkerFinder when the host has not
// overridden it (§6).
type DistanceFunc[K ID] func(a, b K) (float64, bool)

// Diagnostics counts conditions that are treated as silent no-ops so hosts
// can still observe misuse without the engine raising errors for them
// (§4.3's "implementers may prefer to signal a stale-event count").
type Diagnostics struct {
	StaleEvents       int
	ValidationErrors  int
}

// Engine owns all orchestration state for one simulation. It is generic
// over the host's identifier type K and item type V (§3, §9). A program
// driving many independent simulations uses one Engine per thread with no
// sharing (§5).
type Engine[K ID, V Item] struct {
	hooks        Hooks[K, V]
	distanceFn   DistanceFunc[K]
	workerFinder WorkerFinder[K]

	workers      map[K]*Worker[K]
	workstations map[K]*Workstation[K, V]
	storages     map[K]*Storage[K, V]
	transports   map[K]*Transport[K, V]
	dangling     map[K]*DanglingItem[K, V]

	diagnostics Diagnostics
}

// Option configures an Engine at construction time.
type Option[K ID, V Item] func(*Engine[K, V])

// WithDistanceFunc supplies a distance metric consulted by the default
// worker-selection strategy when the host has not overridden it entirely.
func WithDistanceFunc[K ID, V Item](fn DistanceFunc[K]) Option[K, V] {
	return func(e *Engine[K, V]) { e.distanceFn = fn }
}

// WithWorkerFinder overrides find_best_worker (§4.4) entirely; the supplied
// function is consulted instead of the default closest-candidate strategy.
func WithWorkerFinder[K ID, V Item](fn WorkerFinder[K]) Option[K, V] {
	return func(e *Engine[K, V]) { e.workerFinder = fn }
}

// NewEngine constructs an Engine with the given hook table and options.
// Mirrors Engine::new(hooks, distance_fn_opt) (§6), collapsing the optional
// distance function and worker-finder override into functional options.
func NewEngine[K ID, V Item](hooks Hooks[K, V], opts ...Option[K, V]) *Engine[K, V] {
	e := &Engine[K, V]{
		hooks:        hooks,
		workers:      make(map[K]*Worker[K]),
		workstations: make(map[K]*Workstation[K, V]),
		storages:     make(map[K]*Storage[K, V]),
		transports:   make(map[K]*Transport[K, V]),
		dangling:     make(map[K]*DanglingItem[K, V]),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetDiagnostics returns a snapshot of the stale-event and validation
// failure counters (§6.3 expansion).
func (e *Engine[K, V]) GetDiagnostics() Diagnostics {
	return e.diagnostics
}

func (e *Engine[K, V]) markStale() {
	e.diagnostics.StaleEvents++
}
