package orchestrator

// This file implements the Assignment Scheduler (component C). runScheduler
// is level-triggered: calling it twice with no intervening event produces no
// new hooks on the second call (§8 property 5), because it only acts on
// Queued workstations, precondition-satisfying transports, and
// EIS-reachable dangling items — all of which become non-pending the moment
// they are bound.

type pendingKind int

const (
	pendingWorkstation pendingKind = iota
	pendingTransport
	pendingDangling
)

// pendingItem is one candidate for assignment in a scheduler pass.
type pendingItem[K ID] struct {
	kind     pendingKind
	id       K
	priority Priority
	target   K // workstation id / transport source storage / dangling target EIS
}

// runScheduler performs one assignment pass: gather pending work, then bind
// idle workers to the highest-priority pending item until either idle
// workers or pending work runs out (§4.4).
func (e *Engine[K, V]) runScheduler() {
	skipped := make(map[pendingItem[K]]bool)
	for {
		idle := e.idleWorkerIDs()
		if len(idle) == 0 {
			return
		}
		var pending []pendingItem[K]
		for _, p := range e.gatherPending() {
			if !skipped[p] {
				pending = append(pending, p)
			}
		}
		if len(pending) == 0 {
			return
		}
		item := pickHighestPriority(pending)
		targetPtr := &item.target
		worker := e.pickWorker(targetPtr, idle)
		if worker == nil {
			// No worker for this item: it stays out of every later round of
			// this pass, and the remaining items are tried in priority order.
			skipped[item] = true
			continue
		}
		e.bind(item, *worker)
	}
}

// bindRemaining retries the pass excluding the unbindable item; returns
// false if nothing else is left to try (ending the pass).
func (e *Engine[K, V]) bindRemaining(pending []pendingItem[K], idle []K, skip pendingItem[K]) bool {
	var rest []pendingItem[K]
	for _, p := range pending {
		if p != skip {
			rest = append(rest, p)
		}
	}
	for len(rest) > 0 {
		item := pickHighestPriority(rest)
		worker := e.pickWorker(&item.target, idle)
		if worker != nil {
			e.bind(item, *worker)
			return true
		}
		var next []pendingItem[K]
		for _, p := range rest {
			if p != item {
				next = append(next, p)
			}
		}
		rest = next
	}
	return false
}

func (e *Engine[K, V]) idleWorkerIDs() []K {
	var out []K
	for id, w := range e.workers {
		if w.IsIdle() {
			out = append(out, id)
		}
	}
	return out
}

// gatherPending builds Q (queued workstations) ∪ T (ready transports) ∪ D
// (deliverable dangling items), as pendingItem candidates.
func (e *Engine[K, V]) gatherPending() []pendingItem[K] {
	var out []pendingItem[K]
	for id, ws := range e.workstations {
		if ws.status == StatusQueued {
			out = append(out, pendingItem[K]{kind: pendingWorkstation, id: id, priority: ws.priority, target: id})
		}
	}
	for id, t := range e.transports {
		if !t.IsBound() && e.transportReady(t) {
			out = append(out, pendingItem[K]{kind: pendingTransport, id: id, priority: t.priority, target: t.from})
		}
	}
	for id, d := range e.dangling {
		if d.worker == nil {
			if target, ok := e.danglingTarget(d); ok {
				out = append(out, pendingItem[K]{kind: pendingDangling, id: id, priority: PriorityNormal, target: target})
			}
		}
	}
	return out
}

// transportReady: from holds the item, to accepts it and is empty (§3).
func (e *Engine[K, V]) transportReady(t *Transport[K, V]) bool {
	from, ok := e.storages[t.from]
	if !ok || !from.HasItem() || *from.item != t.item {
		return false
	}
	to, ok := e.storages[t.to]
	if !ok {
		return false
	}
	return to.isEmptyAndAccepts(t.item)
}

// danglingTarget finds an empty EIS accepting d's item type among all
// storages, preferring the lowest id for determinism.
func (e *Engine[K, V]) danglingTarget(d *DanglingItem[K, V]) (K, bool) {
	var best *Storage[K, V]
	for _, s := range e.storages {
		if s.role != RoleEIS || !s.isEmptyAndAccepts(d.item) {
			continue
		}
		if best == nil || s.id < best.id {
			best = s
		}
	}
	if best == nil {
		var zero K
		return zero, false
	}
	return best.id, true
}

// pickHighestPriority implements the tie-break order of §4.4: highest
// priority first; ties broken workstations > transports > dangling; within
// equal kind+priority, smallest id.
func pickHighestPriority[K ID](items []pendingItem[K]) pendingItem[K] {
	best := items[0]
	for _, it := range items[1:] {
		if rankBetter(it, best) {
			best = it
		}
	}
	return best
}

func rankBetter[K ID](a, b pendingItem[K]) bool {
	if a.priority != b.priority {
		return a.priority.higherThan(b.priority)
	}
	if a.kind != b.kind {
		return a.kind < b.kind // pendingWorkstation(0) > pendingTransport(1) > pendingDangling(2)
	}
	return a.id < b.id
}

// pickWorker consults the worker-finder: host override if set, else the
// default closest-candidate strategy (§4.4 expansion).
func (e *Engine[K, V]) pickWorker(target *K, candidates []K) *K {
	if e.workerFinder != nil {
		return e.workerFinder(target, candidates)
	}
	return e.defaultWorkerFinder(target, candidates)
}

func (e *Engine[K, V]) defaultWorkerFinder(target *K, candidates []K) *K {
	if len(candidates) == 0 {
		return nil
	}
	if target == nil || e.distanceFn == nil {
		best := candidates[0]
		for _, c := range candidates[1:] {
			best = minID(best, c)
		}
		return &best
	}
	var best *K
	var bestDist float64
	for i := range candidates {
		c := candidates[i]
		d, ok := e.distanceFn(c, *target)
		if !ok {
			continue
		}
		if best == nil || d < bestDist || (d == bestDist && c < *best) {
			cc := c
			best = &cc
			bestDist = d
		}
	}
	if best == nil {
		best = &candidates[0]
		for _, c := range candidates[1:] {
			cc := minID(*best, c)
			best = &cc
		}
	}
	return best
}

// bind dispatches to the kind-specific binder, which emits worker_assigned,
// then workstation_activated / transport_started, then the entry step's
// *_started hook, in that order (§5 ordering guarantee).
func (e *Engine[K, V]) bind(item pendingItem[K], workerID K) {
	switch item.kind {
	case pendingWorkstation:
		e.bindWorkstation(item.id, workerID)
	case pendingTransport:
		e.bindTransport(item.id, workerID)
	case pendingDangling:
		e.bindDangling(item.id, item.target, workerID)
	}
}
