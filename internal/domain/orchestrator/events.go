package orchestrator

// This file implements the remaining event handlers of §4.5: worker
// availability, storage item mutation, workstation enable/disable,
// dangling-item intake, and the abandonment path shared by
// worker_unavailable and entity removal.

// WorkerAvailable handles worker_available(id): the worker becomes Idle and
// the scheduler runs. A redundant call on an already-Idle worker is a
// silent no-op (§7).
func (e *Engine[K, V]) WorkerAvailable(id K) bool {
	w, ok := e.workers[id]
	if !ok {
		e.markStale()
		return false
	}
	if w.state == WorkerIdle {
		e.markStale()
		return false
	}
	w.markIdle()
	e.runScheduler()
	return true
}

// WorkerUnavailable handles worker_unavailable(id): the worker becomes
// Unavailable. If it was Working, its binding is abandoned first so the
// workstation/transport/dangling task reverts to a resumable state (§4.5's
// Abandonment semantics).
func (e *Engine[K, V]) WorkerUnavailable(id K) bool {
	w, ok := e.workers[id]
	if !ok {
		e.markStale()
		return false
	}
	if w.state == WorkerUnavailable {
		e.markStale()
		return false
	}
	if w.assignment != nil {
		e.abandon(w)
	}
	w.markUnavailable()
	e.runScheduler()
	return true
}

// abandon releases w's current binding without releasing it to Idle (the
// caller transitions it to Unavailable or removes it immediately after).
// Partial cycle progress recorded in IIS/IOS contents is preserved; only the
// latched selectedEIS/selectedEOS and current_step reset to the phase's
// entry, per §4.5.
func (e *Engine[K, V]) abandon(w *Worker[K]) {
	switch {
	case w.assignment.IsWorkstation():
		ws := e.workstations[w.assignment.workstationID]
		ws.assignedWorker = nil
		ws.selectedEIS = nil
		ws.selectedEOS = nil
		ws.currentStep = e.selectEntryStep(ws)
		e.hooks.workerReleased(WorkerReleasedEvent[K]{Worker: w.id, Workstation: ws.id})
		e.exitActive(ws)
	case w.assignment.IsTransport():
		t := e.transports[w.assignment.transportID]
		t.worker = nil
	case w.assignment.IsDangling():
		d := e.dangling[w.assignment.danglingID]
		d.worker = nil
	}
}

// ItemAdded handles item_added(storage, item): places item into storage and
// fans out re-evaluation. Returns false if storage is unknown, already
// holds an item, or does not accept item (stale/misuse conditions that are
// treated as silent no-ops).
func (e *Engine[K, V]) ItemAdded(storageID K, item V) bool {
	s, ok := e.storages[storageID]
	if !ok || s.HasItem() || !s.acceptsItem(item) {
		e.markStale()
		return false
	}
	s.place(item)
	e.reevaluateReferencing(storageID)
	return true
}

// ItemRemoved handles item_removed(storage): empties storage and fans out
// re-evaluation. Returns false if storage is unknown or already empty.
func (e *Engine[K, V]) ItemRemoved(storageID K) bool {
	s, ok := e.storages[storageID]
	if !ok || !s.HasItem() {
		e.markStale()
		return false
	}
	s.clear()
	e.reevaluateReferencing(storageID)
	return true
}

// WorkstationDisabled handles workstation_disabled(ws): forces Blocked
// regardless of eligibility, releasing any bound worker to Idle first.
func (e *Engine[K, V]) WorkstationDisabled(id K) bool {
	ws, ok := e.workstations[id]
	if !ok {
		e.markStale()
		return false
	}
	if ws.disabled {
		e.markStale()
		return false
	}
	wasBlocked := ws.status == StatusBlocked
	ws.disabled = true
	if ws.assignedWorker != nil {
		workerID := *ws.assignedWorker
		ws.assignedWorker = nil
		ws.selectedEIS = nil
		ws.selectedEOS = nil
		ws.currentStep = e.selectEntryStep(ws)
		if w, ok := e.workers[workerID]; ok {
			w.release()
		}
		e.hooks.workerReleased(WorkerReleasedEvent[K]{Worker: workerID, Workstation: id})
	}
	ws.status = StatusBlocked
	if !wasBlocked {
		e.hooks.workstationBlocked(WorkstationStatusEvent[K]{Workstation: ws.id, Priority: ws.priority})
	}
	e.runScheduler()
	return true
}

// WorkstationEnabled handles workstation_enabled(ws): clears the forced
// block and re-evaluates normally.
func (e *Engine[K, V]) WorkstationEnabled(id K) bool {
	ws, ok := e.workstations[id]
	if !ok {
		e.markStale()
		return false
	}
	if !ws.disabled {
		e.markStale()
		return false
	}
	ws.disabled = false
	e.reevaluateWorkstation(ws)
	return true
}

// DanglingItemAdded handles dangling_item_added(id, item): registers the
// orphan item and runs the scheduler, which will pick it up immediately if
// an idle worker and an accepting empty EIS both exist.
func (e *Engine[K, V]) DanglingItemAdded(id K, item V) error {
	if _, exists := e.dangling[id]; exists {
		e.diagnostics.ValidationErrors++
		return newDuplicateIDError("dangling item", id)
	}
	e.dangling[id] = newDanglingItem[K, V](id, item)
	e.runScheduler()
	return nil
}

// RemoveDanglingItem handles host-forced removal of a dangling item,
// distinct from delivery: if a worker was en route, it is released to Idle.
func (e *Engine[K, V]) RemoveDanglingItem(id K) bool {
	d, ok := e.dangling[id]
	if !ok {
		e.markStale()
		return false
	}
	if d.worker != nil {
		if w, ok := e.workers[*d.worker]; ok {
			w.release()
		}
	}
	delete(e.dangling, id)
	e.runScheduler()
	return true
}

// EvaluateDanglingItems re-runs the scheduler so any dangling items waiting
// on storage space are picked up if conditions now allow it (§4.5's
// evaluate_dangling_items()). It exists as an explicit host hook for games
// that batch world-drop events before asking the engine to react.
func (e *Engine[K, V]) EvaluateDanglingItems() {
	e.runScheduler()
}
