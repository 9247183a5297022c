package orchestrator

// This file implements the Cycle State Machine (component D): binding a
// worker into a workstation/transport/dangling task, the Pickup -> Process
// -> Store transitions, and the non-standard-workstation step derivation
// rules of §4.3.

// bindWorkstation activates ws with worker, emitting worker_assigned, then
// workstation_activated, then the entry step's *_started hook (§5 ordering).
func (e *Engine[K, V]) bindWorkstation(wsID, workerID K) {
	ws := e.workstations[wsID]
	w := e.workers[workerID]

	entry := e.selectEntryStep(ws)
	ws.status = StatusActive
	ws.assignedWorker = &workerID
	ws.currentStep = entry
	ws.processTimer = 0
	w.bindWorkstation(wsID, entry)

	e.hooks.workerAssigned(WorkerAssignedEvent[K]{Worker: workerID, Workstation: wsID})
	e.hooks.workstationActivated(WorkstationStatusEvent[K]{Workstation: wsID, Priority: ws.priority})

	switch entry {
	case StepPickup:
		e.enterPickup(ws, workerID)
	case StepProcess:
		e.enterProcess(ws, workerID)
	case StepStore:
		e.enterStore(ws, workerID)
	}
}

// enterPickup selects an EIS and emits pickup_started. Assumes eligibility
// already guaranteed a candidate exists.
func (e *Engine[K, V]) enterPickup(ws *Workstation[K, V], workerID K) {
	eisID, item, ok := e.selectEis(ws)
	if !ok {
		// No candidate remains (e.g. raced away); fall through to Process so
		// the cycle doesn't stall with nothing latched.
		e.enterProcess(ws, workerID)
		return
	}
	ws.currentStep = StepPickup
	ws.selectedEIS = &eisID
	if w := e.workers[workerID]; w != nil {
		w.setStep(StepPickup)
	}
	e.hooks.pickupStarted(PickupStartedEvent[K, V]{Worker: workerID, Workstation: ws.id, EISStorage: eisID, Item: item})
}

// PickupCompleted handles pickup_completed(worker). A worker's Pickup-phase
// completion drives two distinct flows depending on assignment kind
// (§8 scenario 4 overloads this event for dangling-item pickup as well as
// the workstation cycle): for a workstation assignment it moves the item
// from the latched EIS into an empty accepting IIS, then either re-enters
// Pickup or transitions to Process (§4.3); for a dangling assignment it
// advances the worker from the pickup phase to the deliver phase.
func (e *Engine[K, V]) PickupCompleted(workerID K) bool {
	w, ok := e.workers[workerID]
	if !ok || w.assignment == nil {
		e.markStale()
		return false
	}
	if w.assignment.IsDangling() {
		return e.danglingPickupCompleted(w, workerID)
	}
	if !w.assignment.IsWorkstation() || w.assignment.currentStep != StepPickup {
		e.markStale()
		return false
	}
	ws, ok := e.workstations[w.assignment.workstationID]
	if !ok || ws.selectedEIS == nil {
		e.markStale()
		return false
	}
	eis := e.storages[*ws.selectedEIS]
	item := *eis.item
	eis.clear()

	if iisID, ok := e.selectDestinationIIS(ws, item); ok {
		e.storages[iisID].place(item)
	}
	ws.selectedEIS = nil
	e.reevaluateReferencing(eis.id)

	if len(e.emptyIISAccepting(ws, nil)) > 0 {
		if _, _, ok := e.selectEis(ws); ok {
			e.enterPickup(ws, workerID)
			return true
		}
	}
	e.enterProcess(ws, workerID)
	return true
}

func (e *Engine[K, V]) enterProcess(ws *Workstation[K, V], workerID K) {
	ws.currentStep = StepProcess
	ws.processTimer = 0
	if w := e.workers[workerID]; w != nil {
		w.setStep(StepProcess)
	}
	e.hooks.processStarted(ProcessStartedEvent[K]{Worker: workerID, Workstation: ws.id})
}

// Tick advances every Active workstation's process_timer by one and fires
// work_completed for any whose timer reaches process_duration (§4.4's
// "hosts may drive process_timer via periodic ticks"). Hosts using
// event-driven work_completed directly may ignore Tick entirely.
func (e *Engine[K, V]) Tick() {
	var completed []K
	for id, ws := range e.workstations {
		if ws.status != StatusActive || ws.currentStep != StepProcess {
			continue
		}
		ws.processTimer++
		if ws.processTimer >= ws.processDuration {
			completed = append(completed, id)
		}
	}
	for _, id := range completed {
		e.WorkCompleted(id)
	}
}

// WorkCompleted handles work_completed(ws): clears every IIS, fills every
// IOS, emits process_completed, transitions to Store (or completes the
// cycle directly if there is no EOS, per §4.3's "No EOS" rule).
func (e *Engine[K, V]) WorkCompleted(wsID K) bool {
	ws, ok := e.workstations[wsID]
	if !ok || ws.status != StatusActive || ws.currentStep != StepProcess || ws.assignedWorker == nil {
		e.markStale()
		return false
	}
	workerID := *ws.assignedWorker

	for _, id := range ws.iis {
		e.storages[id].clear()
	}
	for _, id := range ws.ios {
		s := e.storages[id]
		if s.accepts != nil {
			s.place(*s.accepts)
		} else if ws.output != nil {
			s.place(*ws.output)
		}
	}
	e.hooks.processCompleted(ProcessCompletedEvent[K]{Worker: workerID, Workstation: wsID})

	for _, id := range ws.iis {
		e.reevaluateStorageLite(id)
	}
	for _, id := range ws.ios {
		e.reevaluateStorageLite(id)
	}

	if len(ws.eos) == 0 {
		e.completeCycle(ws, workerID)
		return true
	}
	ws.currentStep = StepStore
	if w := e.workers[workerID]; w != nil {
		w.setStep(StepStore)
	}
	e.enterStore(ws, workerID)
	return true
}

// reevaluateStorageLite re-checks every workstation referencing a storage
// without invoking a full scheduler pass; used mid-transition where the
// caller is still advancing the same workstation's own cycle.
func (e *Engine[K, V]) reevaluateStorageLite(storageID K) {
	for _, ws := range e.workstations {
		if ws.id != storageID && referencesStorage(ws, storageID) {
			e.resumeOrEvaluate(ws)
		}
	}
}

// enterStore selects an EOS for the first full IOS and emits store_started.
func (e *Engine[K, V]) enterStore(ws *Workstation[K, V], workerID K) {
	for _, iosID := range ws.ios {
		ios := e.storages[iosID]
		if !ios.HasItem() {
			continue
		}
		item := *ios.item
		if eosID, ok := e.selectEos(ws, item); ok {
			ws.selectedEOS = &eosID
			e.hooks.storeStarted(StoreStartedEvent[K, V]{Worker: workerID, Workstation: ws.id, EOSStorage: eosID, Item: item})
			return
		}
	}
	// No IOS currently placeable (e.g. raced EOS exhaustion); the
	// workstation stays in Store with no latch until a storage mutation
	// frees an EOS and resumeOrEvaluate retries enterStore directly.
}

// StoreCompleted handles store_completed(worker). Like PickupCompleted, it
// is overloaded by assignment kind: for a dangling assignment in the
// deliver phase it places the item into the target EIS and removes the
// dangling item; for a workstation assignment it moves the item from IOS to
// the latched EOS, re-entering Store if more IOS remain full and EOS space
// exists, else completing the cycle (§4.3).
func (e *Engine[K, V]) StoreCompleted(workerID K) bool {
	w, ok := e.workers[workerID]
	if !ok || w.assignment == nil {
		e.markStale()
		return false
	}
	if w.assignment.IsDangling() {
		return e.danglingDeliverCompleted(w, workerID)
	}
	if !w.assignment.IsWorkstation() || w.assignment.currentStep != StepStore {
		e.markStale()
		return false
	}
	ws, ok := e.workstations[w.assignment.workstationID]
	if !ok || ws.selectedEOS == nil {
		e.markStale()
		return false
	}

	var sourceIOS *Storage[K, V]
	for _, iosID := range ws.ios {
		ios := e.storages[iosID]
		if ios.HasItem() {
			sourceIOS = ios
			break
		}
	}
	eos := e.storages[*ws.selectedEOS]
	if sourceIOS != nil {
		eos.place(*sourceIOS.item)
		sourceIOS.clear()
	}
	ws.selectedEOS = nil
	e.reevaluateStorageLite(eos.id)
	if sourceIOS != nil {
		e.reevaluateStorageLite(sourceIOS.id)
	}

	stillFull := false
	for _, iosID := range ws.ios {
		if e.storages[iosID].HasItem() {
			stillFull = true
			break
		}
	}
	if stillFull && e.anyEmpty(ws.eos) {
		e.enterStore(ws, workerID)
		return true
	}
	e.completeCycle(ws, workerID)
	return true
}

// completeCycle increments cycles_completed, emits cycle_completed, releases
// the worker, and re-evaluates the workstation (§4.3).
func (e *Engine[K, V]) completeCycle(ws *Workstation[K, V], workerID K) {
	ws.cyclesCompleted++
	e.hooks.cycleCompleted(CycleCompletedEvent[K]{Workstation: ws.id, Worker: workerID, CyclesCompleted: ws.cyclesCompleted})
	e.releaseWorker(ws, workerID)
}

// releaseWorker detaches the worker from ws, returns it to Idle, exits
// Active (always observable), then runs the scheduler so the now-Idle
// worker can pick up further work.
func (e *Engine[K, V]) releaseWorker(ws *Workstation[K, V], workerID K) {
	ws.assignedWorker = nil
	ws.selectedEIS = nil
	ws.selectedEOS = nil
	if w, ok := e.workers[workerID]; ok {
		w.release()
	}
	e.hooks.workerReleased(WorkerReleasedEvent[K]{Worker: workerID, Workstation: ws.id})
	e.exitActive(ws)
	e.runScheduler()
}
