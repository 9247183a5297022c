package orchestrator

// This file implements the Eligibility Evaluator (component B): the three
// eligibility predicates (FLUSH, PRODUCE, PICKUP-FEASIBLE), status
// recomputation, and the selectEis/selectEos tie-break rules (§4.2).

// evaluateEligibility recomputes ws.status from current storage contents. It
// never changes status away from Active (an Active workstation is driven
// only by the cycle state machine, per §4.4's no-preemption rule) and never
// overrides a disabled workstation's forced Blocked state.
func (e *Engine[K, V]) evaluateEligibility(ws *Workstation[K, V]) {
	if ws.status == StatusActive {
		return
	}
	var newStatus WorkstationStatus
	if ws.disabled {
		newStatus = StatusBlocked
	} else if e.isEligible(ws) {
		newStatus = StatusQueued
	} else {
		newStatus = StatusBlocked
	}
	if newStatus == ws.status {
		return
	}
	ws.status = newStatus
	switch newStatus {
	case StatusBlocked:
		e.hooks.workstationBlocked(WorkstationStatusEvent[K]{Workstation: ws.id, Priority: ws.priority})
	case StatusQueued:
		e.hooks.workstationQueued(WorkstationStatusEvent[K]{Workstation: ws.id, Priority: ws.priority})
	}
}

// resumeOrEvaluate is the entry point every storage-mutation fan-out uses
// instead of calling evaluateEligibility directly. produceHolds, unlike
// flushHolds, does not require a placeable EOS before a workstation enters
// Process, so a workstation can reach Store with every EOS full and latch
// nothing (enterStore). evaluateEligibility refuses to touch an Active
// workstation, so once parked there it would never resume on its own; retry
// the EOS latch directly instead.
func (e *Engine[K, V]) resumeOrEvaluate(ws *Workstation[K, V]) {
	if ws.status == StatusActive {
		if ws.currentStep == StepStore && ws.selectedEOS == nil && ws.assignedWorker != nil {
			e.enterStore(ws, *ws.assignedWorker)
		}
		return
	}
	e.evaluateEligibility(ws)
}

// exitActive moves ws out of StatusActive to whichever of Blocked/Queued
// its current eligibility dictates, always firing the corresponding hook —
// unlike evaluateEligibility, which only fires a hook on an actual status
// change, a departure from Active is itself always an observable
// transition. The cycle-completion and abandonment release paths call this
// (WorkstationDisabled sets Blocked itself) before evaluateEligibility can recompute status again,
// since evaluateEligibility refuses to touch an Active workstation.
func (e *Engine[K, V]) exitActive(ws *Workstation[K, V]) {
	if ws.disabled || !e.isEligible(ws) {
		ws.status = StatusBlocked
		e.hooks.workstationBlocked(WorkstationStatusEvent[K]{Workstation: ws.id, Priority: ws.priority})
		return
	}
	ws.status = StatusQueued
	e.hooks.workstationQueued(WorkstationStatusEvent[K]{Workstation: ws.id, Priority: ws.priority})
}

// selectEntryStep determines which cycle step a worker entering or resuming
// ws should start at. Producers always start at Process (§4.3). Otherwise
// the three eligibility conditions are consulted in FLUSH > PRODUCE >
// PICKUP-FEASIBLE order (§4.2's worker-arrival rule) — more than one may
// hold at once, and only the highest-ranked one decides where the cycle
// actually resumes.
func (e *Engine[K, V]) selectEntryStep(ws *Workstation[K, V]) StepType {
	if ws.IsProducer() {
		return StepProcess
	}
	switch {
	case e.flushHolds(ws):
		return StepStore
	case e.produceHolds(ws):
		return StepProcess
	default:
		return StepPickup
	}
}

// isEligible is the disjunction of FLUSH, PRODUCE, and PICKUP-FEASIBLE,
// including the producer special case (§4.2).
func (e *Engine[K, V]) isEligible(ws *Workstation[K, V]) bool {
	if ws.IsDegenerate() {
		return false
	}
	if ws.IsProducer() {
		return e.anyEmpty(ws.ios) || e.flushHolds(ws)
	}
	return e.flushHolds(ws) || e.produceHolds(ws) || e.pickupFeasibleHolds(ws)
}

// flushHolds: some IOS has an item AND some EOS is empty and accepts it.
func (e *Engine[K, V]) flushHolds(ws *Workstation[K, V]) bool {
	for _, iosID := range ws.ios {
		ios, ok := e.storages[iosID]
		if !ok || !ios.HasItem() {
			continue
		}
		item := *ios.item
		for _, eosID := range ws.eos {
			eos, ok := e.storages[eosID]
			if ok && eos.isEmptyAndAccepts(item) {
				return true
			}
		}
	}
	return false
}

// produceHolds: every IIS has an item AND every IOS is empty.
func (e *Engine[K, V]) produceHolds(ws *Workstation[K, V]) bool {
	if len(ws.iis) == 0 {
		return false
	}
	for _, id := range ws.iis {
		s, ok := e.storages[id]
		if !ok || !s.HasItem() {
			return false
		}
	}
	for _, id := range ws.ios {
		s, ok := e.storages[id]
		if !ok || s.HasItem() {
			return false
		}
	}
	return true
}

// pickupFeasibleHolds: some IIS is empty AND some EIS holds an item some
// empty IIS accepts AND some EOS is empty (output space reachable).
func (e *Engine[K, V]) pickupFeasibleHolds(ws *Workstation[K, V]) bool {
	if !e.anyEmpty(ws.eos) {
		return false
	}
	emptyIIS := e.emptyIISAccepting(ws, nil)
	if len(emptyIIS) == 0 {
		return false
	}
	for _, eisID := range ws.eis {
		eis, ok := e.storages[eisID]
		if !ok || !eis.HasItem() {
			continue
		}
		item := *eis.item
		for _, iisID := range emptyIIS {
			if e.storages[iisID].acceptsItem(item) {
				return true
			}
		}
	}
	return false
}

func (e *Engine[K, V]) anyEmpty(ids []K) bool {
	if len(ids) == 0 {
		return true
	}
	for _, id := range ids {
		if s, ok := e.storages[id]; ok && !s.HasItem() {
			return true
		}
	}
	return false
}

// emptyIISAccepting returns the ids of ws's empty IIS slots, optionally
// filtered to those accepting a specific item type (nil means no filter).
func (e *Engine[K, V]) emptyIISAccepting(ws *Workstation[K, V], item *V) []K {
	var out []K
	for _, id := range ws.iis {
		s, ok := e.storages[id]
		if !ok || s.HasItem() {
			continue
		}
		if item != nil && !s.acceptsItem(*item) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// selectEis implements §4.2's selectEis(W): among EIS storages whose item
// type is accepted by some currently empty IIS of W, pick the one with
// highest priority, ties broken by smallest id.
func (e *Engine[K, V]) selectEis(ws *Workstation[K, V]) (K, V, bool) {
	var best *Storage[K, V]
	for _, eisID := range ws.eis {
		eis, ok := e.storages[eisID]
		if !ok || !eis.HasItem() {
			continue
		}
		item := *eis.item
		if len(e.emptyIISAccepting(ws, &item)) == 0 {
			continue
		}
		if best == nil || betterCandidate(eis.priority, eis.id, best.priority, best.id) {
			best = eis
		}
	}
	if best == nil {
		var zero K
		var zeroItem V
		return zero, zeroItem, false
	}
	return best.id, *best.item, true
}

// selectEos implements §4.2's selectEos(W, item): among empty EOS storages
// that accept item, pick highest priority, ties by smallest id.
func (e *Engine[K, V]) selectEos(ws *Workstation[K, V], item V) (K, bool) {
	var best *Storage[K, V]
	for _, eosID := range ws.eos {
		eos, ok := e.storages[eosID]
		if !ok || !eos.isEmptyAndAccepts(item) {
			continue
		}
		if best == nil || betterCandidate(eos.priority, eos.id, best.priority, best.id) {
			best = eos
		}
	}
	if best == nil {
		var zero K
		return zero, false
	}
	return best.id, true
}

// selectDestinationIIS picks which empty IIS receives a picked-up item of
// the given type: among those accepting it, the smallest id (§4.2 expansion
// on the IIS-selection tie-break).
func (e *Engine[K, V]) selectDestinationIIS(ws *Workstation[K, V], item V) (K, bool) {
	candidates := e.emptyIISAccepting(ws, &item)
	if len(candidates) == 0 {
		var zero K
		return zero, false
	}
	best := candidates[0]
	for _, id := range candidates[1:] {
		best = minID(best, id)
	}
	return best, true
}

// betterCandidate reports whether (p1, id1) outranks (p2, id2) under the
// higher-priority-then-smallest-id tie-break used throughout §4.2 and §4.4.
func betterCandidate[K ID](p1 Priority, id1 K, p2 Priority, id2 K) bool {
	if p1 != p2 {
		return p1.higherThan(p2)
	}
	return id1 < id2
}
