package orchestrator

// bindDangling activates a dangling-item delivery task, emitting
// worker_assigned then pickup_dangling_started (§5 ordering). targetEIS is
// the empty, accepting EIS the item will eventually be delivered to;
// re-selected at delivery time in case storage state shifted meanwhile.
func (e *Engine[K, V]) bindDangling(itemID, targetEIS, workerID K) {
	d := e.dangling[itemID]
	w := e.workers[workerID]

	d.worker = &workerID
	w.bindDangling(itemID, DanglingPickup)

	e.hooks.workerAssigned(WorkerAssignedEvent[K]{Worker: workerID, Workstation: itemID})
	e.hooks.pickupDanglingStarted(PickupDanglingStartedEvent[K]{Worker: workerID, ItemID: itemID, TargetEIS: targetEIS})
}

// danglingPickupCompleted advances a worker from the pickup phase of a
// dangling-item task to the deliver phase. No hook fires here: the hook
// table covers only the task's start (pickup_dangling_started) and end
// (item_delivered).
func (e *Engine[K, V]) danglingPickupCompleted(w *Worker[K], workerID K) bool {
	if w.assignment.Phase() != DanglingPickup {
		e.markStale()
		return false
	}
	w.setDanglingPhase(DanglingDeliver)
	return true
}

// danglingDeliverCompleted places the item into an empty, accepting EIS
// (re-selected now in case the original target filled while the worker
// traveled), removes the dangling item, emits item_delivered, and releases
// the worker.
func (e *Engine[K, V]) danglingDeliverCompleted(w *Worker[K], workerID K) bool {
	if w.assignment.Phase() != DanglingDeliver {
		e.markStale()
		return false
	}
	itemID := w.assignment.DanglingItemID()
	d, ok := e.dangling[itemID]
	if !ok {
		e.markStale()
		return false
	}
	targetID, ok := e.danglingTarget(d)
	if !ok {
		e.markStale()
		return false
	}
	e.storages[targetID].place(d.item)
	delete(e.dangling, itemID)
	w.release()

	e.hooks.itemDelivered(ItemDeliveredEvent[K]{Worker: workerID, ItemID: itemID, TargetEIS: targetID})
	e.reevaluateReferencing(targetID)
	return true
}
