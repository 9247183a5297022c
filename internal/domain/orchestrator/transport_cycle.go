package orchestrator

// bindTransport activates a transport route with worker, emitting
// worker_assigned then transport_started (§5 ordering; transports have no
// workstation_activated analogue since they own no Active/Queued status).
func (e *Engine[K, V]) bindTransport(transportID, workerID K) {
	t := e.transports[transportID]
	w := e.workers[workerID]

	t.worker = &workerID
	w.bindTransport(transportID)

	e.hooks.workerAssigned(WorkerAssignedEvent[K]{Worker: workerID, Workstation: transportID})
	item := t.item
	e.hooks.transportStarted(TransportStartedEvent[K, V]{Worker: workerID, From: t.from, To: t.to, Item: item})
}

// TransportCompleted handles transport_completed(worker): moves the item
// from the route's source to its destination, emits transport_completed,
// and releases the worker (§4.5 expansion).
func (e *Engine[K, V]) TransportCompleted(workerID K) bool {
	w, ok := e.workers[workerID]
	if !ok || w.assignment == nil || !w.assignment.IsTransport() {
		e.markStale()
		return false
	}
	t, ok := e.transports[w.assignment.transportID]
	if !ok {
		e.markStale()
		return false
	}
	from, ok1 := e.storages[t.from]
	to, ok2 := e.storages[t.to]
	if !ok1 || !ok2 || !from.HasItem() || *from.item != t.item || to.HasItem() {
		e.markStale()
		return false
	}
	from.clear()
	to.place(t.item)
	t.worker = nil

	e.hooks.transportCompleted(TransportCompletedEvent[K, V]{Worker: workerID, From: t.from, To: t.to, Item: t.item})
	w.release()

	e.reevaluateReferencing(t.from)
	e.reevaluateReferencing(t.to)
	return true
}
