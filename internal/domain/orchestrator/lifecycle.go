package orchestrator

// This file implements the Entity Store's mutating surface (component A):
// create/remove for each entity kind, and late attachment of a storage to a
// workstation. All cross-references are by id; removing a referenced entity
// is legal and leaves dangling references to fall out of eligibility on the
// next pass (§4.1).

// AddWorker registers a new idle worker and runs the scheduler, so a worker
// hired into a simulation with pending work is put to use immediately
// rather than sitting idle until an unrelated event happens to sweep the
// queue (§4.4's "runs whenever a worker becomes Idle" trigger, read to
// include a freshly created worker's initial Idle state). Returns a
// DuplicateIDError if id is already in use.
func (e *Engine[K, V]) AddWorker(id K) error {
	if _, exists := e.workers[id]; exists {
		e.diagnostics.ValidationErrors++
		return newDuplicateIDError("worker", id)
	}
	e.workers[id] = newWorker[K](id)
	e.runScheduler()
	return nil
}

// RemoveWorker deletes a worker. If it was bound to a workstation or
// transport, the binding is released (as if worker_unavailable had fired)
// before removal so re-evaluation sees consistent state. Returns false if
// the worker is unknown.
func (e *Engine[K, V]) RemoveWorker(id K) bool {
	w, ok := e.workers[id]
	if !ok {
		e.markStale()
		return false
	}
	if w.assignment != nil {
		e.abandon(w)
	}
	delete(e.workers, id)
	return true
}

// AddStorage registers a new storage slot. accepts may be nil ("accepts
// any"). Returns an IISRequiresAcceptsError if role is RoleIIS and accepts
// is nil (§3's invariant), or a DuplicateIDError on id collision.
func (e *Engine[K, V]) AddStorage(id K, role StorageRole, accepts *V, priority Priority) error {
	if _, exists := e.storages[id]; exists {
		e.diagnostics.ValidationErrors++
		return newDuplicateIDError("storage", id)
	}
	if role == RoleIIS && accepts == nil {
		e.diagnostics.ValidationErrors++
		return newIISRequiresAcceptsError(id)
	}
	e.storages[id] = newStorage[K, V](id, role, accepts, priority)
	return nil
}

// RemoveStorage deletes a storage and detaches it from its owning
// workstation, then re-evaluates that workstation and every other one that
// still references it. Transports naming it as an endpoint keep the id and
// are no longer ready to move, since the storage no longer exists.
func (e *Engine[K, V]) RemoveStorage(id K) bool {
	s, ok := e.storages[id]
	if !ok {
		e.markStale()
		return false
	}
	var owner *Workstation[K, V]
	if s.owner != nil {
		if ws, ok := e.workstations[*s.owner]; ok {
			ws.detachAll(id)
			owner = ws
		}
	}
	delete(e.storages, id)
	if owner != nil {
		e.resumeOrEvaluate(owner)
	}
	e.reevaluateReferencing(id)
	return true
}

// AddWorkstation registers a new workstation with the given role slots
// (each a list of storage ids, validated to exist with a matching role).
// output is the declared output item for producer workstations with no
// IIS-derived recipe (§4.3 expansion); it may be nil.
func (e *Engine[K, V]) AddWorkstation(id K, eis, iis, ios, eos []K, priority Priority, processDuration int, output *V) error {
	if _, exists := e.workstations[id]; exists {
		e.diagnostics.ValidationErrors++
		return newDuplicateIDError("workstation", id)
	}
	for _, sid := range eis {
		if err := e.checkRole(sid, RoleEIS); err != nil {
			return err
		}
	}
	for _, sid := range iis {
		if err := e.checkRole(sid, RoleIIS); err != nil {
			return err
		}
	}
	for _, sid := range ios {
		if err := e.checkRole(sid, RoleIOS); err != nil {
			return err
		}
	}
	for _, sid := range eos {
		if err := e.checkRole(sid, RoleEOS); err != nil {
			return err
		}
	}
	ws := newWorkstation[K, V](id, eis, iis, ios, eos, priority, processDuration, output)
	e.workstations[id] = ws
	for _, sid := range append(append(append(append([]K{}, eis...), iis...), ios...), eos...) {
		e.storages[sid].owner = &id
	}
	e.reevaluateWorkstation(ws)
	return nil
}

func (e *Engine[K, V]) checkRole(storageID K, want StorageRole) error {
	s, ok := e.storages[storageID]
	if !ok {
		e.diagnostics.ValidationErrors++
		return &NotFoundError{Kind: "storage", ID: storageID}
	}
	if s.role != want {
		e.diagnostics.ValidationErrors++
		return newRoleMismatchError(storageID, s.role, want)
	}
	return nil
}

// RemoveWorkstation deletes a workstation. If it was Active, its worker is
// released to Idle (without the usual abandonment hooks, since the
// workstation itself is disappearing).
func (e *Engine[K, V]) RemoveWorkstation(id K) bool {
	ws, ok := e.workstations[id]
	if !ok {
		e.markStale()
		return false
	}
	if ws.assignedWorker != nil {
		if w, ok := e.workers[*ws.assignedWorker]; ok {
			w.release()
		}
	}
	for _, sid := range allSlots(ws) {
		if s, ok := e.storages[sid]; ok {
			s.owner = nil
		}
	}
	delete(e.workstations, id)
	e.runScheduler()
	return true
}

// AttachStorageToWorkstation performs late binding of an existing storage
// into a workstation's role slot list (§4.1, §4.5 attach_storage_to_workstation).
// Returns a RoleMismatchError if the storage's fixed role does not match
// the requested slot.
func (e *Engine[K, V]) AttachStorageToWorkstation(storageID, workstationID K, role StorageRole) error {
	s, ok := e.storages[storageID]
	if !ok {
		e.diagnostics.ValidationErrors++
		return &NotFoundError{Kind: "storage", ID: storageID}
	}
	ws, ok := e.workstations[workstationID]
	if !ok {
		e.diagnostics.ValidationErrors++
		return &NotFoundError{Kind: "workstation", ID: workstationID}
	}
	if s.role != role {
		e.diagnostics.ValidationErrors++
		return newRoleMismatchError(storageID, s.role, role)
	}
	ws.attach(role, storageID)
	s.owner = &workstationID
	e.reevaluateWorkstation(ws)
	return nil
}

func allSlots[K ID, V Item](ws *Workstation[K, V]) []K {
	out := make([]K, 0, len(ws.eis)+len(ws.iis)+len(ws.ios)+len(ws.eos))
	out = append(out, ws.eis...)
	out = append(out, ws.iis...)
	out = append(out, ws.ios...)
	out = append(out, ws.eos...)
	return out
}

// AddTransport registers a new recurring transport route.
func (e *Engine[K, V]) AddTransport(id, from, to K, item V, priority Priority) error {
	if _, exists := e.transports[id]; exists {
		e.diagnostics.ValidationErrors++
		return newDuplicateIDError("transport", id)
	}
	e.transports[id] = newTransport[K, V](id, from, to, item, priority)
	e.runScheduler()
	return nil
}

// RemoveTransport deletes a transport route, releasing its active worker to
// Idle if bound.
func (e *Engine[K, V]) RemoveTransport(id K) bool {
	t, ok := e.transports[id]
	if !ok {
		e.markStale()
		return false
	}
	if t.worker != nil {
		if w, ok := e.workers[*t.worker]; ok {
			w.release()
		}
	}
	delete(e.transports, id)
	e.runScheduler()
	return true
}
