package orchestrator

// This file implements the read-only query surface (§6.3): point lookups
// and full listings a host uses to render state or drive its own UI,
// without mutating anything. None of these call runScheduler or fire hooks.

// GetWorkerState returns the worker's activity state and whether it exists.
func (e *Engine[K, V]) GetWorkerState(id K) (WorkerState, bool) {
	w, ok := e.workers[id]
	if !ok {
		return WorkerIdle, false
	}
	return w.state, true
}

// GetWorkerInfo returns the full worker record, or nil if unknown.
func (e *Engine[K, V]) GetWorkerInfo(id K) *Worker[K] {
	return e.workers[id]
}

// GetWorkstationStatus returns the workstation's status and whether it exists.
func (e *Engine[K, V]) GetWorkstationStatus(id K) (WorkstationStatus, bool) {
	ws, ok := e.workstations[id]
	if !ok {
		return StatusBlocked, false
	}
	return ws.status, true
}

// GetWorkstationInfo returns the full workstation record, or nil if unknown.
func (e *Engine[K, V]) GetWorkstationInfo(id K) *Workstation[K, V] {
	return e.workstations[id]
}

// GetStorageHasItem reports whether a storage holds an item, and whether the
// storage exists at all.
func (e *Engine[K, V]) GetStorageHasItem(id K) (hasItem, exists bool) {
	s, ok := e.storages[id]
	if !ok {
		return false, false
	}
	return s.HasItem(), true
}

// GetStorageItemType returns the item currently held by a storage, or nil if
// empty or unknown.
func (e *Engine[K, V]) GetStorageItemType(id K) *V {
	s, ok := e.storages[id]
	if !ok {
		return nil
	}
	return s.ItemType()
}

// GetStorageInfo returns the full storage record, or nil if unknown.
func (e *Engine[K, V]) GetStorageInfo(id K) *Storage[K, V] {
	return e.storages[id]
}

// IsStorageFull is an alias for GetStorageHasItem's first result, provided
// for hosts that only care about capacity and not existence.
func (e *Engine[K, V]) IsStorageFull(id K) bool {
	s, ok := e.storages[id]
	return ok && s.HasItem()
}

// GetTransportInfo returns the full transport record, or nil if unknown.
func (e *Engine[K, V]) GetTransportInfo(id K) *Transport[K, V] {
	return e.transports[id]
}

// GetDanglingItemType returns the item type of a dangling item, or nil if unknown.
func (e *Engine[K, V]) GetDanglingItemType(id K) *V {
	d, ok := e.dangling[id]
	if !ok {
		return nil
	}
	item := d.Item()
	return &item
}

// GetDanglingItemInfo returns the full dangling item record, or nil if unknown.
func (e *Engine[K, V]) GetDanglingItemInfo(id K) *DanglingItem[K, V] {
	return e.dangling[id]
}

// Counts summarizes the size of the simulation, primarily for operator
// dashboards and the scenario-runner's progress reporting.
type Counts struct {
	Workers       int
	IdleWorkers   int
	Workstations  int
	ActiveWorkstations int
	QueuedWorkstations int
	BlockedWorkstations int
	Storages      int
	Transports    int
	DanglingItems int
}

// GetCounts tallies every entity kind currently registered with the engine.
func (e *Engine[K, V]) GetCounts() Counts {
	c := Counts{
		Workers:       len(e.workers),
		Workstations:  len(e.workstations),
		Storages:      len(e.storages),
		Transports:    len(e.transports),
		DanglingItems: len(e.dangling),
	}
	for _, w := range e.workers {
		if w.IsIdle() {
			c.IdleWorkers++
		}
	}
	for _, ws := range e.workstations {
		switch ws.status {
		case StatusActive:
			c.ActiveWorkstations++
		case StatusQueued:
			c.QueuedWorkstations++
		case StatusBlocked:
			c.BlockedWorkstations++
		}
	}
	return c
}

// ListWorkerIDs returns every registered worker id, in no particular order.
func (e *Engine[K, V]) ListWorkerIDs() []K {
	return mapKeys(e.workers)
}

// ListWorkstationIDs returns every registered workstation id, in no particular order.
func (e *Engine[K, V]) ListWorkstationIDs() []K {
	return mapKeys(e.workstations)
}

// ListStorageIDs returns every registered storage id, in no particular order.
func (e *Engine[K, V]) ListStorageIDs() []K {
	return mapKeys(e.storages)
}

// ListTransportIDs returns every registered transport id, in no particular order.
func (e *Engine[K, V]) ListTransportIDs() []K {
	return mapKeys(e.transports)
}

// ListDanglingItemIDs returns every registered dangling item id, in no particular order.
func (e *Engine[K, V]) ListDanglingItemIDs() []K {
	return mapKeys(e.dangling)
}

func mapKeys[K ID, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
