package orchestrator

import (
	"fmt"
	"io"
)

// DumpState writes a human-readable snapshot of every entity the engine
// tracks to w, for operator diagnostics and test failure output (§6.3's
// introspection dump). Iteration order over each entity kind is undefined;
// callers needing determinism should sort the id lists returned by the
// List* query methods themselves.
func (e *Engine[K, V]) DumpState(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "workers: %d\n", len(e.workers)); err != nil {
		return err
	}
	for _, id := range e.ListWorkerIDs() {
		wk := e.workers[id]
		assignment := "-"
		if a := wk.Assignment(); a != nil {
			switch {
			case a.IsWorkstation():
				assignment = fmt.Sprintf("workstation=%v step=%s", a.WorkstationID(), a.CurrentStep())
			case a.IsTransport():
				assignment = fmt.Sprintf("transport=%v", a.TransportID())
			case a.IsDangling():
				assignment = fmt.Sprintf("dangling=%v phase=%d", a.DanglingItemID(), a.Phase())
			}
		}
		if _, err := fmt.Fprintf(w, "  worker %v: state=%s assignment=%s\n", id, wk.State(), assignment); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "workstations: %d\n", len(e.workstations)); err != nil {
		return err
	}
	for _, id := range e.ListWorkstationIDs() {
		ws := e.workstations[id]
		if _, err := fmt.Fprintf(w, "  workstation %v: status=%s step=%s priority=%s cycles=%d worker=%v eis=%v iis=%v ios=%v eos=%v\n",
			id, ws.Status(), ws.CurrentStep(), ws.Priority(), ws.CyclesCompleted(), ws.AssignedWorker(),
			ws.EIS(), ws.IIS(), ws.IOS(), ws.EOS()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "storages: %d\n", len(e.storages)); err != nil {
		return err
	}
	for _, id := range e.ListStorageIDs() {
		s := e.storages[id]
		held := "empty"
		if s.HasItem() {
			held = fmt.Sprintf("%v", *s.ItemType())
		}
		if _, err := fmt.Fprintf(w, "  storage %v: role=%s holds=%s\n", id, s.Role(), held); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "transports: %d\n", len(e.transports)); err != nil {
		return err
	}
	for _, id := range e.ListTransportIDs() {
		t := e.transports[id]
		if _, err := fmt.Fprintf(w, "  transport %v: %v -> %v item=%v worker=%v\n", id, t.From(), t.To(), t.Item(), t.ActiveWorker()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "dangling: %d\n", len(e.dangling)); err != nil {
		return err
	}
	for _, id := range e.ListDanglingItemIDs() {
		d := e.dangling[id]
		if _, err := fmt.Fprintf(w, "  dangling %v: item=%v worker=%v\n", id, d.Item(), d.ActiveWorker()); err != nil {
			return err
		}
	}

	return nil
}
