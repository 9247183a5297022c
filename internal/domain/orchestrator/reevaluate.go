package orchestrator

// reevaluateWorkstation recomputes eligibility for a single workstation and
// then runs the scheduler once, matching §4.4's "runs whenever ... a
// workstation becomes Queued" trigger.
func (e *Engine[K, V]) reevaluateWorkstation(ws *Workstation[K, V]) {
	e.evaluateEligibility(ws)
	e.runScheduler()
}

// reevaluateReferencing fans a storage mutation out to every workstation
// that references the storage and every transport whose endpoint it is,
// then runs the scheduler exactly once (§4.5's "re-evaluation fan-out").
func (e *Engine[K, V]) reevaluateReferencing(storageID K) {
	for _, ws := range e.workstations {
		if referencesStorage(ws, storageID) {
			e.resumeOrEvaluate(ws)
		}
	}
	e.runScheduler()
}

func referencesStorage[K ID, V Item](ws *Workstation[K, V], storageID K) bool {
	for _, list := range [][]K{ws.eis, ws.iis, ws.ios, ws.eos} {
		for _, id := range list {
			if id == storageID {
				return true
			}
		}
	}
	return false
}
