package orchestrator

import "cmp"

// ID is the engine's opaque identifier type. Hosts may instantiate the engine
// with any concrete type satisfying cmp.Ordered (string, int, etc.) — the
// engine never interprets identifiers beyond equality, ordering (for
// smallest-ID tie-breaks), and use as a map key.
type ID interface {
	cmp.Ordered
}

// Item is the engine's opaque item type: a finite enumeration compared only
// for equality. A concrete host might instantiate with a string good-type
// code or a small int-backed enum.
type Item interface {
	comparable
}

// minID returns the smaller of two identifiers, used throughout the
// eligibility evaluator and scheduler for deterministic tie-breaking.
func minID[K ID](a, b K) K {
	if a < b {
		return a
	}
	return b
}
