package cli

import (
	"fmt"

	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/config"
)

// buildEngine registers every entity in spec with a freshly constructed
// engine, in dependency order: storages before workstations and transports
// (role/reference checks need the storage to already exist), workers last so
// the scheduler's first pass sees a fully wired graph, dangling items after
// that so delivery targets already exist.
func buildEngine(spec *config.ScenarioConfig, hooks orchestrator.Hooks[string, string]) (*orchestrator.Engine[string, string], error) {
	eng := orchestrator.NewEngine(hooks)

	for _, s := range spec.Storages {
		role, err := parseRole(s.Role)
		if err != nil {
			return nil, fmt.Errorf("storage %s: %w", s.ID, err)
		}
		var accepts *string
		if s.Accepts != "" {
			accepts = &s.Accepts
		}
		if err := eng.AddStorage(s.ID, role, accepts, parsePriority(s.Priority)); err != nil {
			return nil, fmt.Errorf("storage %s: %w", s.ID, err)
		}
	}

	for _, ws := range spec.Workstations {
		var output *string
		if ws.Output != "" {
			output = &ws.Output
		}
		if err := eng.AddWorkstation(ws.ID, ws.EIS, ws.IIS, ws.IOS, ws.EOS, parsePriority(ws.Priority), ws.ProcessDuration, output); err != nil {
			return nil, fmt.Errorf("workstation %s: %w", ws.ID, err)
		}
	}

	for _, t := range spec.Transports {
		if err := eng.AddTransport(t.ID, t.From, t.To, t.Item, parsePriority(t.Priority)); err != nil {
			return nil, fmt.Errorf("transport %s: %w", t.ID, err)
		}
	}

	for _, s := range spec.Storages {
		if s.InitialItem != "" {
			eng.ItemAdded(s.ID, s.InitialItem)
		}
	}

	for _, w := range spec.Workers {
		if err := eng.AddWorker(w); err != nil {
			return nil, fmt.Errorf("worker %s: %w", w, err)
		}
	}

	for _, d := range spec.DanglingItems {
		if err := eng.DanglingItemAdded(d.ID, d.Item); err != nil {
			return nil, fmt.Errorf("dangling item %s: %w", d.ID, err)
		}
	}

	return eng, nil
}

func parseRole(s string) (orchestrator.StorageRole, error) {
	switch s {
	case "EIS":
		return orchestrator.RoleEIS, nil
	case "IIS":
		return orchestrator.RoleIIS, nil
	case "IOS":
		return orchestrator.RoleIOS, nil
	case "EOS":
		return orchestrator.RoleEOS, nil
	default:
		return 0, fmt.Errorf("unknown storage role %q", s)
	}
}

func parsePriority(s string) orchestrator.Priority {
	switch s {
	case "LOW":
		return orchestrator.PriorityLow
	case "HIGH":
		return orchestrator.PriorityHigh
	case "CRITICAL":
		return orchestrator.PriorityCritical
	default:
		return orchestrator.PriorityNormal
	}
}
