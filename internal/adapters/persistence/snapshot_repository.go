package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
)

// GormSnapshotRepository persists and restores query-surface snapshots of a
// string-keyed, string-item engine — the concrete instantiation the operator
// CLI drives — following the GORM repository-per-aggregate shape of the
// waypoint/container repositories: a thin struct wrapping *gorm.DB, a
// model-to-domain conversion helper per direction, no business logic beyond
// shaping rows.
//
// Restore rebuilds an engine by replaying entity-lifecycle calls
// (AddWorker, AddStorage, AddWorkstation, ...) rather than poking persisted
// fields directly, so the restored engine's status and cycle step are
// re-derived from the restored storage contents exactly as if a host were
// building the scenario from scratch. A workstation that was Active with a
// worker mid-cycle loses that specific in-progress binding on restore: its
// IIS/IOS contents come back, but the bound worker returns to Idle and picks
// up wherever the restored storages now make it eligible to resume. This is
// the documented limitation of a host-side convenience adapter operating
// outside the engine's core state, not a bug in the engine itself.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a snapshot repository over db.
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save walks e's query surface and persists it under runName, replacing any
// snapshot previously saved under that name.
func (r *GormSnapshotRepository) Save(ctx context.Context, runName string, e *orchestrator.Engine[string, string]) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteRun(tx, runName); err != nil {
			return fmt.Errorf("failed to clear prior snapshot: %w", err)
		}
		if err := tx.Save(&SnapshotRunModel{RunName: runName, CreatedAt: time.Now()}).Error; err != nil {
			return fmt.Errorf("failed to save snapshot run: %w", err)
		}

		for _, id := range e.ListWorkerIDs() {
			w := e.GetWorkerInfo(id)
			if w == nil {
				continue
			}
			model := WorkerSnapshotModel{RunName: runName, WorkerID: id, State: w.State().String()}
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save worker %s: %w", id, err)
			}
		}

		for _, id := range e.ListStorageIDs() {
			s := e.GetStorageInfo(id)
			if s == nil {
				continue
			}
			model := StorageSnapshotModel{
				RunName:   runName,
				StorageID: id,
				Role:      s.Role().String(),
				Accepts:   s.Accepts(),
				ItemType:  s.ItemType(),
				Priority:  s.Priority().String(),
				Owner:     s.OwningWorkstation(),
			}
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save storage %s: %w", id, err)
			}
		}

		for _, id := range e.ListWorkstationIDs() {
			ws := e.GetWorkstationInfo(id)
			if ws == nil {
				continue
			}
			model, err := workstationToModel(runName, ws)
			if err != nil {
				return fmt.Errorf("failed to encode workstation %s: %w", id, err)
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to save workstation %s: %w", id, err)
			}
		}

		for _, id := range e.ListTransportIDs() {
			t := e.GetTransportInfo(id)
			if t == nil {
				continue
			}
			model := TransportSnapshotModel{
				RunName:      runName,
				TransportID:  id,
				FromStorage:  t.From(),
				ToStorage:    t.To(),
				Item:         t.Item(),
				Priority:     t.Priority().String(),
				ActiveWorker: t.ActiveWorker(),
			}
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save transport %s: %w", id, err)
			}
		}

		for _, id := range e.ListDanglingItemIDs() {
			d := e.GetDanglingItemInfo(id)
			if d == nil {
				continue
			}
			model := DanglingItemSnapshotModel{
				RunName:      runName,
				DanglingID:   id,
				Item:         d.Item(),
				ActiveWorker: d.ActiveWorker(),
			}
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to save dangling item %s: %w", id, err)
			}
		}

		return nil
	})
}

// Restore rebuilds e (assumed freshly constructed and empty) from the
// snapshot saved under runName. Storages are created before workstations
// and transports so role/reference validation succeeds; item contents are
// replayed via ItemAdded/DanglingItemAdded last, after every owning entity
// exists.
func (r *GormSnapshotRepository) Restore(ctx context.Context, runName string, e *orchestrator.Engine[string, string]) error {
	var storages []StorageSnapshotModel
	if err := r.db.WithContext(ctx).Where("run_name = ?", runName).Find(&storages).Error; err != nil {
		return fmt.Errorf("failed to load storages: %w", err)
	}
	for _, s := range storages {
		role, err := parseRole(s.Role)
		if err != nil {
			return err
		}
		if err := e.AddStorage(s.StorageID, role, s.Accepts, parsePriority(s.Priority)); err != nil {
			return fmt.Errorf("failed to restore storage %s: %w", s.StorageID, err)
		}
	}

	var workstations []WorkstationSnapshotModel
	if err := r.db.WithContext(ctx).Where("run_name = ?", runName).Find(&workstations).Error; err != nil {
		return fmt.Errorf("failed to load workstations: %w", err)
	}
	for _, ws := range workstations {
		eis, iis, ios, eos, err := ws.decodeSlots()
		if err != nil {
			return fmt.Errorf("failed to decode workstation %s slots: %w", ws.WorkstationID, err)
		}
		if err := e.AddWorkstation(ws.WorkstationID, eis, iis, ios, eos, parsePriority(ws.Priority), ws.ProcessDuration, ws.Output); err != nil {
			return fmt.Errorf("failed to restore workstation %s: %w", ws.WorkstationID, err)
		}
		if ws.Disabled {
			e.WorkstationDisabled(ws.WorkstationID)
		}
	}

	var transports []TransportSnapshotModel
	if err := r.db.WithContext(ctx).Where("run_name = ?", runName).Find(&transports).Error; err != nil {
		return fmt.Errorf("failed to load transports: %w", err)
	}
	for _, t := range transports {
		if err := e.AddTransport(t.TransportID, t.FromStorage, t.ToStorage, t.Item, parsePriority(t.Priority)); err != nil {
			return fmt.Errorf("failed to restore transport %s: %w", t.TransportID, err)
		}
	}

	var workers []WorkerSnapshotModel
	if err := r.db.WithContext(ctx).Where("run_name = ?", runName).Find(&workers).Error; err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}
	for _, w := range workers {
		if err := e.AddWorker(w.WorkerID); err != nil {
			return fmt.Errorf("failed to restore worker %s: %w", w.WorkerID, err)
		}
	}

	for _, s := range storages {
		if s.ItemType != nil {
			e.ItemAdded(s.StorageID, *s.ItemType)
		}
	}

	var dangling []DanglingItemSnapshotModel
	if err := r.db.WithContext(ctx).Where("run_name = ?", runName).Find(&dangling).Error; err != nil {
		return fmt.Errorf("failed to load dangling items: %w", err)
	}
	for _, d := range dangling {
		if err := e.DanglingItemAdded(d.DanglingID, d.Item); err != nil {
			return fmt.Errorf("failed to restore dangling item %s: %w", d.DanglingID, err)
		}
	}

	return nil
}

// ListRuns returns every snapshot run name currently persisted, most recent first.
func (r *GormSnapshotRepository) ListRuns(ctx context.Context) ([]string, error) {
	var runs []SnapshotRunModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshot runs: %w", err)
	}
	names := make([]string, 0, len(runs))
	for _, run := range runs {
		names = append(names, run.RunName)
	}
	return names, nil
}

// DeleteRun removes every row belonging to runName.
func (r *GormSnapshotRepository) DeleteRun(ctx context.Context, runName string) error {
	return deleteRun(r.db.WithContext(ctx), runName)
}

func deleteRun(tx *gorm.DB, runName string) error {
	for _, model := range []any{
		&SnapshotRunModel{},
		&WorkerSnapshotModel{},
		&StorageSnapshotModel{},
		&WorkstationSnapshotModel{},
		&TransportSnapshotModel{},
		&DanglingItemSnapshotModel{},
	} {
		if err := tx.Where("run_name = ?", runName).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func workstationToModel(runName string, ws *orchestrator.Workstation[string, string]) (*WorkstationSnapshotModel, error) {
	eis, err := json.Marshal(ws.EIS())
	if err != nil {
		return nil, err
	}
	iis, err := json.Marshal(ws.IIS())
	if err != nil {
		return nil, err
	}
	ios, err := json.Marshal(ws.IOS())
	if err != nil {
		return nil, err
	}
	eos, err := json.Marshal(ws.EOS())
	if err != nil {
		return nil, err
	}
	return &WorkstationSnapshotModel{
		RunName:         runName,
		WorkstationID:   ws.ID(),
		EIS:             string(eis),
		IIS:             string(iis),
		IOS:             string(ios),
		EOS:             string(eos),
		Priority:        ws.Priority().String(),
		Status:          ws.Status().String(),
		CurrentStep:     ws.CurrentStep().String(),
		ProcessDuration: ws.ProcessDuration(),
		ProcessTimer:    ws.ProcessTimer(),
		CyclesCompleted: ws.CyclesCompleted(),
		Disabled:        ws.IsDisabled(),
		AssignedWorker:  ws.AssignedWorker(),
	}, nil
}

func (ws WorkstationSnapshotModel) decodeSlots() (eis, iis, ios, eos []string, err error) {
	if err = json.Unmarshal([]byte(ws.EIS), &eis); err != nil {
		return
	}
	if err = json.Unmarshal([]byte(ws.IIS), &iis); err != nil {
		return
	}
	if err = json.Unmarshal([]byte(ws.IOS), &ios); err != nil {
		return
	}
	err = json.Unmarshal([]byte(ws.EOS), &eos)
	return
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
