package persistence

import "time"

// The models below back the optional snapshot/restore adapter (component H).
// They persist a query-surface snapshot of a running simulation — not the
// engine's internal state verbatim, since status, the cycle step, and
// mid-cycle latches are re-derived when a snapshot is restored rather than
// replayed byte-for-byte. Every row is keyed by RunName so one database can
// hold snapshots for several named scenario runs.

// SnapshotRunModel represents a single named snapshot: one row per
// RunName, stamped with CreatedAt, used to list and prune old snapshots independently
// of the entity rows it owns.
type SnapshotRunModel struct {
	RunName   string    `gorm:"column:run_name;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (SnapshotRunModel) TableName() string {
	return "snapshot_runs"
}

// WorkerSnapshotModel represents one worker's persisted activity state.
type WorkerSnapshotModel struct {
	RunName  string `gorm:"column:run_name;primaryKey"`
	WorkerID string `gorm:"column:worker_id;primaryKey"`
	State    string `gorm:"column:state;not null"`
}

func (WorkerSnapshotModel) TableName() string {
	return "snapshot_workers"
}

// StorageSnapshotModel represents one storage slot's persisted contents.
// Accepts and ItemType are nil when the slot accepts any item or holds
// nothing, respectively.
type StorageSnapshotModel struct {
	RunName   string  `gorm:"column:run_name;primaryKey"`
	StorageID string  `gorm:"column:storage_id;primaryKey"`
	Role      string  `gorm:"column:role;not null"`
	Accepts   *string `gorm:"column:accepts"`
	ItemType  *string `gorm:"column:item_type"`
	Priority  string  `gorm:"column:priority;not null"`
	Owner     *string `gorm:"column:owner"`
}

func (StorageSnapshotModel) TableName() string {
	return "snapshot_storages"
}

// WorkstationSnapshotModel represents one workstation's persisted
// configuration and cycle state. The four role-slot lists are stored as
// JSON arrays of storage ids in a text column rather than a join table,
// since the slot order itself is significant (tie-break order).
type WorkstationSnapshotModel struct {
	RunName         string  `gorm:"column:run_name;primaryKey"`
	WorkstationID   string  `gorm:"column:workstation_id;primaryKey"`
	EIS             string  `gorm:"column:eis;type:text"`
	IIS             string  `gorm:"column:iis;type:text"`
	IOS             string  `gorm:"column:ios;type:text"`
	EOS             string  `gorm:"column:eos;type:text"`
	Output          *string `gorm:"column:output"`
	Priority        string  `gorm:"column:priority;not null"`
	Status          string  `gorm:"column:status;not null"`
	CurrentStep     string  `gorm:"column:current_step;not null"`
	ProcessDuration int     `gorm:"column:process_duration;not null"`
	ProcessTimer    int     `gorm:"column:process_timer;not null"`
	CyclesCompleted int     `gorm:"column:cycles_completed;not null;default:0"`
	Disabled        bool    `gorm:"column:disabled;not null;default:false"`
	AssignedWorker  *string `gorm:"column:assigned_worker"`
}

func (WorkstationSnapshotModel) TableName() string {
	return "snapshot_workstations"
}

// TransportSnapshotModel represents one transport route's persisted
// configuration and binding.
type TransportSnapshotModel struct {
	RunName       string  `gorm:"column:run_name;primaryKey"`
	TransportID   string  `gorm:"column:transport_id;primaryKey"`
	FromStorage   string  `gorm:"column:from_storage;not null"`
	ToStorage     string  `gorm:"column:to_storage;not null"`
	Item          string  `gorm:"column:item;not null"`
	Priority      string  `gorm:"column:priority;not null"`
	ActiveWorker  *string `gorm:"column:active_worker"`
}

func (TransportSnapshotModel) TableName() string {
	return "snapshot_transports"
}

// DanglingItemSnapshotModel represents one orphaned item waiting for pickup.
type DanglingItemSnapshotModel struct {
	RunName      string  `gorm:"column:run_name;primaryKey"`
	DanglingID   string  `gorm:"column:dangling_id;primaryKey"`
	Item         string  `gorm:"column:item;not null"`
	ActiveWorker *string `gorm:"column:active_worker"`
}

func (DanglingItemSnapshotModel) TableName() string {
	return "snapshot_dangling_items"
}
