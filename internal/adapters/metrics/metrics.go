// Package metrics adapts the orchestrator's hook dispatcher (component F) to
// a Prometheus registry, in the spirit of the daemon's own metrics adapter:
// a dedicated collector struct owning every metric, a package-level Registry
// that is nil until InitRegistry is called, and a Hooks builder that turns
// collector methods into the hook callbacks the engine actually invokes.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
)

const (
	namespace = "workcell"
	subsystem = "engine"
)

// Registry is the global Prometheus registry for engine metrics. It is nil
// until InitRegistry is called, matching the daemon's "metrics are opt-in"
// convention: callers that never call InitRegistry pay nothing.
var Registry *prometheus.Registry

// InitRegistry creates the global registry. Call once at startup before
// NewHookCollector if metrics collection is desired.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return Registry != nil
}

// Collector owns every Prometheus metric the engine's hooks feed.
type Collector struct {
	workstationActivatedTotal *prometheus.CounterVec
	workstationBlockedTotal   *prometheus.CounterVec
	workstationQueuedTotal    *prometheus.CounterVec
	cyclesCompletedTotal      *prometheus.CounterVec
	workersAssignedTotal      *prometheus.CounterVec
	workersReleasedTotal      *prometheus.CounterVec
	pickupStartedTotal        *prometheus.CounterVec
	storeStartedTotal         *prometheus.CounterVec
	processCompletedTotal     *prometheus.CounterVec
	transportStartedTotal     *prometheus.CounterVec
	transportCompletedTotal   *prometheus.CounterVec
	danglingPickupsTotal      *prometheus.CounterVec
	itemsDeliveredTotal       *prometheus.CounterVec
	workstationStatus         *prometheus.GaugeVec
}

// statusValue encodes a workstation's last-observed status as a gauge value:
// higher means busier. Hook payloads never carry the full status enum, only
// which transition fired, so this is reconstructed at the call site.
const (
	statusValueBlocked  = 0
	statusValueQueued   = 1
	statusValueActive   = 2
)

// NewHookCollector builds a Collector with every metric initialized but not
// yet registered with Registry.
func NewHookCollector() *Collector {
	return &Collector{
		workstationActivatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workstation_activated_total",
				Help:      "Total times a workstation transitioned to Active.",
			},
			[]string{"workstation"},
		),
		workstationBlockedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workstation_blocked_total",
				Help:      "Total times a workstation transitioned to Blocked.",
			},
			[]string{"workstation"},
		),
		workstationQueuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workstation_queued_total",
				Help:      "Total times a workstation transitioned to Queued.",
			},
			[]string{"workstation"},
		),
		cyclesCompletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cycles_completed_total",
				Help:      "Total production cycles completed per workstation.",
			},
			[]string{"workstation"},
		),
		workersAssignedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workers_assigned_total",
				Help:      "Total worker-to-workstation bindings.",
			},
			[]string{"workstation"},
		),
		workersReleasedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workers_released_total",
				Help:      "Total worker releases from a workstation.",
			},
			[]string{"workstation"},
		),
		pickupStartedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pickup_started_total",
				Help:      "Total Pickup-phase entries per workstation.",
			},
			[]string{"workstation"},
		),
		storeStartedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_started_total",
				Help:      "Total Store-phase entries per workstation.",
			},
			[]string{"workstation"},
		),
		processCompletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "process_completed_total",
				Help:      "Total Process-phase completions per workstation.",
			},
			[]string{"workstation"},
		),
		transportStartedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transport_started_total",
				Help:      "Total transport legs started per route.",
			},
			[]string{"route"},
		),
		transportCompletedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transport_completed_total",
				Help:      "Total transport legs completed per route.",
			},
			[]string{"route"},
		),
		danglingPickupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dangling_pickups_total",
				Help:      "Total dangling-item pickups started.",
			},
			[]string{"target_eis"},
		),
		itemsDeliveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items_delivered_total",
				Help:      "Total dangling items delivered into a workstation's EIS.",
			},
			[]string{"target_eis"},
		),
		workstationStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workstation_status",
				Help:      "Last observed workstation status (0=Blocked, 1=Queued, 2=Active), labeled by priority.",
			},
			[]string{"workstation", "priority"},
		),
	}
}

// Register registers every metric with Registry. A nil Registry (metrics
// never initialized) makes this a no-op, mirroring the daemon's collectors.
func (c *Collector) Register() error {
	if Registry == nil {
		return nil
	}
	collectors := []prometheus.Collector{
		c.workstationActivatedTotal,
		c.workstationBlockedTotal,
		c.workstationQueuedTotal,
		c.cyclesCompletedTotal,
		c.workersAssignedTotal,
		c.workersReleasedTotal,
		c.pickupStartedTotal,
		c.storeStartedTotal,
		c.processCompletedTotal,
		c.transportStartedTotal,
		c.transportCompletedTotal,
		c.danglingPickupsTotal,
		c.itemsDeliveredTotal,
		c.workstationStatus,
	}
	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Hooks builds an orchestrator.Hooks table whose callbacks drive c's
// metrics. K's values are rendered into label strings with fmt.Sprint since
// Prometheus labels are always strings regardless of the engine's id type.
func Hooks[K orchestrator.ID, V orchestrator.Item](c *Collector) orchestrator.Hooks[K, V] {
	return orchestrator.Hooks[K, V]{
		OnWorkstationActivated: func(e orchestrator.WorkstationStatusEvent[K]) {
			c.workstationActivatedTotal.WithLabelValues(label(e.Workstation)).Inc()
			c.workstationStatus.WithLabelValues(label(e.Workstation), e.Priority.String()).Set(statusValueActive)
		},
		OnWorkstationBlocked: func(e orchestrator.WorkstationStatusEvent[K]) {
			c.workstationBlockedTotal.WithLabelValues(label(e.Workstation)).Inc()
			c.workstationStatus.WithLabelValues(label(e.Workstation), e.Priority.String()).Set(statusValueBlocked)
		},
		OnWorkstationQueued: func(e orchestrator.WorkstationStatusEvent[K]) {
			c.workstationQueuedTotal.WithLabelValues(label(e.Workstation)).Inc()
			c.workstationStatus.WithLabelValues(label(e.Workstation), e.Priority.String()).Set(statusValueQueued)
		},
		OnCycleCompleted: func(e orchestrator.CycleCompletedEvent[K]) {
			c.cyclesCompletedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnWorkerAssigned: func(e orchestrator.WorkerAssignedEvent[K]) {
			c.workersAssignedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnWorkerReleased: func(e orchestrator.WorkerReleasedEvent[K]) {
			c.workersReleasedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnPickupStarted: func(e orchestrator.PickupStartedEvent[K, V]) {
			c.pickupStartedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnStoreStarted: func(e orchestrator.StoreStartedEvent[K, V]) {
			c.storeStartedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnProcessCompleted: func(e orchestrator.ProcessCompletedEvent[K]) {
			c.processCompletedTotal.WithLabelValues(label(e.Workstation)).Inc()
		},
		OnTransportStarted: func(e orchestrator.TransportStartedEvent[K, V]) {
			c.transportStartedTotal.WithLabelValues(label(e.From) + "->" + label(e.To)).Inc()
		},
		OnTransportCompleted: func(e orchestrator.TransportCompletedEvent[K, V]) {
			c.transportCompletedTotal.WithLabelValues(label(e.From) + "->" + label(e.To)).Inc()
		},
		OnPickupDanglingStarted: func(e orchestrator.PickupDanglingStartedEvent[K]) {
			c.danglingPickupsTotal.WithLabelValues(label(e.TargetEIS)).Inc()
		},
		OnItemDelivered: func(e orchestrator.ItemDeliveredEvent[K]) {
			c.itemsDeliveredTotal.WithLabelValues(label(e.TargetEIS)).Inc()
		},
	}
}

func label[K orchestrator.ID](id K) string {
	return fmt.Sprint(id)
}
