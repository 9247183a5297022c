package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/kestrelsim/workcell-engine/internal/adapters/metrics"
	"github.com/kestrelsim/workcell-engine/internal/adapters/persistence"
	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/config"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/database"
	"github.com/kestrelsim/workcell-engine/internal/support"
)

// newRunCommand creates the run command, which loads a scenario, drives it
// through a rate.Limiter-paced tick loop (the stand-in for a host game
// loop), and reports the engine's final state.
func newRunCommand() *cobra.Command {
	var (
		scenarioPath string
		ticks        int
		dump         bool
		save         bool
		saveAs       string
		metricsOn    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive a scenario through the engine with a synthetic tick loop",
		Long: `run loads a scenario file, registers every entity it describes with a
fresh engine, then calls Tick() repeatedly at a rate controlled by the
engine.rate_limit/engine.burst config, the way a host's own game loop would
call it once per frame. A worker-facing host would drive Tick() itself;
this command exists purely to exercise the engine end to end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioPath == "" {
				return fmt.Errorf("--scenario is required")
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				log.Printf("loaded config: database.type=%s engine.rate_limit=%g engine.burst=%d", cfg.Database.Type, cfg.Engine.RateLimit, cfg.Engine.Burst)
			}

			scenario, err := config.LoadScenario(scenarioPath)
			if err != nil {
				return fmt.Errorf("failed to load scenario: %w", err)
			}
			if verbose {
				log.Printf("loaded scenario %q: %d workers, %d storages, %d workstations, %d transports, %d dangling items",
					scenario.Name, len(scenario.Workers), len(scenario.Storages), len(scenario.Workstations), len(scenario.Transports), len(scenario.DanglingItems))
			}

			if metricsOn {
				metrics.InitRegistry()
				if verbose {
					log.Printf("metrics registry initialized")
				}
			}
			collector := metrics.NewHookCollector()
			if err := collector.Register(); err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}
			hooks := metrics.Hooks[string, string](collector)

			eng, err := buildEngine(scenario, hooks)
			if err != nil {
				return fmt.Errorf("failed to build scenario %q: %w", scenario.Name, err)
			}

			lifecycle := support.NewLifecycleStateMachine(support.NewRealClock())
			if err := lifecycle.Start(); err != nil {
				return err
			}

			if err := driveTicks(cmd.Context(), eng, cfg.Engine, ticks); err != nil {
				_ = lifecycle.Fail(err)
				return fmt.Errorf("tick loop failed after %s: %w", lifecycle.RuntimeDuration(), err)
			}
			if err := lifecycle.Complete(); err != nil {
				return err
			}

			counts := eng.GetCounts()
			fmt.Printf("scenario %q completed %d ticks in %s\n", scenario.Name, ticks, lifecycle.RuntimeDuration())
			fmt.Printf("workers=%d (idle=%d) workstations=%d (active=%d queued=%d blocked=%d) storages=%d transports=%d dangling=%d\n",
				counts.Workers, counts.IdleWorkers, counts.Workstations, counts.ActiveWorkstations,
				counts.QueuedWorkstations, counts.BlockedWorkstations, counts.Storages, counts.Transports, counts.DanglingItems)

			diag := eng.GetDiagnostics()
			if diag.StaleEvents > 0 || diag.ValidationErrors > 0 {
				fmt.Printf("diagnostics: stale_events=%d validation_errors=%d\n", diag.StaleEvents, diag.ValidationErrors)
			}

			if dump {
				if err := eng.DumpState(os.Stdout); err != nil {
					return fmt.Errorf("failed to dump state: %w", err)
				}
			}

			if save {
				runID := saveAs
				if runID == "" {
					runID = generateRunID(scenario.Name)
				}

				db, err := database.NewConnection(&cfg.Database)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer database.Close(db)
				if err := database.AutoMigrate(db); err != nil {
					return fmt.Errorf("failed to migrate snapshot schema: %w", err)
				}

				repo := persistence.NewGormSnapshotRepository(db)
				if err := repo.Save(cmd.Context(), runID, eng); err != nil {
					return fmt.Errorf("failed to save snapshot %q: %w", runID, err)
				}
				fmt.Printf("snapshot saved as %q\n", runID)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file (required)")
	cmd.Flags().IntVar(&ticks, "ticks", 50, "Number of Tick() calls to drive")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print a full dump_state after the run")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the final state as a snapshot")
	cmd.Flags().StringVar(&saveAs, "save-as", "", "Name for the snapshot (default: a generated run id)")
	cmd.Flags().BoolVar(&metricsOn, "metrics", false, "Register Prometheus collectors for hook-driven metrics")

	return cmd
}

// generateRunID builds a short, human-readable snapshot name by combining
// the scenario name with an 8-character uuid suffix — the same
// readable-prefix-plus-short-uuid shape as GenerateContainerID, sized down
// for a snapshot name instead of a container id.
func generateRunID(scenarioName string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s-%s", scenarioName, suffix)
}

// driveTicks calls eng.Tick() exactly n times, each gated by a rate.Limiter
// built from ec — the synthetic stand-in for a host's own per-frame loop.
func driveTicks(ctx context.Context, eng *orchestrator.Engine[string, string], ec config.EngineConfig, n int) error {
	limiter := rate.NewLimiter(rate.Limit(ec.RateLimit), ec.Burst)
	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		eng.Tick()
	}
	return nil
}
