package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelsim/workcell-engine/internal/adapters/persistence"
	"github.com/kestrelsim/workcell-engine/internal/domain/orchestrator"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/config"
	"github.com/kestrelsim/workcell-engine/internal/infrastructure/database"
)

// newSnapshotCommand creates the snapshot command with its subcommands,
// wired to the GORM-backed snapshot/restore adapter.
func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "List, restore, and delete engine snapshots",
		Long: `snapshot manages named, persisted captures of an engine's query-surface
state. This is a host-side convenience layered on top of the engine, not
engine state itself — restoring a snapshot replays entity-lifecycle calls
rather than reconstructing byte-for-byte internal state.`,
	}

	cmd.AddCommand(newSnapshotListCommand())
	cmd.AddCommand(newSnapshotRestoreCommand())
	cmd.AddCommand(newSnapshotDeleteCommand())

	return cmd
}

func openSnapshotDB(cfg *config.Config) (*persistence.GormSnapshotRepository, func(), error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate snapshot schema: %w", err)
	}
	closer := func() { _ = database.Close(db) }
	return persistence.NewGormSnapshotRepository(db), closer, nil
}

func newSnapshotListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every persisted snapshot run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			repo, closer, err := openSnapshotDB(cfg)
			if err != nil {
				return err
			}
			defer closer()

			runs, err := repo.ListRuns(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list snapshots: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No snapshots found")
				return nil
			}
			for _, name := range runs {
				fmt.Println(name)
			}
			return nil
		},
	}
	return cmd
}

func newSnapshotRestoreCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Rebuild an engine from a persisted snapshot and print its state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			repo, closer, err := openSnapshotDB(cfg)
			if err != nil {
				return err
			}
			defer closer()

			eng := orchestrator.NewEngine(orchestrator.Hooks[string, string]{})
			if err := repo.Restore(cmd.Context(), name, eng); err != nil {
				return fmt.Errorf("failed to restore snapshot %q: %w", name, err)
			}

			counts := eng.GetCounts()
			fmt.Printf("restored %q: workers=%d workstations=%d storages=%d transports=%d dangling=%d\n",
				name, counts.Workers, counts.Workstations, counts.Storages, counts.Transports, counts.DanglingItems)

			if dump {
				if err := eng.DumpState(os.Stdout); err != nil {
					return fmt.Errorf("failed to dump state: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print a full dump_state after restoring")
	return cmd
}

func newSnapshotDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a persisted snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			repo, closer, err := openSnapshotDB(cfg)
			if err != nil {
				return err
			}
			defer closer()

			if err := repo.DeleteRun(cmd.Context(), name); err != nil {
				return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
			}
			fmt.Printf("snapshot %q deleted\n", name)
			return nil
		},
	}
	return cmd
}
