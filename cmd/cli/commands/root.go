package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/spf13/cobra"

	"github.com/rowanmb/jobsite/internal/config"
	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
	"github.com/rowanmb/jobsite/internal/postgres"
	"github.com/rowanmb/jobsite/internal/sqlite"
	"github.com/rowanmb/jobsite/internal/store"
)

// flag names
const flagOwnerID = "owner-id"

var (
	ownerID string

	projectSvc *project.Service
	memberSvc  *member.Service
	closeDB    func() error
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "jobsite",
	Short: "Jobsite CLI - manage construction projects from the command line",
	Long: `Jobsite CLI works directly against the configured database.
It shares configuration with the server (JOBSITE_* environment variables).`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return initApp() },
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if closeDB != nil {
			return closeDB()
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&ownerID, flagOwnerID, "o", "default", "Principal ID to act as")

	RootCmd.AddCommand(projectsCmd)
	RootCmd.AddCommand(estimateCmd)
	RootCmd.AddCommand(shareCmd)
	RootCmd.AddCommand(membersCmd)
	RootCmd.AddCommand(profileCmd)
}

// writeThrough persists snapshots immediately. One-shot commands exit
// right away, so there is nothing to coalesce.
type writeThrough struct {
	repo  project.Repository
	clock clock.Clock
}

func (w writeThrough) Schedule(owner string, snapshot project.Project) {
	row := project.ProjectToRow(&snapshot, owner, w.clock.Now())
	if err := w.repo.Upsert(context.Background(), &row); err != nil {
		fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
	}
}

func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	var (
		projectRepo project.Repository
		memberRepo  member.Repository
	)
	switch cfg.DB.Driver {
	case "postgres":
		gdb, err := postgres.New(cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		projectRepo = postgres.NewProjectRepository(gdb)
		memberRepo = postgres.NewMemberRepository(gdb)
		closeDB = func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	default:
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		projectRepo = sqlite.NewProjectRepository(db)
		memberRepo = sqlite.NewMemberRepository(db)
		closeDB = db.Close
	}

	clk := clock.New()
	projectSvc = project.NewService(projectRepo, store.New(), writeThrough{repo: projectRepo, clock: clk}, clk, logger)
	memberSvc = member.NewService(memberRepo, clk, logger)
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
