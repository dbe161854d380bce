package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/config"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/db"
)

// Set by the linker at release time.
var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	goalTablePath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "dignoctl",
		Short:         "Dignômetro scoring and maintenance tool",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.goalTablePath, "goal-table", os.Getenv("GOAL_TABLE_PATH"), "YAML goal table overriding the built-in one")

	root.AddCommand(
		newQuestionsCmd(),
		newScoreCmd(opts),
		newRescoreCmd(opts),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return root
}

func (o *rootOptions) evaluator() (*dignometro.Evaluator, error) {
	table, err := dignometro.LoadGoalTable(o.goalTablePath)
	if err != nil {
		return nil, err
	}
	return dignometro.NewEvaluator(table), nil
}

// openDB connects with the short-lived CLI pool settings.
func openDB(ctx context.Context) (*sql.DB, error) {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultCLIOptions()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dignoctl version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("dignoctl %s (%s)\n", version, commit)
		},
	}
}
