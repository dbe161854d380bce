package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/assessments"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/db"
)

func newRescoreCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Recompute stored assessments and fix any whose score or level drifted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			evaluator, err := root.evaluator()
			if err != nil {
				return err
			}
			sqlDB, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			svc := assessments.NewService(&assessments.PGRepo{DB: sqlDB}, nil, evaluator, nil)
			report, err := svc.Rescore(ctx, dryRun)
			if err != nil {
				return err
			}
			return writeRescore(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without writing")
	return cmd
}

func writeRescore(cmd *cobra.Command, report assessments.RescoreReport) error {
	if len(report.Changes) > 0 {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"Assessment", "Score", "Level"})
		var rows [][]string
		for _, ch := range report.Changes {
			rows = append(rows, []string{
				ch.AssessmentID,
				formatScore(ch.FromScore) + " -> " + formatScore(ch.ToScore),
				string(ch.FromLevel) + " -> " + string(ch.ToLevel),
			})
		}
		if err := table.Bulk(rows); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	mode := "updated"
	if report.DryRun {
		mode = "would update"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "scanned %d assessments, %s %d\n", report.Scanned, mode, len(report.Changes))
	return err
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sqlDB, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				return err
			}
			v, err := db.MigrationVersion(ctx, sqlDB)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "migrations applied; version=%d\n", v)
			return err
		},
	}
}
