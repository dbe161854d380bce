package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the diagnostic questions in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"#", "ID", "Dimension", "Question"})
			var rows [][]string
			for i, q := range dignometro.Questions() {
				rows = append(rows, []string{itoa(i + 1), string(q.ID), q.Dimension, q.Prompt})
			}
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
