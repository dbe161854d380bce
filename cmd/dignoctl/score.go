package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON answer set read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			answers, err := dignometro.ParseAnswersJSON(data)
			if err != nil {
				return err
			}
			evaluator, err := root.evaluator()
			if err != nil {
				return err
			}
			eval := evaluator.Evaluate(answers)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(eval)
			}
			return writeEvaluation(cmd.OutOrStdout(), answers, eval)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "answers JSON file (default stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the evaluation as JSON")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func writeEvaluation(w io.Writer, answers dignometro.AnswerSet, eval dignometro.Evaluation) error {
	dims := tablewriter.NewWriter(w)
	dims.Header([]string{"Dimension", "Answer", "Points"})
	dims.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var rows [][]string
	for _, q := range dignometro.Questions() {
		answer, points := "-", "-"
		if v, ok := answers[q.ID]; ok {
			answer = "não"
			if v {
				answer = "sim"
			}
			points = itoa(eval.DimensionScores[q.ID])
		}
		rows = append(rows, []string{q.Dimension, answer, points})
	}
	if err := dims.Bulk(rows); err != nil {
		return err
	}
	if err := dims.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nScore: %s  Level: %s\n", strconv.FormatFloat(eval.Score, 'f', 2, 64), eval.PovertyLevel); err != nil {
		return err
	}
	if len(eval.Recommendations) == 0 {
		_, err := fmt.Fprintln(w, "No recommendations.")
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	recs := tablewriter.NewWriter(w)
	recs.Header([]string{"Priority", "Dimension", "Goal"})
	var recRows [][]string
	for _, r := range eval.Recommendations {
		recRows = append(recRows, []string{string(r.Priority), r.Dimension, r.Goal})
	}
	if err := recs.Bulk(recRows); err != nil {
		return err
	}
	return recs.Render()
}

func itoa(n int) string { return strconv.Itoa(n) }
