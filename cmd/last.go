package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/summary"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Print the most recent practice block summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.summaries.Last(cmd.Context())
		if err != nil {
			return fmt.Errorf("load last summary: %w", err)
		}
		out := cmd.OutOrStdout()
		if s == nil {
			fmt.Fprintln(out, "No practice block completed yet.")
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		printSummary(out, *s)
		return nil
	},
}

func init() {
	lastCmd.Flags().Bool("json", false, "Print the summary as JSON")
}

func printSummary(w io.Writer, s summary.Summary) {
	fmt.Fprintf(w, "%s block, completed %s\n", s.Mode, s.CompletedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "  %d questions: %d correct, %d incorrect, %d omitted (%.0f%%)\n",
		s.Total, s.Correct, s.Incorrect, s.Omitted, s.Accuracy()*100)
	fmt.Fprintf(w, "  average %ds per question\n", s.AverageSeconds)
	for _, p := range s.Performances {
		mark := "○"
		selected := "-"
		if p.Selected != nil {
			selected = *p.Selected
			mark = "✗"
			if p.Correct {
				mark = "✓"
			}
		}
		fmt.Fprintf(w, "  %s %2d. %-12s %s/%s %ds\n", mark, p.Index+1, p.QuestionID, selected, p.CorrectAnswer, p.ElapsedSeconds)
	}
}
