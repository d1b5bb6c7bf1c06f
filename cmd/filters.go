package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the filter values offered by the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		opts, err := e.client.FetchFilters(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, row := range []struct {
			name   string
			values []string
		}{
			{"Subjects", opts.Subjects},
			{"Systems", opts.Systems},
			{"Statuses", opts.Statuses},
			{"Difficulties", opts.Difficulties},
			{"Tags", opts.Tags},
		} {
			fmt.Fprintf(out, "%-13s %s\n", row.name+":", strings.Join(row.values, ", "))
		}
		return nil
	},
}
