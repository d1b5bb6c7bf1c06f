package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "examprep",
	Short: "Question bank practice and timed assessments in the terminal",
	Long: `ExamPrep runs timed, tutor and custom practice blocks against a question
bank service, and formal timed assessments scored by the assessment service.

Settings come from flags, EXAMPREP_* environment variables, or an
examprep.yaml in the working directory or $HOME/.config/examprep.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.AddFlags(rootCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(versionCmd)
}
