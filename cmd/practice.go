package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/setup"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Build a practice block, preview matches and start it",
	Long: `Open the block builder prefilled from flags. The preview pane lists
matching questions ten at a time; press M to load more and S to start.

Modes:
  timed   clock of --time-per-question seconds per question (default 105),
          explanations after the block
  tutor   untimed, explanation after each answer
  custom  timed only with --time-per-question, explanations with --reveal`,
	RunE: runPractice,
}

func init() {
	f := practiceCmd.Flags()
	f.String("mode", string(question.ModeTimed), "Block mode: timed, tutor or custom")
	f.Int("count", setup.DefaultQuestionCount, "Number of questions")
	f.String("subject", "", "Subject filter")
	f.String("system", "", "System filter")
	f.String("difficulty", "", "Difficulty filter")
	f.String("status", "", "Status filter")
	f.String("query", "", "Free-text search")
	f.StringSlice("tags", nil, "Tags, comma separated")
	f.Int("time-per-question", 0, "Seconds per question (0 uses the mode default)")
	f.Bool("shuffle", false, "Randomize question order")
	f.Bool("reveal", false, "Custom mode: show the explanation after each answer")
}

// practiceFilters reads the block flags.
func practiceFilters(cmd *cobra.Command) (question.Mode, question.Filters, error) {
	flags := cmd.Flags()
	modeVal, _ := flags.GetString("mode")
	mode, err := question.ParseMode(modeVal)
	if err != nil {
		return "", question.Filters{}, err
	}

	var f question.Filters
	f.QuestionCount, _ = flags.GetInt("count")
	f.Subject, _ = flags.GetString("subject")
	f.System, _ = flags.GetString("system")
	f.Difficulty, _ = flags.GetString("difficulty")
	f.Status, _ = flags.GetString("status")
	f.Query, _ = flags.GetString("query")
	f.Tags, _ = flags.GetStringSlice("tags")
	f.RandomizeOrder, _ = flags.GetBool("shuffle")
	f.ShowExplanationOnSubmit, _ = flags.GetBool("reveal")
	if secs, _ := flags.GetInt("time-per-question"); secs > 0 {
		f.TimePerQuestionSeconds = &secs
	}
	return mode, f, nil
}

func runPractice(cmd *cobra.Command, args []string) error {
	mode, filters, err := practiceFilters(cmd)
	if err != nil {
		return err
	}
	return runApp(cmd, func(d screen.Deps) screen.Screen {
		return setup.New(d, mode, filters)
	})
}
