package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/screen"
	"github.com/abhisek/examprep/internal/screens/assess"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take a formal assessment",
	Long: `Open the assessment form prefilled from flags. Once started, the
question set is fixed; answers are submitted when you press Ctrl+S or
automatically when the time limit runs out.`,
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.String("candidate", "", "Candidate ID")
	f.String("subject", "", "Subject")
	f.String("system", "", "System")
	f.String("difficulty", "", "Difficulty")
	f.StringSlice("tags", nil, "Tags, comma separated")
	f.Int("minutes", 0, "Time limit in minutes (0 for untimed)")
	f.Int("count", 0, "Number of questions (0 for the server default)")
}

func assessBlueprint(cmd *cobra.Command) assessment.Blueprint {
	flags := cmd.Flags()
	var bp assessment.Blueprint
	bp.CandidateID, _ = flags.GetString("candidate")
	bp.Subject, _ = flags.GetString("subject")
	bp.System, _ = flags.GetString("system")
	bp.Difficulty, _ = flags.GetString("difficulty")
	bp.Tags, _ = flags.GetStringSlice("tags")
	bp.QuestionCount, _ = flags.GetInt("count")
	if m, _ := flags.GetInt("minutes"); m > 0 {
		bp.TimeLimitMinutes = &m
	}
	return bp
}

func runAssess(cmd *cobra.Command, args []string) error {
	bp := assessBlueprint(cmd)
	return runApp(cmd, func(d screen.Deps) screen.Screen {
		d.CandidateID = bp.CandidateID
		return assess.New(d, bp)
	})
}
