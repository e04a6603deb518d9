package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "daypack" command and registers every
// scheduler subcommand against the provided App — the same
// App-holds-collaborators, subcommand-per-file shape as the teacher's
// internal/cli/root.go.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "daypack",
		Short: "Personal-productivity scheduling engine",
		Long: `daypack packs tasks, habits, and deadlines into a working-hours
calendar, flags conflicts, and supports emergency insertion, drag
rescheduling, and estimate calibration from completion history.`,
	}

	root.AddCommand(
		newScheduleCmd(app),
		newAnalyzeCmd(app),
		newInsertCmd(app),
		newRescheduleCmd(app),
		newLearnCmd(app),
		newTimelineCmd(app),
	)

	return root
}
