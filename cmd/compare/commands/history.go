package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MarketCompare/internal/model"
	"MarketCompare/internal/report"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded runs",
	Long: `Lists runs stored by "compare run --record" and the scheduler.
Requires database.sqlite_path (or SQLITE_PATH).

Example:
  compare history
  compare history --limit 20`,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}
	rec, err := a.openRecorder(true)
	if err != nil {
		return err
	}
	defer rec.Close()

	runs, err := rec.RecentRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECORDED\tWINDOW\tSYMBOLS\tLEADER\tRETURN\tEXCLUDED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s ~ %s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.RecordedAt.Format("2006-01-02 15:04"),
			r.WindowStart.Format(model.DateLayout),
			r.WindowEnd.Format(model.DateLayout),
			strings.Join(r.Symbols, ","),
			r.Leader,
			report.FormatPercent(r.LeaderReturnPct),
			strings.Join(r.Excluded, ","))
	}
	return w.Flush()
}
