package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's records and totals",
		Run:   runToday,
	}

	cmd.Flags().Bool("summary", false, "Only print totals")

	RootCmd.AddCommand(cmd)
}

func runToday(cmd *cobra.Command, args []string) {
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.QueryToday(cmd.Context())
	if err != nil {
		exitErr("query today", err)
	}
	printDay(model.DayKey(time.Now()), recs, summaryOnly)
}

type dayOutput struct {
	Summary report.Summary         `json:"summary"`
	Records []model.ActivityRecord `json:"records,omitempty"`
}

func printDay(day string, recs []model.ActivityRecord, summaryOnly bool) {
	sum := report.Summarize(day, recs)
	if jsonOutput() {
		out := dayOutput{Summary: sum}
		if !summaryOnly {
			out.Records = recs
		}
		printJSON(out)
		return
	}
	if !summaryOnly && len(recs) > 0 {
		fmt.Print(report.RenderRecords(recs))
		fmt.Println()
	}
	fmt.Print(report.RenderSummary(sum))
}
