package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show the records of a past day",
		Run:   runDay,
	}

	cmd.Flags().String("date", "", "Day to show: YYYY-MM-DD, today or yesterday (required)")
	cmd.Flags().Bool("summary", false, "Only print totals")

	cmd.MarkFlagRequired("date")

	RootCmd.AddCommand(cmd)
}

func runDay(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	date, err := parseDate(dateStr, time.Now())
	if err != nil {
		exitErr("day", err)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	recs, err := s.QueryByDate(cmd.Context(), date)
	if errors.Is(err, store.ErrNoDataOnDate) {
		if jsonOutput() {
			printJSON(map[string]any{"day": model.DayKey(date), "records": []model.ActivityRecord{}})
			return
		}
		fmt.Printf("Nothing was tracked on %s.\n", model.DayKey(date))
		return
	}
	if err != nil {
		exitErr("query day", err)
	}
	printDay(model.DayKey(date), recs, summaryOnly)
}
