package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List days that have records, newest first",
		Run:   runDates,
	}

	RootCmd.AddCommand(cmd)
}

func runDates(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	dates, err := s.ListAvailableDates(cmd.Context())
	if err != nil {
		exitErr("list dates", err)
	}
	store.SortDates(dates)

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, model.DayKey(d))
	}
	if jsonOutput() {
		printJSON(keys)
		return
	}
	for _, k := range keys {
		fmt.Println(k)
	}
}
