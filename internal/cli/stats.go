package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record store statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if jsonOutput() {
		printJSON(stats)
		return
	}

	fmt.Printf("backend   %s\n", stats.Backend)
	if stats.DBPath != "" {
		fmt.Printf("path      %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	}
	if stats.CreatedAt != nil {
		fmt.Printf("created   %s\n", humanize.Time(*stats.CreatedAt))
	}
	fmt.Printf("days      %s\n", humanize.Comma(int64(len(stats.Days))))
	fmt.Printf("records   %s\n", humanize.Comma(int64(stats.TotalRecords)))
	for _, d := range stats.Days {
		fmt.Printf("  %s %6d records %9s tracked %9s productive %9s leisure\n",
			d.Day, d.Records,
			report.FormatDuration(d.Tracked),
			report.FormatDuration(d.Productive),
			report.FormatDuration(d.Leisure))
	}
}
