package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Delete all records of a day",
		Run:   runForget,
	}

	cmd.Flags().String("date", "", "Day to delete: YYYY-MM-DD, today or yesterday (required)")

	cmd.MarkFlagRequired("date")

	RootCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")

	date, err := parseDate(dateStr, time.Now())
	if err != nil {
		exitErr("forget", err)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := forgetDay(cmd.Context(), s, date, cmd.OutOrStdout()); err != nil {
		exitErr("forget", err)
	}
}

// forgetDay deletes date's records. A day with nothing tracked is reported,
// not treated as an error.
func forgetDay(ctx context.Context, s *store.Store, date time.Time, w io.Writer) error {
	day := model.DayKey(date)
	err := s.DeleteDate(ctx, date)
	if errors.Is(err, store.ErrNoDataOnDate) {
		if jsonOutput() {
			fmt.Fprintf(w, `{"ok":true,"day":%q,"deleted":false}`+"\n", day)
			return nil
		}
		fmt.Fprintf(w, "Nothing was tracked on %s.\n", day)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, `{"ok":true,"day":%q,"deleted":true}`+"\n", day)
	return nil
}
