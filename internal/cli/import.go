package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import records from JSON",
		Long:  "Import records from JSON (stdin or file). Expects the format produced by export. Records already present are skipped.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	var days []store.Day
	if err := json.Unmarshal(data, &days); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported := 0
	for _, d := range days {
		date, err := model.ParseDayKey(d.Day)
		if err != nil {
			exitErr("import", fmt.Errorf("invalid day %q", d.Day))
		}
		n, err := s.Import(cmd.Context(), date, d.Records)
		if err != nil {
			exitErr("import", err)
		}
		imported += n
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
