package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/trackr/internal/classifier"
	"github.com/rcliao/trackr/internal/model"
	"github.com/rcliao/trackr/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show how a window would be classified",
		Long:  "Classify a window with the current config and list every activity that matched. The last match wins.",
		Run:   runClassify,
	}

	cmd.Flags().StringP("title", "t", "", "Window title")
	cmd.Flags().StringP("name", "n", "", "Application name (WM_CLASS instance)")
	cmd.Flags().String("class", "", "Application class (WM_CLASS class)")
	cmd.Flags().Bool("afk", false, "Classify the AFK state instead of a window")

	RootCmd.AddCommand(cmd)
}

type classifyOutput struct {
	Kind    model.ActivityKind       `json:"kind"`
	Status  model.ProductivityStatus `json:"status"`
	Matches []classifier.Match       `json:"matches"`
}

func runClassify(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	name, _ := cmd.Flags().GetString("name")
	class, _ := cmd.Flags().GetString("class")
	afk, _ := cmd.Flags().GetBool("afk")

	loaded, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	compiled := loaded.Config.Compile()

	kind := model.ActiveWindow(title, name, class)
	if afk {
		kind = model.AFK()
	}
	out := classifyOutput{
		Kind:    kind,
		Status:  classifier.Classify(compiled, kind),
		Matches: classifier.Explain(compiled, kind),
	}
	if out.Matches == nil {
		out.Matches = []classifier.Match{}
	}

	if jsonOutput() {
		printJSON(out)
		return
	}
	fmt.Printf("%s -> %s\n", kind, report.StatusStyle(out.Status.Type).Render(out.Status.String()))
	for _, m := range out.Matches {
		fmt.Printf("  matched %q (rule #%d, %s) -> %s\n", m.Activity, m.Rule, m.Target, m.Status)
	}
}
