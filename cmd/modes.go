package cmd

import (
	"os"

	"difydsl/internal/dsl"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newModesCmd creates the Cobra command listing the supported app modes.
func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the supported app modes",
		Run: func(cmd *cobra.Command, args []string) {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"Mode", "Graph", "Model Config"})
			for _, mode := range dsl.AppModes() {
				t.AppendRow(table.Row{
					string(mode),
					yesNo(mode.IsGraphMode()),
					yesNo(mode.RequiresModelConfig()),
				})
			}
			t.Render()
		},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
