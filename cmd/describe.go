package cmd

import (
	"fmt"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/KaramelBytes/mbtiscope/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descData datasetFlags
	descJSON bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <TYPE>",
	Short: "Summarize how a personality type is distributed across countries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := descData.load()
		if err != nil {
			return err
		}
		st, err := ranking.Describe(ds, resolveColumn(ds, args[0]))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if descJSON {
			b, err := utils.PrettyJSON(st)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		fmt.Fprint(w, render.DescribeMarkdown(st))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	descData.register(describeCmd)
	describeCmd.Flags().BoolVar(&descJSON, "json", false, "print the statistics as JSON")
}
