package cmd

import (
	"fmt"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/spf13/cobra"
)

var typesData datasetFlags

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the selectable type columns of a dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := typesData.load()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %d countries, %d columns\n", ds.Name, ds.Len(), len(ds.Columns))
		for _, c := range ds.Columns {
			note := ""
			switch {
			case !ds.IsNumeric(c):
				note = "  (not numeric)"
			case !dataset.IsMBTIType(c):
				note = "  (not an MBTI type)"
			}
			fmt.Fprintf(w, "  %s%s\n", c, note)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesData.register(typesCmd)
}
