package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/KaramelBytes/mbtiscope/internal/utils"
	"github.com/spf13/cobra"
)

var (
	batchData        datasetFlags
	batchTypes       []string
	batchOutDir      string
	batchChartFormat string
	batchN           int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render chart and report files for many types with progress",
	Example: `  mbtiscope batch --out-dir reports
  mbtiscope batch --types INFJ,ENTP --out-dir reports --chart-format svg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := batchChartFormat
		if format == "" {
			format = currentConfig().ChartFormat
		}
		format, err := render.ParseFormat(format)
		if err != nil {
			return err
		}
		ds, err := batchData.load()
		if err != nil {
			return err
		}
		var types []string
		if len(batchTypes) == 0 {
			// Without --types, render every rankable column.
			for _, c := range ds.Columns {
				if !ds.IsNumeric(c) {
					fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: skipping non-numeric column %s\n", c)
					continue
				}
				types = append(types, c)
			}
		} else {
			types = make([]string, 0, len(batchTypes))
			for _, t := range batchTypes {
				if t = strings.TrimSpace(t); t != "" {
					types = append(types, resolveColumn(ds, t))
				}
			}
		}
		if len(types) == 0 {
			return fmt.Errorf("no numeric type columns to render")
		}
		n := batchN
		if n <= 0 {
			n = currentConfig().TopN
		}
		if err := utils.EnsureDir(batchOutDir); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}

		w := cmd.OutOrStdout()
		var index strings.Builder
		index.WriteString(fmt.Sprintf("[BATCH: %s]\n\n", ds.Name))
		total := len(types)
		for i, col := range types {
			if !quiet {
				fmt.Fprintf(w, "[%d/%d] Rendering %s...\n", i+1, total, col)
			}
			res, err := ranking.TopN(ds, col, n)
			if err != nil {
				return err
			}
			base := utils.SafeName(col, fmt.Sprintf("column-%d", i+1))
			if err := utils.SafeWriteFile(filepath.Join(batchOutDir, base+".md"), []byte(render.Markdown(res))); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if err := writeChart(filepath.Join(batchOutDir, base+"."+format), res, format); err != nil {
				return err
			}
			index.WriteString(fmt.Sprintf("- %s: %s\n", col, render.Summary(res)))
		}
		if err := utils.SafeWriteFile(filepath.Join(batchOutDir, "index.md"), []byte(index.String())); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
		fmt.Fprintf(w, "✓ Wrote %d reports to %s\n", total, batchOutDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchData.register(batchCmd)
	batchCmd.Flags().StringSliceVar(&batchTypes, "types", nil, "comma-separated type columns (default: all)")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for the generated files")
	batchCmd.Flags().StringVar(&batchChartFormat, "chart-format", "", "chart format: png|svg (default chart_format from config)")
	batchCmd.Flags().IntVarP(&batchN, "limit", "n", 0, "number of countries per type (default top_n from config, 10)")
	_ = batchCmd.MarkFlagRequired("out-dir")
}
