package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/KaramelBytes/mbtiscope/internal/utils"
	"github.com/spf13/cobra"
)

var (
	topData   datasetFlags
	topN      int
	topFormat string
	topOutput string
	topChart  string
	topXLSX   string
)

var topCmd = &cobra.Command{
	Use:   "top <TYPE>",
	Short: "Show the countries where a personality type is most common",
	Example: `  mbtiscope top INFJ
  mbtiscope top entp -n 5 --format md --output entp.md
  mbtiscope top ISTJ --file survey.xlsx --sheet-name 2024 --chart istj.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(topFormat))
		switch format {
		case "table", "md", "json", "html":
		default:
			return fmt.Errorf("unsupported --format: %s (use table|md|json|html)", topFormat)
		}
		ds, err := topData.load()
		if err != nil {
			return err
		}
		n := topN
		if n <= 0 {
			n = currentConfig().TopN
		}
		res, err := ranking.TopN(ds, resolveColumn(ds, args[0]), n)
		if err != nil {
			return err
		}

		var out bytes.Buffer
		switch format {
		case "table":
			if err := render.Table(&out, res); err != nil {
				return err
			}
		case "md":
			out.WriteString(render.Markdown(res))
		case "json":
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			out.Write(b)
			out.WriteString("\n")
		case "html":
			out.Write(render.HTML(res))
		}

		// Decide where to write: --output path or stdout
		w := cmd.OutOrStdout()
		if topOutput != "" {
			if err := utils.SafeWriteFile(topOutput, out.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(w, "✓ Wrote %s report to %s\n", format, topOutput)
		} else {
			w.Write(out.Bytes())
		}

		if topChart != "" {
			if err := writeChart(topChart, res, ""); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote chart to %s\n", topChart)
		}
		if topXLSX != "" {
			var buf bytes.Buffer
			if err := render.WriteXLSX(&buf, res); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(topXLSX, buf.Bytes()); err != nil {
				return fmt.Errorf("write xlsx: %w", err)
			}
			fmt.Fprintf(w, "✓ Wrote workbook to %s\n", topXLSX)
		}
		return nil
	},
}

// writeChart renders res to path. The format comes from format when set,
// otherwise from the path extension.
func writeChart(path string, res *ranking.Result, format string) error {
	c := currentConfig()
	if format == "" {
		format = filepath.Ext(path)
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	opt := render.ChartOptions{Width: c.ChartWidth, Height: c.ChartHeight, Format: f}
	var buf bytes.Buffer
	if err := render.Chart(&buf, res, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(topCmd)
	topData.register(topCmd)
	topCmd.Flags().IntVarP(&topN, "limit", "n", 0, "number of countries to show (default top_n from config, 10)")
	topCmd.Flags().StringVar(&topFormat, "format", "table", "output format: table|md|json|html")
	topCmd.Flags().StringVarP(&topOutput, "output", "o", "", "write the report to a file instead of stdout")
	topCmd.Flags().StringVar(&topChart, "chart", "", "also write a bar chart (.png or .svg)")
	topCmd.Flags().StringVar(&topXLSX, "xlsx", "", "also export the ranking to an .xlsx workbook")
}
