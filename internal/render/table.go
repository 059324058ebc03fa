package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/fatih/color"
)

var (
	colorBold  = color.New(color.Bold)
	colorGreen = color.New(color.FgGreen)
)

// Table writes the ranking as an aligned terminal table followed by the summary.
func Table(w io.Writer, res *ranking.Result) error {
	header := []string{"#", "Country", res.Column + " (%)"}
	rows := make([][]string, 0, len(res.Entries))
	for i, e := range res.Entries {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), e.Country, FormatPercent(e.Percent)})
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if n := len([]rune(c)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	// country is left-aligned, numbers right-aligned
	right := []bool{true, false, true}

	parts := make([]string, len(header))
	for i, h := range header {
		parts[i] = colorBold.Sprint(pad(h, widths[i], right[i]))
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	for i, wd := range widths {
		parts[i] = strings.Repeat("-", wd)
	}
	if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	for _, r := range rows {
		for i, c := range r {
			parts[i] = pad(c, widths[i], right[i])
		}
		if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  ")); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", colorGreen.Sprint("✓ "+Summary(res))); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// pad aligns by rune count so non-ASCII country names line up.
func pad(s string, width int, right bool) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
