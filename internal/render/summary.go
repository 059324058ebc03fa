// Package render turns a ranking into charts, tables and reports.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
)

// FormatPercent formats a percent with two decimals, without the % sign.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// Summary returns the one-line summary naming the top country.
func Summary(res *ranking.Result) string {
	top, ok := res.Top()
	if !ok {
		return fmt.Sprintf("No country has a value for %s", res.Column)
	}
	return fmt.Sprintf("%s is most common in %s (%s%%)", res.Column, top.Country, FormatPercent(top.Percent))
}

// Title returns the chart and report title for a ranking.
func Title(res *ranking.Result) string {
	return fmt.Sprintf("Top %d countries by %s", len(res.Entries), res.Column)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
