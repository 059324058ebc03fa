package render

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown renders a compact report: header, table indexed by country, summary.
func Markdown(res *ranking.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[TOP %d: %s]\n", len(res.Entries), res.Column))
	if res.Dataset != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", res.Dataset))
	}
	b.WriteString("\n")
	if len(res.Entries) > 0 {
		b.WriteString(fmt.Sprintf("| Country | %s (%%) |\n", safeVal(res.Column)))
		b.WriteString("| --- | ---: |\n")
		for _, e := range res.Entries {
			b.WriteString(fmt.Sprintf("| %s | %s |\n", safeVal(e.Country), FormatPercent(e.Percent)))
		}
		b.WriteString("\n")
	}
	b.WriteString("[SUMMARY]\n")
	b.WriteString(Summary(res))
	b.WriteString("\n")
	return b.String()
}

// DescribeMarkdown renders distribution statistics in the same report style.
func DescribeMarkdown(s *ranking.Stats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[DISTRIBUTION: %s]\n", s.Column))
	b.WriteString(fmt.Sprintf("Countries: %d\n", s.Count))
	b.WriteString(fmt.Sprintf("- mean %s%%, std %s%%\n", FormatPercent(s.Mean), FormatPercent(s.StdDev)))
	b.WriteString(fmt.Sprintf("- median %s%% (IQR %s%% to %s%%)\n", FormatPercent(s.Median), FormatPercent(s.Q25), FormatPercent(s.Q75)))
	b.WriteString(fmt.Sprintf("- min %s%% (%s)\n", FormatPercent(s.Min), s.MinCountry))
	b.WriteString(fmt.Sprintf("- max %s%% (%s)\n", FormatPercent(s.Max), s.MaxCountry))
	return b.String()
}

// HTML converts the Markdown report into a standalone HTML page.
func HTML(res *ranking.Result) []byte {
	return toHTML(Markdown(res), Title(res), true)
}

// HTMLFragment converts the Markdown report into an HTML fragment for embedding.
func HTMLFragment(res *ranking.Result) []byte {
	return toHTML(Markdown(res), "", false)
}

func toHTML(md, title string, page bool) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	flags := html.CommonFlags
	if page {
		flags |= html.CompletePage
	}
	r := html.NewRenderer(html.RendererOptions{Flags: flags, Title: title})
	return markdown.ToHTML([]byte(md), p, r)
}
