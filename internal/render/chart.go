package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ChartOptions controls bar chart output.
type ChartOptions struct {
	Width  int
	Height int
	Format string // png|svg
}

// DefaultChartOptions matches the dashboard's chart size.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 700, Height: 400, Format: FormatPNG}
}

// ErrNoBars is returned when there is nothing to chart.
var ErrNoBars = errors.New("nothing to chart: ranking is empty")

// ParseFormat normalizes a chart format name or file extension.
func ParseFormat(s string) (string, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart format: %s (use png|svg)", s)
	}
}

// ContentType returns the MIME type for a chart format.
func ContentType(format string) string {
	if format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Chart draws the ranking as a descending bar chart, shaded light to dark
// teal by value.
func Chart(w io.Writer, res *ranking.Result, opt ChartOptions) error {
	if res == nil || len(res.Entries) == 0 {
		return ErrNoBars
	}
	format, err := ParseFormat(opt.Format)
	if err != nil {
		return err
	}
	if opt.Width <= 0 {
		opt.Width = 700
	}
	if opt.Height <= 0 {
		opt.Height = 400
	}

	lo, hi := res.Entries[len(res.Entries)-1].Percent, res.Entries[0].Percent
	bars := make([]chart.Value, 0, len(res.Entries))
	for _, e := range res.Entries {
		c := shade(e.Percent, lo, hi)
		bars = append(bars, chart.Value{
			Label: e.Country,
			Value: e.Percent,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}
	top := hi * 1.1
	if top <= 0 {
		top = 1
	}
	barWidth := (opt.Width - 80) / (2 * len(bars))
	if barWidth < 8 {
		barWidth = 8
	}

	bc := chart.BarChart{
		Title:        Title(res),
		Width:        opt.Width,
		Height:       opt.Height,
		BarWidth:     barWidth,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 12}},
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Name:           res.Column + " share (%)",
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.1f", v) },
		},
		Bars: bars,
	}
	rp := chart.PNG
	if format == FormatSVG {
		rp = chart.SVG
	}
	if err := bc.Render(rp, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

var (
	tealLight = drawing.Color{R: 0xbc, G: 0xe4, B: 0xd8, A: 0xff}
	tealDark  = drawing.Color{R: 0x2c, G: 0x5a, B: 0x85, A: 0xff}
)

func shade(v, lo, hi float64) drawing.Color {
	t := 1.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	mix := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return drawing.Color{
		R: mix(tealLight.R, tealDark.R),
		G: mix(tealLight.G, tealDark.G),
		B: mix(tealLight.B, tealDark.B),
		A: 0xff,
	}
}
