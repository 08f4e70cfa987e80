// Package histogram renders forecast series as colored terminal bar charts.
package histogram

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
)

// DefaultWidth is the bar length used for the largest value.
const DefaultWidth = 40

// Series is one forecast variable over a time axis. Labels and Values are
// parallel; a nil value marks a slot the service had no data for.
type Series struct {
	Title  string
	Unit   string
	Labels []string
	Values []*float64
	Width  int
}

// Band colors a value range. Bands are checked in order; the first whose
// Below bound exceeds the value wins.
type Band struct {
	Below float64
	Color *color.Color
}

// TemperatureBands colors temperatures in °C from freezing blue to hot red.
var TemperatureBands = []Band{
	{Below: 0, Color: color.New(color.FgBlue)},
	{Below: 15, Color: color.New(color.FgCyan)},
	{Below: 25, Color: color.New(color.FgGreen)},
	{Below: 30, Color: color.New(color.FgYellow)},
	{Below: math.Inf(1), Color: color.New(color.FgRed)},
}

func bandColor(v float64, bands []Band) *color.Color {
	for _, b := range bands {
		if v < b.Below {
			return b.Color
		}
	}
	return color.New(color.Reset)
}

// bounds returns the smallest and largest present value and whether any were present.
func bounds(values []*float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v == nil {
			continue
		}
		ok = true
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}
	return lo, hi, ok
}

// Generate renders s, one line per slot. Bars are scaled between the series
// minimum and maximum; the extremes are marked with "v" and "^".
func Generate(s Series, bands []Band) string {
	var output strings.Builder

	width := s.Width
	if width <= 0 {
		width = DefaultWidth
	}

	title := s.Title
	if s.Unit != "" {
		title = fmt.Sprintf("%s (%s)", s.Title, s.Unit)
	}
	output.WriteString("📊 " + title + "\n")
	output.WriteString(strings.Repeat("─", 50) + "\n")

	lo, hi, ok := bounds(s.Values)
	if !ok {
		return output.String() + "No data available\n"
	}

	labelWidth := 0
	for _, l := range s.Labels {
		labelWidth = max(labelWidth, len(l))
	}

	grey := color.New(color.FgHiBlack)
	for i, v := range s.Values {
		label := ""
		if i < len(s.Labels) {
			label = s.Labels[i]
		}
		line := fmt.Sprintf("%-*s ", labelWidth, label)

		if v == nil {
			output.WriteString(line + "  " + fmt.Sprintf("%7s ", "n/a") + grey.Sprint("·") + "\n")
			continue
		}

		marker := "  "
		switch *v {
		case hi:
			marker = color.New(color.FgRed).Sprint("^") + " "
		case lo:
			marker = color.New(color.FgBlue).Sprint("v") + " "
		}
		line += marker + fmt.Sprintf("%7.1f ", *v)

		barLength := 1
		if hi > lo {
			barLength = 1 + int(math.Round((*v-lo)/(hi-lo)*float64(width-1)))
		}
		c := grey
		if len(bands) > 0 {
			c = bandColor(*v, bands)
		}
		line += c.Sprint(strings.Repeat("█", barLength))

		output.WriteString(line + "\n")
	}

	return output.String()
}
