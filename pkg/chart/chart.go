// Package chart writes forecast series as a standalone HTML line chart.
package chart

import (
	"errors"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// gap is how echarts marks a missing point; the line breaks there.
const gap = "-"

// Series is one named line. Values are parallel to Page.Labels; nil entries become gaps.
type Series struct {
	Name   string
	Values []*float64
}

// Page describes the chart surrounding the series.
type Page struct {
	Title    string
	Subtitle string
	Unit     string
	Labels   []string
}

// Render writes an HTML page containing one line chart with every series.
func Render(w io.Writer, page Page, series ...Series) error {
	if len(series) == 0 {
		return errors.New("no series to render")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: page.Title,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    page.Title,
			Subtitle: page.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: page.Unit,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type: "slider",
		}),
	)

	line.SetXAxis(page.Labels)
	for _, s := range series {
		line.AddSeries(s.Name, lineData(s.Values))
	}

	return line.Render(w)
}

func lineData(values []*float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if v == nil {
			data[i] = opts.LineData{Value: gap}
			continue
		}
		data[i] = opts.LineData{Value: *v}
	}
	return data
}
