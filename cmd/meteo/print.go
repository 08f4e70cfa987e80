package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codeGROOVE-dev/meteo/pkg/chart"
	"github.com/codeGROOVE-dev/meteo/pkg/histogram"
	"github.com/codeGROOVE-dev/meteo/pkg/openmeteo"
	"github.com/codeGROOVE-dev/meteo/pkg/timezone"
	"github.com/fatih/color"
)

// weatherCodes maps WMO weather interpretation codes to a short description.
var weatherCodes = map[int]string{
	0:  "☀️  Clear sky",
	1:  "🌤  Mainly clear",
	2:  "⛅ Partly cloudy",
	3:  "☁️  Overcast",
	45: "🌫  Fog",
	48: "🌫  Depositing rime fog",
	51: "🌦  Light drizzle",
	53: "🌦  Drizzle",
	55: "🌧  Dense drizzle",
	56: "🌧  Freezing drizzle",
	57: "🌧  Dense freezing drizzle",
	61: "🌦  Slight rain",
	63: "🌧  Rain",
	65: "🌧  Heavy rain",
	66: "🌧  Freezing rain",
	67: "🌧  Heavy freezing rain",
	71: "🌨  Slight snow",
	73: "🌨  Snow",
	75: "❄️  Heavy snow",
	77: "🌨  Snow grains",
	80: "🌦  Rain showers",
	81: "🌧  Heavy rain showers",
	82: "⛈  Violent rain showers",
	85: "🌨  Snow showers",
	86: "❄️  Heavy snow showers",
	95: "⛈  Thunderstorm",
	96: "⛈  Thunderstorm with hail",
	99: "⛈  Thunderstorm with heavy hail",
}

func describeWeatherCode(code int) string {
	if s, ok := weatherCodes[code]; ok {
		return s
	}
	return fmt.Sprintf("Weather code %d", code)
}

func compassPoint(degrees float64) string {
	points := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	i := int((degrees+22.5)/45) % len(points)
	if i < 0 {
		i += len(points)
	}
	return points[i]
}

// printForecast writes the human-readable summary.
func printForecast(w io.Writer, o options, f *openmeteo.Forecast, hourlySlots int) {
	bold := color.New(color.Bold)

	fmt.Fprintln(w)
	if o.place != "" {
		bold.Fprintf(w, "🌍 Forecast for %s\n", o.place)
	} else {
		bold.Fprintf(w, "🌍 Forecast\n")
	}
	fmt.Fprintln(w, strings.Repeat("─", 50))
	fmt.Fprintf(w, "📍 Location:      %.4f, %.4f\n", f.Latitude, f.Longitude)
	fmt.Fprintf(w, "⛰  Elevation:     %.0f m\n", f.Elevation)
	fmt.Fprintf(w, "🕐 Time Zone:     %s (%s, %s)\n",
		f.Timezone, f.TimezoneAbbreviation,
		timezone.FormatOffset(float64(f.UTCOffsetSeconds)/3600))
	fmt.Fprintf(w, "⚙️  Generated in:  %.2f ms\n", f.GenerationTimeMs)

	if cw := f.CurrentWeather; cw != nil {
		fmt.Fprintln(w)
		bold.Fprintln(w, "🌡  Current Conditions")
		fmt.Fprintln(w, strings.Repeat("─", 50))
		fmt.Fprintf(w, "   Time:          %s\n", cw.Time)
		fmt.Fprintf(w, "   Conditions:    %s\n", describeWeatherCode(cw.WeatherCode))
		fmt.Fprintf(w, "   Temperature:   %.1f°C\n", cw.Temperature)
		fmt.Fprintf(w, "   Wind:          %.1f km/h %s (%.0f°)\n",
			cw.WindSpeed, compassPoint(cw.WindDirection), cw.WindDirection)
		if cw.IsDay == 1 {
			fmt.Fprintln(w, "   Daylight:      yes")
		} else {
			fmt.Fprintln(w, "   Daylight:      no")
		}
	}

	if h := f.Hourly; h != nil && len(h.Temperature2m) > 0 {
		n := min(len(h.Time), len(h.Temperature2m))
		if hourlySlots > 0 {
			n = min(n, hourlySlots)
		}
		labels := make([]string, n)
		for i := range n {
			labels[i] = strings.Replace(h.Time[i], "T", " ", 1)
		}
		fmt.Fprint(w, histogram.Generate(histogram.Series{
			Title:  "Hourly Temperature",
			Unit:   f.HourlyUnits["temperature_2m"],
			Labels: labels,
			Values: h.Temperature2m[:n],
		}, histogram.TemperatureBands))
	}

	if d := f.Daily; d != nil {
		printDaily(w, f.DailyUnits, d)
	}
}

func printDaily(w io.Writer, units openmeteo.Units, d *openmeteo.Daily) {
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "📅 Daily Outlook")
	fmt.Fprintln(w, strings.Repeat("─", 50))

	for i, day := range d.Time {
		fmt.Fprintf(w, "   %s  %s\n", day, describeWeatherCode(intAt(d.WeatherCode, i)))
		fmt.Fprintf(w, "     Temperature:   %s .. %s %s\n",
			floatAt(d.Temperature2mMin, i), floatAt(d.Temperature2mMax, i), units["temperature_2m_max"])
		fmt.Fprintf(w, "     Precipitation: %s %s\n",
			floatAt(d.PrecipitationSum, i), units["precipitation_sum"])
		if sr, ss := stringAt(d.Sunrise, i), stringAt(d.Sunset, i); sr != "" || ss != "" {
			fmt.Fprintf(w, "     Sun:           %s - %s\n", clock(sr), clock(ss))
		}
	}
}

func floatAt(s []*float64, i int) string {
	if i >= len(s) || s[i] == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *s[i])
}

func intAt(s []*int, i int) int {
	if i >= len(s) || s[i] == nil {
		return -1
	}
	return *s[i]
}

func stringAt(s []*string, i int) string {
	if i >= len(s) || s[i] == nil {
		return ""
	}
	return *s[i]
}

// clock trims an ISO-8601 local time to HH:MM.
func clock(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[i+1:]
	}
	if ts == "" {
		return "n/a"
	}
	return ts
}

func writeChart(path string, o options, f *openmeteo.Forecast) error {
	if f.Hourly == nil {
		return errors.New("no hourly data to chart")
	}
	title := "Hourly forecast"
	if o.place != "" {
		title += " for " + o.place
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	err = chart.Render(file, chart.Page{
		Title:    title,
		Subtitle: fmt.Sprintf("%.4f, %.4f (%s)", f.Latitude, f.Longitude, f.Timezone),
		Unit:     f.HourlyUnits["temperature_2m"],
		Labels:   f.Hourly.Time,
	},
		chart.Series{Name: "Temperature", Values: f.Hourly.Temperature2m},
		chart.Series{Name: "Apparent temperature", Values: f.Hourly.ApparentTemperature},
		chart.Series{Name: "Dew point", Values: f.Hourly.DewPoint2m},
	)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing chart file: %w", closeErr)
	}
	return err
}
