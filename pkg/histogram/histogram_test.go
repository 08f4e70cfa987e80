package histogram

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func ptr(v float64) *float64 { return &v }

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestGenerate(t *testing.T) {
	s := Series{
		Title:  "Temperature",
		Unit:   "°C",
		Labels: []string{"00:00", "01:00", "02:00", "03:00"},
		Values: []*float64{ptr(10), ptr(20), nil, ptr(15)},
		Width:  11,
	}

	out := Generate(s, TemperatureBands)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if !strings.Contains(lines[0], "Temperature (°C)") {
		t.Errorf("header = %q, want title with unit", lines[0])
	}
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}

	tests := []struct {
		line   string
		prefix string
		bar    int
	}{
		{lines[2], "00:00 v    10.0 ", 1},
		{lines[3], "01:00 ^    20.0 ", 11},
		{lines[5], "03:00      15.0 ", 6},
	}
	for _, tt := range tests {
		if !strings.HasPrefix(tt.line, tt.prefix) {
			t.Errorf("line %q does not start with %q", tt.line, tt.prefix)
		}
		if got := strings.Count(tt.line, "█"); got != tt.bar {
			t.Errorf("line %q has bar length %d, want %d", tt.line, got, tt.bar)
		}
	}

	if !strings.Contains(lines[4], "n/a") || strings.Contains(lines[4], "█") {
		t.Errorf("missing slot rendered as %q", lines[4])
	}
}

func TestGenerateNoData(t *testing.T) {
	out := Generate(Series{Title: "Rain", Labels: []string{"a"}, Values: []*float64{nil}}, nil)
	if !strings.HasSuffix(out, "No data available\n") {
		t.Errorf("Generate() = %q, want no-data notice", out)
	}
}

func TestGenerateFlatSeries(t *testing.T) {
	out := Generate(Series{Title: "Flat", Values: []*float64{ptr(3), ptr(3)}}, nil)
	if got := strings.Count(out, "█"); got != 2 {
		t.Errorf("flat series bar count = %d, want 2", got)
	}
}

func TestBandColor(t *testing.T) {
	tests := []struct {
		v    float64
		want *color.Color
	}{
		{-5, TemperatureBands[0].Color},
		{0, TemperatureBands[1].Color},
		{24.9, TemperatureBands[2].Color},
		{35, TemperatureBands[4].Color},
	}
	for _, tt := range tests {
		if got := bandColor(tt.v, TemperatureBands); got != tt.want {
			t.Errorf("bandColor(%v) picked the wrong band", tt.v)
		}
	}
}
