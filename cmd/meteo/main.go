// Package main implements the meteo CLI for Open-Meteo forecasts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/meteo/pkg/geocode"
	"github.com/codeGROOVE-dev/meteo/pkg/openmeteo"
	"github.com/codeGROOVE-dev/meteo/pkg/timezone"
	"github.com/codeGROOVE-dev/meteo/pkg/transport"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

var (
	lat          = flag.Float64("lat", 0, "Latitude in decimal degrees (use with -lon instead of a place name)")
	lon          = flag.Float64("lon", 0, "Longitude in decimal degrees")
	startDate    = flag.String("start", "", "First day of the range, YYYY-MM-DD")
	endDate      = flag.String("end", "", "Last day of the range, YYYY-MM-DD")
	pastDays     = flag.Int("past-days", -1, "Include this many past days")
	forecastDays = flag.Int("forecast-days", -1, "Forecast horizon in days (service maximum is 16)")
	current      = flag.Bool("current", true, "Request current conditions")
	hourly       = flag.Bool("hourly", false, "Request all hourly variables")
	daily        = flag.Bool("daily", false, "Request all daily variables (needs -tz)")
	tzName       = flag.String("tz", "", "Time zone, e.g. Europe/London, GMT or auto")
	hours        = flag.Int("hours", 24, "Hourly slots to draw in the terminal histogram")
	chartPath    = flag.String("chart", "", "Write an HTML chart of hourly temperatures to this file")
	retries      = flag.Uint("retries", 0, "Retry failed requests this many times")
	geoKey       = flag.String("geo-key", "", "geocode.maps.co API key (or set METEO_GEOCODE_API_KEY)")
	baseURL      = flag.String("base-url", "", "Forecast endpoint (or set METEO_BASE_URL)")
	envFile      = flag.String("env-file", ".env", "Load environment variables from this file if it exists")
	timeout      = flag.Duration("timeout", 30*time.Second, "Overall request timeout")
	noColor      = flag.Bool("no-color", false, "Disable colored output")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

// options is everything buildQuery needs, detached from flag globals.
type options struct {
	place        string
	lat, lon     float64
	hasCoords    bool
	startDate    string
	endDate      string
	pastDays     int
	forecastDays int
	current      bool
	hourly       bool
	daily        bool
	zone         timezone.Zone
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("meteo CLI v1.0.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load env file", "path", *envFile, "error", err)
	}
	if *geoKey == "" {
		*geoKey = os.Getenv("METEO_GEOCODE_API_KEY")
	}
	if *baseURL == "" {
		*baseURL = os.Getenv("METEO_BASE_URL")
	}
	if *noColor {
		color.NoColor = true
	}

	opts, err := parseOptions(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <place>\n       %s [flags] -lat <lat> -lon <lon>\n", os.Args[0], os.Args[0])
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.PrintDefaults()
		os.Exit(2)
	}

	httpClient := transport.New(logger, transport.WithAttempts(*retries+1))
	clientOpts := []openmeteo.Option{
		openmeteo.WithLogger(logger),
		openmeteo.WithHTTPClient(httpClient),
		openmeteo.WithGeocoder(geocode.NewClient(httpClient, logger, geocode.WithAPIKey(*geoKey))),
	}
	if *baseURL != "" {
		clientOpts = append(clientOpts, openmeteo.WithBaseURL(*baseURL))
	}
	client := openmeteo.NewClient(clientOpts...)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	q, err := buildQuery(ctx, client, opts)
	if err != nil {
		fail(logger, err)
	}
	logger.Debug("query assembled", "url", q.URL())

	forecast, err := q.Execute(ctx)
	if err != nil {
		fail(logger, err)
	}

	printForecast(os.Stdout, opts, forecast, *hours)

	if *chartPath != "" {
		if err := writeChart(*chartPath, opts, forecast); err != nil {
			fail(logger, err)
		}
		fmt.Printf("\n📈 Chart written to %s\n", *chartPath)
	}
}

func fail(logger *slog.Logger, err error) {
	logger.Error("forecast failed", "error", err)
	red := color.New(color.FgRed)
	switch {
	case errors.Is(err, openmeteo.ErrNoMatch):
		red.Fprintf(os.Stderr, "❌ %v\n   Try -lat and -lon instead.\n", err)
	case errors.Is(err, openmeteo.ErrRemoteRejected):
		red.Fprintf(os.Stderr, "❌ %v\n", err)
	case errors.Is(err, openmeteo.ErrMalformedResponse):
		red.Fprintf(os.Stderr, "❌ unexpected response from the forecast service: %v\n", err)
	default:
		red.Fprintf(os.Stderr, "❌ %v\n", err)
	}
	os.Exit(1)
}

// parseOptions reads flag globals and positional arguments.
func parseOptions(args []string) (options, error) {
	o := options{
		place:        strings.TrimSpace(strings.Join(args, " ")),
		startDate:    *startDate,
		endDate:      *endDate,
		pastDays:     *pastDays,
		forecastDays: *forecastDays,
		current:      *current,
		hourly:       *hourly || *chartPath != "",
		daily:        *daily,
	}

	latSet, lonSet := false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lon":
			lonSet = true
		}
	})
	if latSet != lonSet {
		return options{}, errors.New("-lat and -lon must be given together")
	}
	o.hasCoords = latSet
	o.lat, o.lon = *lat, *lon

	if o.hasCoords == (o.place != "") {
		return options{}, errors.New("give either a place name or -lat/-lon")
	}

	if *tzName != "" {
		z, err := timezone.Parse(*tzName)
		if err != nil {
			return options{}, err
		}
		o.zone = z
	}
	return o, nil
}

// buildQuery runs the builder chain in a fixed order; the first rejected step stops it.
func buildQuery(ctx context.Context, client *openmeteo.Client, o options) (openmeteo.Query, error) {
	q := client.NewQuery()
	var err error

	if o.hasCoords {
		q, err = q.Coordinates(o.lat, o.lon)
	} else {
		q, err = q.Location(ctx, o.place)
	}
	if err != nil {
		return q, err
	}

	steps := []struct {
		enabled bool
		apply   func(openmeteo.Query) (openmeteo.Query, error)
	}{
		{o.zone.Valid(), func(q openmeteo.Query) (openmeteo.Query, error) { return q.TimeZone(o.zone) }},
		{o.startDate != "", func(q openmeteo.Query) (openmeteo.Query, error) { return q.StartDate(o.startDate) }},
		{o.endDate != "", func(q openmeteo.Query) (openmeteo.Query, error) { return q.EndDate(o.endDate) }},
		{o.pastDays >= 0, func(q openmeteo.Query) (openmeteo.Query, error) { return q.PastDays(uint(o.pastDays)) }},
		{o.forecastDays >= 0, func(q openmeteo.Query) (openmeteo.Query, error) { return q.ForecastDays(uint(o.forecastDays)) }},
		{o.current, func(q openmeteo.Query) (openmeteo.Query, error) { return q.CurrentWeather() }},
		{o.hourly, func(q openmeteo.Query) (openmeteo.Query, error) { return q.Hourly() }},
		{o.daily, func(q openmeteo.Query) (openmeteo.Query, error) { return q.Daily() }},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if q, err = s.apply(q); err != nil {
			return q, err
		}
	}
	return q, nil
}
