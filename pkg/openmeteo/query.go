package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/meteo/pkg/timezone"
)

type param struct {
	key   string
	value string
}

// Query accumulates forecast request parameters.
//
// The zero value is an empty query on the default Client. Steps never modify
// their receiver, so a partially configured Query may be continued in several
// directions.
type Query struct {
	client       *Client
	params       []param
	locationSet  bool
	timeZoneSet  bool
	startDateSet bool
	endDateSet   bool
}

// with returns a copy of q with one more parameter. Clipping forces append to
// allocate, so sibling continuations never share a backing array.
func (q Query) with(key, value string) Query {
	q.params = append(slices.Clip(q.params), param{key: key, value: value})
	return q
}

func (q Query) requireLocation(option string) error {
	if !q.locationSet {
		return &OptionError{Option: option, Err: ErrLocationNotSet}
	}
	return nil
}

// Coordinates fixes the location. It fails with ErrAlreadySet if a location is already fixed.
func (q Query) Coordinates(lat, lon float64) (Query, error) {
	if q.locationSet {
		return Query{}, &OptionError{Option: "location", Err: ErrAlreadySet}
	}
	q = q.with("latitude", formatFloat(lat))
	q = q.with("longitude", formatFloat(lon))
	q.locationSet = true
	return q, nil
}

// Location resolves place through the client's geocoder and fixes the location
// to the first candidate. Lookup failures wrap ErrLookupFailed, ErrNoMatch or
// ErrParseFailed.
func (q Query) Location(ctx context.Context, place string) (Query, error) {
	if q.locationSet {
		return Query{}, &OptionError{Option: "location", Err: ErrAlreadySet}
	}
	loc, err := q.clientOrDefault().geocoder.Lookup(ctx, place)
	if err != nil {
		return Query{}, fmt.Errorf("resolving %q: %w", place, err)
	}
	return q.Coordinates(loc.Latitude, loc.Longitude)
}

// StartDate sets the first day of the requested range. The date is passed
// through as given; the service expects YYYY-MM-DD.
func (q Query) StartDate(date string) (Query, error) {
	if q.startDateSet {
		return Query{}, &OptionError{Option: "start date", Err: ErrAlreadySet}
	}
	if err := q.requireLocation("start date"); err != nil {
		return Query{}, err
	}
	q = q.with("start_date", date)
	q.startDateSet = true
	return q, nil
}

// EndDate sets the last day of the requested range. Setting an end date
// without a start date is left for the service to reject.
func (q Query) EndDate(date string) (Query, error) {
	if q.endDateSet {
		return Query{}, &OptionError{Option: "end date", Err: ErrAlreadySet}
	}
	if err := q.requireLocation("end date"); err != nil {
		return Query{}, err
	}
	q = q.with("end_date", date)
	q.endDateSet = true
	return q, nil
}

// StartTime is StartDate for a time.Time, using its calendar date.
func (q Query) StartTime(t time.Time) (Query, error) {
	return q.StartDate(t.Format(dateLayout))
}

// EndTime is EndDate for a time.Time, using its calendar date.
func (q Query) EndTime(t time.Time) (Query, error) {
	return q.EndDate(t.Format(dateLayout))
}

// CurrentWeather requests the current conditions block.
func (q Query) CurrentWeather() (Query, error) {
	if err := q.requireLocation("current weather"); err != nil {
		return Query{}, err
	}
	return q.with("current_weather", "true"), nil
}

// PastDays includes n days before today. The service enforces the upper bound.
func (q Query) PastDays(n uint) (Query, error) {
	if err := q.requireLocation("past days"); err != nil {
		return Query{}, err
	}
	return q.with("past_days", strconv.FormatUint(uint64(n), 10)), nil
}

// ForecastDays sets the forecast horizon. The service enforces the upper bound
// (16 days at the time of writing) and rejects larger values at request time.
func (q Query) ForecastDays(n uint) (Query, error) {
	if err := q.requireLocation("forecast days"); err != nil {
		return Query{}, err
	}
	return q.with("forecast_days", strconv.FormatUint(uint64(n), 10)), nil
}

// Hourly requests every hourly variable. Unlike its siblings it does not
// require a location.
func (q Query) Hourly() (Query, error) {
	return q.with("hourly", strings.Join(hourlyVariables, ",")), nil
}

// Daily requests every daily variable. Daily aggregates are keyed to a time
// zone, so TimeZone must come first.
func (q Query) Daily() (Query, error) {
	if !q.timeZoneSet {
		return Query{}, &OptionError{Option: "daily", Err: ErrTimeZoneNotSet}
	}
	return q.with("daily", strings.Join(dailyVariables, ",")), nil
}

// TimeZone sets the zone timestamps and daily aggregates are expressed in.
func (q Query) TimeZone(z timezone.Zone) (Query, error) {
	if q.timeZoneSet {
		return Query{}, &OptionError{Option: "time zone", Err: ErrAlreadySet}
	}
	if !z.Valid() {
		return Query{}, &OptionError{Option: "time zone", Err: fmt.Errorf("%w: %s", ErrUnknownZone, z)}
	}
	q = q.with("timezone", z.ID())
	q.timeZoneSet = true
	return q, nil
}

// URL returns the request URL assembled so far.
func (q Query) URL() string {
	var b strings.Builder
	b.WriteString(q.clientOrDefault().baseURL)
	if len(q.params) == 0 {
		return b.String()
	}
	b.WriteByte('?')
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(escapeValue(p.value))
	}
	return b.String()
}

// Execute issues the request and decodes the response.
//
// Errors: *OptionError wrapping ErrLocationNotSet when no location was fixed,
// ErrRequestFailed when no response arrived (context errors stay reachable via
// errors.Is), *RemoteError when the service rejected the query, and
// ErrMalformedResponse when the body matched neither schema.
func (q Query) Execute(ctx context.Context) (*Forecast, error) {
	if err := q.requireLocation("request"); err != nil {
		return nil, err
	}
	c := q.clientOrDefault()
	u := q.URL()

	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	forecast, err := Decode(body)
	if err != nil {
		var remote *RemoteError
		switch {
		case errors.As(err, &remote):
			remote.StatusCode = status
			c.logger.Debug("forecast request rejected", "status", status, "reason", remote.Reason)
		case errors.Is(err, ErrMalformedResponse):
			c.logger.Warn("forecast response matched neither schema", "status", status,
				"size", len(body), "error", err)
		}
		return nil, err
	}

	c.logger.Debug("forecast decoded", "timezone", forecast.Timezone,
		"current", forecast.CurrentWeather != nil, "hourly", forecast.Hourly != nil, "daily", forecast.Daily != nil)
	return forecast, nil
}

func (q Query) clientOrDefault() *Client {
	if q.client == nil {
		return defaultClient()
	}
	return q.client
}

// formatFloat renders the shortest decimal that round-trips, e.g. 51 or 0.5.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeValue query-escapes v but keeps the commas separating variable names.
func escapeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "%2C", ",")
}

// LocationSet reports whether coordinates have been fixed.
func (q Query) LocationSet() bool { return q.locationSet }

// TimeZoneSet reports whether a time zone has been fixed.
func (q Query) TimeZoneSet() bool { return q.timeZoneSet }
