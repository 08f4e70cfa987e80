package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/meteo/pkg/geocode"
	"github.com/codeGROOVE-dev/meteo/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forecastStub mimics the forecast service: it validates the horizon like the
// real service does and otherwise answers with body.
func forecastStub(t *testing.T, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")

		q := r.URL.Query()
		if q.Get("latitude") == "" || q.Get("longitude") == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"Parameter 'latitude' and 'longitude' are required"}`))
			return
		}
		if days := q.Get("forecast_days"); days != "" {
			if n, err := strconv.Atoi(days); err != nil || n > 16 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":true,"reason":"Forecast days is invalid. Allowed range 0 to 16."}`))
				return
			}
		}
		if q.Get("end_date") != "" && q.Get("start_date") == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"Parameter 'start_date' and 'end_date' must be set together"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func stubClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	return NewClient(opts...)
}

func TestExecuteMinimal(t *testing.T) {
	srv, queries := forecastStub(t, minimalBody)

	q, err := stubClient(srv).NewQuery().Coordinates(51.0, 0.0)
	require.NoError(t, err)

	f, err := q.Execute(context.Background())
	require.NoError(t, err)

	assert.Nil(t, f.CurrentWeather)
	assert.Nil(t, f.Hourly)
	assert.Nil(t, f.Daily)
	assert.Equal(t, []string{"latitude=51&longitude=0"}, *queries)
}

func TestExecuteCurrentWeather(t *testing.T) {
	srv, _ := forecastStub(t, currentBody)

	q, err := stubClient(srv).NewQuery().Coordinates(55, 37)
	require.NoError(t, err)
	q, err = q.CurrentWeather()
	require.NoError(t, err)

	f, err := q.Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f.CurrentWeather)
	assert.Nil(t, f.Hourly)
	assert.Nil(t, f.Daily)
}

func TestExecuteForecastHorizonRejected(t *testing.T) {
	srv, _ := forecastStub(t, minimalBody)

	q, err := stubClient(srv).NewQuery().Coordinates(55, 13)
	require.NoError(t, err)
	q, err = q.ForecastDays(17)
	require.NoError(t, err, "the horizon is enforced by the service, not locally")

	_, err = q.Execute(context.Background())
	require.ErrorIs(t, err, ErrRemoteRejected)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Contains(t, remote.Reason, "Forecast days is invalid")
	assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
}

func TestExecuteEndDateWithoutStartDateRejectedRemotely(t *testing.T) {
	srv, _ := forecastStub(t, minimalBody)

	q, err := stubClient(srv).NewQuery().Coordinates(51.5, -0.12)
	require.NoError(t, err)
	q, err = q.EndDate("2023-12-12")
	require.NoError(t, err)

	_, err = q.Execute(context.Background())
	assert.ErrorIs(t, err, ErrRemoteRejected)
}

func TestExecuteMalformed(t *testing.T) {
	srv, _ := forecastStub(t, `{"unexpected":"schema"}`)

	q, err := stubClient(srv).NewQuery().Coordinates(1, 2)
	require.NoError(t, err)

	f, err := q.Execute(context.Background())
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestExecuteWithoutLocation(t *testing.T) {
	srv, queries := forecastStub(t, minimalBody)

	q, err := stubClient(srv).NewQuery().Hourly()
	require.NoError(t, err)

	_, err = q.Execute(context.Background())
	assert.ErrorIs(t, err, ErrLocationNotSet)
	assert.Empty(t, *queries, "no request is sent without a location")
}

func TestExecuteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	for name, c := range map[string]*Client{
		"plain http client": NewClient(WithBaseURL(base), WithHTTPClient(http.DefaultClient)),
		"transport client":  NewClient(WithBaseURL(base)),
	} {
		t.Run(name, func(t *testing.T) {
			q, err := c.NewQuery().Coordinates(1, 2)
			require.NoError(t, err)

			_, err = q.Execute(context.Background())
			assert.ErrorIs(t, err, ErrRequestFailed)
			assert.NotErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestExecuteHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(transport.New(nil)))
	q, err := c.NewQuery().Coordinates(1, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = q.Execute(ctx)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolveLocationNoMatchEndToEnd(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer geo.Close()

	c := NewClient(WithGeocoder(geocode.NewClient(geo.Client(), nil, geocode.WithBaseURL(geo.URL))))
	q, err := c.NewQuery().Location(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.False(t, q.LocationSet())
}

func TestResolveLocationThenExecute(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"51.5073219","lon":"-0.1276474","display_name":"London"}]`))
	}))
	defer geo.Close()
	srv, queries := forecastStub(t, fullBody)

	c := stubClient(srv, WithGeocoder(geocode.NewClient(geo.Client(), nil, geocode.WithBaseURL(geo.URL))))
	q, err := c.NewQuery().Location(context.Background(), "London")
	require.NoError(t, err)
	q = chain(t, q, forecast, current, past, tz, hourly, daily)

	f, err := q.Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, f.Hourly)
	require.NotNil(t, f.Daily)

	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "latitude=51.5073219&longitude=-0.1276474&forecast_days=7")
}
