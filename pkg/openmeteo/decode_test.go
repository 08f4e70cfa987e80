package openmeteo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalBody = `{"latitude":51.0,"longitude":0.0,"generationtime_ms":0.2,"utc_offset_seconds":0,` +
	`"timezone":"GMT","timezone_abbreviation":"GMT","elevation":37.0}`

const currentBody = `{"latitude":55.0,"longitude":37.0,"generationtime_ms":0.3,"utc_offset_seconds":0,` +
	`"timezone":"GMT","timezone_abbreviation":"GMT","elevation":144.0,` +
	`"current_weather":{"temperature":12.4,"windspeed":9.7,"winddirection":250,"weathercode":3,"is_day":1,"time":"2023-09-01T12:00"}}`

const fullBody = `{"latitude":51.5,"longitude":-0.12,"generationtime_ms":1.1,"utc_offset_seconds":3600,` +
	`"timezone":"Europe/London","timezone_abbreviation":"BST","elevation":23.0,` +
	`"hourly_units":{"time":"iso8601","temperature_2m":"°C","weathercode":"wmo code"},` +
	`"hourly":{"time":["2023-09-01T00:00","2023-09-01T01:00","2023-09-01T02:00"],` +
	`"temperature_2m":[14.2,null,13.8],"weathercode":[1,2,null]},` +
	`"daily_units":{"time":"iso8601","temperature_2m_max":"°C","sunrise":"iso8601"},` +
	`"daily":{"time":["2023-09-01"],"temperature_2m_max":[22.5],"temperature_2m_min":[null],` +
	`"sunrise":["2023-09-01T06:15"],"sunset":[null],"weathercode":[3]}}`

func TestDecodeMinimal(t *testing.T) {
	f, err := Decode([]byte(minimalBody))
	require.NoError(t, err)

	assert.Equal(t, 51.0, f.Latitude)
	assert.Equal(t, "GMT", f.Timezone)
	assert.Nil(t, f.CurrentWeather)
	assert.Nil(t, f.Hourly)
	assert.Nil(t, f.Daily)
	assert.Nil(t, f.HourlyUnits)
	assert.Nil(t, f.DailyUnits)
}

func TestDecodeCurrentWeatherOnly(t *testing.T) {
	f, err := Decode([]byte(currentBody))
	require.NoError(t, err)

	require.NotNil(t, f.CurrentWeather)
	assert.Equal(t, 12.4, f.CurrentWeather.Temperature)
	assert.Equal(t, 3, f.CurrentWeather.WeatherCode)
	assert.Equal(t, 1, f.CurrentWeather.IsDay)
	assert.Nil(t, f.Hourly)
	assert.Nil(t, f.Daily)
}

func TestDecodeSeriesWithGaps(t *testing.T) {
	f, err := Decode([]byte(fullBody))
	require.NoError(t, err)

	require.NotNil(t, f.Hourly)
	require.Len(t, f.Hourly.Temperature2m, 3)
	assert.Equal(t, 14.2, *f.Hourly.Temperature2m[0])
	assert.Nil(t, f.Hourly.Temperature2m[1])
	assert.Nil(t, f.Hourly.WeatherCode[2])
	assert.Nil(t, f.Hourly.Rain, "variables absent from the body stay nil")
	assert.Equal(t, "°C", f.HourlyUnits["temperature_2m"])

	require.NotNil(t, f.Daily)
	assert.Equal(t, 22.5, *f.Daily.Temperature2mMax[0])
	assert.Nil(t, f.Daily.Temperature2mMin[0])
	assert.Equal(t, "2023-09-01T06:15", *f.Daily.Sunrise[0])
	assert.Nil(t, f.Daily.Sunset[0])
	assert.Equal(t, "iso8601", f.DailyUnits["sunrise"])

	values, present := Values(f.Hourly.Temperature2m)
	assert.Equal(t, []float64{14.2, 0, 13.8}, values)
	assert.Equal(t, []bool{true, false, true}, present)
}

func TestDecodeTimes(t *testing.T) {
	f, err := Decode([]byte(fullBody))
	require.NoError(t, err)

	hours, err := f.HourlyTimes()
	require.NoError(t, err)
	require.Len(t, hours, 3)
	assert.True(t, hours[1].Equal(time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)))

	days, err := f.DailyTimes()
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Day())

	minimal, err := Decode([]byte(minimalBody))
	require.NoError(t, err)
	hours, err = minimal.HourlyTimes()
	assert.NoError(t, err)
	assert.Nil(t, hours)
}

func TestDecodeRemoteRejection(t *testing.T) {
	body := `{"error":true,"reason":"Forecast days is invalid. Allowed range 0 to 16."}`

	f, err := Decode([]byte(body))
	require.Error(t, err)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrRemoteRejected)
	assert.False(t, errors.Is(err, ErrMalformedResponse))

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Forecast days is invalid. Allowed range 0 to 16.", remote.Reason)
}

func TestDecodeMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":                ``,
		"truncated":            `{"latitude":51.0,"longi`,
		"array":                `[]`,
		"html":                 `<html><body>502 Bad Gateway</body></html>`,
		"unrelated object":     `{"status":"ok"}`,
		"missing header":       `{"latitude":51.0,"longitude":0.0}`,
		"wrong type":           `{"latitude":"51","longitude":0,"generationtime_ms":0.2,"utc_offset_seconds":0,"timezone":"GMT","timezone_abbreviation":"GMT","elevation":1}`,
		"reason not a string":  `{"error":true,"reason":42}`,
		"error without reason": `{"error":true}`,
		"hourly without time": `{"latitude":51.0,"longitude":0.0,"generationtime_ms":0.2,"utc_offset_seconds":0,` +
			`"timezone":"GMT","timezone_abbreviation":"GMT","elevation":37.0,"hourly":{"temperature_2m":[1]}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := Decode([]byte(body))
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.False(t, errors.Is(err, ErrRemoteRejected))
		})
	}
}

func TestDecodeZeroValuesArePresent(t *testing.T) {
	body := `{"latitude":0,"longitude":0,"generationtime_ms":0,"utc_offset_seconds":0,` +
		`"timezone":"","timezone_abbreviation":"","elevation":0}`
	_, err := Decode([]byte(body))
	assert.NoError(t, err)
}
