package openmeteo

import (
	"fmt"
	"time"
)

// Forecast is a decoded forecast response. CurrentWeather, Hourly and Daily are
// nil unless the matching query option was requested.
type Forecast struct {
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	GenerationTimeMs     float64         `json:"generationtime_ms"`
	UTCOffsetSeconds     int             `json:"utc_offset_seconds"`
	Timezone             string          `json:"timezone"`
	TimezoneAbbreviation string          `json:"timezone_abbreviation"`
	Elevation            float64         `json:"elevation"`
	CurrentWeather       *CurrentWeather `json:"current_weather,omitempty"`
	HourlyUnits          Units           `json:"hourly_units,omitempty"`
	Hourly               *Hourly         `json:"hourly,omitempty"`
	DailyUnits           Units           `json:"daily_units,omitempty"`
	Daily                *Daily          `json:"daily,omitempty"`
}

// CurrentWeather holds the current conditions block.
type CurrentWeather struct {
	Time          string  `json:"time"`
	Interval      int     `json:"interval,omitempty"`
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
}

// Units maps a variable name to the unit its values are expressed in, e.g. "temperature_2m" -> "°C".
type Units map[string]string

// Hourly holds one slot per hour in every series. A nil entry means the service
// had no value for that hour.
type Hourly struct {
	Time                     []string   `json:"time"`
	Temperature2m            []*float64 `json:"temperature_2m,omitempty"`
	RelativeHumidity2m       []*float64 `json:"relativehumidity_2m,omitempty"`
	DewPoint2m               []*float64 `json:"dewpoint_2m,omitempty"`
	ApparentTemperature      []*float64 `json:"apparent_temperature,omitempty"`
	PrecipitationProbability []*float64 `json:"precipitation_probability,omitempty"`
	Precipitation            []*float64 `json:"precipitation,omitempty"`
	Rain                     []*float64 `json:"rain,omitempty"`
	Showers                  []*float64 `json:"showers,omitempty"`
	Snowfall                 []*float64 `json:"snowfall,omitempty"`
	SnowDepth                []*float64 `json:"snow_depth,omitempty"`
	WeatherCode              []*int     `json:"weathercode,omitempty"`
	PressureMSL              []*float64 `json:"pressure_msl,omitempty"`
	SurfacePressure          []*float64 `json:"surface_pressure,omitempty"`
	CloudCover               []*float64 `json:"cloudcover,omitempty"`
	CloudCoverLow            []*float64 `json:"cloudcover_low,omitempty"`
	CloudCoverMid            []*float64 `json:"cloudcover_mid,omitempty"`
	CloudCoverHigh           []*float64 `json:"cloudcover_high,omitempty"`
	Visibility               []*float64 `json:"visibility,omitempty"`
	Evapotranspiration       []*float64 `json:"evapotranspiration,omitempty"`
	ET0FAOEvapotranspiration []*float64 `json:"et0_fao_evapotranspiration,omitempty"`
	VaporPressureDeficit     []*float64 `json:"vapor_pressure_deficit,omitempty"`
	WindSpeed10m             []*float64 `json:"windspeed_10m,omitempty"`
	WindSpeed80m             []*float64 `json:"windspeed_80m,omitempty"`
	WindSpeed120m            []*float64 `json:"windspeed_120m,omitempty"`
	WindSpeed180m            []*float64 `json:"windspeed_180m,omitempty"`
	WindDirection10m         []*float64 `json:"winddirection_10m,omitempty"`
	WindDirection80m         []*float64 `json:"winddirection_80m,omitempty"`
	WindDirection120m        []*float64 `json:"winddirection_120m,omitempty"`
	WindDirection180m        []*float64 `json:"winddirection_180m,omitempty"`
	WindGusts10m             []*float64 `json:"windgusts_10m,omitempty"`
	Temperature80m           []*float64 `json:"temperature_80m,omitempty"`
	Temperature120m          []*float64 `json:"temperature_120m,omitempty"`
	Temperature180m          []*float64 `json:"temperature_180m,omitempty"`
	SoilTemperature0cm       []*float64 `json:"soil_temperature_0cm,omitempty"`
	SoilTemperature6cm       []*float64 `json:"soil_temperature_6cm,omitempty"`
	SoilTemperature18cm      []*float64 `json:"soil_temperature_18cm,omitempty"`
	SoilTemperature54cm      []*float64 `json:"soil_temperature_54cm,omitempty"`
	SoilMoisture0to1cm       []*float64 `json:"soil_moisture_0_1cm,omitempty"`
	SoilMoisture1to3cm       []*float64 `json:"soil_moisture_1_3cm,omitempty"`
	SoilMoisture3to9cm       []*float64 `json:"soil_moisture_3_9cm,omitempty"`
	SoilMoisture9to27cm      []*float64 `json:"soil_moisture_9_27cm,omitempty"`
	SoilMoisture27to81cm     []*float64 `json:"soil_moisture_27_81cm,omitempty"`
}

// Daily holds one slot per day in every series. A nil entry means the service
// had no value for that day.
type Daily struct {
	Time                        []string   `json:"time"`
	WeatherCode                 []*int     `json:"weathercode,omitempty"`
	Temperature2mMax            []*float64 `json:"temperature_2m_max,omitempty"`
	Temperature2mMin            []*float64 `json:"temperature_2m_min,omitempty"`
	ApparentTemperatureMax      []*float64 `json:"apparent_temperature_max,omitempty"`
	ApparentTemperatureMin      []*float64 `json:"apparent_temperature_min,omitempty"`
	Sunrise                     []*string  `json:"sunrise,omitempty"`
	Sunset                      []*string  `json:"sunset,omitempty"`
	UVIndexMax                  []*float64 `json:"uv_index_max,omitempty"`
	UVIndexClearSkyMax          []*float64 `json:"uv_index_clear_sky_max,omitempty"`
	PrecipitationSum            []*float64 `json:"precipitation_sum,omitempty"`
	RainSum                     []*float64 `json:"rain_sum,omitempty"`
	ShowersSum                  []*float64 `json:"showers_sum,omitempty"`
	SnowfallSum                 []*float64 `json:"snowfall_sum,omitempty"`
	PrecipitationHours          []*float64 `json:"precipitation_hours,omitempty"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max,omitempty"`
	WindSpeed10mMax             []*float64 `json:"windspeed_10m_max,omitempty"`
	WindGusts10mMax             []*float64 `json:"windgusts_10m_max,omitempty"`
	WindDirection10mDominant    []*float64 `json:"winddirection_10m_dominant,omitempty"`
	ShortwaveRadiationSum       []*float64 `json:"shortwave_radiation_sum,omitempty"`
	ET0FAOEvapotranspiration    []*float64 `json:"et0_fao_evapotranspiration,omitempty"`
}

// timeLayout is the service's default ISO 8601 format without seconds or offset.
const timeLayout = "2006-01-02T15:04"

const dateLayout = "2006-01-02"

// Location returns a fixed zone matching the response's UTC offset.
// Timestamps in the response are local to this zone.
func (f *Forecast) Location() *time.Location {
	name := f.TimezoneAbbreviation
	if name == "" {
		name = f.Timezone
	}
	return time.FixedZone(name, f.UTCOffsetSeconds)
}

// HourlyTimes parses the hourly time axis in the response's zone.
func (f *Forecast) HourlyTimes() ([]time.Time, error) {
	if f.Hourly == nil {
		return nil, nil
	}
	return parseTimes(f.Hourly.Time, timeLayout, f.Location())
}

// DailyTimes parses the daily date axis in the response's zone.
func (f *Forecast) DailyTimes() ([]time.Time, error) {
	if f.Daily == nil {
		return nil, nil
	}
	return parseTimes(f.Daily.Time, dateLayout, f.Location())
}

func parseTimes(raw []string, layout string, loc *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing time %d (%q): %w", i, s, err)
		}
		out[i] = t
	}
	return out, nil
}

// Values flattens a series, reporting for each slot whether a value was present.
func Values(series []*float64) (values []float64, present []bool) {
	values = make([]float64, len(series))
	present = make([]bool, len(series))
	for i, v := range series {
		if v != nil {
			values[i] = *v
			present[i] = true
		}
	}
	return values, present
}
