package openmeteo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// requiredHeader lists the fields every successful response carries.
// Pointers let Decode tell a missing field from a zero value.
type requiredHeader struct {
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	GenerationTimeMs     *float64 `json:"generationtime_ms"`
	UTCOffsetSeconds     *int     `json:"utc_offset_seconds"`
	Timezone             *string  `json:"timezone"`
	TimezoneAbbreviation *string  `json:"timezone_abbreviation"`
	Elevation            *float64 `json:"elevation"`
}

func (h *requiredHeader) missing() []string {
	var fields []string
	if h.Latitude == nil {
		fields = append(fields, "latitude")
	}
	if h.Longitude == nil {
		fields = append(fields, "longitude")
	}
	if h.GenerationTimeMs == nil {
		fields = append(fields, "generationtime_ms")
	}
	if h.UTCOffsetSeconds == nil {
		fields = append(fields, "utc_offset_seconds")
	}
	if h.Timezone == nil {
		fields = append(fields, "timezone")
	}
	if h.TimezoneAbbreviation == nil {
		fields = append(fields, "timezone_abbreviation")
	}
	if h.Elevation == nil {
		fields = append(fields, "elevation")
	}
	return fields
}

// errorBody is the service's rejection schema.
type errorBody struct {
	Error  bool    `json:"error"`
	Reason *string `json:"reason"`
}

// Decode turns a forecast response body into a Forecast.
//
// The body is first read as a forecast. If that fails it is read as a service
// rejection, returned as *RemoteError. A body that is neither yields
// ErrMalformedResponse.
func Decode(body []byte) (*Forecast, error) {
	forecast, forecastErr := decodeForecast(body)
	if forecastErr == nil {
		return forecast, nil
	}

	var rejection errorBody
	if err := json.Unmarshal(body, &rejection); err == nil && rejection.Reason != nil {
		return nil, &RemoteError{Reason: *rejection.Reason}
	}

	return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, forecastErr)
}

func decodeForecast(body []byte) (*Forecast, error) {
	var header requiredHeader
	if err := json.Unmarshal(body, &header); err != nil {
		return nil, err
	}
	if missing := header.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required fields %v", missing)
	}

	var f Forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	if f.Hourly != nil && f.Hourly.Time == nil {
		return nil, errors.New("hourly block without time axis")
	}
	if f.Daily != nil && f.Daily.Time == nil {
		return nil, errors.New("daily block without time axis")
	}
	return &f, nil
}
