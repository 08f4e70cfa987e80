package openmeteo

import (
	"errors"
	"fmt"

	"github.com/codeGROOVE-dev/meteo/pkg/geocode"
	"github.com/codeGROOVE-dev/meteo/pkg/timezone"
	"github.com/codeGROOVE-dev/meteo/pkg/transport"
)

// Configuration errors, detected before any network call.
var (
	ErrAlreadySet     = errors.New("already set")
	ErrLocationNotSet = errors.New("location is not set, call Coordinates or Location first")
	ErrTimeZoneNotSet = errors.New("time zone is not set, call TimeZone first")
	ErrUnknownZone    = timezone.ErrUnknownZone
)

// Lookup errors raised by Query.Location.
var (
	ErrLookupFailed = geocode.ErrLookupFailed
	ErrNoMatch      = geocode.ErrNoMatch
	ErrParseFailed  = geocode.ErrParseFailed
)

// Request errors raised by Query.Execute.
var (
	// ErrRemoteRejected matches every *RemoteError.
	ErrRemoteRejected = errors.New("request rejected by forecast service")
	// ErrMalformedResponse means the body matched neither the forecast nor the error schema.
	ErrMalformedResponse = errors.New("malformed forecast response")
	// ErrRequestFailed means no response was received at all.
	ErrRequestFailed = transport.ErrRequestFailed
)

// OptionError reports a builder step that was not allowed.
type OptionError struct {
	Option string
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Option, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// RemoteError is a well-formed rejection from the forecast service.
type RemoteError struct {
	Reason     string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return "forecast service rejected request: " + e.Reason
}

// Is makes errors.Is(err, ErrRemoteRejected) true for any RemoteError.
func (*RemoteError) Is(target error) bool {
	return target == ErrRemoteRejected
}
