// Package timezone defines the closed set of time zones accepted by the forecast API.
package timezone

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host database
)

// ErrUnknownZone is returned when a zone name or value is outside the supported set.
var ErrUnknownZone = errors.New("unknown time zone")

// Zone is one of the time zones the forecast API aggregates daily values in.
type Zone uint8

// Supported zones. The zero value is not a zone.
const (
	AmericaAnchorage Zone = iota + 1
	AmericaLosAngeles
	AmericaDenver
	AmericaChicago
	AmericaNewYork
	AmericaSaoPaulo
	GMT
	Auto
	EuropeLondon
	EuropeBerlin
	EuropeMoscow
	AfricaCairo
	AsiaBangkok
	AsiaSingapore
	AsiaTokyo
	AustraliaSydney
	PacificAuckland
)

// All lists every supported zone in declaration order.
var All = []Zone{
	AmericaAnchorage, AmericaLosAngeles, AmericaDenver, AmericaChicago, AmericaNewYork,
	AmericaSaoPaulo, GMT, Auto, EuropeLondon, EuropeBerlin, EuropeMoscow, AfricaCairo,
	AsiaBangkok, AsiaSingapore, AsiaTokyo, AustraliaSydney, PacificAuckland,
}

// ID returns the literal identifier the forecast API understands, or "" for an invalid Zone.
func (z Zone) ID() string {
	switch z {
	case AmericaAnchorage:
		return "America/Anchorage"
	case AmericaLosAngeles:
		return "America/Los_Angeles"
	case AmericaDenver:
		return "America/Denver"
	case AmericaChicago:
		return "America/Chicago"
	case AmericaNewYork:
		return "America/New_York"
	case AmericaSaoPaulo:
		return "America/Sao_Paulo"
	case GMT:
		return "GMT"
	case Auto:
		return "auto"
	case EuropeLondon:
		return "Europe/London"
	case EuropeBerlin:
		return "Europe/Berlin"
	case EuropeMoscow:
		return "Europe/Moscow"
	case AfricaCairo:
		return "Africa/Cairo"
	case AsiaBangkok:
		return "Asia/Bangkok"
	case AsiaSingapore:
		return "Asia/Singapore"
	case AsiaTokyo:
		return "Asia/Tokyo"
	case AustraliaSydney:
		return "Australia/Sydney"
	case PacificAuckland:
		return "Pacific/Auckland"
	default:
		return ""
	}
}

// Valid reports whether z is one of the supported zones.
func (z Zone) Valid() bool {
	return z.ID() != ""
}

func (z Zone) String() string {
	if id := z.ID(); id != "" {
		return id
	}
	return fmt.Sprintf("Zone(%d)", uint8(z))
}

// Parse maps an identifier such as "Europe/London", "gmt" or "auto" to its Zone.
// Matching ignores case. Names outside the supported set are rejected.
func Parse(name string) (Zone, error) {
	name = strings.TrimSpace(name)
	for _, z := range All {
		if strings.EqualFold(z.ID(), name) {
			return z, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownZone, name)
}

// Location loads the IANA location for z.
// GMT resolves to UTC. Auto has no fixed location and returns an error,
// the service picks the zone from the coordinates instead.
func (z Zone) Location() (*time.Location, error) {
	switch z {
	case GMT:
		return time.UTC, nil
	case Auto:
		return nil, errors.New("auto time zone is resolved by the service")
	}
	id := z.ID()
	if id == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, z)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	return loc, nil
}

// OffsetHours returns the UTC offset of z at t in hours, e.g. -4 for New York in summer.
// Zones without a fixed location report 0.
func (z Zone) OffsetHours(t time.Time) float64 {
	loc, err := z.Location()
	if err != nil {
		return 0
	}
	_, offset := t.In(loc).Zone()
	return float64(offset) / 3600
}

// FormatOffset renders an offset in hours as "UTC", "UTC+2", "UTC-4" or "UTC+5.5".
func FormatOffset(hours float64) string {
	switch {
	case hours == 0:
		return "UTC"
	case hours > 0:
		return fmt.Sprintf("UTC+%g", hours)
	default:
		return fmt.Sprintf("UTC%g", hours)
	}
}
