// Package geocode resolves free-text place names to coordinates using the geocode.maps.co search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

// DefaultBaseURL is the search endpoint of geocode.maps.co.
const DefaultBaseURL = "https://geocode.maps.co/search"

// Lookup errors.
var (
	// ErrLookupFailed means the service could not be reached or answered with a non-200 status.
	ErrLookupFailed = errors.New("geocoding lookup failed")
	// ErrNoMatch means the service answered but returned no candidates.
	ErrNoMatch = errors.New("no location matches the place name")
	// ErrParseFailed means the response could not be interpreted as coordinates.
	ErrParseFailed = errors.New("could not parse geocoding response")
)

// Location represents a geographic location with coordinates.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Place is a raw search candidate. Coordinates are decimal-degree strings as sent by the service.
type Place struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
}

// Location converts the candidate's coordinates to floats.
func (p Place) Location() (Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: latitude %q: %w", ErrParseFailed, p.Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: longitude %q: %w", ErrParseFailed, p.Lon, err)
	}
	return Location{Name: p.DisplayName, Latitude: lat, Longitude: lon}, nil
}

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles geocoding lookups.
type Client struct {
	httpClient HTTPClient
	logger     *slog.Logger
	memo       *otter.Cache[string, Location]
	baseURL    string
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another search endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithAPIKey sets the geocode.maps.co API key sent as the api_key parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMemo remembers up to size resolved place names for ttl.
// Only successful lookups are kept.
func WithMemo(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size <= 0 || ttl <= 0 {
			c.memo = nil
			return
		}
		c.memo = otter.Must(&otter.Options[string, Location]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, Location](ttl),
		})
	}
}

// NewClient creates a new geocoding client.
func NewClient(httpClient HTTPClient, logger *slog.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns every candidate the service knows for place, best match first.
// An empty list is not an error here; Lookup turns it into ErrNoMatch.
func (c *Client) Search(ctx context.Context, place string) ([]Place, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %w", ErrLookupFailed, err)
	}
	q := u.Query()
	q.Set("q", place)
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrLookupFailed, err)
	}

	bodyPreviewLen := min(len(body), 200)
	c.logger.Debug("geocoding API raw response", "place", place, "status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"), "body_preview", string(body[:bodyPreviewLen]))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrLookupFailed, u.Host, resp.Status)
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		c.logger.Debug("geocoding JSON parse error", "place", place, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return places, nil
}

// Lookup resolves place to the coordinates of its first candidate.
func (c *Client) Lookup(ctx context.Context, place string) (Location, error) {
	key := strings.ToLower(strings.TrimSpace(place))
	if c.memo != nil {
		if loc, ok := c.memo.GetIfPresent(key); ok {
			c.logger.Debug("geocoding memo hit", "place", place)
			return loc, nil
		}
	}

	places, err := c.Search(ctx, place)
	if err != nil {
		return Location{}, err
	}
	if len(places) == 0 {
		c.logger.Debug("geocoding returned no candidates", "place", place)
		return Location{}, fmt.Errorf("%w: %q", ErrNoMatch, place)
	}

	loc, err := places[0].Location()
	if err != nil {
		return Location{}, err
	}

	if c.memo != nil {
		c.memo.Set(key, loc)
	}
	c.logger.Debug("geocoded place", "place", place, "lat", loc.Latitude, "lon", loc.Longitude,
		"candidates", len(places))
	return loc, nil
}
