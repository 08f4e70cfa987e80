// Package openmeteo builds, validates and executes Open-Meteo forecast queries.
//
// A Query is an immutable value: each configuration step returns a new Query or
// an error, and the options that may only be set once (coordinates, time zone,
// start date, end date) can never be overwritten within a chain.
//
//	q, err := openmeteo.New().Coordinates(51.5, -0.12)
//	if err != nil { ... }
//	if q, err = q.CurrentWeather(); err != nil { ... }
//	forecast, err := q.Execute(ctx)
package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/codeGROOVE-dev/meteo/pkg/geocode"
	"github.com/codeGROOVE-dev/meteo/pkg/transport"
)

// DefaultBaseURL is the public forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// maxBodySize caps how much of a response is read; a full hourly+daily
// 16-day forecast is well under 2 MiB.
const maxBodySize = 16 << 20

// HTTPClient interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (geocode.Location, error)
}

// Client holds the collaborators shared by every Query it creates.
// It is safe for concurrent use.
type Client struct {
	httpClient HTTPClient
	geocoder   Geocoder
	logger     *slog.Logger
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the forecast endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the client used for forecast requests and, unless
// WithGeocoder is given, for geocoding lookups.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithGeocoder sets the place-name resolver used by Query.Location.
func WithGeocoder(g Geocoder) Option {
	return func(c *Client) {
		c.geocoder = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. Without options it talks to the public
// Open-Meteo and geocode.maps.co endpoints through a non-retrying transport.
func NewClient(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.httpClient == nil {
		c.httpClient = transport.New(c.logger)
	}
	if c.geocoder == nil {
		c.geocoder = geocode.NewClient(c.httpClient, c.logger)
	}
	return c
}

var defaultClient = sync.OnceValue(func() *Client { return NewClient() })

// NewQuery starts an empty query bound to c.
func (c *Client) NewQuery() Query {
	return Query{client: c}
}

// New starts an empty query on a default Client.
func New() Query {
	return defaultClient().NewQuery()
}

// get fetches rawURL and returns the body regardless of status; the decoder
// decides what a non-200 body means.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if !errors.Is(err, ErrRequestFailed) {
			err = fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		return nil, 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}
	return body, resp.StatusCode, nil
}
