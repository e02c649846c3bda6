package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	nominatimURL = "https://nominatim.openstreetmap.org/search"
	userAgent    = "SignageTerminal/1.0" // Required by Nominatim ToS
)

// Geocoder converts free-form place names to coordinates
type Geocoder struct {
	baseURL     string
	httpClient  *http.Client
	minInterval time.Duration
	lastCall    time.Time
	mu          sync.Mutex
}

// Location represents a geocoded location
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Option configures a Geocoder
type Option func(*Geocoder)

// WithBaseURL points the geocoder at another Nominatim-compatible endpoint
func WithBaseURL(u string) Option {
	return func(g *Geocoder) { g.baseURL = u }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Geocoder) { g.httpClient = c }
}

// WithMinInterval sets the minimum spacing between requests
func WithMinInterval(d time.Duration) Option {
	return func(g *Geocoder) { g.minInterval = d }
}

// NewGeocoder creates a new geocoder
func NewGeocoder(opts ...Option) *Geocoder {
	g := &Geocoder{
		baseURL: nominatimURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		minInterval: time.Second, // Nominatim allows 1 req/sec
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// nominatimResponse represents the Nominatim API response
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a place name such as "Tokyo, JP" to coordinates
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("q", query)
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no results found for '%s'", query)
	}

	result := results[0]

	var lat, lon float64
	if _, err := fmt.Sscanf(result.Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	if _, err := fmt.Sscanf(result.Lon, "%f", &lon); err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      result.DisplayName,
	}, nil
}

// wait blocks until minInterval has passed since the previous request
func (g *Geocoder) wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.lastCall.IsZero() {
		if d := g.minInterval - time.Since(g.lastCall); d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	g.lastCall = time.Now()
	return nil
}
