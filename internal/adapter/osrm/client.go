// Package osrm provides the route provider backed by the OSRM routing API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/resilience"
)

const defaultBaseURL = "https://router.project-osrm.org"

// Geocoder resolves a place name to coordinates. The weather client provides
// the shared implementation.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (lat, lon float64, err error)
}

// Client fetches driving routes from an OSRM server.
type Client struct {
	baseURL     string
	geocoder    Geocoder
	httpClient  *http.Client
	breaker     *resilience.Breaker
	callTimeout time.Duration
}

// NewClient creates an OSRM client from provider configuration.
func NewClient(cfg config.ProviderHTTP, geocoder Geocoder) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:     base,
		geocoder:    geocoder,
		httpClient:  &http.Client{Timeout: timeout},
		callTimeout: timeout,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Route geocodes both endpoints and fetches the best route between them.
// OSRM's public profiles only cover driving; other modes reuse the same
// geometry and are labeled as requested.
func (c *Client) Route(ctx context.Context, origin, destination, mode string) (trip.RouteSummary, error) {
	oLat, oLon, err := c.geocoder.Geocode(ctx, origin)
	if err != nil {
		return trip.RouteSummary{}, fmt.Errorf("geocode origin %s: %w", origin, err)
	}
	dLat, dLon, err := c.geocoder.Geocode(ctx, destination)
	if err != nil {
		return trip.RouteSummary{}, fmt.Errorf("geocode destination %s: %w", destination, err)
	}

	// OSRM wants lon,lat pairs.
	rawURL := fmt.Sprintf("%s/route/v1/driving/%.5f,%.5f;%.5f,%.5f?overview=false&steps=true",
		c.baseURL, oLon, oLat, dLon, dLat)

	data, err := c.get(ctx, rawURL)
	if err != nil {
		return trip.RouteSummary{}, fmt.Errorf("route %s to %s: %w", origin, destination, err)
	}

	var resp struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
			Legs     []struct {
				Steps []struct {
					Name     string `json:"name"`
					Maneuver struct {
						Type string `json:"type"`
					} `json:"maneuver"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return trip.RouteSummary{}, fmt.Errorf("unmarshal route: %w", err)
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return trip.RouteSummary{}, fmt.Errorf("no route found (%s)", resp.Code)
	}

	best := resp.Routes[0]
	var steps []string
	for _, leg := range best.Legs {
		for _, st := range leg.Steps {
			if st.Name != "" {
				steps = append(steps, fmt.Sprintf("%s on %s", st.Maneuver.Type, st.Name))
			}
		}
	}

	if mode == "" {
		mode = "driving"
	}
	return trip.RouteSummary{
		DistanceKm: best.Distance / 1000,
		Duration:   formatDuration(time.Duration(best.Duration * float64(time.Second))),
		Mode:       mode,
		Steps:      steps,
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var result []byte
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("osrm API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Do(ctx, c.callTimeout, call); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := call(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// formatDuration renders a travel time as "7h 30m" or "45m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
