// Package geoapify provides the places provider backed by the Geoapify
// geocoding and places APIs.
package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
	"github.com/voyago/voyago/internal/resilience"
)

const defaultBaseURL = "https://api.geoapify.com"

// searchRadiusMeters bounds the place search around the destination center.
const searchRadiusMeters = 8000

// categoryFilters maps pool categories to Geoapify category expressions.
var categoryFilters = map[provider.PlaceCategory]string{
	provider.CategoryAttraction: "tourism.sights,tourism.attraction",
	provider.CategoryRestaurant: "catering.restaurant",
	provider.CategoryHotel:      "accommodation.hotel",
}

// Client searches candidate places via the Geoapify Places API.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	breaker     *resilience.Breaker
	callTimeout time.Duration
}

// NewClient creates a Geoapify client from provider configuration.
func NewClient(cfg config.ProviderHTTP) *Client {
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
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: timeout},
		callTimeout: timeout,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Search geocodes the destination and returns up to limit places of the given
// category, ordered as the API ranks them and deduplicated by place ID.
func (c *Client) Search(ctx context.Context, destination string, category provider.PlaceCategory, limit int) ([]trip.Place, error) {
	filter, ok := categoryFilters[category]
	if !ok {
		return nil, fmt.Errorf("unknown place category %q", category)
	}

	lat, lon, err := c.geocode(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("geocode %s: %w", destination, err)
	}

	q := url.Values{}
	q.Set("categories", filter)
	q.Set("filter", fmt.Sprintf("circle:%.5f,%.5f,%d", lon, lat, searchRadiusMeters))
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("apiKey", c.apiKey)

	data, err := c.get(ctx, c.baseURL+"/v2/places?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %s places in %s: %w", category, destination, err)
	}

	var resp struct {
		Features []struct {
			Properties struct {
				PlaceID    string   `json:"place_id"`
				Name       string   `json:"name"`
				Formatted  string   `json:"formatted"`
				Lat        float64  `json:"lat"`
				Lon        float64  `json:"lon"`
				Categories []string `json:"categories"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal places: %w", err)
	}

	seen := make(map[string]bool, len(resp.Features))
	places := make([]trip.Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		if p.Name == "" || seen[p.PlaceID] {
			continue
		}
		seen[p.PlaceID] = true
		places = append(places, trip.Place{
			ID:          p.PlaceID,
			Name:        p.Name,
			Description: p.Formatted,
			Lat:         p.Lat,
			Lon:         p.Lon,
			Tags:        p.Categories,
		})
	}
	return places, nil
}

// Price fetches place details and estimates a nightly rate from the hotel's
// star rating. Stars are the only pricing signal the API exposes; unrated
// hotels are treated as three stars.
func (c *Client) Price(ctx context.Context, placeID string) (float64, error) {
	q := url.Values{}
	q.Set("id", placeID)
	q.Set("apiKey", c.apiKey)

	data, err := c.get(ctx, c.baseURL+"/v2/place-details?"+q.Encode())
	if err != nil {
		return 0, fmt.Errorf("place details %s: %w", placeID, err)
	}

	var resp struct {
		Features []struct {
			Properties struct {
				Datasource struct {
					Raw map[string]any `json:"raw"`
				} `json:"datasource"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("unmarshal place details: %w", err)
	}

	stars := 3.0
	if len(resp.Features) > 0 {
		if raw, ok := resp.Features[0].Properties.Datasource.Raw["stars"]; ok {
			switch v := raw.(type) {
			case float64:
				stars = v
			case string:
				var parsed float64
				if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &parsed); err == nil {
					stars = parsed
				}
			}
		}
	}
	if stars < 1 {
		stars = 1
	}
	if stars > 5 {
		stars = 5
	}
	return 50 + 40*stars, nil
}

func (c *Client) geocode(ctx context.Context, name string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("text", name)
	q.Set("limit", "1")
	q.Set("apiKey", c.apiKey)

	data, err := c.get(ctx, c.baseURL+"/v1/geocode/search?"+q.Encode())
	if err != nil {
		return 0, 0, err
	}

	var resp struct {
		Features []struct {
			Properties struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, 0, fmt.Errorf("unmarshal geocode: %w", err)
	}
	if len(resp.Features) == 0 {
		return 0, 0, fmt.Errorf("no geocode results for %q", name)
	}
	return resp.Features[0].Properties.Lat, resp.Features[0].Properties.Lon, nil
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
			return fmt.Errorf("geoapify API error %d: %s", resp.StatusCode, string(data))
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
