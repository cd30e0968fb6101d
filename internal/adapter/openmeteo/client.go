// Package openmeteo provides the weather provider backed by the Open-Meteo
// geocoding and forecast APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/resilience"
)

const defaultBaseURL = "https://api.open-meteo.com"

// geocodeBaseURL hosts the city-name search endpoint, which lives on a
// separate Open-Meteo domain.
const geocodeBaseURL = "https://geocoding-api.open-meteo.com"

// Client looks up current conditions via Open-Meteo. The API needs no key.
type Client struct {
	baseURL     string
	geocodeURL  string
	httpClient  *http.Client
	breaker     *resilience.Breaker
	callTimeout time.Duration
}

// NewClient creates an Open-Meteo client from provider configuration.
func NewClient(cfg config.ProviderHTTP) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     base,
		geocodeURL:  geocodeBaseURL,
		httpClient:  &http.Client{Timeout: timeout},
		callTimeout: timeout,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// SetGeocodeURL overrides the geocoding host, used by tests.
func (c *Client) SetGeocodeURL(u string) {
	c.geocodeURL = u
}

// Current geocodes the destination name and fetches the current conditions.
func (c *Client) Current(ctx context.Context, destination string) (trip.WeatherSummary, error) {
	lat, lon, err := c.Geocode(ctx, destination)
	if err != nil {
		return trip.WeatherSummary{}, fmt.Errorf("geocode %s: %w", destination, err)
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")

	data, err := c.get(ctx, c.baseURL+"/v1/forecast?"+q.Encode())
	if err != nil {
		return trip.WeatherSummary{}, fmt.Errorf("forecast %s: %w", destination, err)
	}

	var resp struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    int     `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return trip.WeatherSummary{}, fmt.Errorf("unmarshal forecast: %w", err)
	}

	return trip.WeatherSummary{
		TempC:       resp.Current.Temperature,
		Description: describeCode(resp.Current.WeatherCode),
		Humidity:    resp.Current.Humidity,
		WindSpeed:   resp.Current.WindSpeed,
	}, nil
}

// Geocode resolves a city name to coordinates. The route client shares this
// lookup so both providers agree on where a named destination is.
func (c *Client) Geocode(ctx context.Context, name string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")

	data, err := c.get(ctx, c.geocodeURL+"/v1/search?"+q.Encode())
	if err != nil {
		return 0, 0, err
	}

	var resp struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, 0, fmt.Errorf("unmarshal geocode: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocode results for %q", name)
	}
	return resp.Results[0].Latitude, resp.Results[0].Longitude, nil
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
			return fmt.Errorf("open-meteo API error %d: %s", resp.StatusCode, string(data))
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

// describeCode maps WMO weather codes to the short descriptions shown in
// plan summaries. Unknown codes fall through to a generic label.
func describeCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "foggy"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "mixed conditions"
	}
}
