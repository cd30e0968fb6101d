package openmeteo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voyago/voyago/internal/adapter/openmeteo"
	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/port/provider"
)

var _ provider.Weather = (*openmeteo.Client)(nil)

func TestCurrent(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Lisbon" {
			t.Fatalf("unexpected name: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"latitude":38.7167,"longitude":-9.1333}]}`))
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/forecast" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":24.5,"relative_humidity_2m":60,"wind_speed_10m":12.3,"weather_code":0}}`))
	}))
	defer forecast.Close()

	client := openmeteo.NewClient(config.ProviderHTTP{BaseURL: forecast.URL})
	client.SetGeocodeURL(geocode.URL)

	got, err := client.Current(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got.TempC != 24.5 {
		t.Errorf("TempC = %v, want 24.5", got.TempC)
	}
	if got.Description != "clear sky" {
		t.Errorf("Description = %q, want %q", got.Description, "clear sky")
	}
	if got.Humidity != 60 {
		t.Errorf("Humidity = %d, want 60", got.Humidity)
	}
	if got.Fallback {
		t.Error("Fallback = true, want false")
	}
}

func TestCurrentNoGeocodeResults(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer geocode.Close()

	client := openmeteo.NewClient(config.ProviderHTTP{BaseURL: "http://unused.invalid"})
	client.SetGeocodeURL(geocode.URL)

	if _, err := client.Current(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected error for unknown destination")
	}
}

func TestCurrentServerError(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"latitude":1,"longitude":2}]}`))
	}))
	defer geocode.Close()

	forecast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer forecast.Close()

	client := openmeteo.NewClient(config.ProviderHTTP{BaseURL: forecast.URL})
	client.SetGeocodeURL(geocode.URL)

	if _, err := client.Current(context.Background(), "Lisbon"); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
