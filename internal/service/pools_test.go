package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/cache"
	"github.com/voyago/voyago/internal/port/provider"
)

// mockPlaces serves canned results per category and counts searches.
type mockPlaces struct {
	mu      sync.Mutex
	results map[provider.PlaceCategory][]trip.Place
	errs    map[provider.PlaceCategory]error
	calls   int
	prices  map[string]float64
	priced  []string
}

func (m *mockPlaces) Search(_ context.Context, _ string, category provider.PlaceCategory, _ int) ([]trip.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[category]; err != nil {
		return nil, err
	}
	return m.results[category], nil
}

func (m *mockPlaces) Price(_ context.Context, placeID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priced = append(m.priced, placeID)
	price, ok := m.prices[placeID]
	if !ok {
		return 0, errors.New("no price")
	}
	return price, nil
}

var (
	_ provider.Places      = (*mockPlaces)(nil)
	_ provider.PriceLookup = (*mockPlaces)(nil)
)

// memPoolCache is a trivial cache.Cache for pool tests.
type memPoolCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemPoolCache() *memPoolCache {
	return &memPoolCache{data: make(map[string][]byte)}
}

func (c *memPoolCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memPoolCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memPoolCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func newPoolService(p *mockPlaces, c *memPoolCache) *PoolService {
	var (
		places provider.Places
		prices provider.PriceLookup
	)
	if p != nil {
		places, prices = p, p
	}
	svc := NewPoolService(places, prices, cacheOrNil(c), config.Defaults().Planner, time.Minute, discard())
	svc.sleep = func(time.Duration) {}
	return svc
}

// cacheOrNil avoids handing NewPoolService a typed nil.
func cacheOrNil(c *memPoolCache) cache.Cache {
	if c == nil {
		return nil
	}
	return c
}

func TestPoolsFetchAllCategories(t *testing.T) {
	m := &mockPlaces{
		results: map[provider.PlaceCategory][]trip.Place{
			provider.CategoryAttraction: places("attraction", 3),
			provider.CategoryRestaurant: places("restaurant", 2),
			provider.CategoryHotel:      {{ID: "h-0", Name: "Hotel 0"}},
		},
		prices: map[string]float64{"h-0": 120},
	}

	got, err := newPoolService(m, nil).Pools(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("Pools: %v", err)
	}
	if len(got.Attractions) != 3 || len(got.Restaurants) != 2 || len(got.Hotels) != 1 {
		t.Errorf("pool sizes = %d/%d/%d", len(got.Attractions), len(got.Restaurants), len(got.Hotels))
	}
	if got.Hotels[0].Price != 120 {
		t.Errorf("hotel price = %v, want 120", got.Hotels[0].Price)
	}
}

func TestPoolsAllSettle(t *testing.T) {
	m := &mockPlaces{
		results: map[provider.PlaceCategory][]trip.Place{
			provider.CategoryRestaurant: places("restaurant", 2),
			provider.CategoryHotel:      places("hotel", 1),
		},
		errs: map[provider.PlaceCategory]error{
			provider.CategoryAttraction: errors.New("quota exceeded"),
		},
	}

	got, err := newPoolService(m, nil).Pools(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("one failed category must not fail the fetch: %v", err)
	}
	if len(got.Attractions) != 0 {
		t.Errorf("failed category should be empty, got %d", len(got.Attractions))
	}
	if len(got.Restaurants) != 2 || len(got.Hotels) != 1 {
		t.Errorf("surviving categories = %d/%d", len(got.Restaurants), len(got.Hotels))
	}
}

func TestPoolsCacheHit(t *testing.T) {
	m := &mockPlaces{
		results: map[provider.PlaceCategory][]trip.Place{
			provider.CategoryAttraction: places("attraction", 1),
		},
	}
	c := newMemPoolCache()
	svc := newPoolService(m, c)

	if _, err := svc.Pools(context.Background(), "Lisbon"); err != nil {
		t.Fatal(err)
	}
	firstCalls := m.calls

	if _, err := svc.Pools(context.Background(), "Lisbon"); err != nil {
		t.Fatal(err)
	}
	if m.calls != firstCalls {
		t.Errorf("second fetch hit the provider (%d calls, was %d)", m.calls, firstCalls)
	}
}

func TestPoolsCacheKeyIsCaseInsensitive(t *testing.T) {
	c := newMemPoolCache()
	data, _ := json.Marshal(trip.Pools{Attractions: places("attraction", 2)})
	c.data["pools:lisbon"] = data

	got, err := newPoolService(nil, c).Pools(context.Background(), "LISBON")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Attractions) != 2 {
		t.Errorf("expected cache hit, got %+v", got)
	}
}

func TestPoolsPriceFailureSkipsHotel(t *testing.T) {
	m := &mockPlaces{
		results: map[provider.PlaceCategory][]trip.Place{
			provider.CategoryHotel: places("h", 3),
		},
		prices: map[string]float64{"h-0": 80, "h-2": 200},
	}

	got, err := newPoolService(m, nil).Pools(context.Background(), "Lisbon")
	if err != nil {
		t.Fatal(err)
	}
	if got.Hotels[0].Price != 80 || got.Hotels[2].Price != 200 {
		t.Errorf("priced hotels = %+v", got.Hotels)
	}
	if got.Hotels[1].Price != 0 {
		t.Errorf("unpriced hotel should stay at 0, got %v", got.Hotels[1].Price)
	}
	if len(m.priced) != 3 {
		t.Errorf("priced %d hotels, want 3", len(m.priced))
	}
}

func TestPoolsNilProvider(t *testing.T) {
	got, err := newPoolService(nil, nil).Pools(context.Background(), "Lisbon")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Attractions)+len(got.Restaurants)+len(got.Hotels) != 0 {
		t.Errorf("nil provider should yield empty pools, got %+v", got)
	}
}
