package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	votel "github.com/voyago/voyago/internal/adapter/otel"
	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/cache"
	"github.com/voyago/voyago/internal/port/provider"
)

// PoolService fetches and caches the candidate pools for a destination.
// The three category searches fan out concurrently with all-settle
// semantics: a failed category yields an empty pool and never cancels the
// others. Concurrent requests for the same destination share one fetch.
type PoolService struct {
	places provider.Places
	prices provider.PriceLookup
	cache  cache.Cache
	group  singleflight.Group
	cfg    config.Planner
	ttl    time.Duration
	log    *slog.Logger

	// sleep paces per-hotel price lookups, injectable for tests.
	sleep func(time.Duration)

	metrics *votel.Metrics
}

// NewPoolService creates the pool service. places, prices and c may each be
// nil: a nil places provider yields empty pools, a nil price lookup skips
// hotel pricing and a nil cache disables caching.
func NewPoolService(places provider.Places, prices provider.PriceLookup, c cache.Cache, cfg config.Planner, ttl time.Duration, log *slog.Logger) *PoolService {
	return &PoolService{
		places: places,
		prices: prices,
		cache:  c,
		cfg:    cfg,
		ttl:    ttl,
		log:    log,
		sleep:  time.Sleep,
	}
}

// SetMetrics attaches metric instruments. Nil metrics are skipped.
func (s *PoolService) SetMetrics(m *votel.Metrics) {
	s.metrics = m
}

// Pools returns the candidate pools for a destination, from cache when
// possible. Pools may be empty; callers synthesize placeholders.
func (s *PoolService) Pools(ctx context.Context, destination string) (trip.Pools, error) {
	key := "pools:" + strings.ToLower(destination)

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var pools trip.Pools
			if err := json.Unmarshal(data, &pools); err == nil {
				return pools, nil
			}
			s.log.Warn("corrupt pool cache entry, refetching", "key", key)
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		pools := s.fetch(ctx, destination)

		if s.cache != nil {
			if data, err := json.Marshal(pools); err == nil {
				if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
					s.log.Warn("pool cache write failed", "key", key, "error", err)
				}
			}
		}
		return pools, nil
	})
	if err != nil {
		return trip.Pools{}, err
	}
	return v.(trip.Pools), nil
}

// fetch runs the three category searches concurrently and then prices the
// hotels sequentially with a fixed delay between lookups.
func (s *PoolService) fetch(ctx context.Context, destination string) trip.Pools {
	if s.places == nil {
		return trip.Pools{}
	}

	var (
		wg    sync.WaitGroup
		pools trip.Pools
	)
	for _, cat := range []struct {
		category provider.PlaceCategory
		target   *[]trip.Place
	}{
		{provider.CategoryAttraction, &pools.Attractions},
		{provider.CategoryRestaurant, &pools.Restaurants},
		{provider.CategoryHotel, &pools.Hotels},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := s.places.Search(ctx, destination, cat.category, s.cfg.PoolLimit)
			if err != nil {
				if s.metrics != nil {
					s.metrics.ProviderFailures.Add(ctx, 1)
				}
				s.log.Warn("place search failed, using empty pool",
					"destination", destination, "category", cat.category, "error", err)
				return
			}
			*cat.target = found
		}()
	}
	wg.Wait()

	s.priceHotels(ctx, pools.Hotels)
	return pools
}

// priceHotels looks up a nightly rate per hotel. Lookups are sequential
// with a fixed pause to stay under the provider's rate limit; a failed
// lookup leaves that hotel unpriced.
func (s *PoolService) priceHotels(ctx context.Context, hotels []trip.Place) {
	if s.prices == nil {
		return
	}
	for i := range hotels {
		if i > 0 {
			s.sleep(s.cfg.RateDelay)
		}
		price, err := s.prices.Price(ctx, hotels[i].ID)
		if err != nil {
			s.log.Warn("hotel price lookup failed",
				"hotel", hotels[i].Name, "error", err)
			continue
		}
		hotels[i].Price = price
	}
}
