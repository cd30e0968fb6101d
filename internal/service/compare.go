package service

import (
	"context"
	"log/slog"
	"sync"

	votel "github.com/voyago/voyago/internal/adapter/otel"
	"github.com/voyago/voyago/internal/domain/compare"
	"github.com/voyago/voyago/internal/domain/trip"
)

// DestinationReport is one side of a comparison.
type DestinationReport struct {
	Destination string               `json:"destination"`
	Attractions int                  `json:"attractions"`
	Restaurants int                  `json:"restaurants"`
	Scores      compare.Scores       `json:"scores"`
	Pros        []string             `json:"pros"`
	Cons        []string             `json:"cons"`
	Weather     *trip.WeatherSummary `json:"weather,omitempty"`
}

// ComparisonReport scores two destinations against each other.
type ComparisonReport struct {
	A      DestinationReport `json:"a"`
	B      DestinationReport `json:"b"`
	Winner string            `json:"winner"`
}

// CompareService builds comparison reports from candidate pool sizes and an
// optional weather snapshot per destination.
type CompareService struct {
	pools   PoolSource
	weather WeatherSource
	scoring compare.Config
	log     *slog.Logger
}

// PoolSource fetches candidate pools per destination.
type PoolSource interface {
	Pools(ctx context.Context, destination string) (trip.Pools, error)
}

// WeatherSource looks up current conditions, used only for pros/cons.
type WeatherSource interface {
	Current(ctx context.Context, destination string) (trip.WeatherSummary, error)
}

// NewCompareService creates the comparison service. weather may be nil.
func NewCompareService(pools PoolSource, weather WeatherSource, scoring compare.Config, log *slog.Logger) *CompareService {
	return &CompareService{pools: pools, weather: weather, scoring: scoring, log: log}
}

// Compare fans out over both destinations with all-settle semantics and
// declares the destination with the higher overall score the winner. An
// exact tie goes to the first destination.
func (s *CompareService) Compare(ctx context.Context, a, b string) (*ComparisonReport, error) {
	ctx, span := votel.StartCompareSpan(ctx, a, b)
	defer span.End()

	var (
		wg      sync.WaitGroup
		reports [2]DestinationReport
	)
	for i, destination := range []string{a, b} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i] = s.report(ctx, destination)
		}()
	}
	wg.Wait()

	winner := reports[0].Destination
	if reports[1].Scores.Overall > reports[0].Scores.Overall {
		winner = reports[1].Destination
	}

	return &ComparisonReport{A: reports[0], B: reports[1], Winner: winner}, nil
}

// report builds one side of the comparison. Pool fetch failure degrades to
// empty pools; weather failure just omits the weather signals.
func (s *CompareService) report(ctx context.Context, destination string) DestinationReport {
	pools, err := s.pools.Pools(ctx, destination)
	if err != nil {
		s.log.Warn("pool fetch failed, comparing with empty pools",
			"destination", destination, "error", err)
		pools = trip.Pools{}
	}

	var weather *trip.WeatherSummary
	if s.weather != nil {
		if w, err := s.weather.Current(ctx, destination); err != nil {
			s.log.Warn("weather lookup failed, comparing without weather",
				"destination", destination, "error", err)
		} else {
			weather = &w
		}
	}

	nAtt, nRest := len(pools.Attractions), len(pools.Restaurants)
	pros, cons := compare.ProsCons(nAtt, nRest, weather, s.scoring)

	return DestinationReport{
		Destination: destination,
		Attractions: nAtt,
		Restaurants: nRest,
		Scores:      compare.Score(nAtt, nRest, s.scoring),
		Pros:        pros,
		Cons:        cons,
		Weather:     weather,
	}
}
