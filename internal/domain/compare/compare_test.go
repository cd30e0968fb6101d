package compare

import (
	"testing"

	"github.com/voyago/voyago/internal/domain/trip"
)

func TestScoreNeutralWhenBothEmpty(t *testing.T) {
	s := Score(0, 0, DefaultConfig())
	want := Neutral()
	if s != want {
		t.Fatalf("expected neutral vector, got %+v", s)
	}
	if s.Overall != 2.5 {
		t.Fatalf("expected overall 2.5, got %v", s.Overall)
	}
}

func TestScoreBoundsAndWeights(t *testing.T) {
	cfg := DefaultConfig()
	sizes := [][2]int{{1, 0}, {0, 1}, {3, 2}, {10, 7}, {20, 15}, {25, 40}, {1000, 1000}}
	for _, sz := range sizes {
		s := Score(sz[0], sz[1], cfg)
		for name, v := range map[string]float64{
			"food": s.Food, "culture": s.Culture, "adventure": s.Adventure,
			"nightlife": s.Nightlife, "shopping": s.Shopping, "overall": s.Overall,
		} {
			if v < 0 || v > 5 {
				t.Fatalf("%s out of [0,5] for pools %v: %v", name, sz, v)
			}
		}
	}

	// At both caps every base score saturates at 5.
	s := Score(cfg.AttractionCap, cfg.RestaurantCap, cfg)
	if s.Food != 5 || s.Culture != 5 {
		t.Fatalf("expected saturated food/culture, got %+v", s)
	}
	// Beyond the cap nothing increases.
	beyond := Score(cfg.AttractionCap*10, cfg.RestaurantCap*10, cfg)
	if beyond != s {
		t.Fatalf("scores changed past the cap: %+v vs %+v", beyond, s)
	}
}

func TestScoreMonotonicBelowCap(t *testing.T) {
	cfg := DefaultConfig()
	prev := Score(1, 1, cfg).Overall
	for a := 2; a <= cfg.AttractionCap; a++ {
		cur := Score(a, 1, cfg).Overall
		if cur < prev {
			t.Fatalf("overall decreased when attractions grew to %d: %v < %v", a, cur, prev)
		}
		prev = cur
	}
	prev = Score(1, 1, cfg).Overall
	for r := 2; r <= cfg.RestaurantCap; r++ {
		cur := Score(1, r, cfg).Overall
		if cur < prev {
			t.Fatalf("overall decreased when restaurants grew to %d: %v < %v", r, cur, prev)
		}
		prev = cur
	}
}

func TestScoreDerivedCategories(t *testing.T) {
	cfg := DefaultConfig()
	s := Score(10, 15, cfg) // attractionScore 2.5, restaurantScore 5.0
	if s.Culture != 2.5 || s.Food != 5.0 {
		t.Fatalf("base scores wrong: %+v", s)
	}
	if s.Adventure != 3.5 { // 0.6*2.5 + 0.4*5.0
		t.Fatalf("adventure wrong: %v", s.Adventure)
	}
	if s.Nightlife != 4.0 { // 0.8*5.0
		t.Fatalf("nightlife wrong: %v", s.Nightlife)
	}
	if s.Shopping != 4.0 { // 0.4*2.5 + 0.6*5.0
		t.Fatalf("shopping wrong: %v", s.Shopping)
	}
}

func TestProsConsNeverEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		attractions, restaurants int
		weather                  *trip.WeatherSummary
	}{
		{0, 0, nil},
		{25, 12, &trip.WeatherSummary{TempC: 21, Description: "clear sky"}},
		{2, 1, &trip.WeatherSummary{TempC: -3, Description: "light rain"}},
		{8, 5, nil},
	}
	for _, tc := range cases {
		pros, cons := ProsCons(tc.attractions, tc.restaurants, tc.weather, cfg)
		if len(pros) == 0 {
			t.Fatalf("empty pros for %+v", tc)
		}
		if len(cons) == 0 {
			t.Fatalf("empty cons for %+v", tc)
		}
	}
}

func TestProsConsSignals(t *testing.T) {
	cfg := DefaultConfig()

	pros, _ := ProsCons(20, 12, &trip.WeatherSummary{TempC: 20, Description: "clear sky"}, cfg)
	if len(pros) != 3 {
		t.Fatalf("expected attraction+restaurant+weather pros, got %v", pros)
	}

	_, cons := ProsCons(1, 1, &trip.WeatherSummary{TempC: 35, Description: "moderate rain"}, cfg)
	// few attractions, few restaurants, hot, rain
	if len(cons) != 4 {
		t.Fatalf("expected 4 cons, got %v", cons)
	}
}
