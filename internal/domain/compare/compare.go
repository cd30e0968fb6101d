// Package compare scores destinations from their candidate pool sizes.
//
// The weights, caps and thresholds below are product-tuned values, not derived
// ones. They are carried as an overridable Config so they can be changed
// without touching the algorithm.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/voyago/voyago/internal/domain/trip"
)

// Config holds the tunable scoring parameters.
type Config struct {
	// AttractionCap and RestaurantCap are the pool sizes at which the
	// saturating scales stop adding value.
	AttractionCap int `yaml:"attraction_cap"`
	RestaurantCap int `yaml:"restaurant_cap"`

	// Category weights for the overall score; they must sum to 1.0.
	WeightFood      float64 `yaml:"weight_food"`
	WeightCulture   float64 `yaml:"weight_culture"`
	WeightAdventure float64 `yaml:"weight_adventure"`
	WeightNightlife float64 `yaml:"weight_nightlife"`
	WeightShopping  float64 `yaml:"weight_shopping"`

	// Pros/cons ladder thresholds.
	ManyAttractions int     `yaml:"many_attractions"`
	FewAttractions  int     `yaml:"few_attractions"`
	ManyRestaurants int     `yaml:"many_restaurants"`
	FewRestaurants  int     `yaml:"few_restaurants"`
	ComfortTempMin  float64 `yaml:"comfort_temp_min"`
	ComfortTempMax  float64 `yaml:"comfort_temp_max"`
	HotTemp         float64 `yaml:"hot_temp"`
	ColdTemp        float64 `yaml:"cold_temp"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		AttractionCap:   20,
		RestaurantCap:   15,
		WeightFood:      0.20,
		WeightCulture:   0.25,
		WeightAdventure: 0.25,
		WeightNightlife: 0.15,
		WeightShopping:  0.15,
		ManyAttractions: 15,
		FewAttractions:  5,
		ManyRestaurants: 10,
		FewRestaurants:  3,
		ComfortTempMin:  15,
		ComfortTempMax:  28,
		HotTemp:         32,
		ColdTemp:        5,
	}
}

// Scores holds the five category scores and the weighted overall, all in [0,5].
type Scores struct {
	Food      float64 `json:"food"`
	Culture   float64 `json:"culture"`
	Adventure float64 `json:"adventure"`
	Nightlife float64 `json:"nightlife"`
	Shopping  float64 `json:"shopping"`
	Overall   float64 `json:"overall"`
}

// Neutral is the designed default returned when both pools are empty.
func Neutral() Scores {
	return Scores{Food: 2.5, Culture: 2.5, Adventure: 2.5, Nightlife: 2.0, Shopping: 2.5, Overall: 2.5}
}

// Score derives category scores from the two pool sizes. Negative sizes are
// treated as zero; non-finite intermediates coerce to 0.
func Score(attractions, restaurants int, cfg Config) Scores {
	if attractions <= 0 && restaurants <= 0 {
		return Neutral()
	}

	attractionScore := saturate(attractions, cfg.AttractionCap) * 5
	restaurantScore := saturate(restaurants, cfg.RestaurantCap) * 5

	s := Scores{
		Food:      restaurantScore,
		Culture:   attractionScore,
		Adventure: 0.6*attractionScore + 0.4*restaurantScore,
		Nightlife: 0.8 * restaurantScore,
		Shopping:  0.4*attractionScore + 0.6*restaurantScore,
	}
	s.Overall = cfg.WeightFood*s.Food +
		cfg.WeightCulture*s.Culture +
		cfg.WeightAdventure*s.Adventure +
		cfg.WeightNightlife*s.Nightlife +
		cfg.WeightShopping*s.Shopping

	s.Food = round2(s.Food)
	s.Culture = round2(s.Culture)
	s.Adventure = round2(s.Adventure)
	s.Nightlife = round2(s.Nightlife)
	s.Shopping = round2(s.Shopping)
	s.Overall = round2(s.Overall)
	return s
}

// saturate maps count onto [0,1], linear up to cap.
func saturate(count, limit int) float64 {
	if count <= 0 || limit <= 0 {
		return 0
	}
	v := float64(count) / float64(limit)
	if v > 1 {
		return 1
	}
	return v
}

// round2 rounds to two decimal places and coerces non-finite values to 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// ProsCons walks the threshold ladder over pool counts and the weather
// snapshot. Each signal category contributes at most one pro or one con, and
// a generic filler keeps both lists non-empty.
func ProsCons(attractions, restaurants int, weather *trip.WeatherSummary, cfg Config) (pros, cons []string) {
	switch {
	case attractions >= cfg.ManyAttractions:
		pros = append(pros, fmt.Sprintf("Rich selection of attractions (%d found)", attractions))
	case attractions < cfg.FewAttractions:
		cons = append(cons, "Few documented attractions")
	}

	switch {
	case restaurants >= cfg.ManyRestaurants:
		pros = append(pros, fmt.Sprintf("Vibrant dining scene (%d restaurants found)", restaurants))
	case restaurants < cfg.FewRestaurants:
		cons = append(cons, "Limited dining options")
	}

	if weather != nil {
		switch {
		case weather.TempC > cfg.HotTemp:
			cons = append(cons, fmt.Sprintf("Very hot right now (%.0f°C)", weather.TempC))
		case weather.TempC < cfg.ColdTemp:
			cons = append(cons, fmt.Sprintf("Cold weather (%.0f°C)", weather.TempC))
		case weather.TempC >= cfg.ComfortTempMin && weather.TempC <= cfg.ComfortTempMax:
			pros = append(pros, fmt.Sprintf("Comfortable weather (%.0f°C, %s)", weather.TempC, weather.Description))
		}
		if strings.Contains(strings.ToLower(weather.Description), "rain") {
			cons = append(cons, "Rain in the current forecast")
		}
	}

	if len(pros) == 0 {
		pros = append(pros, "Worth exploring for its own character")
	}
	if len(cons) == 0 {
		cons = append(cons, "No major drawbacks identified")
	}
	return pros, cons
}
