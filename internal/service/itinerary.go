// Package service implements the planning core: candidate pool fetching, the
// deterministic itinerary assembler, the trip orchestrator and destination
// comparison.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
)

// dayTimes is the backbone schedule for one day. Arrival days start later
// and departure days start earlier to model travel friction.
type dayTimes struct {
	breakfast string
	morning   string
	lunch     string
	afternoon string
	dinner    string
	evening   string
}

var (
	middleTimes  = dayTimes{breakfast: "8:00 AM", morning: "10:00 AM", lunch: "12:30 PM", afternoon: "2:30 PM", dinner: "7:00 PM", evening: "8:30 PM"}
	arrivalTimes = dayTimes{morning: "11:00 AM", lunch: "1:00 PM", afternoon: "3:30 PM", dinner: "7:30 PM", evening: "9:00 PM"}
	lastTimes    = dayTimes{breakfast: "7:30 AM", morning: "9:00 AM", lunch: "11:30 AM", afternoon: "1:00 PM", dinner: "6:00 PM", evening: "7:30 PM"}
)

const (
	checkInTime  = "3:00 PM"
	checkOutTime = "11:00 AM"
)

// ItineraryAssembler deterministically fills days from candidate pools.
// Identical inputs always produce identical output; the optional enrichment
// call is the only external dependency and its failure never changes the
// deterministic backbone.
type ItineraryAssembler struct {
	suggest provider.Suggestions
	cfg     config.Planner
	log     *slog.Logger
}

// NewItineraryAssembler creates the assembler. suggest may be nil, which
// disables enrichment entirely.
func NewItineraryAssembler(suggest provider.Suggestions, cfg config.Planner, log *slog.Logger) *ItineraryAssembler {
	return &ItineraryAssembler{suggest: suggest, cfg: cfg, log: log}
}

// Assemble produces one DayPlan per requested day. Empty pools are replaced
// by exactly one synthetic placeholder so index cycling never sees an empty
// collection.
func (s *ItineraryAssembler) Assemble(ctx context.Context, req trip.Request, pools trip.Pools) []trip.DayPlan {
	attractions := orPlaceholder(pools.Attractions, placeholderAttraction(req.Destination))
	restaurants := orPlaceholder(pools.Restaurants, placeholderRestaurant())
	hotels := orPlaceholder(pools.Hotels, placeholderHotel(req.Destination))

	start := req.Start()
	days := make([]trip.DayPlan, 0, req.Days)
	for i := 0; i < req.Days; i++ {
		days = append(days, s.buildDay(ctx, req, i, start, attractions, restaurants, hotels))
	}
	return days
}

func (s *ItineraryAssembler) buildDay(ctx context.Context, req trip.Request, i int, start time.Time, attractions, restaurants, hotels []trip.Place) trip.DayPlan {
	arrival := i == 0
	last := i == req.Days-1
	times := middleTimes
	switch {
	case arrival:
		times = arrivalTimes
	case last:
		times = lastTimes
	}

	// Modulo cycling keeps the three daily attraction slots distinct
	// whenever the pool has at least three entries, and wraps around
	// deterministically once it is exhausted.
	morningAtt := attractions[(3*i)%len(attractions)]
	afternoonAtt := attractions[(3*i+1)%len(attractions)]
	eveningAtt := attractions[(3*i+2)%len(attractions)]
	used := map[string]bool{morningAtt.ID: true, afternoonAtt.ID: true, eveningAtt.ID: true}

	breakfast := restaurants[i%len(restaurants)]
	lunch := restaurants[(i+1)%len(restaurants)]
	dinner := restaurants[(i+2)%len(restaurants)]
	hotel := hotels[i%len(hotels)]

	var activities []trip.Activity

	if !arrival {
		// Breakfast is skipped on the arrival day.
		activities = append(activities, mealActivity(times.breakfast, "Breakfast", breakfast))
	}
	activities = append(activities, sightseeingActivity(times.morning, morningAtt))
	if last {
		activities = append(activities, checkOutActivity(hotel))
	}
	activities = append(activities, mealActivity(times.lunch, "Lunch", lunch))
	if arrival {
		activities = append(activities, checkInActivity(hotel))
	}
	activities = append(activities,
		sightseeingActivity(times.afternoon, afternoonAtt),
		mealActivity(times.dinner, "Dinner", dinner),
		eveningActivity(times.evening, eveningAtt),
	)

	date := start.AddDate(0, 0, i).Format(trip.DateLayout)
	if !arrival && len(req.Interests) > 0 {
		activities = s.enrich(ctx, req, date, activities)
	}

	return trip.DayPlan{
		Day:         i + 1,
		Date:        date,
		Title:       dayTitle(i, req.Days, req.Destination),
		Activities:  activities,
		Suggestions: s.unusedSuggestions(attractions, used),
	}
}

// enrich asks the generator for personalized slot activities and splices
// them over the default slots. Any failure or empty result leaves the
// backbone untouched.
func (s *ItineraryAssembler) enrich(ctx context.Context, req trip.Request, date string, activities []trip.Activity) []trip.Activity {
	if s.suggest == nil {
		return activities
	}

	// Backbone positions are resolved before anything is spliced; a splice
	// shifts every index after it, so the replacements are applied from the
	// highest position down.
	slots := []struct {
		name string
		idx  int
	}{
		{"morning", activityIndex(activities, trip.ActivitySightseeing, 0)},
		{"afternoon", activityIndex(activities, trip.ActivitySightseeing, 1)},
		{"evening", activityIndex(activities, trip.ActivityEntertainment, 0)},
	}

	generated := make([][]trip.Activity, len(slots))
	for i, slot := range slots {
		if slot.idx < 0 {
			continue
		}
		acts, err := s.suggest.Suggest(ctx, provider.SuggestionRequest{
			Destination: req.Destination,
			Date:        date,
			Slot:        slot.name,
			Interests:   req.Interests,
		})
		if err != nil {
			s.log.Warn("enrichment failed, keeping backbone",
				"destination", req.Destination, "date", date, "slot", slot.name, "error", err)
			continue
		}
		if len(acts) > s.cfg.EnrichmentMax {
			acts = acts[:s.cfg.EnrichmentMax]
		}
		generated[i] = acts
	}

	for i := len(slots) - 1; i >= 0; i-- {
		if len(generated[i]) == 0 {
			continue
		}
		activities = spliceAt(activities, slots[i].idx, generated[i])
	}
	return activities
}

// activityIndex returns the position of the nth activity of the given type,
// or -1 when the day has fewer of them.
func activityIndex(activities []trip.Activity, want trip.ActivityType, nth int) int {
	seen := 0
	for idx, a := range activities {
		if a.Type != want {
			continue
		}
		if seen == nth {
			return idx
		}
		seen++
	}
	return -1
}

// spliceAt replaces the backbone entry at idx with the generated activities.
// Generated entries without a time inherit the slot they replace.
func spliceAt(activities []trip.Activity, idx int, generated []trip.Activity) []trip.Activity {
	keep := activities[idx].Time
	for gi := range generated {
		if generated[gi].Time == "" {
			generated[gi].Time = keep
		}
	}
	out := make([]trip.Activity, 0, len(activities)+len(generated)-1)
	out = append(out, activities[:idx]...)
	out = append(out, generated...)
	out = append(out, activities[idx+1:]...)
	return out
}

// unusedSuggestions offers pool attractions not already scheduled today.
func (s *ItineraryAssembler) unusedSuggestions(attractions []trip.Place, used map[string]bool) []trip.Activity {
	var out []trip.Activity
	for _, p := range attractions {
		if used[p.ID] {
			continue
		}
		out = append(out, trip.Activity{
			Title:    p.Name,
			Type:     trip.ActivitySightseeing,
			Location: p.Name,
			Notes:    p.Description,
			Status:   "suggested",
		})
		if len(out) == s.cfg.SuggestionsMax {
			break
		}
	}
	return out
}

func dayTitle(i, total int, destination string) string {
	switch {
	case total == 1:
		return "Day 1: Arrival & Departure"
	case i == 0:
		return "Day 1: Arrival & Exploration"
	case i == total-1:
		return fmt.Sprintf("Day %d: Farewell & Departure", total)
	default:
		return fmt.Sprintf("Day %d: Discovering %s", i+1, destination)
	}
}

func sightseeingActivity(at string, p trip.Place) trip.Activity {
	return trip.Activity{
		Time:     at,
		Title:    "Visit " + p.Name,
		Type:     trip.ActivitySightseeing,
		Location: p.Name,
		Notes:    p.Description,
		Duration: "2 hours",
		Status:   "scheduled",
	}
}

func eveningActivity(at string, p trip.Place) trip.Activity {
	return trip.Activity{
		Time:     at,
		Title:    "Evening at " + p.Name,
		Type:     trip.ActivityEntertainment,
		Location: p.Name,
		Notes:    p.Description,
		Duration: "90 minutes",
		Status:   "scheduled",
	}
}

func mealActivity(at, meal string, p trip.Place) trip.Activity {
	return trip.Activity{
		Time:     at,
		Title:    meal + " at " + p.Name,
		Type:     trip.ActivityMeal,
		Location: p.Name,
		Duration: "1 hour",
		Status:   "scheduled",
	}
}

func checkInActivity(hotel trip.Place) trip.Activity {
	return trip.Activity{
		Time:     checkInTime,
		Title:    "Check in at " + hotel.Name,
		Type:     trip.ActivityHotel,
		Location: hotel.Name,
		Price:    hotel.Price,
		Status:   "scheduled",
	}
}

func checkOutActivity(hotel trip.Place) trip.Activity {
	return trip.Activity{
		Time:     checkOutTime,
		Title:    "Check out from " + hotel.Name,
		Type:     trip.ActivityHotel,
		Location: hotel.Name,
		Status:   "scheduled",
	}
}

// orPlaceholder returns the pool unchanged, or exactly one synthetic entry
// when it is empty.
func orPlaceholder(pool []trip.Place, placeholder trip.Place) []trip.Place {
	if len(pool) > 0 {
		return pool
	}
	return []trip.Place{placeholder}
}

func placeholderAttraction(destination string) trip.Place {
	return trip.Place{
		ID:          "placeholder-attraction",
		Name:        destination + " City Center",
		Description: "Explore the heart of " + destination,
	}
}

func placeholderRestaurant() trip.Place {
	return trip.Place{
		ID:          "placeholder-restaurant",
		Name:        "Local Restaurant",
		Description: "A recommended spot for regional cuisine",
	}
}

func placeholderHotel(destination string) trip.Place {
	return trip.Place{
		ID:          "placeholder-hotel",
		Name:        destination + " Central Hotel",
		Description: "Comfortable stay near the center of " + destination,
	}
}
