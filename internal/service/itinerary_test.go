package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// suggestFunc adapts a function to provider.Suggestions.
type suggestFunc func(ctx context.Context, req provider.SuggestionRequest) ([]trip.Activity, error)

func (f suggestFunc) Suggest(ctx context.Context, req provider.SuggestionRequest) ([]trip.Activity, error) {
	return f(ctx, req)
}

var _ provider.Suggestions = (suggestFunc)(nil)

func places(prefix string, n int) []trip.Place {
	out := make([]trip.Place, n)
	for i := range out {
		out[i] = trip.Place{
			ID:   fmt.Sprintf("%s-%d", prefix, i),
			Name: fmt.Sprintf("%s %d", strings.ToUpper(prefix[:1])+prefix[1:], i),
		}
	}
	return out
}

func fullPools() trip.Pools {
	return trip.Pools{
		Attractions: places("attraction", 10),
		Restaurants: places("restaurant", 5),
		Hotels:      places("hotel", 2),
	}
}

func newAssembler(suggest provider.Suggestions) *ItineraryAssembler {
	return NewItineraryAssembler(suggest, config.Defaults().Planner, discard())
}

func request(days int, interests ...string) trip.Request {
	return trip.Request{
		Destination: "Lisbon",
		StartDate:   "2026-09-12",
		Days:        days,
		Interests:   interests,
		Budget:      trip.BudgetMedium,
		Travelers:   2,
	}
}

func TestAssembleDayCountAndDates(t *testing.T) {
	for _, days := range []int{1, 2, 3, 7, 14} {
		t.Run(fmt.Sprintf("%d_days", days), func(t *testing.T) {
			got := newAssembler(nil).Assemble(context.Background(), request(days), fullPools())

			if len(got) != days {
				t.Fatalf("len(days) = %d, want %d", len(got), days)
			}
			start, _ := time.Parse(trip.DateLayout, "2026-09-12")
			for i, d := range got {
				if d.Day != i+1 {
					t.Errorf("day %d has index %d", i, d.Day)
				}
				want := start.AddDate(0, 0, i).Format(trip.DateLayout)
				if d.Date != want {
					t.Errorf("day %d date = %s, want %s", d.Day, d.Date, want)
				}
			}
		})
	}
}

func TestAssembleDistinctAttractionSlots(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(), request(5), fullPools())

	for _, d := range got {
		var ids []string
		for _, a := range d.Activities {
			if a.Type == trip.ActivitySightseeing || a.Type == trip.ActivityEntertainment {
				ids = append(ids, a.Location)
			}
		}
		if len(ids) != 3 {
			t.Fatalf("day %d has %d attraction slots, want 3", d.Day, len(ids))
		}
		if ids[0] == ids[1] || ids[0] == ids[2] || ids[1] == ids[2] {
			t.Errorf("day %d attraction slots collide: %v", d.Day, ids)
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	a := newAssembler(nil)
	req := request(4, "culture")

	first, err := json.Marshal(a.Assemble(context.Background(), req, fullPools()))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(a.Assemble(context.Background(), req, fullPools()))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("identical inputs produced different output")
	}
}

func TestAssembleEmptyPoolsUsePlaceholders(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(),
		trip.Request{Destination: "Paris", StartDate: "2026-09-12", Days: 3}, trip.Pools{})

	if len(got) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(got))
	}
	for _, d := range got {
		var sightseeing, meal bool
		for _, a := range d.Activities {
			if a.Type == trip.ActivitySightseeing && a.Location == "Paris City Center" {
				sightseeing = true
			}
			if a.Type == trip.ActivityMeal && a.Location == "Local Restaurant" {
				meal = true
			}
		}
		if !sightseeing {
			t.Errorf("day %d has no Paris City Center sightseeing", d.Day)
		}
		if !meal {
			t.Errorf("day %d has no Local Restaurant meal", d.Day)
		}
	}
}

func TestAssembleSingleDayHasCheckInAndOut(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(), request(1), fullPools())

	if len(got) != 1 {
		t.Fatalf("len(days) = %d, want 1", len(got))
	}
	var checkIn, checkOut bool
	for _, a := range got[0].Activities {
		if a.Type != trip.ActivityHotel {
			continue
		}
		if strings.HasPrefix(a.Title, "Check in") {
			checkIn = true
		}
		if strings.HasPrefix(a.Title, "Check out") {
			checkOut = true
		}
	}
	if !checkIn || !checkOut {
		t.Errorf("single day needs both check-in and check-out, got in=%v out=%v", checkIn, checkOut)
	}
	if got[0].Title != "Day 1: Arrival & Departure" {
		t.Errorf("title = %q", got[0].Title)
	}
}

func TestAssembleArrivalDaySkipsBreakfast(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(), request(3), fullPools())

	for _, a := range got[0].Activities {
		if strings.HasPrefix(a.Title, "Breakfast") {
			t.Error("arrival day should not have breakfast")
		}
	}
	var found bool
	for _, a := range got[1].Activities {
		if strings.HasPrefix(a.Title, "Breakfast") {
			found = true
		}
	}
	if !found {
		t.Error("middle day should have breakfast")
	}
}

func TestAssembleDayTitles(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(), request(3), fullPools())

	if got[0].Title != "Day 1: Arrival & Exploration" {
		t.Errorf("arrival title = %q", got[0].Title)
	}
	if got[1].Title != "Day 2: Discovering Lisbon" {
		t.Errorf("middle title = %q", got[1].Title)
	}
	if got[2].Title != "Day 3: Farewell & Departure" {
		t.Errorf("last title = %q", got[2].Title)
	}
}

func TestAssembleEnrichmentSplice(t *testing.T) {
	suggest := suggestFunc(func(_ context.Context, req provider.SuggestionRequest) ([]trip.Activity, error) {
		if req.Slot != "morning" {
			return nil, nil
		}
		return []trip.Activity{
			{Title: "Street Art Walk", Type: trip.ActivityGeneric},
			{Title: "Cooking Class", Type: trip.ActivityGeneric},
			{Title: "Third One Too Many", Type: trip.ActivityGeneric},
		}, nil
	})

	got := newAssembler(suggest).Assemble(context.Background(), request(2, "culture"), fullPools())

	// Day 0 never enriches.
	for _, a := range got[0].Activities {
		if a.Title == "Street Art Walk" {
			t.Error("arrival day must not be enriched")
		}
	}

	var spliced int
	var morningSightseeing bool
	for _, a := range got[1].Activities {
		if a.Title == "Street Art Walk" || a.Title == "Cooking Class" {
			spliced++
		}
		if a.Title == "Third One Too Many" {
			t.Error("enrichment must be capped at two activities")
		}
		if a.Type == trip.ActivitySightseeing && a.Time == "9:00 AM" {
			morningSightseeing = true
		}
	}
	if spliced != 2 {
		t.Errorf("spliced = %d, want 2", spliced)
	}
	if morningSightseeing {
		t.Error("morning sightseeing slot should have been replaced")
	}
}

func TestAssembleEnrichmentMultipleSlots(t *testing.T) {
	suggest := suggestFunc(func(_ context.Context, req provider.SuggestionRequest) ([]trip.Activity, error) {
		switch req.Slot {
		case "morning":
			return []trip.Activity{{Title: "Tile Workshop", Type: trip.ActivityGeneric}}, nil
		case "afternoon":
			return []trip.Activity{{Title: "River Cruise", Type: trip.ActivityGeneric}}, nil
		case "evening":
			return []trip.Activity{{Title: "Fado Night", Type: trip.ActivityGeneric}}, nil
		}
		return nil, nil
	})

	got := newAssembler(suggest).Assemble(context.Background(), request(2, "culture"), fullPools())

	byTitle := map[string]trip.Activity{}
	for _, a := range got[1].Activities {
		byTitle[a.Title] = a
	}
	want := map[string]string{
		"Tile Workshop": "9:00 AM",
		"River Cruise":  "1:00 PM",
		"Fado Night":    "7:30 PM",
	}
	for title, at := range want {
		a, ok := byTitle[title]
		if !ok {
			t.Errorf("generated activity %q missing", title)
			continue
		}
		if a.Time != at {
			t.Errorf("%q time = %s, want %s", title, a.Time, at)
		}
	}
	for _, backbone := range []string{"Visit Attraction 3", "Visit Attraction 4", "Evening at Attraction 5"} {
		if _, ok := byTitle[backbone]; ok {
			t.Errorf("backbone entry %q should have been replaced", backbone)
		}
	}
}

func TestAssembleEnrichmentSlotTimesStable(t *testing.T) {
	suggest := suggestFunc(func(_ context.Context, req provider.SuggestionRequest) ([]trip.Activity, error) {
		switch req.Slot {
		case "morning":
			return []trip.Activity{
				{Title: "Castle Walk", Type: trip.ActivitySightseeing},
				{Title: "Old Town Stroll", Type: trip.ActivitySightseeing},
			}, nil
		case "afternoon":
			return []trip.Activity{{Title: "Gallery Visit", Type: trip.ActivitySightseeing}}, nil
		}
		return nil, nil
	})

	got := newAssembler(suggest).Assemble(context.Background(), request(2, "art"), fullPools())

	byTitle := map[string]trip.Activity{}
	for _, a := range got[1].Activities {
		byTitle[a.Title] = a
	}
	for _, title := range []string{"Castle Walk", "Old Town Stroll"} {
		a, ok := byTitle[title]
		if !ok {
			t.Fatalf("morning activity %q missing", title)
		}
		if a.Time != "9:00 AM" {
			t.Errorf("%q time = %s, want 9:00 AM", title, a.Time)
		}
	}
	a, ok := byTitle["Gallery Visit"]
	if !ok {
		t.Fatal("afternoon activity missing")
	}
	if a.Time != "1:00 PM" {
		t.Errorf("Gallery Visit time = %s, want 1:00 PM", a.Time)
	}
	if _, ok := byTitle["Visit Attraction 4"]; ok {
		t.Error("afternoon backbone entry should have been replaced")
	}
}

func TestAssembleEnrichmentFailureKeepsBackbone(t *testing.T) {
	failing := suggestFunc(func(context.Context, provider.SuggestionRequest) ([]trip.Activity, error) {
		return nil, errors.New("generator down")
	})

	plain := newAssembler(nil).Assemble(context.Background(), request(3, "food"), fullPools())
	enriched := newAssembler(failing).Assemble(context.Background(), request(3, "food"), fullPools())

	a, _ := json.Marshal(plain)
	b, _ := json.Marshal(enriched)
	if string(a) != string(b) {
		t.Error("failed enrichment must leave the deterministic backbone unchanged")
	}
}

func TestAssembleNoEnrichmentWithoutInterests(t *testing.T) {
	called := false
	suggest := suggestFunc(func(context.Context, provider.SuggestionRequest) ([]trip.Activity, error) {
		called = true
		return nil, nil
	})

	newAssembler(suggest).Assemble(context.Background(), request(3), fullPools())
	if called {
		t.Error("enrichment must not run without interests")
	}
}

func TestAssembleSuggestionsAreUnused(t *testing.T) {
	got := newAssembler(nil).Assemble(context.Background(), request(2), fullPools())

	for _, d := range got {
		if len(d.Suggestions) > 4 {
			t.Errorf("day %d has %d suggestions, want at most 4", d.Day, len(d.Suggestions))
		}
		scheduled := map[string]bool{}
		for _, a := range d.Activities {
			scheduled[a.Location] = true
		}
		for _, sug := range d.Suggestions {
			if scheduled[sug.Location] {
				t.Errorf("day %d suggestion %q is already scheduled", d.Day, sug.Location)
			}
			if sug.Status != "suggested" {
				t.Errorf("suggestion status = %q", sug.Status)
			}
		}
	}
}

func TestAssembleSinglePlacePoolRepeats(t *testing.T) {
	pools := trip.Pools{
		Attractions: places("attraction", 1),
		Restaurants: places("restaurant", 1),
		Hotels:      places("hotel", 1),
	}
	got := newAssembler(nil).Assemble(context.Background(), request(3), pools)

	for _, d := range got {
		for _, a := range d.Activities {
			if a.Type == trip.ActivitySightseeing && a.Location != "Attraction 0" {
				t.Errorf("day %d unexpected attraction %q", d.Day, a.Location)
			}
		}
	}
}
