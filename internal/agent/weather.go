package agent

import (
	"context"
	"log/slog"

	"github.com/voyago/voyago/internal/domain/message"
	"github.com/voyago/voyago/internal/domain/trip"
	"github.com/voyago/voyago/internal/port/provider"
)

// WeatherPayload is the request payload for GET_WEATHER.
type WeatherPayload struct {
	Destination string `json:"destination"`
}

// Weather wraps the weather provider. A nil provider or any lookup failure
// yields the neutral fallback record instead of an error.
type Weather struct {
	provider provider.Weather
	log      *slog.Logger
}

// NewWeather creates the weather agent. provider may be nil when the
// upstream is not configured.
func NewWeather(p provider.Weather, log *slog.Logger) *Weather {
	return &Weather{provider: p, log: log}
}

func (a *Weather) Name() string { return "WeatherAgent" }

func (a *Weather) Capabilities() []message.Type {
	return []message.Type{message.TypeGetWeather}
}

func (a *Weather) Handle(ctx context.Context, msg message.Message) (message.Message, error) {
	if err := accept(a.Name(), a.Capabilities(), msg.Type); err != nil {
		return message.Message{}, err
	}

	var p WeatherPayload
	if err := msg.Decode(&p); err != nil {
		return message.Message{}, err
	}

	summary := fallbackWeather()
	if a.provider != nil {
		got, err := a.provider.Current(ctx, p.Destination)
		if err != nil {
			a.log.Warn("weather lookup failed, using fallback",
				"destination", p.Destination, "error", err)
		} else {
			summary = got
		}
	}

	return message.New(message.TypeGetWeather, msg.RequestID, summary), nil
}

// fallbackWeather is the neutral record substituted when the provider is
// unavailable.
func fallbackWeather() trip.WeatherSummary {
	return trip.WeatherSummary{
		TempC:       22,
		Description: "mild conditions",
		Humidity:    50,
		WindSpeed:   10,
		Fallback:    true,
	}
}
