package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"weather-aggregator-api/internal/httpx"
	"weather-aggregator-api/internal/weather"
)

// WeatherAPIProvider implements weather.DetailedProvider against
// WeatherAPI.com's forecast endpoint, which does its own location lookup.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg httpx.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff,
		},
		circuit: httpx.NewBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Detailed fetches a 3-day hourly forecast trimmed to the next 24 entries.
func (p *WeatherAPIProvider) Detailed(ctx context.Context, location string) (weather.DetailedForecast, error) {
	if p.apiKey == "" {
		return weather.DetailedForecast{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", location)
		values.Set("days", "3")
		values.Set("aqi", "no")
		values.Set("alerts", "no")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.DetailedForecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Location map[string]interface{} `json:"location"`
		Forecast struct {
			ForecastDay []struct {
				Hour []struct {
					Time         string  `json:"time"`
					TempC        float64 `json:"temp_c"`
					WindKph      float64 `json:"wind_kph"`
					WindDir      string  `json:"wind_dir"`
					Humidity     float64 `json:"humidity"`
					ChanceOfRain float64 `json:"chance_of_rain"`
					Condition    struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.DetailedForecast{}, err
	}

	delete(payload.Location, "localtime_epoch")

	var hourly []weather.HourlyEntry
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			if len(hourly) >= 24 {
				break
			}
			hourly = append(hourly, weather.HourlyEntry{
				Time:         h.Time,
				TempC:        h.TempC,
				Condition:    h.Condition.Text,
				WindKph:      h.WindKph,
				WindDir:      h.WindDir,
				Humidity:     h.Humidity,
				ChanceOfRain: h.ChanceOfRain,
			})
		}
	}

	return weather.DetailedForecast{
		Location: payload.Location,
		Hourly:   hourly,
	}, nil
}
