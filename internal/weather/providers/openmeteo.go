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

// OpenMeteoProvider implements weather.Provider against the Open-Meteo
// forecast and archive APIs. No API key is required.
type OpenMeteoProvider struct {
	name       string
	baseURL    string
	archiveURL string
	httpCfg    httpx.ClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		archiveURL: "https://archive-api.open-meteo.com/v1/archive",
		httpCfg: httpx.ClientConfig{
			Client:  client,
			Backoff: httpx.DefaultBackoff,
		},
		circuit: httpx.NewBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, lat, lon float64) (weather.CurrentReading, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.CurrentReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature   *float64 `json:"temperature"`
			WindSpeed     *float64 `json:"windspeed"`
			WindDirection *float64 `json:"winddirection"`
			IsDay         int      `json:"is_day"`
			WeatherCode   *int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentReading{}, err
	}

	cw := payload.CurrentWeather
	description := "Unknown"
	if cw.WeatherCode != nil {
		description = weather.DescribeWeatherCode(*cw.WeatherCode)
	}

	// Open-Meteo reports wind speed in km/h by default, which is the
	// canonical unit here.
	return weather.CurrentReading{
		TemperatureC:  cw.Temperature,
		WindSpeedKph:  cw.WindSpeed,
		WindDirection: cw.WindDirection,
		IsDay:         cw.IsDay == 1,
		Description:   description,
	}, nil
}

func (p *OpenMeteoProvider) Daily(ctx context.Context, lat, lon float64, startDate, endDate string) (weather.DailySeries, error) {
	return p.fetchDaily(ctx, p.baseURL, lat, lon, startDate, endDate, "temperature_2m_max,temperature_2m_min,precipitation_sum,weathercode")
}

func (p *OpenMeteoProvider) Archive(ctx context.Context, lat, lon float64, startDate, endDate string) (weather.DailySeries, error) {
	return p.fetchDaily(ctx, p.archiveURL, lat, lon, startDate, endDate, "temperature_2m_max,temperature_2m_min,precipitation_sum")
}

func (p *OpenMeteoProvider) fetchDaily(ctx context.Context, baseURL string, lat, lon float64, startDate, endDate, series string) (weather.DailySeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("daily", series)
		values.Set("start_date", startDate)
		values.Set("end_date", endDate)
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := httpx.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.DailySeries{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time        []string   `json:"time"`
			TempMax     []*float64 `json:"temperature_2m_max"`
			TempMin     []*float64 `json:"temperature_2m_min"`
			PrecipSum   []*float64 `json:"precipitation_sum"`
			WeatherCode []*int     `json:"weathercode"`
		} `json:"daily"`
		DailyUnits map[string]string `json:"daily_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.DailySeries{}, err
	}

	return weather.DailySeries{
		Dates:     payload.Daily.Time,
		TempMax:   payload.Daily.TempMax,
		TempMin:   payload.Daily.TempMin,
		PrecipSum: payload.Daily.PrecipSum,
		Codes:     payload.Daily.WeatherCode,
		Units:     payload.DailyUnits,
	}, nil
}
