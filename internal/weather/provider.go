package weather

import "context"

// DailySeries is a raw daily data block as reported by the provider.
// Slices are index-aligned with Dates; entries are nil when the provider
// reports no value for that day.
type DailySeries struct {
	Dates     []string
	TempMax   []*float64
	TempMin   []*float64
	PrecipSum []*float64
	Codes     []*int

	// Units maps series name to its unit string, e.g. "temperature_2m_max" -> "°C".
	Units map[string]string
}

// Provider abstracts the primary weather data source for current readings,
// daily forecasts, and the historical archive. Dates are ISO (YYYY-MM-DD).
type Provider interface {
	Name() string
	Current(ctx context.Context, lat, lon float64) (CurrentReading, error)
	Daily(ctx context.Context, lat, lon float64, startDate, endDate string) (DailySeries, error)
	Archive(ctx context.Context, lat, lon float64, startDate, endDate string) (DailySeries, error)
}

// HourlyEntry is one hour of a detailed forecast.
type HourlyEntry struct {
	Time         string  `json:"time"`
	TempC        float64 `json:"temp_c"`
	Condition    string  `json:"condition"`
	WindKph      float64 `json:"wind_kph"`
	WindDir      string  `json:"wind_dir"`
	Humidity     float64 `json:"humidity"`
	ChanceOfRain float64 `json:"chance_of_rain"`
}

// DetailedForecast is an hourly forecast from a secondary provider that does
// its own location lookup.
type DetailedForecast struct {
	Location map[string]interface{} `json:"location"`
	Hourly   []HourlyEntry          `json:"hourly"`
}

// DetailedProvider abstracts the secondary hourly-forecast source.
type DetailedProvider interface {
	Name() string
	Detailed(ctx context.Context, location string) (DetailedForecast, error)
}
