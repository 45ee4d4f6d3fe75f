package weather

import "errors"

// ErrUnavailable is returned when no provider data could be obtained.
// Transport details are logged at the adapter boundary; callers only see
// this sentinel.
var ErrUnavailable = errors.New("weather data not available")

// CurrentReading is the normalized current-conditions view every evaluator
// and recommendation operates on. Pointer fields are nil when the provider
// did not report the value.
type CurrentReading struct {
	TemperatureC  *float64 `json:"temperature_celsius"`
	WindSpeedKph  *float64 `json:"wind_speed_kph"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	IsDay         bool     `json:"is_day"`
	Description   string   `json:"weather_description"`
}

// GeocodeDetails is the display portion of a resolved place.
type GeocodeDetails struct {
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// CurrentWeather pairs a reading with the place it was resolved to.
type CurrentWeather struct {
	Geocode GeocodeDetails `json:"geocode"`
	Current CurrentReading `json:"current_weather"`
}

// ForecastDay is one day of a formatted daily forecast.
type ForecastDay struct {
	Date          string `json:"date"`
	MaxTemp       string `json:"max_temp"`
	MinTemp       string `json:"min_temp"`
	Precipitation string `json:"precipitation"`
	Weather       string `json:"weather"`
}

// ForecastResult is a multi-day forecast for a resolved place.
type ForecastResult struct {
	Geocode  GeocodeDetails `json:"geocode"`
	Forecast []ForecastDay  `json:"forecast"`
}

// HistoricalDay is one day of archived weather.
type HistoricalDay struct {
	Date          string `json:"date"`
	MaxTemp       string `json:"max_temp"`
	MinTemp       string `json:"min_temp"`
	Precipitation string `json:"precipitation"`
}

// HistoricalResult is an archive summary for a resolved place.
type HistoricalResult struct {
	Geocode    GeocodeDetails  `json:"geocode"`
	Historical []HistoricalDay `json:"historical_weather"`
}

// ClimateSummary holds 30-day archive averages.
type ClimateSummary struct {
	AverageMaxTemp       string `json:"average_max_temp"`
	AverageMinTemp       string `json:"average_min_temp"`
	AveragePrecipitation string `json:"average_precipitation"`
}

// ClimateResult is the climate summary for a resolved region.
type ClimateResult struct {
	Geocode GeocodeDetails `json:"geocode"`
	Climate ClimateSummary `json:"climate_summary"`
}

// SeasonalSummary compares the current temperature against the same day one
// year earlier.
type SeasonalSummary struct {
	CurrentTemperature string `json:"current_temperature"`
	HistoricalAverage  string `json:"historical_average"`
	TemperatureChange  string `json:"temperature_change"`
}

// SeasonalResult is the year-over-year comparison for a resolved region.
type SeasonalResult struct {
	Geocode  GeocodeDetails  `json:"geocode"`
	Seasonal SeasonalSummary `json:"seasonal_changes"`
}

// ComparisonEntry is one location's slot in a multi-location comparison.
// Either the weather fields or Error is populated, never both.
type ComparisonEntry struct {
	Geocode *GeocodeDetails `json:"geocode,omitempty"`
	Current *CurrentReading `json:"current_weather,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ConfidenceResult reports how closely the forecast tracks the current
// observation, as a percentage.
type ConfidenceResult struct {
	Geocode    GeocodeDetails `json:"geocode"`
	Location   string         `json:"location"`
	Confidence string         `json:"confidence"`
}

// RecommendationResult is a clothing/behaviour recommendation.
type RecommendationResult struct {
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

// ActivitiesResult lists suggested activities for the current conditions.
type ActivitiesResult struct {
	Location   string   `json:"location"`
	Activities []string `json:"suggested_activities"`
}
