package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"weather-aggregator-api/internal/geo"
)

// maxForecastDays is how far ahead the daily forecast may start.
const maxForecastDays = 7

// trendingCities is the fallback list of cities for the trending endpoint.
var trendingCities = []string{"Chicago", "London", "Tokyo", "Sydney", "Paris"}

// SearchLogger records resolved location queries for preference ranking.
type SearchLogger interface {
	LogSearch(ctx context.Context, userID, location string) error
}

// Service orchestrates location resolution and provider calls into the
// normalized result shapes.
type Service struct {
	resolver geo.Resolver
	provider Provider
	detailed DetailedProvider
	searches SearchLogger
}

// NewService creates a Service. detailed and searches may be nil; the
// operations depending on them degrade to "not available" / no-op.
func NewService(resolver geo.Resolver, provider Provider, detailed DetailedProvider, searches SearchLogger) *Service {
	return &Service{
		resolver: resolver,
		provider: provider,
		detailed: detailed,
		searches: searches,
	}
}

// Current resolves the location and fetches the current reading. When userID
// is set the query is logged for preference ranking; logging failures never
// fail the request.
func (s *Service) Current(ctx context.Context, location, userID string) (CurrentWeather, error) {
	if userID != "" && s.searches != nil {
		if err := s.searches.LogSearch(ctx, userID, location); err != nil {
			log.Printf("weather: failed to log search for user %s: %v", userID, err)
		}
	}

	place, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return CurrentWeather{}, err
	}

	reading, err := s.provider.Current(ctx, place.Lat, place.Lon)
	if err != nil {
		log.Printf("weather: current fetch failed for %q: %v", location, err)
		return CurrentWeather{}, ErrUnavailable
	}

	return CurrentWeather{
		Geocode: geocodeDetails(place),
		Current: reading,
	}, nil
}

// Forecast returns a daily forecast starting at startDate (ISO date, today
// when empty) spanning seven days.
func (s *Service) Forecast(ctx context.Context, location, startDate string) (ForecastResult, error) {
	start := time.Now()
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return ForecastResult{}, fmt.Errorf("invalid start_date format, use YYYY-MM-DD")
		}
		start = parsed
	}
	end := start.AddDate(0, 0, 6)

	place, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return ForecastResult{}, err
	}

	series, err := s.provider.Daily(ctx, place.Lat, place.Lon, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		log.Printf("weather: forecast fetch failed for %q: %v", location, err)
		return ForecastResult{}, ErrUnavailable
	}

	days := make([]ForecastDay, 0, len(series.Dates))
	for i, date := range series.Dates {
		day := ForecastDay{Date: date, Weather: "Unknown"}
		if v := seriesAt(series.TempMax, i); v != nil {
			day.MaxTemp = fmt.Sprintf("%v°C", *v)
		}
		if v := seriesAt(series.TempMin, i); v != nil {
			day.MinTemp = fmt.Sprintf("%v°C", *v)
		}
		if v := seriesAt(series.PrecipSum, i); v != nil {
			day.Precipitation = fmt.Sprintf("%v mm", *v)
		}
		if i < len(series.Codes) && series.Codes[i] != nil {
			day.Weather = DescribeWeatherCode(*series.Codes[i])
		}
		days = append(days, day)
	}

	return ForecastResult{
		Geocode:  geocodeDetails(place),
		Forecast: days,
	}, nil
}

// ForecastWithDate validates the start date before forecasting: it must be
// an ISO date no more than seven days in the future.
func (s *Service) ForecastWithDate(ctx context.Context, location, startDate string) (ForecastResult, error) {
	parsed, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return ForecastResult{}, fmt.Errorf("invalid start_date format, use YYYY-MM-DD")
	}
	if parsed.After(time.Now().AddDate(0, 0, maxForecastDays)) {
		return ForecastResult{}, fmt.Errorf("start_date is too far in the future, choose a date within the next %d days", maxForecastDays)
	}
	return s.Forecast(ctx, location, startDate)
}

// Historical returns the archived weather for a single ISO date.
func (s *Service) Historical(ctx context.Context, location, date string) (HistoricalResult, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return HistoricalResult{}, fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}

	place, err := s.resolver.Resolve(ctx, location)
	if err != nil {
		return HistoricalResult{}, err
	}

	series, err := s.provider.Archive(ctx, place.Lat, place.Lon, date, date)
	if err != nil {
		log.Printf("weather: archive fetch failed for %q: %v", location, err)
		return HistoricalResult{}, ErrUnavailable
	}
	if len(series.Dates) == 0 {
		return HistoricalResult{}, ErrUnavailable
	}

	tempUnit := strings.TrimSpace(series.Units["temperature_2m_max"])
	precipUnit := strings.TrimSpace(series.Units["precipitation_sum"])

	days := make([]HistoricalDay, 0, len(series.Dates))
	for i, d := range series.Dates {
		day := HistoricalDay{Date: d}
		if v := seriesAt(series.TempMax, i); v != nil {
			day.MaxTemp = strings.TrimSpace(fmt.Sprintf("%v %s", *v, tempUnit))
		}
		if v := seriesAt(series.TempMin, i); v != nil {
			day.MinTemp = strings.TrimSpace(fmt.Sprintf("%v %s", *v, tempUnit))
		}
		if v := seriesAt(series.PrecipSum, i); v != nil {
			day.Precipitation = strings.TrimSpace(fmt.Sprintf("%v %s", *v, precipUnit))
		}
		days = append(days, day)
	}

	return HistoricalResult{
		Geocode:    geocodeDetails(place),
		Historical: days,
	}, nil
}

// Climate averages the last 30 days of archive data for a region.
func (s *Service) Climate(ctx context.Context, region string) (ClimateResult, error) {
	place, err := s.resolver.Resolve(ctx, region)
	if err != nil {
		return ClimateResult{}, err
	}

	end := time.Now().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -29)

	series, err := s.provider.Archive(ctx, place.Lat, place.Lon, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		log.Printf("weather: climate fetch failed for %q: %v", region, err)
		return ClimateResult{}, ErrUnavailable
	}

	avgMax, okMax := average(series.TempMax)
	avgMin, okMin := average(series.TempMin)
	avgPrecip, okPrecip := average(series.PrecipSum)
	if !okMax || !okMin || !okPrecip {
		return ClimateResult{}, ErrUnavailable
	}

	return ClimateResult{
		Geocode: geocodeDetails(place),
		Climate: ClimateSummary{
			AverageMaxTemp:       fmt.Sprintf("%.1f°C", avgMax),
			AverageMinTemp:       fmt.Sprintf("%.1f°C", avgMin),
			AveragePrecipitation: fmt.Sprintf("%.1f mm", avgPrecip),
		},
	}, nil
}

// Seasonal compares the current temperature with the average of the same
// calendar day one year earlier.
func (s *Service) Seasonal(ctx context.Context, region string) (SeasonalResult, error) {
	place, err := s.resolver.Resolve(ctx, region)
	if err != nil {
		return SeasonalResult{}, err
	}

	reading, err := s.provider.Current(ctx, place.Lat, place.Lon)
	if err != nil {
		log.Printf("weather: current fetch failed for %q: %v", region, err)
		return SeasonalResult{}, ErrUnavailable
	}
	if reading.TemperatureC == nil {
		return SeasonalResult{}, ErrUnavailable
	}
	currentTemp := *reading.TemperatureC

	lastYear := time.Now().AddDate(0, 0, -365).Format("2006-01-02")
	series, err := s.provider.Archive(ctx, place.Lat, place.Lon, lastYear, lastYear)
	if err != nil {
		log.Printf("weather: archive fetch failed for %q: %v", region, err)
		return SeasonalResult{}, ErrUnavailable
	}

	histMax := seriesAt(series.TempMax, 0)
	histMin := seriesAt(series.TempMin, 0)
	if histMax == nil || histMin == nil {
		return SeasonalResult{}, ErrUnavailable
	}
	histAvg := (*histMax + *histMin) / 2

	return SeasonalResult{
		Geocode: geocodeDetails(place),
		Seasonal: SeasonalSummary{
			CurrentTemperature: fmt.Sprintf("%v°C", currentTemp),
			HistoricalAverage:  fmt.Sprintf("%.1f°C", histAvg),
			TemperatureChange:  fmt.Sprintf("%.1f°C", currentTemp-histAvg),
		},
	}, nil
}

// Compare fetches current weather for each location concurrently. Failures
// are reported inline per location rather than failing the whole set.
func (s *Service) Compare(ctx context.Context, locations []string) map[string]ComparisonEntry {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]ComparisonEntry, len(locations))
	)

	for _, loc := range locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			entry := ComparisonEntry{}
			cw, err := s.Current(ctx, loc, "")
			if err != nil {
				entry.Error = comparisonError(loc, err)
			} else {
				entry.Geocode = &cw.Geocode
				entry.Current = &cw.Current
			}

			mu.Lock()
			results[loc] = entry
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// Trending returns current weather for the trending city list.
func (s *Service) Trending(ctx context.Context) map[string]ComparisonEntry {
	return s.Compare(ctx, trendingCities)
}

// Detailed returns the secondary provider's hourly forecast.
func (s *Service) Detailed(ctx context.Context, location string) (DetailedForecast, error) {
	if s.detailed == nil {
		return DetailedForecast{}, ErrUnavailable
	}
	forecast, err := s.detailed.Detailed(ctx, location)
	if err != nil {
		log.Printf("weather: detailed fetch failed for %q: %v", location, err)
		return DetailedForecast{}, ErrUnavailable
	}
	return forecast, nil
}

// Confidence scores how closely the 7-day forecast tracks the current
// temperature: 100 minus five points per degree of divergence, floored at 0.
func (s *Service) Confidence(ctx context.Context, location string) (ConfidenceResult, error) {
	current, err := s.Current(ctx, location, "")
	if err != nil {
		return ConfidenceResult{}, err
	}
	if current.Current.TemperatureC == nil {
		return ConfidenceResult{}, ErrUnavailable
	}

	forecast, err := s.Forecast(ctx, location, "")
	if err != nil {
		return ConfidenceResult{}, err
	}

	var sum float64
	var n int
	for _, day := range forecast.Forecast {
		var v float64
		if _, err := fmt.Sscanf(day.MaxTemp, "%f°C", &v); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return ConfidenceResult{}, ErrUnavailable
	}

	diff := math.Abs(*current.Current.TemperatureC - sum/float64(n))
	confidence := math.Max(0, 100-diff*5)

	return ConfidenceResult{
		Geocode:    current.Geocode,
		Location:   location,
		Confidence: fmt.Sprintf("%.0f%%", confidence),
	}, nil
}

// Recommendation maps the current temperature at a location to a clothing
// recommendation.
func (s *Service) Recommendation(ctx context.Context, location string) (RecommendationResult, error) {
	cw, err := s.Current(ctx, location, "")
	if err != nil {
		return RecommendationResult{}, err
	}
	if cw.Current.TemperatureC == nil {
		return RecommendationResult{}, ErrUnavailable
	}
	return RecommendationResult{
		Location:       location,
		Recommendation: RecommendationFor(*cw.Current.TemperatureC),
	}, nil
}

// Activities maps the current temperature at a location to suggested
// activities.
func (s *Service) Activities(ctx context.Context, location string) (ActivitiesResult, error) {
	cw, err := s.Current(ctx, location, "")
	if err != nil {
		return ActivitiesResult{}, err
	}
	if cw.Current.TemperatureC == nil {
		return ActivitiesResult{}, ErrUnavailable
	}
	return ActivitiesResult{
		Location:   location,
		Activities: SuggestedActivities(*cw.Current.TemperatureC),
	}, nil
}

// SplitLocations parses a comma-separated location list, dropping blanks.
func SplitLocations(value string) []string {
	parts := strings.Split(value, ",")
	locations := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			locations = append(locations, trimmed)
		}
	}
	return locations
}

func geocodeDetails(place geo.Place) GeocodeDetails {
	details := GeocodeDetails{
		Name:    place.Name,
		Region:  place.Region,
		Country: place.Country,
	}
	if details.Name == "" {
		details.Name = "Unknown"
	}
	if details.Region == "" {
		details.Region = "Unknown"
	}
	if details.Country == "" {
		details.Country = "Unknown"
	}
	return details
}

func comparisonError(location string, err error) string {
	if errors.Is(err, geo.ErrNotFound) {
		return fmt.Sprintf("could not geocode location %q", location)
	}
	return err.Error()
}

func seriesAt(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func average(values []*float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
