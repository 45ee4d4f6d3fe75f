package alerts

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// PrecipitationCategory is the classified precipitation level of a weather
// description.
type PrecipitationCategory string

const (
	PrecipNoRain   PrecipitationCategory = "no rain"
	PrecipLight    PrecipitationCategory = "light"
	PrecipModerate PrecipitationCategory = "moderate"
	PrecipHeavy    PrecipitationCategory = "heavy"
	PrecipUnknown  PrecipitationCategory = "unknown"
)

// NormalKindDescriptions is the fixed catalog of normal alert kinds.
var NormalKindDescriptions = map[int]string{
	1: "Extreme heat warning (Temperature > 35°C)",
	2: "High temperature warning (Temperature > 30°C)",
	3: "Low temperature warning (Temperature < 5°C)",
	4: "Extreme low temperature warning (Temperature < 15°C)",
	5: "Strong winds warning (Wind speed > 40 km/h)",
	6: "Extreme winds warning (Wind speed > 60 km/h)",
	7: "Rain and possible thunderstorms warning (moderate rain)",
	8: "Heavy rain and thunderstorms warning (heavy rain)",
}

// precipBuckets lists the classifier's keyword buckets in the priority
// order they are checked; the first bucket containing a matching keyword
// wins.
var precipBuckets = []struct {
	category PrecipitationCategory
	keywords []string
}{
	{PrecipNoRain, []string{
		"clear sky", "mainly clear", "partly cloudy", "overcast", "fog", "depositing rime fog",
	}},
	{PrecipLight, []string{
		"light drizzle", "light freezing drizzle", "slight rain",
		"slight rain showers", "slight snow fall", "slight snow showers", "snow grains",
	}},
	{PrecipModerate, []string{
		"moderate drizzle", "moderate rain", "moderate rain showers",
		"moderate snow fall", "moderate snow showers", "slight or moderate thunderstorm",
		"thunderstorm with slight hail",
	}},
	{PrecipHeavy, []string{
		"dense drizzle", "dense freezing drizzle", "heavy rain",
		"heavy freezing rain", "heavy snow fall", "heavy rain showers",
		"heavy snow showers", "thunderstorm with heavy hail",
	}},
}

// precipSynonyms maps accepted custom-alert threshold values to categories.
var precipSynonyms = map[string]PrecipitationCategory{
	"no rain":  PrecipNoRain,
	"clear":    PrecipNoRain,
	"cloud":    PrecipNoRain,
	"clouds":   PrecipNoRain,
	"cloudy":   PrecipNoRain,
	"sunny":    PrecipNoRain,
	"light":    PrecipLight,
	"moderate": PrecipModerate,
	"heavy":    PrecipHeavy,
}

// ClassifyPrecipitation maps a free-text weather description to a
// precipitation category. Buckets are checked in fixed order and the first
// substring match wins; descriptions matching no keyword are unknown.
func ClassifyPrecipitation(description string) PrecipitationCategory {
	desc := strings.ToLower(description)
	for _, bucket := range precipBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(desc, keyword) {
				return bucket.category
			}
		}
	}
	return PrecipUnknown
}

// ValidKind reports whether kind is in the fixed normal-alert catalog.
func ValidKind(kind int) bool {
	_, ok := NormalKindDescriptions[kind]
	return ok
}

// KindCatalogString lists the catalog for error messages, ordered by kind.
func KindCatalogString() string {
	kinds := make([]int, 0, len(NormalKindDescriptions))
	for k := range NormalKindDescriptions {
		kinds = append(kinds, k)
	}
	sort.Ints(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d: %s", k, NormalKindDescriptions[k]))
	}
	return strings.Join(parts, ", ")
}

// ValidationError reports a malformed custom-alert parameter with the rule
// that was violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateCustom checks and normalizes custom-alert parameters at
// subscription-creation time. On success it returns the canonical
// (condition, operator, threshold) triple: numeric thresholds keep their
// string form, precipitation thresholds are mapped through the synonym
// table, and the operator is forced empty for precipitation.
func ValidateCustom(condition, operator, threshold string) (string, string, string, error) {
	cond := strings.ToLower(strings.TrimSpace(condition))

	switch cond {
	case CondTemperature, CondWindSpeed:
		op := strings.TrimSpace(operator)
		if op != OpGreater && op != OpLess {
			return "", "", "", &ValidationError{
				Field:  "operator",
				Reason: fmt.Sprintf("%s alerts require an operator '>' or '<'", cond),
			}
		}
		thresh := strings.TrimSpace(threshold)
		if thresh == "" {
			return "", "", "", &ValidationError{Field: "threshold", Reason: "threshold is required"}
		}
		v, err := strconv.ParseFloat(thresh, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return "", "", "", &ValidationError{Field: "threshold", Reason: "threshold must be a finite number"}
		}
		return cond, op, thresh, nil

	case CondPrecipitation:
		norm := strings.ToLower(strings.TrimSpace(threshold))
		category, ok := precipSynonyms[norm]
		if !ok {
			return "", "", "", &ValidationError{
				Field:  "threshold",
				Reason: "must be one of: no rain, clear, cloud, clouds, cloudy, sunny, light, moderate, or heavy",
			}
		}
		return cond, "", string(category), nil

	default:
		return "", "", "", &ValidationError{
			Field:  "condition",
			Reason: "must be 'temperature', 'wind_speed', or 'precipitation'",
		}
	}
}
