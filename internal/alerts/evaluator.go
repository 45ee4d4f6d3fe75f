package alerts

import (
	"fmt"
	"strconv"
	"strings"

	"weather-aggregator-api/internal/weather"
)

// EvaluateNormal decides whether a normal subscription fires for a reading.
// The returned message is empty when the alert does not trigger; missing
// reading fields never trigger and never error.
func EvaluateNormal(sub NormalSubscription, reading weather.CurrentReading) (string, bool) {
	temp := reading.TemperatureC
	wind := reading.WindSpeedKph

	switch sub.AlertKind {
	case 1:
		if temp != nil && *temp > 35 {
			return fmt.Sprintf("Alert: Temperature at %s is %v°C, exceeding 35°C.", sub.Location, *temp), true
		}
	case 2:
		if temp != nil && *temp > 30 {
			return fmt.Sprintf("Alert: Temperature at %s is %v°C, exceeding 30°C.", sub.Location, *temp), true
		}
	case 3:
		if temp != nil && *temp < 5 {
			return fmt.Sprintf("Alert: Temperature at %s is %v°C, below 5°C.", sub.Location, *temp), true
		}
	case 4:
		if temp != nil && *temp < 15 {
			return fmt.Sprintf("Alert: Temperature at %s is %v°C, below 15°C.", sub.Location, *temp), true
		}
	case 5:
		if wind != nil && *wind > 40 {
			return fmt.Sprintf("Alert: Wind speed at %s is %v km/h, exceeding 40 km/h.", sub.Location, *wind), true
		}
	case 6:
		if wind != nil && *wind > 60 {
			return fmt.Sprintf("Alert: Wind speed at %s is %v km/h, exceeding 60 km/h.", sub.Location, *wind), true
		}
	case 7:
		if ClassifyPrecipitation(reading.Description) == PrecipModerate {
			return fmt.Sprintf("Alert: Precipitation at %s is moderate.", sub.Location), true
		}
	case 8:
		if ClassifyPrecipitation(reading.Description) == PrecipHeavy {
			return fmt.Sprintf("Alert: Heavy rain detected at %s.", sub.Location), true
		}
	}
	return "", false
}

// EvaluateCustom decides whether a custom subscription fires for a reading.
// Numeric comparisons are strict; precipitation requires exact category
// equality. A malformed stored threshold simply never matches.
func EvaluateCustom(sub CustomSubscription, reading weather.CurrentReading) (string, bool) {
	switch sub.Condition {
	case CondTemperature:
		thresh, err := strconv.ParseFloat(sub.Threshold, 64)
		if err != nil || reading.TemperatureC == nil {
			return "", false
		}
		temp := *reading.TemperatureC
		if sub.Operator == OpGreater && temp > thresh {
			return fmt.Sprintf("Temperature at %s is %v°C, exceeding %s°C.", sub.Location, temp, sub.Threshold), true
		}
		if sub.Operator == OpLess && temp < thresh {
			return fmt.Sprintf("Temperature at %s is %v°C, below %s°C.", sub.Location, temp, sub.Threshold), true
		}

	case CondWindSpeed:
		thresh, err := strconv.ParseFloat(sub.Threshold, 64)
		if err != nil || reading.WindSpeedKph == nil {
			return "", false
		}
		wind := *reading.WindSpeedKph
		if sub.Operator == OpGreater && wind > thresh {
			return fmt.Sprintf("Wind speed at %s is %v km/h, exceeding %s km/h.", sub.Location, wind, sub.Threshold), true
		}
		if sub.Operator == OpLess && wind < thresh {
			return fmt.Sprintf("Wind speed at %s is %v km/h, below %s km/h.", sub.Location, wind, sub.Threshold), true
		}

	case CondPrecipitation:
		current := ClassifyPrecipitation(reading.Description)
		subscribed := PrecipitationCategory(strings.ToLower(strings.TrimSpace(sub.Threshold)))
		if current == subscribed {
			return fmt.Sprintf("Precipitation at %s is '%s'.", sub.Location, current), true
		}
	}
	return "", false
}

// DescribeCustom renders a custom subscription for listings.
func DescribeCustom(sub CustomSubscription) string {
	switch sub.Condition {
	case CondTemperature:
		return fmt.Sprintf("Temperature %s %s°C", sub.Operator, sub.Threshold)
	case CondWindSpeed:
		return fmt.Sprintf("Wind speed %s %s km/h", sub.Operator, sub.Threshold)
	case CondPrecipitation:
		return fmt.Sprintf("Precipitation alert: %s", sub.Threshold)
	default:
		return "Unknown custom alert"
	}
}

// Advisories derives general severity advisories from a current reading,
// independent of any subscription.
func Advisories(location string, reading weather.CurrentReading) []string {
	var advisories []string

	if reading.TemperatureC != nil {
		switch temp := *reading.TemperatureC; {
		case temp > 35:
			advisories = append(advisories, "Extreme heat warning: temperatures exceeding 35°C.")
		case temp > 30:
			advisories = append(advisories, "High temperature alert: please take precautions in high heat.")
		}
	}

	if reading.WindSpeedKph != nil {
		switch wind := *reading.WindSpeedKph; {
		case wind > 60:
			advisories = append(advisories, "Severe wind warning: strong gusts detected.")
		case wind > 40:
			advisories = append(advisories, "Strong winds expected. Secure loose items outdoors.")
		}
	}

	desc := strings.ToLower(reading.Description)
	if strings.Contains(desc, "thunderstorm") || strings.Contains(desc, "rain") {
		if strings.Contains(desc, "heavy") {
			advisories = append(advisories, "Heavy rain and thunderstorms expected.")
		} else {
			advisories = append(advisories, "Rain and possible thunderstorms detected.")
		}
	}

	if len(advisories) == 0 {
		advisories = append(advisories, "No severe alerts detected. Conditions are stable.")
	}
	return advisories
}
