package weather

// RecommendationFor maps a current temperature to a clothing and behaviour
// recommendation. Bands are checked hottest first.
func RecommendationFor(tempC float64) string {
	switch {
	case tempC > 35:
		return "It's extremely hot. Opt for very light clothing, stay hydrated, and avoid prolonged outdoor activities."
	case tempC > 30:
		return "It's very hot. Wear shorts and a tank top, and consider cooling activities like swimming."
	case tempC > 25:
		return "It's hot. Choose light clothing and consider outdoor activities such as a picnic or beach visit."
	case tempC > 20:
		return "It's warm. A light jacket or layers might be comfortable. Enjoy a walk in the park."
	case tempC > 15:
		return "The weather is moderate. Dress comfortably and enjoy outdoor leisure."
	case tempC > 10:
		return "It's a bit cool. Consider a sweater and perhaps indoor activities or a quiet stroll."
	case tempC > 5:
		return "It's chilly. Dress warmly with layers and consider indoor activities."
	default:
		return "It's extremely cold. Wear heavy clothing and, if possible, stay indoors and keep warm."
	}
}

// SuggestedActivities maps a current temperature to activity suggestions,
// using the same bands as RecommendationFor.
func SuggestedActivities(tempC float64) []string {
	switch {
	case tempC > 35:
		return []string{
			"Stay indoors in an air-conditioned mall",
			"Enjoy a cold smoothie at a trendy cafe",
			"Attend an indoor concert or show",
		}
	case tempC > 30:
		return []string{
			"Go swimming at a nearby pool or beach",
			"Have an outdoor picnic in the shade",
			"Try water sports or take a boat ride to cool off",
		}
	case tempC > 25:
		return []string{
			"Take a leisurely walk in the park",
			"Go cycling or rollerblading",
			"Enjoy an iced coffee outdoors",
		}
	case tempC > 20:
		return []string{
			"Go hiking on a nature trail",
			"Have a light outdoor brunch with friends",
			"Go for a scenic drive",
		}
	case tempC > 15:
		return []string{
			"Explore a museum or art gallery",
			"Visit a local historical site",
			"Enjoy a quiet afternoon at a cafe",
		}
	case tempC > 10:
		return []string{
			"Relax at a cozy cafe with a warm drink",
			"Browse a bookstore or library",
			"Watch a movie at a theater",
		}
	case tempC > 5:
		return []string{
			"Stay indoors and try a new recipe",
			"Play board games with friends or family",
			"Enjoy a warm cup of tea while reading",
		}
	default:
		return []string{
			"Stay warm indoors and watch a movie marathon",
			"Try crafting or another indoor hobby",
			"Cook a hearty meal and relax at home",
		}
	}
}
