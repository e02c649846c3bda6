package weather

import (
	"strings"

	"github.com/ngmaloney/signage-terminal/internal/models"
)

const imageBase = "https://images.unsplash.com/"

// Background images by condition and time of day
const (
	RainImage   = imageBase + "photo-1518550687729-8192159e8180?auto=format&fit=crop&q=80&w=1600&sat=-100"
	NightImage  = imageBase + "photo-1536098565842-c4b11dc5082a?auto=format&fit=crop&q=80&w=1600&sat=-50"
	DuskImage   = imageBase + "photo-1493976040374-85c8e12f0c0e?auto=format&fit=crop&q=80&w=1600&sat=-40"
	CloudyImage = imageBase + "photo-1490806678282-484c3763ee2c?auto=format&fit=crop&q=80&w=1600&sat=-60"
	DayImage    = imageBase + "photo-1542259009477-d625272157b7?auto=format&fit=crop&q=80&w=1600&sat=-40"
)

var conditionNames = map[int]string{
	0:  "Clear Sky",
	1:  "Mainly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Fog",
	51: "Drizzle",
	61: "Rain",
	71: "Snow",
	95: "Thunderstorm",
}

// Condition maps a WMO weather code to a display name. Unknown codes read as clear.
func Condition(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Clear Sky"
}

// Image picks a background for condition at the given local hour.
// Rules are checked in order: rain, night, dusk, cloud, day.
func Image(condition string, hour int) string {
	switch {
	case strings.Contains(condition, "Rain") || strings.Contains(condition, "Drizzle"):
		return RainImage
	case hour >= 20 || hour <= 5:
		return NightImage
	case hour >= 17 && hour <= 19:
		return DuskImage
	case strings.Contains(condition, "Cloud"):
		return CloudyImage
	default:
		return DayImage
	}
}

// Fallback is the record shown when live weather is unavailable
func Fallback(location string) models.WeatherData {
	return models.WeatherData{
		Temp:      22,
		Condition: "Clear Sky",
		Location:  location,
		High:      26,
		Low:       18,
		ImageURL:  models.DefaultWeatherImage,
	}
}
