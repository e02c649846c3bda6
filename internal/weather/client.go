package weather

import (
	"context"

	"github.com/ngmaloney/signage-terminal/internal/geocoding"
)

// Forecaster fetches current conditions for a coordinate
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) (*Observation, error)
}

// Geocoder resolves a configured location string to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*geocoding.Location, error)
}

// Observation is the raw forecast data before it is shaped into a card
type Observation struct {
	Temperature float64 // Celsius
	WeatherCode int     // WMO code
	High        float64
	Low         float64
}
