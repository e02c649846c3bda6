// Package weather turns a configured location string into the live weather
// card. Lookups never fail: any error yields the fallback record.
package weather

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Default coordinates used when the location cannot be geocoded (Tokyo)
const (
	DefaultLatitude  = 35.6895
	DefaultLongitude = 139.6917
)

// Lookup results reported to the Recorder
const (
	ResultOK          = "ok"
	ResultFallback    = "fallback"
	ResultBreakerOpen = "breaker_open"
)

// Provider returns the weather card for a location
type Provider interface {
	Lookup(ctx context.Context, location string) models.WeatherData
}

// Recorder observes lookup outcomes
type Recorder interface {
	ObserveWeatherLookup(result string)
}

// Service combines geocoding and forecasting behind a circuit breaker
type Service struct {
	geocoder   Geocoder
	forecaster Forecaster
	breaker    *gobreaker.CircuitBreaker
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithRecorder reports lookup outcomes to r
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithClock replaces time.Now for image selection
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithBreakerSettings replaces the default circuit breaker settings
func WithBreakerSettings(st gobreaker.Settings) ServiceOption {
	return func(s *Service) { s.breaker = gobreaker.NewCircuitBreaker(st) }
}

// NewService creates a weather service
func NewService(geocoder Geocoder, forecaster Forecaster, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		geocoder:   geocoder,
		forecaster: forecaster,
		logger:     logger,
		now:        time.Now,
	}
	s.breaker = gobreaker.NewCircuitBreaker(DefaultBreakerSettings(logger))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultBreakerSettings trips after three consecutive failures and probes
// again after a minute
func DefaultBreakerSettings(logger *zap.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
}

// Lookup returns live weather for location, or Fallback(location) on any failure
func (s *Service) Lookup(ctx context.Context, location string) models.WeatherData {
	lat, lon := DefaultLatitude, DefaultLongitude
	if s.geocoder != nil {
		loc, err := s.geocoder.Geocode(ctx, location)
		if err != nil {
			s.logger.Warn("geocoding failed, using default coordinates",
				zap.String("location", location),
				zap.Error(err),
			)
		} else {
			lat, lon = loc.Latitude, loc.Longitude
		}
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.forecaster.Forecast(ctx, lat, lon)
	})
	if err != nil {
		result := ResultFallback
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = ResultBreakerOpen
		}
		s.logger.Warn("weather lookup failed, using fallback",
			zap.String("location", location),
			zap.String("result", result),
			zap.Error(err),
		)
		s.observe(result)
		return Fallback(location)
	}

	obs := res.(*Observation)
	now := s.now()
	condition := Condition(obs.WeatherCode)
	s.observe(ResultOK)

	return models.WeatherData{
		Temp:      int(math.Round(obs.Temperature)),
		Condition: condition,
		Location:  location,
		High:      int(math.Round(obs.High)),
		Low:       int(math.Round(obs.Low)),
		ImageURL:  Image(condition, now.Hour()),
		FetchedAt: now,
	}
}

func (s *Service) observe(result string) {
	if s.recorder != nil {
		s.recorder.ObserveWeatherLookup(result)
	}
}

// StaticProvider returns a fixed record, used by the offline demo
type StaticProvider struct {
	Data models.WeatherData
}

func (p StaticProvider) Lookup(_ context.Context, location string) models.WeatherData {
	d := p.Data
	d.Location = location
	return d
}
