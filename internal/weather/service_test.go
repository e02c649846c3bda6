package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ngmaloney/signage-terminal/internal/geocoding"
	"github.com/ngmaloney/signage-terminal/internal/models"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGeocoder struct {
	loc *geocoding.Location
	err error
}

func (f fakeGeocoder) Geocode(context.Context, string) (*geocoding.Location, error) {
	return f.loc, f.err
}

type fakeForecaster struct {
	obs   *Observation
	err   error
	calls int
	lat   float64
	lon   float64
}

func (f *fakeForecaster) Forecast(_ context.Context, lat, lon float64) (*Observation, error) {
	f.calls++
	f.lat, f.lon = lat, lon
	return f.obs, f.err
}

type lookupCounter map[string]int

func (c lookupCounter) ObserveWeatherLookup(result string) { c[result]++ }

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 16, hour, 0, 0, 0, time.Local) }
}

func TestCondition(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear Sky"},
		{1, "Mainly Clear"},
		{2, "Partly Cloudy"},
		{3, "Overcast"},
		{45, "Fog"},
		{48, "Fog"},
		{51, "Drizzle"},
		{61, "Rain"},
		{71, "Snow"},
		{95, "Thunderstorm"},
		{80, "Clear Sky"},
		{-1, "Clear Sky"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Condition(tt.code), "code %d", tt.code)
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		hour      int
		want      string
	}{
		{"rain beats night", "Rain", 23, RainImage},
		{"drizzle", "Drizzle", 12, RainImage},
		{"night late", "Clear Sky", 20, NightImage},
		{"night early", "Partly Cloudy", 5, NightImage},
		{"dusk start", "Clear Sky", 17, DuskImage},
		{"dusk end", "Overcast", 19, DuskImage},
		{"cloudy day", "Partly Cloudy", 10, CloudyImage},
		{"overcast is not cloud", "Overcast", 10, DayImage},
		{"clear day", "Clear Sky", 6, DayImage},
		{"snow day", "Snow", 16, DayImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Image(tt.condition, tt.hour))
		})
	}
}

func TestService_Lookup(t *testing.T) {
	fc := &fakeForecaster{obs: &Observation{Temperature: 18.6, WeatherCode: 2, High: 21.4, Low: 14.5}}
	rec := lookupCounter{}
	geo := fakeGeocoder{loc: &geocoding.Location{Latitude: 34.69, Longitude: 135.50}}
	s := NewService(geo, fc, zap.NewNop(), WithClock(at(10)), WithRecorder(rec))

	got := s.Lookup(context.Background(), "Osaka, JP")

	assert.Equal(t, 19, got.Temp)
	assert.Equal(t, "Partly Cloudy", got.Condition)
	assert.Equal(t, "Osaka, JP", got.Location)
	assert.Equal(t, 21, got.High)
	assert.Equal(t, 15, got.Low)
	assert.Equal(t, CloudyImage, got.ImageURL)
	assert.Equal(t, at(10)(), got.FetchedAt)
	assert.Equal(t, 34.69, fc.lat)
	assert.Equal(t, 135.50, fc.lon)
	assert.Equal(t, 1, rec[ResultOK])
}

func TestService_GeocodeFailureUsesDefaultCoordinates(t *testing.T) {
	fc := &fakeForecaster{obs: &Observation{WeatherCode: 0}}
	s := NewService(fakeGeocoder{err: errors.New("no results")}, fc, nil, WithClock(at(12)))

	got := s.Lookup(context.Background(), "Atlantis")

	assert.Equal(t, DefaultLatitude, fc.lat)
	assert.Equal(t, DefaultLongitude, fc.lon)
	assert.Equal(t, "Atlantis", got.Location)
	assert.Equal(t, "Clear Sky", got.Condition)
}

func TestService_FallbackOnFailure(t *testing.T) {
	fc := &fakeForecaster{err: errors.New("network unreachable")}
	rec := lookupCounter{}
	s := NewService(nil, fc, nil, WithRecorder(rec))

	got := s.Lookup(context.Background(), "Tokyo, JP")

	want := models.WeatherData{
		Temp:      22,
		Condition: "Clear Sky",
		Location:  "Tokyo, JP",
		High:      26,
		Low:       18,
		ImageURL:  models.DefaultWeatherImage,
	}
	assert.Equal(t, want, got)
	assert.Equal(t, Fallback("Tokyo, JP"), got)
	assert.Equal(t, 1, rec[ResultFallback])
}

func TestService_FallbackOnBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	s := NewService(nil, NewOpenMeteoClientWithURL(server.URL), nil)
	assert.Equal(t, Fallback("Tokyo, JP"), s.Lookup(context.Background(), "Tokyo, JP"))
}

func TestService_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	fc := &fakeForecaster{err: errors.New("timeout")}
	rec := lookupCounter{}
	settings := DefaultBreakerSettings(zap.NewNop())
	settings.Timeout = time.Hour
	s := NewService(nil, fc, nil, WithRecorder(rec), WithBreakerSettings(settings))

	for i := 0; i < 5; i++ {
		got := s.Lookup(context.Background(), "Tokyo, JP")
		require.Equal(t, Fallback("Tokyo, JP"), got)
	}

	assert.Equal(t, 3, fc.calls, "breaker must short-circuit after three failures")
	assert.Equal(t, 3, rec[ResultFallback])
	assert.Equal(t, 2, rec[ResultBreakerOpen])
	assert.Equal(t, gobreaker.StateOpen, s.breaker.State())

	// recovery is not attempted while open
	fc.err = nil
	fc.obs = &Observation{}
	s.Lookup(context.Background(), "Tokyo, JP")
	assert.Equal(t, 3, fc.calls)
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{Data: models.WeatherData{Temp: 17, Condition: "Overcast"}}
	got := p.Lookup(context.Background(), "Demo City")
	assert.Equal(t, 17, got.Temp)
	assert.Equal(t, "Demo City", got.Location)
}
