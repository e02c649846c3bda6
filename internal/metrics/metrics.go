// Package metrics exposes Prometheus counters for the display. Each
// Collector owns a private registry so tests can create as many as they like.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Advances       *prometheus.CounterVec
	WeatherLookups *prometheus.CounterVec
	SettingsSaves  *prometheus.CounterVec
	RefreshSeconds prometheus.Histogram
}

// NewCollector creates a collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	advances := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carousel_advances_total",
			Help:      "Focus changes by cause",
		},
		[]string{"cause"},
	)

	weatherLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_lookups_total",
			Help:      "Weather lookups by result",
		},
		[]string{"result"},
	)

	settingsSaves := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_saves_total",
			Help:      "Settings writes by result",
		},
		[]string{"result"},
	)

	refreshSeconds := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deck_refresh_duration_seconds",
			Help:      "Time to build the card sequence, including the weather lookup",
			Buckets:   prometheus.DefBuckets,
		},
	)

	registry.MustRegister(advances, weatherLookups, settingsSaves, refreshSeconds)

	return &Collector{
		registry:       registry,
		Advances:       advances,
		WeatherLookups: weatherLookups,
		SettingsSaves:  settingsSaves,
		RefreshSeconds: refreshSeconds,
	}
}

// Registry returns the private registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveAdvance(cause string) {
	if c == nil {
		return
	}
	c.Advances.WithLabelValues(cause).Inc()
}

func (c *Collector) ObserveWeatherLookup(result string) {
	if c == nil {
		return
	}
	c.WeatherLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveSettingsSave(result string) {
	if c == nil {
		return
	}
	c.SettingsSaves.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveRefresh(d time.Duration) {
	if c == nil {
		return
	}
	c.RefreshSeconds.Observe(d.Seconds())
}
