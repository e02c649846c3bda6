package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// OpenMeteoClient implements Forecaster using the Open-Meteo forecast API
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewOpenMeteoClient creates a client for the public Open-Meteo API
func NewOpenMeteoClient() *OpenMeteoClient {
	return NewOpenMeteoClientWithURL("https://api.open-meteo.com/v1/forecast")
}

// NewOpenMeteoClientWithURL creates a client against baseURL
func NewOpenMeteoClientWithURL(baseURL string) *OpenMeteoClient {
	return &OpenMeteoClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "SignageTerminal/1.0 (github.com/ngmaloney/signage-terminal)",
	}
}

// forecastResponse is the subset of the Open-Meteo response we use
type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Daily struct {
		Max []float64 `json:"temperature_2m_max"`
		Min []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Forecast retrieves current weather and today's high/low
func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64) (*Observation, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current_weather", "true")
	params.Set("daily", "temperature_2m_max,temperature_2m_min")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var forecastResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecastResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(forecastResp.Daily.Max) == 0 || len(forecastResp.Daily.Min) == 0 {
		return nil, fmt.Errorf("response has no daily temperatures")
	}

	return &Observation{
		Temperature: forecastResp.CurrentWeather.Temperature,
		WeatherCode: forecastResp.CurrentWeather.WeatherCode,
		High:        forecastResp.Daily.Max[0],
		Low:         forecastResp.Daily.Min[0],
	}, nil
}
