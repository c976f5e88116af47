package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"farmassist-backend/internal/config"
	"farmassist-backend/internal/models"
	"farmassist-backend/internal/storage"
	"farmassist-backend/internal/utils"

	"github.com/sony/gobreaker/v2"
)

const weatherCacheTTL = time.Hour

// WeatherService proxies the weather provider with a one-hour cache and a
// circuit breaker. Provider failures degrade to the last cached reading, then
// to a neutral default; callers never see a hard failure.
type WeatherService struct {
	cfg        config.WeatherConfig
	store      storage.BlobStore
	breaker    *gobreaker.CircuitBreaker[*models.WeatherSnapshot]
	httpClient *http.Client
}

func NewWeatherService(cfg config.WeatherConfig, store storage.BlobStore) *WeatherService {
	breaker := gobreaker.NewCircuitBreaker[*models.WeatherSnapshot](gobreaker.Settings{
		Name:    "weather-provider",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &WeatherService{
		cfg:     cfg,
		store:   store,
		breaker: breaker,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchCurrent returns the current weather for a free-text location.
func (s *WeatherService) FetchCurrent(ctx context.Context, location string) (*models.WeatherSnapshot, error) {
	if location == "" {
		return nil, fmt.Errorf("badrequest: location is required")
	}

	cached := s.loadCached(ctx, location)
	if cached != nil && time.Now().Unix()-cached.FetchedAt < int64(weatherCacheTTL.Seconds()) {
		return cached, nil
	}

	snapshot, err := s.breaker.Execute(func() (*models.WeatherSnapshot, error) {
		return s.fetchFromProvider(location)
	})
	if err != nil {
		slog.Warn("weather provider unavailable, degrading", "location", location, "error", err)
		if cached != nil {
			return cached, nil
		}
		return neutralWeather(location), nil
	}

	s.cache(ctx, location, snapshot)
	return snapshot, nil
}

// openWeatherResponse is the subset of the provider payload the service
// consumes.
type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

func (s *WeatherService) fetchFromProvider(location string) (*models.WeatherSnapshot, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		s.cfg.BaseURL, url.QueryEscape(location), s.cfg.APIKey)

	resp, err := s.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var parsed openWeatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	description := ""
	if len(parsed.Weather) > 0 {
		description = parsed.Weather[0].Description
	}
	resolvedLocation := parsed.Name
	if resolvedLocation == "" {
		resolvedLocation = location
	}

	return &models.WeatherSnapshot{
		Temperature: parsed.Main.Temp,
		Humidity:    parsed.Main.Humidity,
		Description: description,
		WindSpeed:   parsed.Wind.Speed,
		Pressure:    parsed.Main.Pressure,
		Location:    resolvedLocation,
		FetchedAt:   time.Now().Unix(),
	}, nil
}

func (s *WeatherService) loadCached(ctx context.Context, location string) *models.WeatherSnapshot {
	blob, err := s.store.Get(ctx, storage.WeatherCacheKey(location))
	if err != nil || blob == nil {
		return nil
	}

	var snapshot models.WeatherSnapshot
	if err := utils.DeserializeModel(blob, &snapshot); err != nil {
		slog.Warn("failed to decode cached weather", "location", location, "error", err)
		return nil
	}
	return &snapshot
}

func (s *WeatherService) cache(ctx context.Context, location string, snapshot *models.WeatherSnapshot) {
	blob, err := utils.SerializeModel(snapshot)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, storage.WeatherCacheKey(location), blob); err != nil {
		slog.Warn("failed to cache weather", "location", location, "error", err)
	}
}

// neutralWeather is the hardcoded fallback when neither the provider nor the
// cache can serve a reading.
func neutralWeather(location string) *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Temperature: 25,
		Humidity:    60,
		Description: "weather data unavailable",
		Location:    location,
		FetchedAt:   time.Now().Unix(),
	}
}
