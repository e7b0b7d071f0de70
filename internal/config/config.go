package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-widget/internal/geolocation"
	"github.com/i474232898/weather-widget/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// DefaultCity is queried when no position can be resolved.
	DefaultCity string

	// HTTPTimeout bounds outbound calls; 0 leaves them unbounded.
	HTTPTimeout time.Duration

	// Position sources, tried in order: static coordinates, geocoded
	// address, IP lookup.
	HomePosition   *weather.Position
	GeocoderAPIKey string
	HomeAddress    geolocation.Address
	GeoIPURL       string
	GeoIPDisabled  bool

	// Notification feed retention.
	NotifyTTL        time.Duration
	NotifyMaxHistory int

	// RefreshInterval re-issues the last query periodically (0 = off).
	RefreshInterval time.Duration

	Port  string
	Debug bool
}

// Load reads configuration from the environment with sensible defaults.
// Callers load any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "New York")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}

	if cfg.HomePosition, err = loadHomePosition(); err != nil {
		return nil, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.HomeAddress = geolocation.Address{
		Street:  os.Getenv("HOME_STREET"),
		Number:  getenvInt("HOME_NUMBER", 0),
		City:    os.Getenv("HOME_CITY"),
		State:   os.Getenv("HOME_STATE"),
		Country: os.Getenv("HOME_COUNTRY"),
	}
	cfg.GeoIPURL = getenvDefault("GEO_IP_URL", geolocation.DefaultIPLookupURL)
	cfg.GeoIPDisabled = getenvBool("GEO_IP_DISABLED", false)

	// Toasts auto-close after five seconds.
	if cfg.NotifyTTL, err = getenvDuration("NOTIFY_TTL", "5s"); err != nil {
		return nil, err
	}
	cfg.NotifyMaxHistory = getenvInt("NOTIFY_MAX_HISTORY", 20)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Debug = getenvBool("DEBUG", false)

	return cfg, nil
}

func loadHomePosition() (*weather.Position, error) {
	latStr := strings.TrimSpace(os.Getenv("HOME_LAT"))
	lonStr := strings.TrimSpace(os.Getenv("HOME_LON"))
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("HOME_LAT and HOME_LON must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HOME_LON: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("HOME_LAT/HOME_LON out of range: %v,%v", lat, lon)
	}

	return &weather.Position{Latitude: lat, Longitude: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
