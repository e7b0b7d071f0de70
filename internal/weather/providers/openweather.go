package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/i474232898/weather-widget/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap's
// current-weather endpoint.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

// NewOpenWeatherProvider creates a provider. An empty baseURL selects
// DefaultOpenWeatherBaseURL. An empty apiKey is sent as-is and rejected by
// the provider.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/") + "/data/2.5/weather",
		httpCfg: HTTPClientConfig{Client: client},
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherPayload struct {
	Cod     statusCode `json:"cod"`
	Message string     `json:"message"`
	Name    string     `json:"name"`
	Main    struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Icon string `json:"icon"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, q weather.Query) (weather.Reading, error) {
	values := url.Values{}
	switch {
	case q.HasCity():
		values.Set("q", q.City)
	case q.HasCoordinates():
		values.Set("lat", formatCoordinate(*q.Lat))
		values.Set("lon", formatCoordinate(*q.Lon))
	default:
		return weather.Reading{}, weather.ErrLocationMissing
	}
	values.Set("units", "metric")
	values.Set("appid", p.apiKey)

	resp, err := doGet(ctx, p.httpCfg, p.baseURL, values)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload openWeatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, &weather.FetchError{Kind: weather.FailureDecode, Err: err}
	}

	codes := make([]weather.IconCode, 0, len(payload.Weather))
	for _, w := range payload.Weather {
		codes = append(codes, weather.IconCode(w.Icon))
	}

	return weather.Reading{
		Code:        int(payload.Cod),
		Message:     payload.Message,
		Name:        payload.Name,
		Humidity:    payload.Main.Humidity,
		Temperature: payload.Main.Temp,
		WindSpeed:   payload.Wind.Speed,
		IconCodes:   codes,
	}, nil
}
