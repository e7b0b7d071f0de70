package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/weather"
)

// DefaultIPLookupURL is ip-api.com's JSON endpoint.
const DefaultIPLookupURL = "http://ip-api.com/json/"

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errUnexpected   = errors.New("unexpected status code")
	errNoHTTPClient = errors.New("http client not configured")
)

// IPLocator estimates the server's position from its public IP address.
// Repeated failures open a circuit breaker so later lookups fail fast
// and the caller falls back without waiting on the network.
type IPLocator struct {
	client  *http.Client
	baseURL string
	circuit *gobreaker.CircuitBreaker
}

// NewIPLocator creates an IPLocator. An empty baseURL selects DefaultIPLookupURL.
func NewIPLocator(client *http.Client, baseURL string) *IPLocator {
	if baseURL == "" {
		baseURL = DefaultIPLookupURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ip-geolocation",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &IPLocator{
		client:  client,
		baseURL: baseURL,
		circuit: cb,
	}
}

type ipLookupPayload struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) CurrentPosition(ctx context.Context) (weather.Position, error) {
	if l.client == nil {
		return weather.Position{}, errNoHTTPClient
	}

	result, err := l.circuit.Execute(func() (interface{}, error) {
		return l.lookup(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Position{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return weather.Position{}, err
	}

	pos, ok := result.(weather.Position)
	if !ok {
		return weather.Position{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return pos, nil
}

func (l *IPLocator) lookup(ctx context.Context) (weather.Position, error) {
	values := url.Values{}
	values.Set("fields", "status,message,lat,lon")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", l.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.Position{}, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return weather.Position{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Position{}, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
	}

	var payload ipLookupPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Position{}, err
	}
	if payload.Status != "success" {
		return weather.Position{}, fmt.Errorf("ip lookup failed: %s", payload.Message)
	}

	return weather.Position{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
