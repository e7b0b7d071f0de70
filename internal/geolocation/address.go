package geolocation

import (
	"context"
	"errors"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-widget/internal/weather"
)

// geocoder keeps its API key in a package variable.
var geocoderMu sync.Mutex

// Address is the postal address an AddressLocator geocodes.
type Address struct {
	Street  string
	Number  int
	City    string
	State   string
	Country string
}

// Empty reports whether no address component is set.
func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == ""
}

// AddressLocator resolves a configured address through the Google
// Geocoding API. The first successful result is cached.
type AddressLocator struct {
	apiKey  string
	address Address
	geocode func(geocoder.Address) (geocoder.Location, error)

	mu     sync.Mutex
	cached *weather.Position
}

// NewAddressLocator creates an AddressLocator using the given API key.
func NewAddressLocator(apiKey string, address Address) *AddressLocator {
	l := &AddressLocator{
		apiKey:  apiKey,
		address: address,
	}
	l.geocode = l.lookup
	return l
}

func (l *AddressLocator) lookup(addr geocoder.Address) (geocoder.Location, error) {
	geocoderMu.Lock()
	defer geocoderMu.Unlock()

	geocoder.ApiKey = l.apiKey
	return geocoder.Geocoding(addr)
}

func (l *AddressLocator) CurrentPosition(ctx context.Context) (weather.Position, error) {
	if l.apiKey == "" || l.address.Empty() {
		return weather.Position{}, errors.New("address geocoding not configured")
	}

	l.mu.Lock()
	if l.cached != nil {
		pos := *l.cached
		l.mu.Unlock()
		return pos, nil
	}
	l.mu.Unlock()

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := l.geocode(geocoder.Address{
			Street:  l.address.Street,
			Number:  l.address.Number,
			City:    l.address.City,
			State:   l.address.State,
			Country: l.address.Country,
		})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Position{}, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return weather.Position{}, r.err
		}
		pos := weather.Position{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}

		l.mu.Lock()
		l.cached = &pos
		l.mu.Unlock()
		return pos, nil
	}
}
