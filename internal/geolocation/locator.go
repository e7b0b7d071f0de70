// Package geolocation provides server-side position sources for the initial
// weather lookup.
package geolocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/weather-widget/internal/weather"
)

// ErrUnavailable is returned when no source can produce a position.
var ErrUnavailable = errors.New("position unavailable")

// StaticLocator always reports the configured coordinates.
type StaticLocator struct {
	Position weather.Position
}

func (s StaticLocator) CurrentPosition(context.Context) (weather.Position, error) {
	return s.Position, nil
}

// Chain tries each locator in order and returns the first position found.
type Chain []weather.Locator

func (c Chain) CurrentPosition(ctx context.Context) (weather.Position, error) {
	var errs []error
	for _, l := range c {
		if err := ctx.Err(); err != nil {
			return weather.Position{}, err
		}
		pos, err := l.CurrentPosition(ctx)
		if err == nil {
			return pos, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return weather.Position{}, ErrUnavailable
	}
	return weather.Position{}, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}
