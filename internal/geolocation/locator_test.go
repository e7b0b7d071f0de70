package geolocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/weather"
)

type failingLocator struct{ err error }

func (f failingLocator) CurrentPosition(context.Context) (weather.Position, error) {
	return weather.Position{}, f.err
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	want := weather.Position{Latitude: 52.52, Longitude: 13.405}
	chain := Chain{
		failingLocator{err: errors.New("denied")},
		StaticLocator{Position: want},
		StaticLocator{Position: weather.Position{Latitude: 1, Longitude: 1}},
	}

	pos, err := chain.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, pos)
}

func TestChainAllFail(t *testing.T) {
	denied := errors.New("denied")
	chain := Chain{failingLocator{err: denied}, failingLocator{err: errors.New("timeout")}}

	_, err := chain.CurrentPosition(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, denied)
}

func TestEmptyChain(t *testing.T) {
	_, err := Chain{}.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChainStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Chain{StaticLocator{}}.CurrentPosition(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
