package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/i474232898/weather-widget/internal/log"
)

// Controller owns the request lifecycle of the widget: one State, updated by
// queries and by the initial location resolution. Results are fenced by a
// sequence number so that the last issued query wins, regardless of the
// order in which responses arrive.
type Controller struct {
	provider    Provider
	locator     Locator
	notifier    Notifier
	defaultCity string

	mu        sync.Mutex
	state     State
	seq       uint64
	lastQuery *Query
	resolved  bool
}

// NewController creates an idle Controller. locator may be nil, in which
// case Resolve always falls back to defaultCity.
func NewController(provider Provider, locator Locator, notifier Notifier, defaultCity string) *Controller {
	return &Controller{
		provider:    provider,
		locator:     locator,
		notifier:    notifier,
		defaultCity: defaultCity,
		state:       State{Phase: PhaseIdle},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Snapshot != nil {
		snap := *s.Snapshot
		s.Snapshot = &snap
	}
	return s
}

// Query fetches current weather for q and settles the state. It returns nil
// on success, ErrLocationMissing, ErrSuperseded, a *RejectedError or a
// *FetchError.
func (c *Controller) Query(ctx context.Context, q Query) error {
	if !q.Valid() {
		log.Debugw("query rejected: no location", "query", q.String())
		c.notifier.Error(MessageLocationMissing)
		return ErrLocationMissing
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = State{Phase: PhaseLoading}
	last := q.clone()
	c.lastQuery = &last
	c.mu.Unlock()

	log.Debugw("querying weather", "provider", c.provider.Name(), "query", q.String(), "seq", seq)

	reading, err := c.fetch(ctx, q)
	return c.settle(seq, q, reading, err)
}

// fetch calls the provider and folds every failure, panics included, into a
// *FetchError.
func (c *Controller) fetch(ctx context.Context, q Query) (r Reading, err error) {
	defer func() {
		if p := recover(); p != nil {
			r = Reading{}
			err = &FetchError{Kind: FailureTransport, Err: fmt.Errorf("provider panic: %v", p)}
		}
	}()

	r, err = c.provider.Current(ctx, q)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Kind: FailureTransport, Err: err}
		}
	}
	return r, err
}

func (c *Controller) settle(seq uint64, q Query, r Reading, fetchErr error) error {
	next, err := outcome(r, fetchErr)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		log.Debugw("discarding superseded weather result", "query", q.String(), "seq", seq)
		return ErrSuperseded
	}
	c.state = next
	c.mu.Unlock()

	var (
		rejected *RejectedError
		failed   *FetchError
	)
	switch {
	case errors.As(err, &rejected):
		log.Warnw("provider rejected query", "query", q.String(), "code", rejected.Code, "message", rejected.Message)
	case errors.As(err, &failed):
		log.Errorw("weather fetch failed", "query", q.String(), "kind", string(failed.Kind), "error", failed.Err)
	default:
		log.Infow("weather updated", "query", q.String(), "location", next.Snapshot.Location)
	}

	if next.Phase == PhaseError {
		c.notifier.Error(next.Message)
	}
	return err
}

// outcome maps a provider result onto the next state.
func outcome(r Reading, fetchErr error) (State, error) {
	if fetchErr != nil {
		return State{Phase: PhaseError, Message: MessageFetchFailed}, fetchErr
	}

	if r.Code != StatusOK {
		msg := r.Message
		if msg == "" {
			msg = MessageCityNotFound
		}
		return State{Phase: PhaseError, Message: msg}, &RejectedError{Code: r.Code, Message: msg}
	}

	snap, err := NewSnapshot(r)
	if err != nil {
		return State{Phase: PhaseError, Message: MessageFetchFailed}, err
	}
	return State{Phase: PhaseSuccess, Snapshot: &snap}, nil
}

// Resolve runs the initial location resolution: a coordinate query when the
// locator succeeds, otherwise a single query for the default city. It runs
// at most once until Reset.
func (c *Controller) Resolve(ctx context.Context) error {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return ErrAlreadyResolved
	}
	c.resolved = true
	c.mu.Unlock()

	pos, err := c.position(ctx)
	if err != nil {
		log.Warnw("location access denied or unavailable, using default city", "city", c.defaultCity, "error", err)
		return c.Query(ctx, CityQuery(c.defaultCity))
	}
	return c.Query(ctx, CoordinatesQuery(pos.Latitude, pos.Longitude))
}

func (c *Controller) position(ctx context.Context) (Position, error) {
	if c.locator == nil {
		return Position{}, errors.New("no locator configured")
	}
	return c.locator.CurrentPosition(ctx)
}

// Refresh re-issues the last issued query, or runs Resolve when nothing has
// been issued yet.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	last := c.lastQuery
	c.mu.Unlock()

	if last == nil {
		err := c.Resolve(ctx)
		if errors.Is(err, ErrAlreadyResolved) {
			return nil
		}
		return err
	}
	return c.Query(ctx, last.clone())
}

// Reset returns the controller to idle and discards any in-flight result.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = State{Phase: PhaseIdle}
	c.lastQuery = nil
	c.resolved = false
}

func (q Query) clone() Query {
	out := Query{City: q.City}
	if q.Lat != nil {
		lat := *q.Lat
		out.Lat = &lat
	}
	if q.Lon != nil {
		lon := *q.Lon
		out.Lon = &lon
	}
	return out
}
