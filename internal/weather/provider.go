package weather

import (
	"context"
	"errors"
	"fmt"
)

// StatusOK is the provider's in-body success code.
const StatusOK = 200

// Reading is a decoded provider response. Code carries the in-body status;
// the remaining fields are only meaningful when Code == StatusOK.
type Reading struct {
	Code        int
	Message     string
	Name        string
	Humidity    int
	Temperature float64
	WindSpeed   float64
	IconCodes   []IconCode
}

// Provider abstracts the current-weather data source.
type Provider interface {
	Name() string
	// Current returns the decoded body for a query. Logical failures come
	// back as a Reading with a non-200 Code; only transport and decoding
	// problems are reported as errors.
	Current(ctx context.Context, q Query) (Reading, error)
}

// Position is a point returned by a Locator.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator resolves the viewer's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Notifier receives human-readable error messages for display.
type Notifier interface {
	Error(message string)
}

const (
	MessageLocationMissing = "Location not provided."
	MessageCityNotFound    = "City not found."
	MessageFetchFailed     = "Failed to fetch weather data. Please try again."
)

var (
	// ErrLocationMissing is returned when a query names neither a city nor coordinates.
	ErrLocationMissing = errors.New("location not provided")

	// ErrAlreadyResolved is returned by Resolve after the initial resolution has run.
	ErrAlreadyResolved = errors.New("initial location already resolved")

	// ErrSuperseded is returned when a newer query was issued before this one settled.
	ErrSuperseded = errors.New("query superseded by a newer request")
)

// RejectedError is a well-formed provider response with a non-success code.
type RejectedError struct {
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("provider rejected query (cod %d): %s", e.Code, e.Message)
}

// FailureKind classifies transport and parse failures.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureDecode    FailureKind = "decode"
	FailureMalformed FailureKind = "malformed"
)

// FetchError keeps the cause of a failed fetch for logs while the user only
// sees MessageFetchFailed.
type FetchError struct {
	Kind FailureKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("weather fetch failed (%s): %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
