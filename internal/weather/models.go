package weather

import (
	"strconv"
)

// IconCode is the provider's condition icon code, e.g. "01d" or "10n".
type IconCode string

// Icon references one of the bundled condition images.
type Icon struct {
	Name  string `json:"name"`
	Asset string `json:"asset"`
}

var (
	IconClear   = newIcon("clear")
	IconCloud   = newIcon("cloud")
	IconDrizzle = newIcon("drizzle")
	IconRain    = newIcon("rain")
	IconSnow    = newIcon("snow")
)

func newIcon(name string) Icon {
	return Icon{Name: name, Asset: "/assets/" + name + ".svg"}
}

// Snapshot is the display view built from one successful provider response.
type Snapshot struct {
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Temperature int     `json:"temperature"`
	Location    string  `json:"location"`
	Icon        Icon    `json:"icon"`
}

// Phase is the lifecycle position of the controller's current request.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is what the rendering layer sees. Snapshot is set only in
// PhaseSuccess and Message only in PhaseError.
type State struct {
	Phase    Phase     `json:"phase"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Loading reports whether a request is in flight.
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

// Query selects a location either by city name or by coordinates.
// A non-empty City takes precedence over coordinates.
type Query struct {
	City string   `json:"city,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// CityQuery builds a name-based query.
func CityQuery(city string) Query {
	return Query{City: city}
}

// CoordinatesQuery builds a coordinate-based query.
func CoordinatesQuery(lat, lon float64) Query {
	return Query{Lat: &lat, Lon: &lon}
}

// HasCity reports whether the query is name-based.
func (q Query) HasCity() bool {
	return q.City != ""
}

// HasCoordinates reports whether both coordinates are set.
func (q Query) HasCoordinates() bool {
	return q.Lat != nil && q.Lon != nil
}

// Valid reports whether the query identifies a location at all.
func (q Query) Valid() bool {
	return q.HasCity() || q.HasCoordinates()
}

// String returns a short human-readable form for logs.
func (q Query) String() string {
	switch {
	case q.HasCity():
		return q.City
	case q.HasCoordinates():
		return strconv.FormatFloat(*q.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(*q.Lon, 'f', -1, 64)
	default:
		return "<none>"
	}
}
