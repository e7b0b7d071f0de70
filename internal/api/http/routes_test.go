package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/notify"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

// fakeOpenWeather answers like the real provider for a few known cities.
type fakeOpenWeather struct {
	mu   sync.Mutex
	last url.Values
}

func (f *fakeOpenWeather) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.last = q
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case q.Get("q") == "New York":
		_, _ = w.Write([]byte(`{"cod":200,"name":"New York","main":{"temp":21.4,"humidity":50},"wind":{"speed":5},"weather":[{"icon":"01d"}]}`))
	case q.Get("lat") != "":
		_, _ = w.Write([]byte(`{"cod":200,"name":"Manhattan","main":{"temp":19.6,"humidity":61},"wind":{"speed":2.5},"weather":[{"icon":"10n"}]}`))
	case q.Get("q") == "Broken":
		_, _ = w.Write([]byte(`not json`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}
}

func (f *fakeOpenWeather) Last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func newTestApp(t *testing.T) (*fiber.App, *fakeOpenWeather, *notify.Feed) {
	t.Helper()

	upstream := &fakeOpenWeather{}
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	provider := providers.NewOpenWeatherProvider(srv.Client(), "key", srv.URL)
	feed := notify.NewFeed(10, time.Minute)
	controller := weather.NewController(provider, nil, feed, "New York")

	app := fiber.New()
	RegisterRoutes(app, controller, feed)
	return app, upstream, feed
}

func doRequest(t *testing.T, app *fiber.App, method, target string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decodeState(t *testing.T, body []byte) weather.State {
	t.Helper()
	var s weather.State
	require.NoError(t, json.Unmarshal(body, &s))
	return s
}

func TestCurrentStateStartsIdle(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, weather.State{Phase: weather.PhaseIdle}, decodeState(t, body))
}

func TestSearchByCity(t *testing.T) {
	app, upstream, feed := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/search?city=New%20York")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	state := decodeState(t, body)
	assert.Equal(t, weather.PhaseSuccess, state.Phase)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, 21, state.Snapshot.Temperature)
	assert.Equal(t, weather.IconClear, state.Snapshot.Icon)
	assert.Equal(t, "metric", upstream.Last().Get("units"))
	assert.Empty(t, feed.Active())

	resp, body = doRequest(t, app, http.MethodGet, "/api/v1/weather")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "New York", decodeState(t, body).Snapshot.Location)
}

func TestSearchByCoordinates(t *testing.T) {
	app, upstream, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/search?lat=40.78&lon=-73.97")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "40.78", upstream.Last().Get("lat"))
	assert.Equal(t, "-73.97", upstream.Last().Get("lon"))
	assert.Equal(t, weather.IconRain, decodeState(t, body).Snapshot.Icon)
}

func TestSearchUnknownCity(t *testing.T) {
	app, _, feed := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/search?city=Nowhere")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, weather.State{Phase: weather.PhaseError, Message: "city not found"}, decodeState(t, body))

	active := feed.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "city not found", active[0].Message)
}

func TestSearchUpstreamGarbage(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/search?city=Broken")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, weather.MessageFetchFailed, decodeState(t, body).Message)
}

func TestSearchValidation(t *testing.T) {
	app, _, feed := newTestApp(t)

	// Missing location.
	resp, _ := doRequest(t, app, http.MethodGet, "/api/v1/weather/search")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, feed.Active(), 1)
	assert.Equal(t, weather.MessageLocationMissing, feed.Active()[0].Message)

	// Latitude out of range.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/weather/search?lat=100&lon=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Latitude without longitude.
	resp, _ = doRequest(t, app, http.MethodGet, "/api/v1/weather/search?lat=10")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotificationsListAndDismiss(t *testing.T) {
	app, _, feed := newTestApp(t)
	n := feed.Push(notify.LevelError, "city not found")

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/notifications")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Notifications, 1)
	assert.Equal(t, n.ID, payload.Notifications[0].ID)

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/notifications/"+n.ID)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/notifications/"+n.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWidgetPage(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, string(body), `placeholder="Search city"`)
	assert.NotContains(t, string(body), `class="weather_icon"`)

	resp, body = doRequest(t, app, http.MethodGet, "/?city=New+York")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(body)
	assert.Contains(t, page, "21°C")
	assert.Contains(t, page, "/assets/clear.svg")
	assert.Contains(t, page, "50%")
	assert.Contains(t, page, "5 km/h")
}

func TestWidgetPageShowsErrors(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, body := doRequest(t, app, http.MethodGet, "/?city=")
	assert.Contains(t, string(body), weather.MessageLocationMissing)

	_, body = doRequest(t, app, http.MethodGet, "/?city=Nowhere")
	assert.Contains(t, string(body), `<p class="error-message">city not found</p>`)
}

func TestAssetsServed(t *testing.T) {
	app, _, _ := newTestApp(t)

	for _, icon := range weather.Icons() {
		resp, body := doRequest(t, app, http.MethodGet, icon.Asset)
		require.Equal(t, http.StatusOK, resp.StatusCode, icon.Asset)
		assert.Contains(t, string(body), "<svg")
	}
}
