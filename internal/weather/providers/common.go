package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-widget/internal/weather"
)

var errNoHTTPClient = errors.New("http client not configured")

// HTTPClientConfig bundles the HTTP client used for provider calls.
type HTTPClientConfig struct {
	Client *http.Client
}

// doGet executes exactly one GET request. The response is returned whatever
// its status code, because the provider reports failures in the body.
func doGet(ctx context.Context, cfg HTTPClientConfig, baseURL string, values url.Values) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, &weather.FetchError{Kind: weather.FailureTransport, Err: errNoHTTPClient}
	}

	u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &weather.FetchError{Kind: weather.FailureTransport, Err: err}
	}

	resp, err := cfg.Client.Do(req)
	if err != nil {
		return nil, &weather.FetchError{Kind: weather.FailureTransport, Err: err}
	}
	return resp, nil
}

// statusCode decodes a code sent either as a JSON number or a numeric string.
type statusCode int

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", str, err)
		}
		*s = statusCode(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = statusCode(n)
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
