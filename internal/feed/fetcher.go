package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"leaveby.app/internal/logging"
)

// Fetcher retrieves the raw bytes of one snapshot from a source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// HTTPFetcher fetches snapshots over HTTP, adding the configured headers to
// every request. Sources that are not http(s) URLs are read from disk, which
// keeps recorded snapshots usable for offline runs.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPFetcher creates a fetcher. A nil client selects http.DefaultClient.
func NewHTTPFetcher(client *http.Client, headers map[string]string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client, headers: headers}
}

// IsRemote reports whether source is fetched over HTTP rather than read from disk.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (f *HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			return nil, &TransportError{Source: source, Err: err}
		}
		return b, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}

	for key, value := range f.headers {
		req.Header.Add(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "feed_fetcher")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Source: source, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}
	return b, nil
}
