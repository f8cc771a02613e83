package opener

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPSource is an Opener implementation that fetches a single byte stream
// with one HTTP(S) GET request. It stores the request URL and performs the
// request lazily, on Open.
//
// The identity of the data source is the URL itself.
type HTTPSource struct {
	URL string

	// Client is used to perform the request. If nil, http.DefaultClient is
	// used.
	Client *http.Client
}

// NewHTTPSource constructs an HTTPSource opener for the given URL.
//
// Example:
//
//	o := opener.NewHTTPSource("https://example.com/data.csv")
//	r, err := o.Open(context.Background())
func NewHTTPSource(url string) HTTPSource {
	return HTTPSource{URL: url}
}

// Open issues a GET request for the source URL and returns the response
// body as an io.ReadCloser. A non-2xx status closes the body and returns an
// error instead of handing back a stream of error-page bytes.
//
// Callers are responsible for closing the returned ReadCloser.
func (h HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("opener: building request for %q: %w", h.URL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opener: fetching %q: %w", h.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("opener: fetching %q: unexpected status %s", h.URL, resp.Status)
	}
	return resp.Body, nil
}

// Name returns the stable identity of this data source: the request URL.
func (h HTTPSource) Name() string {
	return h.URL
}

// HTTPOpenerFactory resolves a single http:// or https:// spec into one
// HTTPSource opener. Unlike RegularFileOpenerFactory it never expands to
// more than one source: a URL names exactly one resource.
func HTTPOpenerFactory(spec string) ([]Opener, error) {
	return []Opener{NewHTTPSource(spec)}, nil
}
