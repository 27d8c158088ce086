package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

//go:generate mockgen -destination=mock_transport.go -package=transport github.com/st-keller/knowu/transport HTTPClient

// ContentType is the media type of every fingerprint POST.
const ContentType = "application/json"

// HTTPClient is the subset of *http.Client used to deliver records.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Post sends body to url as a single JSON POST and returns the response
// unmodified. Non-2xx statuses are not errors; the caller owns resp.Body.
func Post(ctx context.Context, client HTTPClient, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return resp, nil
}
