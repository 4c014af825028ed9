// Package sink mirrors completed results to remote services.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
)

// HTTPSink posts each result as JSON to an endpoint.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTP returns a sink posting to endpoint.
func NewHTTP(endpoint string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit sends one payload. Any non-2xx response is an error.
func (s *HTTPSink) Submit(ctx context.Context, payload model.ResultPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "cogni")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post result: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to drain response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("results endpoint returned %s", resp.Status)
	}
	return nil
}
