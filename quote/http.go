package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// maxBodySize bounds the size of a provider response.
const maxBodySize = 1 << 20

// getJSON performs an HTTP GET request to addr and unmarshals the JSON
// response body into data.
//
// Only the host and path are logged, the query may hold an API key.
func getJSON(ctx context.Context, client *http.Client, logger *zap.Logger, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	logger.Debug("http get",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.String("status", resp.Status),
		zap.Duration("duration", time.Since(start)),
	)

	// some providers describe the failure in a JSON body with a non 2xx status.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxBodySize+1)); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if buf.Len() > maxBodySize {
		return fmt.Errorf("response body exceeds %d bytes", maxBodySize)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Unmarshal(buf.Bytes(), data) == nil {
			return &statusError{Status: resp.Status, Code: resp.StatusCode, decoded: true}
		}
		return &statusError{Status: resp.Status, Code: resp.StatusCode}
	}
	if err := json.Unmarshal(buf.Bytes(), data); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// statusError reports a non 2xx HTTP response.
type statusError struct {
	Status  string
	Code    int
	decoded bool // true if the body was a valid JSON payload, and was decoded
}

func (e *statusError) Error() string { return "unexpected HTTP status " + e.Status }
