package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/foxseedlab/lucidia/internal/analysis"
)

const (
	defaultRequestTimeout = 2 * time.Minute
	maxResponseBytes      = 1 << 20
)

var errMalformedResponse = errors.New("analysis response has neither result nor error")

type HTTPClient struct {
	endpointURL string
	client      *http.Client
}

func NewHTTPClient(endpointURL string) analysis.Client {
	return &HTTPClient{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Process posts {"transcript": ...} and decodes the reply. A non-2xx status
// whose body still carries an error field is returned as a normal response.
func (c *HTTPClient) Process(ctx context.Context, transcript string) (analysis.Response, error) {
	b, err := json.Marshal(analysis.Request{Transcript: transcript})
	if err != nil {
		return analysis.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(b))
	if err != nil {
		return analysis.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return analysis.Response{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return analysis.Response{}, fmt.Errorf("failed to read analysis response: %w", err)
	}
	var out analysis.Response
	decodeErr := json.Unmarshal(body, &out)
	if !isHTTPSuccessStatus(resp.StatusCode) {
		if decodeErr == nil && out.Error != nil {
			return analysis.Response{Error: out.Error}, nil
		}
		return analysis.Response{}, fmt.Errorf("analysis endpoint returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return analysis.Response{}, fmt.Errorf("failed to decode analysis response: %w", decodeErr)
	}
	if !out.IsWellFormed() {
		return analysis.Response{}, errMalformedResponse
	}
	return out, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
