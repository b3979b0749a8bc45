// Package callback POSTs the completion envelope to a downstream HTTP
// endpoint. The call is wrapped in a circuit breaker so a flaky
// callback endpoint fails fast instead of risking the invocation's
// wall-clock budget.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

// Notifier posts the response envelope to a fixed endpoint.
type Notifier struct {
	endpoint string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
}

// NewNotifier builds a Notifier. name identifies the breaker in logs
// and metrics.
func NewNotifier(endpoint, name string) *Notifier {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 3 && counts.TotalFailures == counts.Requests
		},
	}
	return &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		cb:       gobreaker.NewCircuitBreaker(st),
	}
}

// Notify POSTs payload as JSON with the given API key header.
func (n *Notifier) Notify(ctx context.Context, apiKey string, payload respenvelope.Payload) *respenvelope.ServiceError {
	body, err := json.Marshal(payload)
	if err != nil {
		return respenvelope.InternalError("marshaling callback payload: %v", err)
	}

	_, err = n.cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-KEY", apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("callback endpoint returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return respenvelope.IOError("posting callback: %v", err)
	}
	return nil
}
