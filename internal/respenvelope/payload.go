package respenvelope

import "github.com/lshdedup/lshdedup/internal/model"

// Payload is the envelope handed back to the cloud function runtime
// and, unmodified, POSTed to the downstream callback.
type Payload struct {
	StatusCode Status         `json:"statusCode"`
	Headers    map[string]any `json:"headers,omitempty"`
	Body       any            `json:"body"`
}

// FailureBody is the shape of Payload.Body on any non-OK status: a
// human-readable message plus the echoed request config, so the
// callback's receiver can correlate the failure with its invocation.
type FailureBody struct {
	Message string            `json:"message"`
	Config  model.DedupConfig `json:"config"`
}

// MakePayload builds the success or failure envelope for a pipeline
// run. On success, body is the caller-supplied value (the output
// object reference); on failure, body is a FailureBody echoing cfg.
func MakePayload(err *ServiceError, cfg model.DedupConfig, onSuccess any) Payload {
	headers := map[string]any{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
	if err == nil {
		return Payload{StatusCode: StatusOK, Headers: headers, Body: onSuccess}
	}
	return Payload{
		StatusCode: err.Status(),
		Headers:    headers,
		Body:       FailureBody{Message: err.Msg, Config: cfg},
	}
}
