// Package respenvelope shapes the response envelope and error
// taxonomy returned to the cloud function runtime.
package respenvelope

import "strings"

// Status is one of the five HTTP-style status codes the runtime and
// downstream callback understand.
type Status int

const (
	StatusOK                  Status = 200
	StatusAccepted            Status = 202
	StatusBadRequest          Status = 400
	StatusInternalServerError Status = 500
	StatusGatewayTimeout      Status = 504
)

// StatusFromMessage reconstructs a Status from a free-text error
// message: any message containing "timed out" is a gateway timeout,
// everything else is an internal server error.
func StatusFromMessage(msg string) Status {
	if strings.Contains(msg, "timed out") {
		return StatusGatewayTimeout
	}
	return StatusInternalServerError
}
