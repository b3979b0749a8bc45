package respenvelope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

func TestStatusFromMessage(t *testing.T) {
	assert.Equal(t, respenvelope.StatusGatewayTimeout, respenvelope.StatusFromMessage("lambda function timed out after 30s"))
	assert.Equal(t, respenvelope.StatusInternalServerError, respenvelope.StatusFromMessage("connection refused"))
}

func TestErrorKindStatusMapping(t *testing.T) {
	assert.Equal(t, respenvelope.StatusBadRequest, respenvelope.ConfigError("bad input").Status())
	assert.Equal(t, respenvelope.StatusInternalServerError, respenvelope.IOError("disk full").Status())
	assert.Equal(t, respenvelope.StatusInternalServerError, respenvelope.InternalError("panic recovered").Status())
	assert.Equal(t, respenvelope.StatusGatewayTimeout, respenvelope.TimeoutError("it timed out").Status())
}

func TestFromMessageClassification(t *testing.T) {
	assert.Equal(t, respenvelope.StatusGatewayTimeout, respenvelope.FromMessage("request timed out").Status())
	assert.Equal(t, respenvelope.StatusInternalServerError, respenvelope.FromMessage("unexpected eof").Status())
}

func TestMakePayloadSuccess(t *testing.T) {
	cfg := model.DedupConfig{Threshold: 0.8}
	payload := respenvelope.MakePayload(nil, cfg, map[string]string{"bucket": "out"})

	assert.Equal(t, respenvelope.StatusOK, payload.StatusCode)
	assert.Equal(t, map[string]string{"bucket": "out"}, payload.Body)
}

func TestMakePayloadFailureEchoesConfig(t *testing.T) {
	cfg := model.DedupConfig{Threshold: 0.8}
	err := respenvelope.ConfigError("file must contain columns 'id' and 'text'")
	payload := respenvelope.MakePayload(err, cfg, nil)

	assert.Equal(t, respenvelope.StatusBadRequest, payload.StatusCode)
	body, ok := payload.Body.(respenvelope.FailureBody)
	assert.True(t, ok)
	assert.Equal(t, "file must contain columns 'id' and 'text'", body.Message)
	assert.Equal(t, cfg, body.Config)
}
