//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Class   string `json:"class"`
	} `json:"error"`
}

// AssertSuccessResponse checks the status and, for 2xx, decodes the body into target.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("expected status %d, got %d: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}
	if expectedStatus >= 200 && expectedStatus < 300 && target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "decode body: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status and that the error message contains msg.
// An empty msg skips the message check.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, msg string) {
	t.Helper()
	body := decodeError(t, w, expectedStatus)
	if msg != "" {
		assert.Contains(t, body.Error.Message, msg)
	}
}

// AssertErrorClass checks the status and the error class reported by the API.
func AssertErrorClass(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, class string) {
	t.Helper()
	body := decodeError(t, w, expectedStatus)
	assert.Equal(t, class, body.Error.Class, "error class: %s", w.Body.String())
}

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s", k)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) errorBody {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "status: %s", w.Body.String())

	var body errorBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "decode error body: %s", w.Body.String())
	return body
}
