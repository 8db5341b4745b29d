//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

// AssertErrorResponse checks the status and the exact {"message": ...} body.
// An empty expectedMsg only checks that a message is present.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String()))

	var errorResponse struct {
		Message string `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedMsg != "" {
		assert.Equal(t, expectedMsg, errorResponse.Message)
	} else {
		assert.NotEmpty(t, errorResponse.Message)
	}
}

// AssertOK checks a 200 {"ok": want} body.
func AssertOK(t *testing.T, w *httptest.ResponseRecorder, want bool) {
	t.Helper()

	var body struct {
		OK *bool `json:"ok"`
	}
	AssertSuccessResponse(t, w, 200, &body)
	if assert.NotNil(t, body.OK, "response has no ok field: %s", w.Body.String()) {
		assert.Equal(t, want, *body.OK)
	}
}
