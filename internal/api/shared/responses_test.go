package shared_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murmurhq/murmur-api/internal/api/shared"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithJSON(rr, req, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestRespondWithErrorShape(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithError(rr, req, http.StatusNotFound, "Message not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The body carries exactly one field; status codes and trace IDs are
	// log-only.
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"error": "Message not found"}, body)
}

func TestRespondWithErrorAndLogHidesDetails(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithErrorAndLog(rr, req, http.StatusInternalServerError,
		"Internal Server Error",
		assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	assert.Contains(t, rr.Body.String(), "Internal Server Error")
}
