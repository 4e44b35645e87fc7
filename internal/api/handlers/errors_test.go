package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rohits-web03/filekeep/internal/controllers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[controllers.Kind]int{
		controllers.KindMissingArgument:    http.StatusBadRequest,
		controllers.KindInvalidAccessValue: http.StatusBadRequest,
		controllers.KindMissingAccessToken: http.StatusBadRequest,
		controllers.KindInvalidToken:       http.StatusBadRequest,
		controllers.KindFileNotFound:       http.StatusNotFound,
		controllers.KindFileDeleted:        http.StatusGone,
		controllers.KindAlreadyDeleted:     http.StatusConflict,
		controllers.KindStorageFailure:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), kind.String())
	}
}

func TestWriteErrorHidesStorageDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, "download", errors.New("disk on fire at /var/data"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/var/data")

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "storage_failure", body.Data["error"])
}

func TestWriteErrorClientKinds(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, "update_access", &controllers.Error{Kind: controllers.KindInvalidAccessValue, Value: "shared"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "access value not public or private, value received: shared")
	assert.Contains(t, rec.Body.String(), "invalid_access_value")
}
