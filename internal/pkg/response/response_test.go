package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
)

func TestError_FieldErrorIsBareObject(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apierrors.ErrDuplicateIdentifier)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"identifier":"Identifier already exists"}`, rec.Body.String())
}

func TestError_PlainErrorIsWrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apierrors.ErrSessionMismatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "session_mismatch", body["error"]["code"])
}

func TestError_UnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]bool{"success": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
