package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "activation-service.backend/internal/domain/errors"
)

func fixClock(t *testing.T) time.Time {
	t.Helper()
	fixed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return fixed }
	return fixed
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixClock(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, http.StatusOK, gin.H{"ok": true}, "ok")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, "2024-01-01T08:00:00Z", body["timestamp"])
	assert.Equal(t, map[string]interface{}{"ok": true}, body["data"])
}

func TestFail_OmitsData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, http.StatusOK, "code not found or product mismatch")
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestError_AppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, fmt.Errorf("wrapped: %w", domainerrors.Validation("code and product_key are required")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "code and product_key are required", decode(t, w)["message"])
	assert.Len(t, c.Errors, 1)
}

func TestError_GenericError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("sql: database is closed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["message"])
	assert.NotContains(t, w.Body.String(), "sql:")
}

func TestAbortWithErrorAndNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, domainerrors.TooManyRequests("too many requests"))
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NotFound(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgNotFound, decode(t, w)["message"])
}
