package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrms/internal/apperror"
	"hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithError(t *testing.T, debug bool, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.ErrorHandler(debug))
	router.GET("/boom", func(c *gin.Context) {
		c.Error(err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	return w
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	w := serveWithError(t, false, apperror.Conflict("Email already registered"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestErrorHandlerWrappedAppError(t *testing.T) {
	wrapped := apperror.NotFound("Role not found")
	w := serveWithError(t, false, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Non-operational errors must not leak their message outside debug mode.
func TestErrorHandlerGenericInternal(t *testing.T) {
	w := serveWithError(t, false, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestErrorHandlerDebugExposesCause(t *testing.T) {
	w := serveWithError(t, true, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
