package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		handler        gin.HandlerFunc
		expectedStatus int
		mustContain    []string
	}{
		{
			name: "unhandled error",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("layouts collection dropped"))
			},
			expectedStatus: http.StatusInternalServerError,
			mustContain:    []string{"internal_error", "An unexpected error occurred", "req-9"},
		},
		{
			name: "bind error",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("width is not a number")).SetType(gin.ErrorTypeBind)
			},
			expectedStatus: http.StatusBadRequest,
			mustContain:    []string{"invalid_request", "Invalid request"},
		},
		{
			name: "error after response",
			handler: func(c *gin.Context) {
				c.String(http.StatusAccepted, "stored")
				_ = c.Error(errors.New("audit write failed"))
			},
			expectedStatus: http.StatusAccepted,
			mustContain:    []string{"stored"},
		},
		{
			name:           "no errors",
			handler:        func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			expectedStatus: http.StatusOK,
			mustContain:    []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.GET("/api/layouts", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/api/layouts", nil)
			req.Header.Set(RequestIDHeader, "req-9")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, substr := range tt.mustContain {
				assert.Contains(t, w.Body.String(), substr)
			}
		})
	}
}
