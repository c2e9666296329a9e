package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
	"github.com/guttosm/placement-service/internal/logger"
)

// ErrorHandler answers requests that recorded errors on the gin context
// without writing a response. Bind errors map to 400, the rest to 500.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Component("errors")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		requestID := GetRequestID(c)

		log.Error().
			Str("request_id", requestID).
			Strs("errors", c.Errors.Errors()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}

		status, code, key := http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
		if last.IsType(gin.ErrorTypeBind) {
			status, code, key = http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest
		}
		message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
		c.JSON(status, dto.NewError(code, message).WithRequestID(requestID))
	}
}
