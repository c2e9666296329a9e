package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/rs/zerolog"
)

// unloggedPrefixes are health check and scrape paths; they are logged to the console
// at debug level and never stored.
var unloggedPrefixes = []string{"/healthz", "/readyz", "/metrics", "/swagger/"}

// RequestLogger writes one structured line per request and, when
// loggingService is set, stores an entry for it.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		route := c.FullPath()
		quiet := isUnloggedPath(path)

		event := requestEvent(zerolog.Ctx(c.Request.Context()), status, quiet)
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", route).
			Int("status_code", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")

		if loggingService == nil || quiet {
			return
		}
		storeAsync(loggingService, &model.LogEntry{
			Timestamp:  start,
			Level:      getLogLevel(status),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Subject:    GetAuthSubject(c),
			AuthMethod: GetAuthMethod(c),
			Error:      c.Errors.ByType(gin.ErrorTypePrivate).String(),
		})
	}
}

func requestEvent(log *zerolog.Logger, status int, quiet bool) *zerolog.Event {
	switch {
	case status >= 500:
		return log.Error()
	case status >= 400:
		return log.Warn()
	case quiet:
		return log.Debug()
	default:
		return log.Info()
	}
}

func isUnloggedPath(path string) bool {
	for _, prefix := range unloggedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// getLogLevel maps a status code to the stored entry level.
func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}
