package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/service"
)

// AuditLog records an action such as a search or an import. Entries are
// written asynchronously.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, runID string, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := newAuditEntry(c, "info", actionType, runID, message, fields)
	storeAsync(loggingService, entry)
}

// AuditLogError records a failed action.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}
	entry := newAuditEntry(c, "error", actionType, "", message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	storeAsync(loggingService, entry)
}

func newAuditEntry(c *gin.Context, level, actionType, runID, message string, fields map[string]interface{}) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Subject:    GetAuthSubject(c),
		AuthMethod: GetAuthMethod(c),
		ActionType: actionType,
		RunID:      runID,
		Fields:     fields,
	}
}

// storeAsync hands the entry to the running batcher for loggingService,
// otherwise to a short-lived goroutine.
func storeAsync(loggingService service.LoggingService, entry *model.LogEntry) {
	if b := currentLogBatcher(); b != nil && b.sink == loggingService {
		b.Enqueue(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
