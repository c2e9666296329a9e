package http

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/i18n"
	"github.com/guttosm/placement-service/internal/importer"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service"
)

// DefaultMaxUploadBytes caps item file uploads when no limit is configured.
const DefaultMaxUploadBytes int64 = 5 << 20

// Handler provides HTTP handlers for the layout routes.
type Handler struct {
	placement      service.PlacementService
	layouts        service.LayoutService
	maxUploadBytes int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxUploadBytes sets the size limit of uploaded item files.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandler creates a new Handler instance. layouts may be nil when
// persistence is disabled; the read endpoints then answer 503.
func NewHandler(placementService service.PlacementService, layouts service.LayoutService, opts ...HandlerOption) *Handler {
	h := &Handler{
		placement:      placementService,
		layouts:        layouts,
		maxUploadBytes: DefaultMaxUploadBytes,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Search handles POST /api/layouts/search requests.
//
// @Summary      Search a layout
// @Description  Places every item in the area without overlap, rotating items by 90 degrees when needed. The search is a best-first search over partial layouts bounded by an iteration budget. A layout that cannot be completed is returned with status "exhausted" and no placements. Supports idempotency via Idempotency-Key header.
// @Tags         Layouts
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        request body dto.SearchRequest true "Area and items"
// @Success      200 {object} dto.SuccessResponse{data=model.LayoutResult} "Search finished (solved or exhausted)"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid dimensions"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - missing layouts:write scope"
// @Failure      422 {object} dto.ErrorResponse "Item cannot fit or request exceeds limits"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      504 {object} dto.ErrorResponse "Search timed out"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts/search [post]
func (h *Handler) Search(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req := bindJSON[dto.SearchRequest](c, builder)
	if req == nil {
		return
	}

	items, labels := req.ExpandItems()
	result, err := h.placement.Search(c.Request.Context(), service.SearchInput{
		Width:         req.Area.Width,
		Height:        req.Area.Height,
		Items:         items,
		MaxIterations: req.MaxIterations,
		FailFast:      req.FailFast,
		Labels:        labels,
		RequestID:     middleware.GetRequestID(c),
		Source:        model.SourceAPI,
	})
	if err != nil {
		middleware.AuditLogError(loggingServiceFrom(c), c, model.ActionSearch, "Layout search failed", err, map[string]interface{}{
			"width":  req.Area.Width,
			"height": req.Area.Height,
			"items":  len(items),
		})
		status, key := searchErrorStatus(err)
		builder.Error(status, key, err)
		return
	}

	middleware.AuditLog(loggingServiceFrom(c), c, model.ActionSearch, result.ID, "Layout search completed", map[string]interface{}{
		"width":       req.Area.Width,
		"height":      req.Area.Height,
		"items":       len(items),
		"status":      result.Status,
		"utilization": result.Utilization,
		"cached":      result.Cached,
	})

	builder.SuccessOK(result)
}

// Import handles POST /api/layouts/import requests.
//
// @Summary      Search a layout for an uploaded item list
// @Description  Reads items from a CSV or XLSX file (header aliases, delimiter detection and quantity expansion are supported) and runs the same search as /api/layouts/search. Rows that cannot be parsed reject the whole upload and are listed in the error details.
// @Tags         Layouts
// @Accept       multipart/form-data
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        file formData file true "Item list (.csv or .xlsx)"
// @Param        width formData int true "Area width"
// @Param        height formData int true "Area height"
// @Param        max_iterations formData int false "Iteration budget override"
// @Param        fail_fast formData bool false "Reject items that fit in no orientation"
// @Success      200 {object} dto.SuccessResponse{data=model.LayoutResult} "Search finished (solved or exhausted)"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing file or invalid dimensions"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      413 {object} dto.ErrorResponse "Uploaded file too large"
// @Failure      415 {object} dto.ErrorResponse "Unsupported file format"
// @Failure      422 {object} dto.ErrorResponse "File rows rejected, item cannot fit or request exceeds limits"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts/import [post]
func (h *Handler) Import(c *gin.Context) {
	builder := NewResponseBuilder(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	form := bindForm[dto.ImportForm](c, builder)
	if form == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			builder.Error(http.StatusRequestEntityTooLarge, i18n.ErrKeyPayloadTooLarge, err)
			return
		}
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err, map[string]string{"file": "is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyImportFailed, err)
		return
	}
	defer file.Close()

	imported, err := importer.Import(fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			builder.Error(http.StatusUnsupportedMediaType, i18n.ErrKeyUnsupportedFormat, err)
			return
		}
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	metrics.RecordImport(format, len(imported.Items))

	if !imported.OK() {
		middleware.AuditLogError(loggingServiceFrom(c), c, model.ActionImport, "Item file rejected", imported.Err(), map[string]interface{}{
			"filename": fileHeader.Filename,
			"errors":   len(imported.Errors),
		})
		builder.ErrorWithDetails(http.StatusUnprocessableEntity, i18n.ErrKeyImportFailed, imported.Err(), importErrorDetails(imported.Errors))
		return
	}

	result, err := h.placement.Search(c.Request.Context(), service.SearchInput{
		Width:         form.Width,
		Height:        form.Height,
		Items:         imported.Items,
		MaxIterations: form.MaxIterations,
		FailFast:      form.FailFast,
		Labels:        imported.Labels,
		RequestID:     middleware.GetRequestID(c),
		Source:        model.SourceImport,
	})
	if err != nil {
		middleware.AuditLogError(loggingServiceFrom(c), c, model.ActionImport, "Layout search failed", err, map[string]interface{}{
			"filename": fileHeader.Filename,
			"items":    len(imported.Items),
		})
		status, key := searchErrorStatus(err)
		builder.Error(status, key, err)
		return
	}

	middleware.AuditLog(loggingServiceFrom(c), c, model.ActionImport, result.ID, "Imported layout search completed", map[string]interface{}{
		"filename": fileHeader.Filename,
		"format":   format,
		"items":    len(imported.Items),
		"warnings": imported.Warnings,
		"status":   result.Status,
	})

	builder.SuccessOK(result)
}

// searchErrorStatus maps service and engine errors to a status and message key.
func searchErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, placement.ErrInvalidDimension):
		return http.StatusBadRequest, i18n.ErrKeyValidationDimension
	case errors.Is(err, placement.ErrInfeasibleItem):
		return http.StatusUnprocessableEntity, i18n.ErrKeyInfeasibleItem
	case errors.Is(err, service.ErrSearchLimit):
		return http.StatusUnprocessableEntity, i18n.ErrKeySearchLimit
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}

// importErrorDetails turns "line 3: invalid width 'abc'" into
// {"line 3": "invalid width 'abc'"}.
func importErrorDetails(errs []string) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		where, msg, ok := strings.Cut(e, ": ")
		if !ok {
			where, msg = "file", e
		}
		if prev, exists := details[where]; exists {
			msg = prev + "; " + msg
		}
		details[where] = msg
	}
	return details
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// loggingServiceFrom returns the audit sink set by the router, or nil.
func loggingServiceFrom(c *gin.Context) service.LoggingService {
	ls, _ := c.Value(loggingServiceKey).(service.LoggingService)
	return ls
}
