package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/export"
	"github.com/guttosm/placement-service/internal/i18n"
	"github.com/guttosm/placement-service/internal/middleware"
	"github.com/guttosm/placement-service/internal/service"
)

// Render formats accepted by RenderLayout.
const (
	RenderFormatText = "text"
	RenderFormatPDF  = "pdf"
	RenderFormatDXF  = "dxf"
)

// defaultListLimit applies when the client sends no limit.
const defaultListLimit = 20

// ListLayouts handles GET /api/layouts requests.
//
// @Summary      List stored layouts
// @Description  Returns stored search runs, newest first
// @Tags         Layouts
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        limit query int false "Page size (default 20)"
// @Param        skip query int false "Number of layouts to skip"
// @Param        status query string false "Filter by status" Enums(solved, exhausted)
// @Param        source query string false "Filter by source" Enums(api, import, cli)
// @Success      200 {object} dto.SuccessResponse{data=dto.LayoutListResponse} "Layouts page"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      503 {object} dto.ErrorResponse "Layout storage unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts [get]
func (h *Handler) ListLayouts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	query := bindQuery[dto.ListLayoutsQuery](c, builder)
	if query == nil {
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultListLimit
	}

	if h.layouts == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStorageUnavailable, service.ErrRepositoryNotConfigured)
		return
	}

	ctx := c.Request.Context()
	opts := query.Options()
	layouts, err := h.layouts.List(ctx, opts)
	if err != nil {
		h.storageError(builder, err)
		return
	}
	total, err := h.layouts.Count(ctx, opts)
	if err != nil {
		h.storageError(builder, err)
		return
	}

	if layouts == nil {
		layouts = []model.Layout{}
	}
	builder.SuccessOK(dto.LayoutListResponse{
		Layouts: layouts,
		Total:   total,
		Limit:   query.Limit,
		Skip:    query.Skip,
	})
}

// GetLayout handles GET /api/layouts/:id requests.
//
// @Summary      Get a stored layout
// @Description  Returns a stored search run with its items and placements
// @Tags         Layouts
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Run id"
// @Success      200 {object} dto.SuccessResponse{data=model.Layout} "Stored layout"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      404 {object} dto.ErrorResponse "Layout not found"
// @Failure      503 {object} dto.ErrorResponse "Layout storage unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts/{id} [get]
func (h *Handler) GetLayout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	layout, ok := h.loadLayout(c, builder)
	if !ok {
		return
	}

	middleware.AuditLog(loggingServiceFrom(c), c, model.ActionRead, layout.ID, "Layout read", nil)
	builder.SuccessOK(layout)
}

// LayoutHistory handles GET /api/layouts/:id/history requests.
//
// @Summary      Get the history of a stored layout
// @Description  Lists the recorded searches, reads and renders of a layout with the caller of each, newest first
// @Tags         Layouts
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Run id"
// @Param        limit query int false "Maximum entries (default 100, max 1000)"
// @Success      200 {object} dto.SuccessResponse{data=dto.LayoutHistoryResponse} "Layout history"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid query"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      404 {object} dto.ErrorResponse "Layout not found"
// @Failure      503 {object} dto.ErrorResponse "Layout storage or history unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts/{id}/history [get]
func (h *Handler) LayoutHistory(c *gin.Context) {
	builder := NewResponseBuilder(c)

	query := bindQuery[dto.HistoryQuery](c, builder)
	if query == nil {
		return
	}

	logs := loggingServiceFrom(c)
	if logs == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyHistoryUnavailable, nil)
		return
	}

	layout, ok := h.loadLayout(c, builder)
	if !ok {
		return
	}

	entries, err := logs.QueryLogs(c.Request.Context(), model.LogQueryOptions{RunID: layout.ID, Limit: query.Limit})
	if err != nil {
		h.storageError(builder, err)
		return
	}

	builder.SuccessOK(dto.NewLayoutHistory(layout.ID, entries))
}

// RenderLayout handles GET /api/layouts/:id/render requests.
//
// @Summary      Render a stored layout
// @Description  Renders a stored layout as an ASCII grid, a PDF sheet with a QR code, or a DXF drawing
// @Tags         Layouts
// @Produce      plain
// @Produce      application/pdf
// @Produce      application/dxf
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Param        id path string true "Run id"
// @Param        format query string false "Output format (default text)" Enums(text, pdf, dxf)
// @Success      200 {file} file "Rendered layout"
// @Failure      400 {object} dto.ErrorResponse "Unsupported render format"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid credentials"
// @Failure      404 {object} dto.ErrorResponse "Layout not found"
// @Failure      503 {object} dto.ErrorResponse "Layout storage unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/layouts/{id}/render [get]
func (h *Handler) RenderLayout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	format := c.DefaultQuery("format", RenderFormatText)
	switch format {
	case RenderFormatText, RenderFormatPDF, RenderFormatDXF:
	default:
		builder.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyUnsupportedRenderFormat, nil, map[string]string{"format": format})
		return
	}

	layout, ok := h.loadLayout(c, builder)
	if !ok {
		return
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case RenderFormatPDF:
		var buf bytes.Buffer
		err = export.WritePDF(&buf, layout.LayoutResult)
		body, contentType = buf.Bytes(), "application/pdf"
	case RenderFormatDXF:
		body, err = export.RenderDXF(layout.LayoutResult)
		contentType = "application/dxf"
	default:
		var text string
		text, err = export.RenderText(layout.LayoutResult)
		body, contentType = []byte(text), "text/plain; charset=utf-8"
	}
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	middleware.AuditLog(loggingServiceFrom(c), c, model.ActionRender, layout.ID, "Layout rendered", map[string]interface{}{
		"format": format,
		"bytes":  len(body),
	})

	if format != RenderFormatText {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="layout-%s.%s"`, layout.ID, format))
	}
	c.Data(http.StatusOK, contentType, body)
}

// loadLayout fetches the layout named by the :id path parameter and answers
// the request itself when that fails.
func (h *Handler) loadLayout(c *gin.Context, builder *ResponseBuilder) (*model.Layout, bool) {
	if h.layouts == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStorageUnavailable, service.ErrRepositoryNotConfigured)
		return nil, false
	}

	layout, err := h.layouts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storageError(builder, err)
		return nil, false
	}
	return layout, true
}

func (h *Handler) storageError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, service.ErrLayoutNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyLayoutNotFound, err)
	case errors.Is(err, service.ErrRepositoryNotConfigured), errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStorageUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}
