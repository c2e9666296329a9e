package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(opts ...service.PlacementOption) *gin.Engine {
	opts = append([]service.PlacementOption{service.WithMaxIterations(10000)}, opts...)
	handler := NewHandler(service.NewPlacementService(opts...), nil)
	return NewRouter(handler, NewHealthHandler(), DefaultRouterConfig())
}

func setupRouterWithMock(t *testing.T, handlerOpts ...HandlerOption) (*gin.Engine, *mockPlacementService, *mockLayoutService) {
	placementSvc := newMockPlacementService(t)
	layoutSvc := newMockLayoutService(t)
	handler := NewHandler(placementSvc, layoutSvc, handlerOpts...)
	return NewRouter(handler, NewHealthHandler(), DefaultRouterConfig()), placementSvc, layoutSvc
}

// decodeLayout extracts the LayoutResult from a success envelope.
func decodeLayout(t *testing.T, w *httptest.ResponseRecorder) model.LayoutResult {
	t.Helper()

	var resp struct {
		Data      model.LayoutResult `json:"data"`
		RequestID string             `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	return resp.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		opts     []service.PlacementOption
		body     string
		wantCode int
		check    func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:     "two squares fit",
			body:     `{"area":{"width":4,"height":4},"items":[{"width":2,"height":2,"quantity":2}]}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				layout := decodeLayout(t, w)
				assert.Equal(t, model.LayoutStatusSolved, layout.Status)
				assert.Len(t, layout.Placements, 2)
				assert.Equal(t, 8, layout.OccupiedArea)
				assert.Equal(t, 16, layout.TotalArea)
				assert.InDelta(t, 0.5, layout.Utilization, 1e-9)
				assert.NotEmpty(t, layout.ID)
			},
		},
		{
			name:     "item placed rotated",
			body:     `{"area":{"width":1,"height":3},"items":[{"width":3,"height":1}]}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				layout := decodeLayout(t, w)
				require.Len(t, layout.Placements, 1)
				assert.True(t, layout.Placements[0].Rotated)
				assert.Equal(t, 1, layout.Placements[0].Width)
				assert.Equal(t, 3, layout.Placements[0].Height)
			},
		},
		{
			name:     "exhausted search returns empty layout",
			body:     `{"area":{"width":2,"height":2},"items":[{"width":2,"height":2,"quantity":2}]}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				layout := decodeLayout(t, w)
				assert.Equal(t, model.LayoutStatusExhausted, layout.Status)
				assert.Empty(t, layout.Placements)
				assert.Zero(t, layout.Utilization)
			},
		},
		{
			name:     "invalid JSON",
			body:     `invalid`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "zero area width",
			body:     `{"area":{"width":0,"height":4},"items":[{"width":1,"height":1}]}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
				assert.Equal(t, "Area and item dimensions must be positive integers", resp.Message)
				assert.Equal(t, "must be a positive integer", resp.Details["area.width"])
			},
		},
		{
			name:     "negative item id",
			body:     `{"area":{"width":4,"height":4},"items":[{"id":-1,"width":1,"height":1}]}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Contains(t, resp.Details, "items[0].id")
			},
		},
		{
			name:     "negative item height",
			body:     `{"area":{"width":4,"height":4},"items":[{"width":1,"height":-2}]}`,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Contains(t, resp.Details, "items[0].height")
			},
		},
		{
			name:     "infeasible item with fail fast",
			body:     `{"area":{"width":2,"height":2},"items":[{"width":3,"height":1}],"fail_fast":true}`,
			wantCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeUnprocessable, resp.Error)
				assert.Equal(t, "An item cannot fit in the area in any orientation", resp.Message)
			},
		},
		{
			name:     "infeasible item without fail fast is exhausted",
			body:     `{"area":{"width":2,"height":2},"items":[{"width":3,"height":1}]}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, model.LayoutStatusExhausted, decodeLayout(t, w).Status)
			},
		},
		{
			name:     "item limit exceeded",
			opts:     []service.PlacementOption{service.WithLimits(0, 3)},
			body:     `{"area":{"width":4,"height":4},"items":[{"width":1,"height":1,"quantity":4}]}`,
			wantCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "Request exceeds the configured area or item limit", decodeError(t, w).Message)
			},
		},
		{
			name:     "area whose cell count wraps is over the limit",
			opts:     []service.PlacementOption{service.WithLimits(10000, 0)},
			body:     `{"area":{"width":4294967296,"height":4294967296},"items":[{"width":1,"height":1}]}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "area whose cell count wraps without limits",
			body:     `{"area":{"width":4294967296,"height":4294967296},"items":[{"width":1,"height":1}]}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(tt.opts...)

			w := postJSON(router, "/api/layouts/search", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestSearch_WithMock(t *testing.T) {
	expected := model.LayoutResult{ID: "run-1", AreaWidth: 5, AreaHeight: 4, Status: model.LayoutStatusSolved}

	tests := []struct {
		name      string
		result    model.LayoutResult
		err       error
		wantCode  int
		wantError string
	}{
		{name: "result passed through", result: expected, wantCode: http.StatusOK},
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: http.StatusGatewayTimeout, wantError: dto.ErrCodeTimeout},
		{name: "engine dimension error", err: placement.ErrInvalidDimension, wantCode: http.StatusBadRequest, wantError: dto.ErrCodeInvalidRequest},
		{name: "unexpected error", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantError: dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, placementSvc, _ := setupRouterWithMock(t)

			placementSvc.On("Search", mock.Anything, mock.MatchedBy(func(in service.SearchInput) bool {
				return in.Width == 5 && in.Height == 4 &&
					len(in.Items) == 3 &&
					in.Items[0].ID == 7 && in.Items[1].ID == 7 &&
					in.Items[2].ID == 2 &&
					in.MaxIterations == 500 &&
					in.Source == model.SourceAPI &&
					in.RequestID != "" &&
					assert.ObjectsAreEqual([]string{"shelf", "shelf", ""}, in.Labels)
			})).Return(tt.result, tt.err).Once()

			w := postJSON(router, "/api/layouts/search",
				`{"area":{"width":5,"height":4},"items":[{"id":7,"width":2,"height":1,"quantity":2,"label":"shelf"},{"width":1,"height":1}],"max_iterations":500}`)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.err == nil {
				assert.Equal(t, expected, decodeLayout(t, w))
				return
			}
			assert.Equal(t, tt.wantError, decodeError(t, w).Error)
		})
	}
}

// multipartBody builds an upload with one file part and plain form fields.
func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postUpload(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/layouts/import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestImport(t *testing.T) {
	area := map[string]string{"width": "4", "height": "4"}

	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
		wantCode int
		check    func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:     "csv with quantities",
			filename: "items.csv",
			content:  "label,width,height,qty\nshelf,2,2,2\ndesk,4,2,1\n",
			fields:   area,
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				layout := decodeLayout(t, w)
				assert.Equal(t, model.LayoutStatusSolved, layout.Status)
				assert.Len(t, layout.Placements, 3)
				assert.InDelta(t, 1.0, layout.Utilization, 1e-9)
			},
		},
		{
			name:     "missing file",
			fields:   area,
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "is required", decodeError(t, w).Details["file"])
			},
		},
		{
			name:     "unsupported extension",
			filename: "items.json",
			content:  `[{"width":1}]`,
			fields:   area,
			wantCode: http.StatusUnsupportedMediaType,
		},
		{
			name:     "rejected rows are listed",
			filename: "items.csv",
			content:  "width,height\nabc,2\n2,2\n",
			fields:   area,
			wantCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Equal(t, "The item file could not be imported", resp.Message)
				assert.Equal(t, "invalid width 'abc'", resp.Details["line 2"])
			},
		},
		{
			name:     "empty file",
			filename: "items.csv",
			content:  "",
			fields:   area,
			wantCode: http.StatusUnprocessableEntity,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, "file is empty", decodeError(t, w).Details["file"])
			},
		},
		{
			name:     "invalid area",
			filename: "items.csv",
			content:  "2,2\n",
			fields:   map[string]string{"width": "0", "height": "4"},
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, decodeError(t, w).Details, "area.width")
			},
		},
		{
			name:     "non numeric form field",
			filename: "items.csv",
			content:  "2,2\n",
			fields:   map[string]string{"width": "wide", "height": "4"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter()
			body, contentType := multipartBody(t, tt.filename, tt.content, tt.fields)

			w := postUpload(router, body, contentType)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestImport_PassesLabelsAndSource(t *testing.T) {
	router, placementSvc, _ := setupRouterWithMock(t)
	expected := model.LayoutResult{ID: "run-2", Status: model.LayoutStatusSolved}

	placementSvc.On("Search", mock.Anything, mock.MatchedBy(func(in service.SearchInput) bool {
		return in.Source == model.SourceImport &&
			in.Width == 6 && in.Height == 3 &&
			in.FailFast &&
			len(in.Items) == 3 &&
			assert.ObjectsAreEqual([]string{"table", "chair", "chair"}, in.Labels)
	})).Return(expected, nil).Once()

	body, contentType := multipartBody(t, "items.csv", "name;w;h;pcs\ntable;6;2;1\nchair;1;1;2\n",
		map[string]string{"width": "6", "height": "3", "fail_fast": "true"})

	w := postUpload(router, body, contentType)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, expected, decodeLayout(t, w))
}

func TestImport_PayloadTooLarge(t *testing.T) {
	router, _, _ := setupRouterWithMock(t, WithMaxUploadBytes(256))

	content := strings.Repeat("1,1\n", 1000)
	body, contentType := multipartBody(t, "items.csv", content, map[string]string{"width": "4", "height": "4"})

	w := postUpload(router, body, contentType)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodePayloadTooLarge, decodeError(t, w).Error)
}

func TestImportErrorDetails(t *testing.T) {
	got := importErrorDetails([]string{
		"line 2: invalid width 'x'",
		"line 2: duplicate",
		"row 4: missing height",
		"no items found",
	})

	assert.Equal(t, map[string]string{
		"line 2": "invalid width 'x'; duplicate",
		"row 4":  "missing height",
		"file":   "no items found",
	}, got)
}

func TestHealthEndpoints(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{
			name:     "liveness check",
			path:     "/healthz",
			wantCode: http.StatusOK,
			wantBody: `"status":"ok"`,
		},
		{
			name:     "readiness check",
			path:     "/readyz",
			wantCode: http.StatusOK,
			wantBody: `"status":"ok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func BenchmarkHandler(b *testing.B) {
	router := setupRouter()
	body := []byte(`{"area":{"width":6,"height":6},"items":[{"width":3,"height":2,"quantity":3},{"width":2,"height":2,"quantity":2}]}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/layouts/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}
