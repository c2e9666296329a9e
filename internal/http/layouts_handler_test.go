package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/placement-service/internal/circuitbreaker"
	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/placement"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// storedLayout is a solved 4x3 run with a rotated item.
func storedLayout(runID string) *model.Layout {
	return &model.Layout{
		LayoutResult: model.NewLayoutResult(runID, 4, 3, placement.Result{
			Status: placement.StatusSolved,
			Placements: []placement.Placement{
				{Item: placement.NewItem(0, 2, 2), Position: placement.Position{X: 0, Y: 0}},
				{Item: placement.NewItem(1, 3, 1), Position: placement.Position{X: 2, Y: 0}, Rotated: true},
			},
		}),
		Items:     []model.LayoutItem{{ID: 0, Width: 2, Height: 2, Label: "crate"}, {ID: 1, Width: 3, Height: 1}},
		Source:    model.SourceAPI,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListLayouts(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		setupMock func(*mockLayoutService)
		wantCode  int
		check     func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "default page",
			query: "",
			setupMock: func(m *mockLayoutService) {
				opts := model.LayoutQueryOptions{Limit: 20}
				m.On("List", mock.Anything, opts).Return([]model.Layout{*storedLayout("run-1")}, nil).Once()
				m.On("Count", mock.Anything, opts).Return(int64(1), nil).Once()
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data dto.LayoutListResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, int64(1), resp.Data.Total)
				assert.Equal(t, 20, resp.Data.Limit)
				require.Len(t, resp.Data.Layouts, 1)
				assert.Equal(t, "run-1", resp.Data.Layouts[0].ID)
				assert.Equal(t, "crate", resp.Data.Layouts[0].Items[0].Label)
			},
		},
		{
			name:  "filters and paging",
			query: "?limit=5&skip=10&status=exhausted&source=import",
			setupMock: func(m *mockLayoutService) {
				opts := model.LayoutQueryOptions{Limit: 5, Skip: 10, Status: model.LayoutStatusExhausted, Source: model.SourceImport}
				m.On("List", mock.Anything, opts).Return(nil, nil).Once()
				m.On("Count", mock.Anything, opts).Return(int64(0), nil).Once()
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, w.Body.String(), `"layouts":[]`)
			},
		},
		{
			name:     "unknown status",
			query:    "?status=pending",
			wantCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, decodeError(t, w).Details, "status")
			},
		},
		{
			name:     "negative limit",
			query:    "?limit=-1",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non numeric skip",
			query:    "?skip=abc",
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "circuit open",
			query: "",
			setupMock: func(m *mockLayoutService) {
				m.On("List", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("list layouts: %w", circuitbreaker.ErrCircuitOpen)).Once()
			},
			wantCode: http.StatusServiceUnavailable,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeUnavailable, resp.Error)
				assert.Equal(t, "Layout storage is not available", resp.Message)
			},
		},
		{
			name:  "count fails",
			query: "",
			setupMock: func(m *mockLayoutService) {
				m.On("List", mock.Anything, mock.Anything).Return([]model.Layout{}, nil).Once()
				m.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, layoutSvc := setupRouterWithMock(t)
			if tt.setupMock != nil {
				tt.setupMock(layoutSvc)
			}

			w := get(router, "/api/layouts"+tt.query)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestLayoutRoutes_StorageDisabled(t *testing.T) {
	router := setupRouter()

	for _, path := range []string{"/api/layouts", "/api/layouts/run-1", "/api/layouts/run-1/render"} {
		t.Run(path, func(t *testing.T) {
			w := get(router, path)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, dto.ErrCodeUnavailable, decodeError(t, w).Error)
		})
	}
}

func TestGetLayout(t *testing.T) {
	tests := []struct {
		name     string
		layout   *model.Layout
		err      error
		wantCode int
	}{
		{name: "found", layout: storedLayout("run-1"), wantCode: http.StatusOK},
		{name: "not found", err: service.ErrLayoutNotFound, wantCode: http.StatusNotFound},
		{name: "repository not configured", err: service.ErrRepositoryNotConfigured, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, layoutSvc := setupRouterWithMock(t)
			layoutSvc.On("Get", mock.Anything, "run-1").Return(tt.layout, tt.err).Once()

			w := get(router, "/api/layouts/run-1")

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.layout == nil {
				return
			}
			var resp struct {
				Data model.Layout `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "run-1", resp.Data.ID)
			assert.Equal(t, model.LayoutStatusSolved, resp.Data.Status)
			assert.Len(t, resp.Data.Placements, 2)
			assert.Equal(t, model.SourceAPI, resp.Data.Source)
		})
	}
}

func TestRenderLayout(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedType   string
		expectedAttach bool
		checkBody      func(*testing.T, string)
	}{
		{
			name:         "default text",
			query:        "",
			expectedType: "text/plain; charset=utf-8",
			checkBody: func(t *testing.T, body string) {
				assert.True(t, strings.HasPrefix(body, "1 1 2 .\n"), "got %q", body)
				assert.Contains(t, body, "Utilization: 58.33% (7/12)")
			},
		},
		{
			name:           "pdf",
			query:          "?format=pdf",
			expectedType:   "application/pdf",
			expectedAttach: true,
			checkBody: func(t *testing.T, body string) {
				assert.True(t, strings.HasPrefix(body, "%PDF-"))
			},
		},
		{
			name:           "dxf",
			query:          "?format=dxf",
			expectedType:   "application/dxf",
			expectedAttach: true,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, "LWPOLYLINE")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, layoutSvc := setupRouterWithMock(t)
			layoutSvc.On("Get", mock.Anything, "run-1").Return(storedLayout("run-1"), nil).Once()

			w := get(router, "/api/layouts/run-1/render"+tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedType, w.Header().Get("Content-Type"))
			disposition := w.Header().Get("Content-Disposition")
			if tt.expectedAttach {
				assert.Contains(t, disposition, "layout-run-1.")
			} else {
				assert.Empty(t, disposition)
			}
			tt.checkBody(t, w.Body.String())
		})
	}
}

func TestRenderLayout_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		router, _, _ := setupRouterWithMock(t)

		w := get(router, "/api/layouts/run-1/render?format=svg")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "svg", resp.Details["format"])
		assert.Equal(t, "Unsupported render format, use text, pdf or dxf", resp.Message)
	})

	t.Run("not found", func(t *testing.T) {
		router, _, layoutSvc := setupRouterWithMock(t)
		layoutSvc.On("Get", mock.Anything, "missing").Return(nil, service.ErrLayoutNotFound).Once()

		w := get(router, "/api/layouts/missing/render?format=pdf")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Layout not found", decodeError(t, w).Message)
	})
}

// historyLogs serves canned history and accepts the request log writes the
// router makes.
type historyLogs struct {
	mu      sync.Mutex
	entries []model.LogEntry
	err     error
	query   model.LogQueryOptions
}

func (l *historyLogs) CreateLog(context.Context, *model.LogEntry) error    { return nil }
func (l *historyLogs) CreateLogs(context.Context, []*model.LogEntry) error { return nil }

func (l *historyLogs) CountLogs(context.Context, model.LogQueryOptions) (int64, error) {
	return 0, nil
}

func (l *historyLogs) QueryLogs(_ context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = opts
	return l.entries, l.err
}

func TestLayoutHistory(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	recorded := []model.LogEntry{
		{Timestamp: at, Level: "info", Message: "Layout rendered", ActionType: model.ActionRender, RunID: "run-1", Subject: "svc-batch", AuthMethod: "jwt"},
		{Timestamp: at.Add(-time.Minute), Level: "info", Message: "Layout search completed", ActionType: model.ActionSearch, RunID: "run-1", RequestID: "req-9"},
	}

	tests := []struct {
		name      string
		query     string
		logs      *historyLogs
		setupMock func(*mockLayoutService)
		wantCode  int
		check     func(*testing.T, *httptest.ResponseRecorder, *historyLogs)
	}{
		{
			name:  "entries newest first",
			query: "?limit=10",
			logs:  &historyLogs{entries: recorded},
			setupMock: func(m *mockLayoutService) {
				m.On("Get", mock.Anything, "run-1").Return(storedLayout("run-1"), nil).Once()
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, logs *historyLogs) {
				var resp struct {
					Data dto.LayoutHistoryResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "run-1", resp.Data.RunID)
				require.Len(t, resp.Data.Entries, 2)
				assert.Equal(t, model.ActionRender, resp.Data.Entries[0].Action)
				assert.Equal(t, "svc-batch", resp.Data.Entries[0].Subject)
				assert.Equal(t, "req-9", resp.Data.Entries[1].RequestID)
				assert.Equal(t, model.LogQueryOptions{RunID: "run-1", Limit: 10}, logs.query)
			},
		},
		{
			name: "no entries",
			logs: &historyLogs{},
			setupMock: func(m *mockLayoutService) {
				m.On("Get", mock.Anything, "run-1").Return(storedLayout("run-1"), nil).Once()
			},
			wantCode: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder, _ *historyLogs) {
				assert.Contains(t, w.Body.String(), `"entries":[]`)
			},
		},
		{
			name: "unknown layout",
			logs: &historyLogs{},
			setupMock: func(m *mockLayoutService) {
				m.On("Get", mock.Anything, "run-1").Return(nil, service.ErrLayoutNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "logging disabled",
			wantCode: http.StatusServiceUnavailable,
			check: func(t *testing.T, w *httptest.ResponseRecorder, _ *historyLogs) {
				assert.Equal(t, "Layout history is not recorded", decodeError(t, w).Message)
			},
		},
		{
			name:     "negative limit",
			query:    "?limit=-5",
			logs:     &historyLogs{},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "log store open circuit",
			logs: &historyLogs{err: fmt.Errorf("query logs: %w", circuitbreaker.ErrCircuitOpen)},
			setupMock: func(m *mockLayoutService) {
				m.On("Get", mock.Anything, "run-1").Return(storedLayout("run-1"), nil).Once()
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layoutSvc := newMockLayoutService(t)
			if tt.setupMock != nil {
				tt.setupMock(layoutSvc)
			}
			cfg := DefaultRouterConfig()
			if tt.logs != nil {
				cfg.LoggingService = tt.logs
			}
			router := NewRouter(NewHandler(newMockPlacementService(t), layoutSvc), NewHealthHandler(), cfg)

			w := get(router, "/api/layouts/run-1/history"+tt.query)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.check != nil {
				tt.check(t, w, tt.logs)
			}
		})
	}
}
