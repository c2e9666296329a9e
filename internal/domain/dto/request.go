// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"
	"time"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/placement"
)

// MaxItemQuantity bounds the quantity of a single request item.
const MaxItemQuantity = 10000

// AreaRequest is the target area of a search.
type AreaRequest struct {
	Width  int `json:"width" example:"20" minimum:"1"`
	Height int `json:"height" example:"15" minimum:"1"`
} // @name AreaRequest

// ItemRequest is one rectangle type in a search request.
//
// Quantity defaults to 1. When ID is omitted, items are numbered by their
// position in the expanded list; an explicit ID is shared by every copy.
type ItemRequest struct {
	ID       *int   `json:"id,omitempty" example:"0"`
	Width    int    `json:"width" example:"3" minimum:"1"`
	Height   int    `json:"height" example:"2" minimum:"1"`
	Quantity int    `json:"quantity,omitempty" example:"2" minimum:"0"`
	Label    string `json:"label,omitempty" example:"shelf"`
} // @name ItemRequest

// SearchRequest represents the JSON request body for the layout search endpoint.
//
// @Description Request to place rectangles in an area
// @Example {"area": {"width": 5, "height": 4}, "items": [{"width": 3, "height": 2}, {"width": 2, "height": 2, "quantity": 2}]}
type SearchRequest struct {
	Area  AreaRequest   `json:"area"`
	Items []ItemRequest `json:"items"`
	// MaxIterations overrides the server budget when positive.
	MaxIterations int `json:"max_iterations,omitempty" example:"50000" minimum:"0"`
	// FailFast rejects items that fit in no orientation before searching.
	FailFast bool `json:"fail_fast,omitempty" example:"false"`
} // @name SearchRequest

// ValidationError represents a field validation error. Err, when set, is the
// sentinel the failure corresponds to.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap exposes the underlying sentinel to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func dimensionError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must be a positive integer", Err: placement.ErrInvalidDimension}
}

// Validate performs custom validation on the request.
// Returns an error if validation fails, nil otherwise.
func (r *SearchRequest) Validate() error {
	if err := validateArea(r.Area.Width, r.Area.Height); err != nil {
		return err
	}
	if r.MaxIterations < 0 {
		return &ValidationError{Field: "max_iterations", Message: "must not be negative"}
	}

	for i, it := range r.Items {
		if it.ID != nil && *it.ID < 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].id", i), Message: "must not be negative"}
		}
		if it.Width <= 0 {
			return dimensionError(fmt.Sprintf("items[%d].width", i))
		}
		if it.Height <= 0 {
			return dimensionError(fmt.Sprintf("items[%d].height", i))
		}
		if it.Quantity < 0 || it.Quantity > MaxItemQuantity {
			return &ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("must be between 0 and %d", MaxItemQuantity),
			}
		}
	}
	return nil
}

func validateArea(width, height int) error {
	if width <= 0 {
		return dimensionError("area.width")
	}
	if height <= 0 {
		return dimensionError("area.height")
	}
	return nil
}

// ExpandItems turns the request items into engine items and their labels,
// repeating each item Quantity times.
func (r *SearchRequest) ExpandItems() ([]placement.Item, []string) {
	var items []placement.Item
	var labels []string
	for _, it := range r.Items {
		n := max(it.Quantity, 1)
		for range n {
			id := len(items)
			if it.ID != nil {
				id = *it.ID
			}
			items = append(items, placement.NewItem(id, it.Width, it.Height))
			labels = append(labels, it.Label)
		}
	}
	return items, labels
}

// ImportForm holds the form fields sent with an uploaded item file.
type ImportForm struct {
	Width         int  `form:"width"`
	Height        int  `form:"height"`
	MaxIterations int  `form:"max_iterations"`
	FailFast      bool `form:"fail_fast"`
}

// Validate checks the area and the budget override.
func (f *ImportForm) Validate() error {
	if err := validateArea(f.Width, f.Height); err != nil {
		return err
	}
	if f.MaxIterations < 0 {
		return &ValidationError{Field: "max_iterations", Message: "must not be negative"}
	}
	return nil
}

// ListLayoutsQuery holds the query parameters of the layout listing.
type ListLayoutsQuery struct {
	Limit  int    `form:"limit"`
	Skip   int    `form:"skip"`
	Status string `form:"status"`
	Source string `form:"source"`
}

// Validate rejects negative paging values and unknown statuses.
func (q *ListLayoutsQuery) Validate() error {
	if q.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if q.Skip < 0 {
		return &ValidationError{Field: "skip", Message: "must not be negative"}
	}
	switch q.Status {
	case "", model.LayoutStatusSolved, model.LayoutStatusExhausted:
	default:
		return &ValidationError{Field: "status", Message: "must be solved or exhausted"}
	}
	return nil
}

// Options converts the query to repository options.
func (q *ListLayoutsQuery) Options() model.LayoutQueryOptions {
	return model.LayoutQueryOptions{
		Status: q.Status,
		Source: q.Source,
		Limit:  q.Limit,
		Skip:   q.Skip,
	}
}

// LayoutListResponse is a page of stored layouts.
//
// @Description Page of stored layouts, newest first
type LayoutListResponse struct {
	Layouts []model.Layout `json:"layouts"`
	Total   int64          `json:"total" example:"42"`
	Limit   int            `json:"limit" example:"20"`
	Skip    int            `json:"skip" example:"0"`
} // @name LayoutListResponse

// HistoryQuery holds the query parameters of a layout history.
type HistoryQuery struct {
	Limit int `form:"limit"`
}

// Validate rejects a negative page size.
func (q *HistoryQuery) Validate() error {
	if q.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// HistoryEntry is one recorded action on a layout.
type HistoryEntry struct {
	Timestamp  time.Time `json:"timestamp" example:"2026-03-01T12:00:00Z"`
	Action     string    `json:"action" example:"render"`
	Level      string    `json:"level" example:"info"`
	Message    string    `json:"message" example:"Layout rendered"`
	Subject    string    `json:"subject,omitempty" example:"svc-batch"`
	AuthMethod string    `json:"auth_method,omitempty" example:"jwt"`
	RequestID  string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Error      string    `json:"error,omitempty"`
} // @name HistoryEntry

// LayoutHistoryResponse lists the recorded actions on a layout, newest first.
type LayoutHistoryResponse struct {
	RunID   string         `json:"run_id" example:"a1b2c3"`
	Entries []HistoryEntry `json:"entries"`
} // @name LayoutHistoryResponse

// NewLayoutHistory keeps the audit fields of entries.
func NewLayoutHistory(runID string, entries []model.LogEntry) LayoutHistoryResponse {
	resp := LayoutHistoryResponse{RunID: runID, Entries: make([]HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntry{
			Timestamp:  e.Timestamp,
			Action:     e.ActionType,
			Level:      e.Level,
			Message:    e.Message,
			Subject:    e.Subject,
			AuthMethod: e.AuthMethod,
			RequestID:  e.RequestID,
			Error:      e.Error,
		})
	}
	return resp
}
