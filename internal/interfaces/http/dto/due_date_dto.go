package dto

import (
	"time"

	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/domain/records"
)

// CreateDueDateRequest is the payload for creating a due date
type CreateDueDateRequest struct {
	Matter string    `json:"matter" binding:"required,max=255"`
	Title  string    `json:"title" binding:"required,max=255"`
	DueAt  time.Time `json:"due_at" binding:"required"`
}

// UpdateDueDateStatusRequest is the payload for transitioning a due date
type UpdateDueDateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN DONE"`
}

// DueDateResponse is the wire representation of a due date
type DueDateResponse struct {
	ID     string    `json:"id"`
	Matter string    `json:"matter"`
	Title  string    `json:"title"`
	DueAt  time.Time `json:"due_at"`
	Status string    `json:"status"`
	TimestampResponse
}

// TimestampResponse represents timestamps in response
type TimestampResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDueDateResponse converts a domain due date to its wire representation
func NewDueDateResponse(d *records.DueDate) DueDateResponse {
	return DueDateResponse{
		ID:     d.ID.String(),
		Matter: d.Matter,
		Title:  d.Title,
		DueAt:  d.DueAt,
		Status: string(d.Status),
		TimestampResponse: TimestampResponse{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

// NewDueDateListResponse converts a page of due dates
func NewDueDateListResponse(dueDates []*records.DueDate) []DueDateResponse {
	out := make([]DueDateResponse, len(dueDates))
	for i, d := range dueDates {
		out[i] = NewDueDateResponse(d)
	}
	return out
}

// QuotaStatusResponse is the wire representation of a quota status snapshot.
// Limit and Remaining are null for unlimited plans.
type QuotaStatusResponse struct {
	Used      int64     `json:"used"`
	Limit     *int64    `json:"limit"`
	Remaining *int64    `json:"remaining"`
	AtLimit   bool      `json:"atLimit"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale,omitempty"`
}

// NewQuotaStatusResponse converts a status snapshot to its wire representation
func NewQuotaStatusResponse(status billing.QuotaStatus, fetchedAt time.Time, stale bool) QuotaStatusResponse {
	return QuotaStatusResponse{
		Used:      status.Used,
		Limit:     status.Limit,
		Remaining: status.Remaining,
		AtLimit:   status.AtLimit,
		FetchedAt: fetchedAt,
		Stale:     stale,
	}
}

// QuotaExceededData carries the usage figures on a denied creation
type QuotaExceededData struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"`
}
