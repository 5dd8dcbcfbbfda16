// Package records holds the firm-owned record types, of which the due date is
// the metered one: creating a due date consumes one slot of the firm's plan
// quota for the current billing period.
package records

import (
	"strings"
	"time"

	"github.com/firmdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DueDateStatus represents the lifecycle state of a due date
type DueDateStatus string

const (
	// DueDateStatusOpen means the deadline has not been completed yet
	DueDateStatusOpen DueDateStatus = "OPEN"

	// DueDateStatusDone means the deadline was completed
	DueDateStatusDone DueDateStatus = "DONE"
)

// IsValid returns true if the status is valid
func (s DueDateStatus) IsValid() bool {
	switch s {
	case DueDateStatusOpen, DueDateStatusDone:
		return true
	}
	return false
}

// DueDate is a deadline tracked for a matter of a firm. Its creation time
// determines which billing period the record is attributed to; completing or
// reopening it never changes that attribution. Only deletion frees the quota
// slot again.
type DueDate struct {
	shared.BaseEntity
	FirmID    uuid.UUID
	Matter    string
	Title     string
	DueAt     time.Time
	Status    DueDateStatus
	CreatedBy uuid.UUID
}

// NewDueDate creates a new open due date for a firm
func NewDueDate(firmID uuid.UUID, matter, title string, dueAt time.Time, createdBy uuid.UUID) (*DueDate, error) {
	if firmID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FIRM", "Firm ID cannot be empty")
	}
	matter = strings.TrimSpace(matter)
	if matter == "" {
		return nil, shared.NewDomainError("INVALID_MATTER", "Matter cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if dueAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_AT", "Due date must have a deadline")
	}

	return &DueDate{
		BaseEntity: shared.NewBaseEntity(),
		FirmID:     firmID,
		Matter:     matter,
		Title:      title,
		DueAt:      dueAt,
		Status:     DueDateStatusOpen,
		CreatedBy:  createdBy,
	}, nil
}

// MarkDone completes the due date
func (d *DueDate) MarkDone() error {
	if d.Status == DueDateStatusDone {
		return shared.ErrInvalidState
	}
	d.Status = DueDateStatusDone
	d.UpdatedAt = time.Now()
	return nil
}

// Reopen reverts a completed due date to open
func (d *DueDate) Reopen() error {
	if d.Status == DueDateStatusOpen {
		return shared.ErrInvalidState
	}
	d.Status = DueDateStatusOpen
	d.UpdatedAt = time.Now()
	return nil
}
