package billing

import (
	"github.com/firmdesk/backend/internal/domain/shared"
)

// ErrQuotaExhausted is returned by the storage layer when the conditional
// counter increment found no slot left. Callers wrap it with the concrete
// used/limit numbers before it reaches a client.
var ErrQuotaExhausted = shared.NewDomainError("QUOTA_EXCEEDED", "Due date quota exhausted for the current billing period")

// Decision is the authoritative outcome of a write-time quota check. Used is
// the count the decision was computed against; when denied, Used and Limit are
// the concrete numbers to surface to the end user.
type Decision struct {
	Allowed bool
	Used    int64
	Limit   int64
}

// Check decides whether a firm with the given current usage may create one
// more due date. The unlimited sentinel always allows.
func Check(used, limit int64) Decision {
	if limit == UnlimitedLimit {
		return Decision{Allowed: true, Used: used, Limit: limit}
	}
	return Decision{
		Allowed: used < limit,
		Used:    used,
		Limit:   limit,
	}
}

// QuotaStatus is the display projection of a firm's quota. It is derived on
// demand from the usage counter and plan, never persisted, and never the
// source of truth for a write decision. Limit and Remaining are nil for
// unlimited plans, which serializes as JSON null.
type QuotaStatus struct {
	Used      int64  `json:"used"`
	Limit     *int64 `json:"limit"`
	Remaining *int64 `json:"remaining"`
	AtLimit   bool   `json:"atLimit"`
}

// StatusFor projects the quota status for the given usage and limit
func StatusFor(used, limit int64) QuotaStatus {
	if limit == UnlimitedLimit {
		return QuotaStatus{Used: used}
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	limitCopy := limit

	return QuotaStatus{
		Used:      used,
		Limit:     &limitCopy,
		Remaining: &remaining,
		AtLimit:   used >= limit,
	}
}
