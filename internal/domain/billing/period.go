package billing

import (
	"time"
)

// PeriodKey identifies one billing period of one firm. It is the UTC date the
// period started, formatted as "2006-01-02". Keys sort chronologically, which
// keeps historical counters queryable in order.
type PeriodKey string

// String returns the string representation of the period key
func (k PeriodKey) String() string {
	return string(k)
}

// PeriodFor derives the billing period containing the given instant for a firm
// whose billing cycle rolls over on anchorDay (1-28). The period runs from
// anchorDay of one month to anchorDay of the next, in UTC.
func PeriodFor(anchorDay int, at time.Time) (PeriodKey, time.Time, time.Time) {
	if anchorDay < 1 || anchorDay > 28 {
		anchorDay = 1
	}

	at = at.UTC()
	start := time.Date(at.Year(), at.Month(), anchorDay, 0, 0, 0, 0, time.UTC)
	if at.Before(start) {
		start = start.AddDate(0, -1, 0)
	}
	end := start.AddDate(0, 1, 0)

	return PeriodKey(start.Format("2006-01-02")), start, end
}

// PeriodKeyFor is a convenience wrapper returning just the key
func PeriodKeyFor(anchorDay int, at time.Time) PeriodKey {
	key, _, _ := PeriodFor(anchorDay, at)
	return key
}
