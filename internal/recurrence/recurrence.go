package recurrence

import (
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
)

// Next computes the trigger instant of the successor reminder from the
// current one. The second return value is false when the pattern produces
// no successor (none or unknown).
//
// Calendar arithmetic follows time.Time.AddDate, so a monthly step from a
// month-end anchor rolls over instead of clamping: Jan 31 + 1 month lands
// on Mar 3 (Mar 2 in leap years). Wall-clock time is preserved.
func Next(current time.Time, pattern internaltypes.RecurrencePattern) (time.Time, bool) {
	switch pattern {
	case internaltypes.PatternDaily:
		return current.AddDate(0, 0, 1), true
	case internaltypes.PatternWeekly:
		return current.AddDate(0, 0, 7), true
	case internaltypes.PatternMonthly:
		return current.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}
