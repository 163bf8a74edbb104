package recurrence

import (
	"testing"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
)

func TestNextDaily(t *testing.T) {
	current := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	next, ok := Next(current, internaltypes.PatternDaily)
	if !ok {
		t.Fatal("daily pattern must produce a successor")
	}
	want := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(daily) = %v, want %v", next, want)
	}
}

func TestNextWeekly(t *testing.T) {
	current := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	next, ok := Next(current, internaltypes.PatternWeekly)
	if !ok {
		t.Fatal("weekly pattern must produce a successor")
	}
	want := time.Date(2025, 3, 22, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(weekly) = %v, want %v", next, want)
	}
}

func TestNextMonthly(t *testing.T) {
	current := time.Date(2025, 4, 15, 18, 30, 0, 0, time.UTC)

	next, ok := Next(current, internaltypes.PatternMonthly)
	if !ok {
		t.Fatal("monthly pattern must produce a successor")
	}
	want := time.Date(2025, 5, 15, 18, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(monthly) = %v, want %v", next, want)
	}
}

// Month-end anchors roll over, they are not clamped: this pins the
// AddDate behavior the rest of the system relies on.
func TestNextMonthlyRollsOverMonthEnd(t *testing.T) {
	current := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	next, ok := Next(current, internaltypes.PatternMonthly)
	if !ok {
		t.Fatal("monthly pattern must produce a successor")
	}
	want := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next(monthly) from Jan 31 = %v, want %v", next, want)
	}
}

func TestNextNoneHasNoSuccessor(t *testing.T) {
	if _, ok := Next(time.Now(), internaltypes.PatternNone); ok {
		t.Error("'none' pattern must not produce a successor")
	}
}

func TestNextPreservesWallClockAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	current := time.Date(2025, 6, 1, 23, 45, 0, 0, zone)

	next, ok := Next(current, internaltypes.PatternDaily)
	if !ok {
		t.Fatal("daily pattern must produce a successor")
	}
	if next.Hour() != 23 || next.Minute() != 45 {
		t.Errorf("wall-clock time changed: got %02d:%02d", next.Hour(), next.Minute())
	}
	if next.Location() != zone {
		t.Errorf("location changed: got %v", next.Location())
	}
}
