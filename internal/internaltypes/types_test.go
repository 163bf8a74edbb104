package internaltypes

import (
	"errors"
	"testing"
)

func TestReminderTypeFromStringAcceptsStoredValues(t *testing.T) {
	for _, val := range []string{PUSH, EMAIL, SMS} {
		parsed, err := ReminderTypeFromString(val)
		if err != nil {
			t.Fatalf("ReminderTypeFromString(%q) error = %v", val, err)
		}
		if parsed.String() != val {
			t.Errorf("ReminderTypeFromString(%q).String() = %q", val, parsed.String())
		}
	}
}

func TestReminderTypeDefaultsToPush(t *testing.T) {
	parsed, err := ReminderTypeFromString("")
	if err != nil {
		t.Fatalf("ReminderTypeFromString(\"\") error = %v", err)
	}
	if parsed != TypePush {
		t.Errorf("empty type = %s, want push", parsed)
	}
}

func TestReminderTypeRejectsUnknownValues(t *testing.T) {
	// stored values are lowercase only, including the column default
	for _, val := range []string{"PUSH", "Push", "fax"} {
		if _, err := ReminderTypeFromString(val); !errors.Is(err, ErrInvalidReminderType) {
			t.Errorf("ReminderTypeFromString(%q) error = %v, want ErrInvalidReminderType", val, err)
		}
	}
}

func TestRecurrencePatternFromString(t *testing.T) {
	for _, val := range []string{DAILY, WEEKLY, MONTHLY} {
		parsed, err := RecurrencePatternFromString(val)
		if err != nil {
			t.Fatalf("RecurrencePatternFromString(%q) error = %v", val, err)
		}
		if parsed.IsNone() {
			t.Errorf("RecurrencePatternFromString(%q) must not be none", val)
		}
	}

	none, err := RecurrencePatternFromString("")
	if err != nil {
		t.Fatalf("RecurrencePatternFromString(\"\") error = %v", err)
	}
	if !none.IsNone() {
		t.Error("empty pattern must be none")
	}

	for _, val := range []string{"DAILY", "yearly"} {
		if _, err := RecurrencePatternFromString(val); !errors.Is(err, ErrInvalidRecurrencePattern) {
			t.Errorf("RecurrencePatternFromString(%q) error = %v, want ErrInvalidRecurrencePattern", val, err)
		}
	}
}
