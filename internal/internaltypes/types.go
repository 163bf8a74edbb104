package internaltypes

import (
	"encoding/json"
	"fmt"
)

var (
	ErrInvalidReminderType      = fmt.Errorf("invalid reminder type: possible ones are: '%s', '%s', '%s'", PUSH, EMAIL, SMS)
	ErrInvalidRecurrencePattern = fmt.Errorf("invalid recurrence pattern: possible ones are: '%s', '%s', '%s'", DAILY, WEEKLY, MONTHLY)
)

const (
	// PUSH is the constant value for push delivery string value
	PUSH = "push"
	// EMAIL is the constant value for email delivery string value
	EMAIL = "email"
	// SMS is the constant value for sms delivery string value
	SMS = "sms"
)

var (
	TypePush  = ReminderType{val: PUSH}
	TypeEmail = ReminderType{val: EMAIL}
	TypeSMS   = ReminderType{val: SMS}
)

// ReminderType is the delivery channel of a reminder. The zero value is
// not valid; use ReminderTypeFromString.
type ReminderType struct {
	val string
}

func (t ReminderType) String() string {
	return t.val
}

// ReminderTypeFromString parses a delivery channel. The empty string
// defaults to push.
func ReminderTypeFromString(val string) (ReminderType, error) {
	switch val {
	case "":
		return TypePush, nil
	case PUSH, EMAIL, SMS:
		return ReminderType{val: val}, nil
	default:
		return ReminderType{}, ErrInvalidReminderType
	}
}

func (t ReminderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.val)
}

func (t *ReminderType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ReminderTypeFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

const (
	// DAILY is the constant value for the daily recurrence string value
	DAILY = "daily"
	// WEEKLY is the constant value for the weekly recurrence string value
	WEEKLY = "weekly"
	// MONTHLY is the constant value for the monthly recurrence string value
	MONTHLY = "monthly"
)

var (
	PatternDaily   = RecurrencePattern{val: DAILY}
	PatternWeekly  = RecurrencePattern{val: WEEKLY}
	PatternMonthly = RecurrencePattern{val: MONTHLY}
	// PatternNone is the zero pattern of a non-recurring reminder.
	PatternNone = RecurrencePattern{}
)

// RecurrencePattern is the repeat cadence of a recurring reminder. The
// zero value means no recurrence.
type RecurrencePattern struct {
	val string
}

func (p RecurrencePattern) String() string {
	return p.val
}

// IsNone reports whether the pattern is the no-recurrence zero value.
func (p RecurrencePattern) IsNone() bool {
	return p.val == ""
}

// RecurrencePatternFromString parses a cadence. The empty string maps to
// PatternNone.
func RecurrencePatternFromString(val string) (RecurrencePattern, error) {
	switch val {
	case "":
		return PatternNone, nil
	case DAILY, WEEKLY, MONTHLY:
		return RecurrencePattern{val: val}, nil
	default:
		return RecurrencePattern{}, ErrInvalidRecurrencePattern
	}
}

func (p RecurrencePattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.val)
}

func (p *RecurrencePattern) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := RecurrencePatternFromString(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
