package model

import (
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

// MirrorEntry is the agent-local copy of a reminder plus the notification
// handle returned by the sink. Entries are keyed by reminder id in durable
// storage, so re-scheduling overwrites instead of appending and a reload
// after a crash rebuilds the same mirror.
type MirrorEntry struct {
	ReminderID  types.UUID                      `json:"reminder_id"`
	UserID      types.UUID                      `json:"user_id"`
	Title       string                          `json:"title"`
	Message     string                          `json:"message"`
	ScheduledAt time.Time                       `json:"scheduled_at"`
	Repeat      internaltypes.RecurrencePattern `json:"repeat"`
	Triggered   bool                            `json:"triggered"`
	Handle      string                          `json:"handle"`
	StoredAt    time.Time                       `json:"stored_at"`
}

// MirrorFromReminder maps a server-side reminder onto its local mirror
// shape. The sink handle is filled in once the notification is scheduled.
func MirrorFromReminder(reminder *Reminder) *MirrorEntry {
	repeat := internaltypes.PatternNone
	if reminder.Recurring {
		repeat = reminder.RecurringPattern
	}
	return &MirrorEntry{
		ReminderID:  *reminder.ID,
		UserID:      reminder.UserID,
		Title:       reminder.Title,
		Message:     reminder.Message,
		ScheduledAt: reminder.ScheduledAt,
		Repeat:      repeat,
		Triggered:   reminder.Triggered,
	}
}
