package model

import (
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

type Reminder struct {
	ID               *types.UUID                     `json:"id" db:"id"`                               // PRIMARY KEY
	UserID           types.UUID                      `json:"user_id" db:"user_id"`                     // owner, every query is scoped by it
	TaskID           *types.UUID                     `json:"task_id,omitempty" db:"task_id"`           // optional link to a task row
	Title            string                          `json:"title" db:"title"`                         // display text
	Message          string                          `json:"message" db:"message"`                     // display text, may be empty
	ScheduledAt      time.Time                       `json:"scheduled_at" db:"scheduled_at"`           // trigger instant
	Type             internaltypes.ReminderType      `json:"type" db:"type"`                           // PUSH / EMAIL / SMS
	Recurring        bool                            `json:"recurring" db:"recurring"`                 //
	RecurringPattern internaltypes.RecurrencePattern `json:"recurring_pattern" db:"recurring_pattern"` // daily / weekly / monthly when recurring
	Triggered        bool                            `json:"triggered" db:"triggered"`                 // set once when the reminder fires
	Snoozed          bool                            `json:"snoozed" db:"snoozed"`                     //
	SnoozeCount      int                             `json:"snooze_count" db:"snooze_count"`           //
	CreatedAt        time.Time                       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at" db:"updated_at"`
}

// ReminderPatch carries the mutable fields of an update request. Nil means
// "leave as is".
type ReminderPatch struct {
	Title            *string
	Message          *string
	ScheduledAt      *time.Time
	Type             *internaltypes.ReminderType
	Recurring        *bool
	RecurringPattern *internaltypes.RecurrencePattern
}

// Apply mutates the reminder in place and reports whether the trigger
// instant changed, which is what decides rescheduling.
func (p ReminderPatch) Apply(reminder *Reminder) bool {
	rescheduled := false
	if p.Title != nil {
		reminder.Title = *p.Title
	}
	if p.Message != nil {
		reminder.Message = *p.Message
	}
	if p.ScheduledAt != nil && !p.ScheduledAt.Equal(reminder.ScheduledAt) {
		reminder.ScheduledAt = *p.ScheduledAt
		rescheduled = true
	}
	if p.Type != nil {
		reminder.Type = *p.Type
	}
	if p.Recurring != nil {
		reminder.Recurring = *p.Recurring
	}
	if p.RecurringPattern != nil {
		reminder.RecurringPattern = *p.RecurringPattern
	}
	return rescheduled
}

// Successor builds the next occurrence of a recurring reminder. The new
// reminder gets a fresh id and a clean trigger state; everything else is
// inherited.
func (r *Reminder) Successor(id types.UUID, scheduledAt time.Time, now time.Time) *Reminder {
	return &Reminder{
		ID:               &id,
		UserID:           r.UserID,
		TaskID:           r.TaskID,
		Title:            r.Title,
		Message:          r.Message,
		ScheduledAt:      scheduledAt,
		Type:             r.Type,
		Recurring:        r.Recurring,
		RecurringPattern: r.RecurringPattern,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
