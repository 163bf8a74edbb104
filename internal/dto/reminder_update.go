package dto

import (
	"fmt"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/internal/model"
)

// ReminderUpdate is a partial patch; absent fields stay untouched.
type ReminderUpdate struct {
	Title            *string `json:"title"`
	Message          *string `json:"message"`
	ScheduledAt      *string `json:"scheduled_at"` // RFC3339
	Type             *string `json:"type"`
	Recurring        *bool   `json:"recurring"`
	RecurringPattern *string `json:"recurring_pattern"`
}

func (b ReminderUpdate) ToPatch() (model.ReminderPatch, error) {
	patch := model.ReminderPatch{
		Title:     b.Title,
		Message:   b.Message,
		Recurring: b.Recurring,
	}

	if b.Title != nil {
		if *b.Title == "" {
			return model.ReminderPatch{}, fmt.Errorf("'title' must not be empty")
		}
		if len(*b.Title) > maxTitleLength {
			return model.ReminderPatch{}, fmt.Errorf("'title' must be at most %d characters", maxTitleLength)
		}
	}
	if b.Message != nil && len(*b.Message) > maxMessageLength {
		return model.ReminderPatch{}, fmt.Errorf("'message' must be at most %d characters", maxMessageLength)
	}

	if b.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *b.ScheduledAt)
		if err != nil {
			return model.ReminderPatch{}, fmt.Errorf("incorrect 'scheduled_at' '%s': %w", *b.ScheduledAt, err)
		}
		patch.ScheduledAt = &scheduledAt
	}

	if b.Type != nil {
		channel, err := internaltypes.ReminderTypeFromString(*b.Type)
		if err != nil {
			return model.ReminderPatch{}, fmt.Errorf("incorrect 'type' '%s': %w", *b.Type, err)
		}
		patch.Type = &channel
	}

	if b.RecurringPattern != nil {
		pattern, err := internaltypes.RecurrencePatternFromString(*b.RecurringPattern)
		if err != nil {
			return model.ReminderPatch{}, fmt.Errorf("incorrect 'recurring_pattern' '%s': %w", *b.RecurringPattern, err)
		}
		patch.RecurringPattern = &pattern
	}

	return patch, nil
}

type ReminderSnooze struct {
	Minutes int `json:"minutes"`
}
