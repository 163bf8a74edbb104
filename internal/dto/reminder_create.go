package dto

import (
	"fmt"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

const (
	maxTitleLength   = 200
	maxMessageLength = 500
)

type ReminderCreate struct {
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	ScheduledAt      string  `json:"scheduled_at"` // RFC3339
	Type             string  `json:"type"`
	Recurring        bool    `json:"recurring"`
	RecurringPattern string  `json:"recurring_pattern"`
	TaskID           *string `json:"task_id"`
}

func (b ReminderCreate) ToEntity(userID types.UUID) (*model.Reminder, error) {
	if b.Title == "" {
		return nil, fmt.Errorf("'title' must not be empty")
	}
	if len(b.Title) > maxTitleLength {
		return nil, fmt.Errorf("'title' must be at most %d characters", maxTitleLength)
	}
	if len(b.Message) > maxMessageLength {
		return nil, fmt.Errorf("'message' must be at most %d characters", maxMessageLength)
	}

	scheduledAt, err := time.Parse(time.RFC3339, b.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("incorrect 'scheduled_at' '%s': %w", b.ScheduledAt, err)
	}

	channel, err := internaltypes.ReminderTypeFromString(b.Type)
	if err != nil {
		return nil, fmt.Errorf("incorrect 'type' '%s': %w", b.Type, err)
	}

	pattern := internaltypes.PatternNone
	if b.Recurring {
		pattern, err = internaltypes.RecurrencePatternFromString(b.RecurringPattern)
		if err != nil || pattern.IsNone() {
			return nil, fmt.Errorf("incorrect 'recurring_pattern' '%s': %w", b.RecurringPattern, internaltypes.ErrInvalidRecurrencePattern)
		}
	}

	var taskID *types.UUID
	if b.TaskID != nil && *b.TaskID != "" {
		parsed, err := types.NewUUID(*b.TaskID)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'task_id' '%s': %w", *b.TaskID, err)
		}
		taskID = &parsed
	}

	return &model.Reminder{
		UserID:           userID,
		TaskID:           taskID,
		Title:            b.Title,
		Message:          b.Message,
		ScheduledAt:      scheduledAt,
		Type:             channel,
		Recurring:        b.Recurring,
		RecurringPattern: pattern,
	}, nil
}
