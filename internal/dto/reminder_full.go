package dto

import (
	"time"

	"github.com/planhub-app/reminder-planner/internal/model"
)

type ReminderFull struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	TaskID           *string `json:"task_id,omitempty"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	ScheduledAt      string  `json:"scheduled_at"`
	Type             string  `json:"type"`
	Recurring        bool    `json:"recurring"`
	RecurringPattern string  `json:"recurring_pattern,omitempty"`
	Triggered        bool    `json:"triggered"`
	Snoozed          bool    `json:"snoozed"`
	SnoozeCount      int     `json:"snooze_count"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func ToFullFromModelReminder(reminder *model.Reminder) *ReminderFull {
	var taskID *string
	if reminder.TaskID != nil {
		s := reminder.TaskID.String()
		taskID = &s
	}

	return &ReminderFull{
		ID:               reminder.ID.String(),
		UserID:           reminder.UserID.String(),
		TaskID:           taskID,
		Title:            reminder.Title,
		Message:          reminder.Message,
		ScheduledAt:      reminder.ScheduledAt.Format(time.RFC3339),
		Type:             reminder.Type.String(),
		Recurring:        reminder.Recurring,
		RecurringPattern: reminder.RecurringPattern.String(),
		Triggered:        reminder.Triggered,
		Snoozed:          reminder.Snoozed,
		SnoozeCount:      reminder.SnoozeCount,
		CreatedAt:        reminder.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        reminder.UpdatedAt.Format(time.RFC3339),
	}
}

type ReminderList struct {
	Reminders  []*ReminderFull `json:"reminders"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func ToListFromModelReminders(reminders []*model.Reminder, page, limit, total int) *ReminderList {
	items := make([]*ReminderFull, len(reminders))
	for i, reminder := range reminders {
		items[i] = ToFullFromModelReminder(reminder)
	}

	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &ReminderList{
		Reminders: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}
