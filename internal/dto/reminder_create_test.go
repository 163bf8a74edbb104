package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/pkg/types"
)

func validCreate() ReminderCreate {
	return ReminderCreate{
		Title:       "Standup",
		Message:     "daily standup",
		ScheduledAt: "2025-06-01T08:00:00Z",
	}
}

func TestToEntityDefaultsToPush(t *testing.T) {
	userID := types.GenerateUUID()

	reminder, err := validCreate().ToEntity(userID)
	if err != nil {
		t.Fatalf("ToEntity() error = %v", err)
	}
	if reminder.Type != internaltypes.TypePush {
		t.Errorf("Type = %s, want push", reminder.Type)
	}
	if reminder.UserID != userID {
		t.Error("owner lost in conversion")
	}
	want := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if !reminder.ScheduledAt.Equal(want) {
		t.Errorf("ScheduledAt = %v, want %v", reminder.ScheduledAt, want)
	}
}

func TestToEntityRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ReminderCreate)
	}{
		{"empty title", func(b *ReminderCreate) { b.Title = "" }},
		{"overlong title", func(b *ReminderCreate) { b.Title = strings.Repeat("x", 201) }},
		{"overlong message", func(b *ReminderCreate) { b.Message = strings.Repeat("x", 501) }},
		{"non-RFC3339 instant", func(b *ReminderCreate) { b.ScheduledAt = "tomorrow at noon" }},
		{"unknown type", func(b *ReminderCreate) { b.Type = "carrier-pigeon" }},
		{"recurring without pattern", func(b *ReminderCreate) { b.Recurring = true }},
		{"recurring with bad pattern", func(b *ReminderCreate) { b.Recurring = true; b.RecurringPattern = "fortnightly" }},
		{"malformed task id", func(b *ReminderCreate) { bad := "not-a-uuid"; b.TaskID = &bad }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validCreate()
			tc.mutate(&body)
			if _, err := body.ToEntity(types.GenerateUUID()); err == nil {
				t.Error("ToEntity() accepted invalid input")
			}
		})
	}
}

func TestToEntityRecurringKeepsPattern(t *testing.T) {
	body := validCreate()
	body.Recurring = true
	body.RecurringPattern = "weekly"

	reminder, err := body.ToEntity(types.GenerateUUID())
	if err != nil {
		t.Fatalf("ToEntity() error = %v", err)
	}
	if reminder.RecurringPattern != internaltypes.PatternWeekly {
		t.Errorf("RecurringPattern = %s, want weekly", reminder.RecurringPattern)
	}
}
