package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/planhub-app/reminder-planner/internal/dto"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/internal/service"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/ginext"
)

// userIDHeader is filled in by the authentication layer in front of this
// service; the handlers only trust and parse it.
const userIDHeader = "X-User-ID"

type ReminderHandler struct {
	dispatcher ports.DispatcherInterface
}

func NewReminderHandler(dispatcher ports.DispatcherInterface) *ReminderHandler {
	return &ReminderHandler{dispatcher: dispatcher}
}

func (h *ReminderHandler) CreateReminder(c *ginext.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	var body dto.ReminderCreate
	if err := c.BindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid body (parsing): %s", err.Error())})
		return
	}

	createModel, err := body.ToEntity(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid body (validating): %s", err.Error())})
		return
	}

	reminder, err := h.dispatcher.Create(context.Background(), createModel)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": "Task not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't create reminder: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusCreated, ginext.H{
		"message":  "Reminder created successfully",
		"reminder": dto.ToFullFromModelReminder(reminder),
	})
}

func (h *ReminderHandler) ListReminders(c *ginext.Context) {
	userID, ok := bindUserID(c)
	if !ok {
		return
	}

	var query dto.ReminderListQuery
	if err := c.BindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid query: %s", err.Error())})
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid query: %s", err.Error())})
		return
	}

	reminders, total, err := h.dispatcher.List(context.Background(), userID, filter)
	if err != nil {
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't list reminders: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, dto.ToListFromModelReminders(reminders, query.Page, filter.Limit, total))
}

func (h *ReminderHandler) GetReminder(c *ginext.Context) {
	userID, id, ok := bindUserAndID(c)
	if !ok {
		return
	}

	reminder, err := h.dispatcher.Get(context.Background(), id, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, ginext.H{"error": "Reminder not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't get reminder: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, ginext.H{"reminder": dto.ToFullFromModelReminder(reminder)})
}

func (h *ReminderHandler) UpdateReminder(c *ginext.Context) {
	userID, id, ok := bindUserAndID(c)
	if !ok {
		return
	}

	var body dto.ReminderUpdate
	if err := c.BindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid body (parsing): %s", err.Error())})
		return
	}

	patch, err := body.ToPatch()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid body (validating): %s", err.Error())})
		return
	}

	reminder, err := h.dispatcher.Update(context.Background(), id, userID, patch)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, ginext.H{"error": "Reminder not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't update reminder: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, ginext.H{
		"message":  "Reminder updated successfully",
		"reminder": dto.ToFullFromModelReminder(reminder),
	})
}

func (h *ReminderHandler) DeleteReminder(c *ginext.Context) {
	userID, id, ok := bindUserAndID(c)
	if !ok {
		return
	}

	if err := h.dispatcher.Delete(context.Background(), id, userID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, ginext.H{"error": "Reminder not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't delete reminder: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, ginext.H{"message": "Reminder deleted successfully"})
}

func (h *ReminderHandler) SnoozeReminder(c *ginext.Context) {
	userID, id, ok := bindUserAndID(c)
	if !ok {
		return
	}

	body := dto.ReminderSnooze{Minutes: service.DefaultSnoozeMinutes}
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid body (parsing): %s", err.Error())})
			return
		}
	}

	reminder, err := h.dispatcher.Snooze(context.Background(), id, userID, body.Minutes)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, ginext.H{"error": "Reminder not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't snooze reminder: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, ginext.H{
		"message":  fmt.Sprintf("Reminder snoozed for %d minutes", body.Minutes),
		"reminder": dto.ToFullFromModelReminder(reminder),
	})
}

func (h *ReminderHandler) MarkTriggered(c *ginext.Context) {
	userID, id, ok := bindUserAndID(c)
	if !ok {
		return
	}

	reminder, err := h.dispatcher.MarkTriggered(context.Background(), id, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, ginext.H{"error": "Reminder not found"})
			return
		}
		c.AbortWithStatusJSON(
			http.StatusInternalServerError,
			ginext.H{"error": fmt.Sprintf("couldn't mark reminder as triggered: %s", err.Error())},
		)
		return
	}
	c.JSON(http.StatusOK, ginext.H{
		"message":  "Reminder marked as triggered",
		"reminder": dto.ToFullFromModelReminder(reminder),
	})
}

func bindUserID(c *ginext.Context) (types.UUID, bool) {
	userID, err := types.NewUUID(c.GetHeader(userIDHeader))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ginext.H{"error": "missing or invalid user id"})
		return types.UUID{}, false
	}
	return userID, true
}

func bindUserAndID(c *ginext.Context) (types.UUID, types.UUID, bool) {
	userID, ok := bindUserID(c)
	if !ok {
		return types.UUID{}, types.UUID{}, false
	}

	req, err := dto.BindReminderRequest(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid ID parameter: %s", err.Error())})
		return types.UUID{}, types.UUID{}, false
	}

	id, err := req.ToUUID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ginext.H{"error": fmt.Sprintf("invalid UUID format: %s", err.Error())})
		return types.UUID{}, types.UUID{}, false
	}
	return userID, id, true
}
