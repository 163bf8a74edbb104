package dto

import (
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/ginext"
)

type ReminderRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

func (r *ReminderRequest) ToUUID() (types.UUID, error) {
	return types.NewUUID(r.ID)
}

func BindReminderRequest(c *ginext.Context) (*ReminderRequest, error) {
	var req *ReminderRequest
	if err := c.BindUri(&req); err != nil {
		return nil, err
	}
	return req, nil
}

// ReminderListQuery mirrors the list endpoint's query string.
type ReminderListQuery struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=50"`
	Triggered *bool  `form:"triggered"`
	Type      string `form:"type"`
	TaskID    string `form:"task_id"`
	Upcoming  bool   `form:"upcoming"`
	SortBy    string `form:"sort_by,default=scheduled_at"`
	SortOrder string `form:"sort_order,default=asc"`
}

func (q ReminderListQuery) ToFilter() (ports.ListFilter, error) {
	filter := ports.ListFilter{
		Triggered: q.Triggered,
		Type:      q.Type,
		Upcoming:  q.Upcoming,
		SortBy:    q.SortBy,
		SortDesc:  q.SortOrder == "desc",
	}

	if q.TaskID != "" {
		taskID, err := types.NewUUID(q.TaskID)
		if err != nil {
			return ports.ListFilter{}, err
		}
		filter.TaskID = &taskID
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 50
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	return filter, nil
}
