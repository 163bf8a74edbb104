package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/planhub-app/reminder-planner/internal/internaltypes"
	"github.com/planhub-app/reminder-planner/internal/model"
	"github.com/planhub-app/reminder-planner/internal/ports"
	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

const reminderColumns = `id, user_id, task_id, title, message, scheduled_at, type, recurring, recurring_pattern, triggered, snoozed, snooze_count, created_at, updated_at`

type StoreRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewStoreRepository(db *dbpg.DB, strategy retry.Strategy) *StoreRepository {
	return &StoreRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *StoreRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var taskID *string
	if reminder.TaskID != nil {
		s := reminder.TaskID.String()
		taskID = &s
	}

	_, err := r.db.ExecWithRetry(
		ctx,
		r.strategy,
		query,
		reminder.ID.String(),
		reminder.UserID.String(),
		taskID,
		reminder.Title,
		reminder.Message,
		reminder.ScheduledAt,
		reminder.Type.String(),
		reminder.Recurring,
		reminder.RecurringPattern.String(),
		reminder.Triggered,
		reminder.Snoozed,
		reminder.SnoozeCount,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error insert reminder in postgres: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByID(ctx context.Context, id types.UUID, userID types.UUID) (*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE id = $1 AND user_id = $2`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id.String(), userID.String())
	if err != nil {
		return nil, fmt.Errorf("error select reminder by id in postgres: %w", err)
	}

	reminder, err := scanReminder(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return reminder, nil
}

func (r *StoreRepository) List(ctx context.Context, userID types.UUID, filter ports.ListFilter) ([]*model.Reminder, int, error) {
	where := `WHERE user_id = $1`
	args := []any{userID.String()}

	if filter.Triggered != nil {
		args = append(args, *filter.Triggered)
		where += fmt.Sprintf(" AND triggered = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.TaskID != nil {
		args = append(args, filter.TaskID.String())
		where += fmt.Sprintf(" AND task_id = $%d", len(args))
	}
	if filter.Upcoming {
		args = append(args, time.Now())
		where += fmt.Sprintf(" AND scheduled_at >= $%d AND triggered = FALSE", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM reminders ` + where
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error count reminders in postgres: %w", err)
	}
	var total int
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error count reminders in postgres: %w", err)
	}

	order := sortColumn(filter.SortBy)
	if filter.SortDesc {
		order += " DESC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query := fmt.Sprintf(`SELECT `+reminderColumns+` FROM reminders %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)-1, len(args))

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error list reminders in postgres: %w", err)
	}
	defer rows.Close()

	result := []*model.Reminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after scanning rows: %w", err)
	}
	return result, total, nil
}

func (r *StoreRepository) Update(ctx context.Context, reminder *model.Reminder) error {
	query := `UPDATE reminders
		SET title = $3, message = $4, scheduled_at = $5, type = $6, recurring = $7,
		    recurring_pattern = $8, triggered = $9, snoozed = $10, snooze_count = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecWithRetry(
		ctx,
		r.strategy,
		query,
		reminder.ID.String(),
		reminder.UserID.String(),
		reminder.Title,
		reminder.Message,
		reminder.ScheduledAt,
		reminder.Type.String(),
		reminder.Recurring,
		reminder.RecurringPattern.String(),
		reminder.Triggered,
		reminder.Snoozed,
		reminder.SnoozeCount,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error update reminder in postgres: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, id types.UUID, userID types.UUID) error {
	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("error delete reminder in postgres: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *StoreRepository) FetchPending(ctx context.Context) ([]*model.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE triggered = FALSE
		ORDER BY scheduled_at`

	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		return nil, fmt.Errorf("error fetch pending reminders: %w", err)
	}
	defer rows.Close()

	result := []*model.Reminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning rows: %w", err)
	}
	return result, nil
}

func scanReminder(scan func(dest ...any) error) (*model.Reminder, error) {
	var (
		id          string
		userID      string
		taskID      *string
		title       string
		message     string
		scheduledAt time.Time
		channel     string
		recurring   bool
		pattern     string
		triggered   bool
		snoozed     bool
		snoozeCount int
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := scan(
		&id,
		&userID,
		&taskID,
		&title,
		&message,
		&scheduledAt,
		&channel,
		&recurring,
		&pattern,
		&triggered,
		&snoozed,
		&snoozeCount,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	reminderID, err := types.NewUUID(id)
	if err != nil {
		return nil, fmt.Errorf("invalid id in postgres: %w", err)
	}
	ownerID, err := types.NewUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id in postgres: %w", err)
	}

	var taskUUID *types.UUID
	if taskID != nil {
		parsed, err := types.NewUUID(*taskID)
		if err != nil {
			return nil, fmt.Errorf("invalid task_id in postgres: %w", err)
		}
		taskUUID = &parsed
	}

	channelValid, err := internaltypes.ReminderTypeFromString(channel)
	if err != nil {
		return nil, fmt.Errorf("invalid type in postgres: %w", err)
	}
	patternValid, err := internaltypes.RecurrencePatternFromString(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid recurring_pattern in postgres: %w", err)
	}

	return &model.Reminder{
		ID:               &reminderID,
		UserID:           ownerID,
		TaskID:           taskUUID,
		Title:            title,
		Message:          message,
		ScheduledAt:      scheduledAt,
		Type:             channelValid,
		Recurring:        recurring,
		RecurringPattern: patternValid,
		Triggered:        triggered,
		Snoozed:          snoozed,
		SnoozeCount:      snoozeCount,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func sortColumn(requested string) string {
	switch requested {
	case "created_at", "updated_at", "title", "scheduled_at":
		return requested
	default:
		return "scheduled_at"
	}
}
