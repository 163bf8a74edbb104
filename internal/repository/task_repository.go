package repository

import (
	"context"
	"fmt"

	"github.com/planhub-app/reminder-planner/pkg/types"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

// TaskRepository is a read-only lookup into the task table owned by the
// task CRUD layer. The dispatcher only needs existence checks.
type TaskRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewTaskRepository(db *dbpg.DB, strategy retry.Strategy) *TaskRepository {
	return &TaskRepository{
		db:       db,
		strategy: strategy,
	}
}

func (r *TaskRepository) TaskExists(ctx context.Context, id types.UUID, userID types.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1 AND user_id = $2)`

	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id.String(), userID.String())
	if err != nil {
		return false, fmt.Errorf("error checking task in postgres: %w", err)
	}

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking task in postgres: %w", err)
	}
	return exists, nil
}
