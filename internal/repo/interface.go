package repo

import (
	"context"

	"github.com/BuzzLyutic/todo-tasks/internal/model"
)

// TaskRepository persists the whole task collection. Neither method reports
// errors: failures are logged and degrade to "nothing saved" or "nothing loaded".
type TaskRepository interface {
	Load(ctx context.Context) []model.Task
	Save(ctx context.Context, tasks []model.Task)
}
