package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/model"
	"github.com/BuzzLyutic/todo-tasks/internal/repo"
)

// TaskService owns the task collection. Every command holds the lock from
// mutation through the save, so commands never interleave.
// Commands on an unknown id do nothing and report false; they never fail.
type TaskService struct {
	repo   repo.TaskRepository
	logger *zap.Logger

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	tasks []model.Task
}

func NewTaskService(repo repo.TaskRepository, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		tasks:  []model.Task{},
	}
}

// Load replaces whatever is in memory with the persisted collection.
// Call it once at startup.
func (s *TaskService) Load(ctx context.Context) {
	tasks := s.repo.Load(ctx)
	if tasks == nil {
		tasks = []model.Task{}
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	s.logger.Info("tasks loaded", zap.Int("count", len(tasks)))
}

// Add appends a new pending task. The title is stored as given.
func (s *TaskService) Add(ctx context.Context, in model.NewTask) model.Task {
	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		Priority:    in.Priority,
		Tags:        append([]string{}, in.Tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = model.DefaultPriority
	}
	if in.DueDate != nil {
		due := model.NormalizeDate(*in.DueDate)
		task.DueDate = &due
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task)
	s.persist(ctx)
	return task.Clone()
}

func (s *TaskService) Update(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}

	t := &s.tasks[i]
	t.Title = upd.Title
	t.Description = upd.Description
	t.Priority = upd.Priority.Apply(t.Priority, model.DefaultPriority)
	t.Tags = append([]string{}, upd.Tags.Apply(t.Tags, nil)...)

	switch {
	case upd.DueDate.IsCleared():
		t.DueDate = nil
	case !upd.DueDate.IsUnchanged():
		v, _ := upd.DueDate.Value()
		due := model.NormalizeDate(v)
		t.DueDate = &due
	}
	t.UpdatedAt = s.now()

	s.persist(ctx)
	return t.Clone(), true
}

func (s *TaskService) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persist(ctx)
	return true
}

// Toggle flips the task between pending and completed.
func (s *TaskService) Toggle(ctx context.Context, id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	t := &s.tasks[i]
	t.Status = t.Status.Toggled()
	t.UpdatedAt = s.now()

	s.persist(ctx)
	return t.Clone(), true
}

func (s *TaskService) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns a copy of the collection in insertion order.
func (s *TaskService) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

func (s *TaskService) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := model.Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Status == model.StatusCompleted {
			st.Completed++
		} else {
			st.Pending++
		}
	}
	return st
}

func (s *TaskService) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

// persist must be called with mu held.
func (s *TaskService) persist(ctx context.Context) {
	s.repo.Save(ctx, cloneAll(s.tasks))
}

func cloneAll(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
