package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/kv"
	"github.com/BuzzLyutic/todo-tasks/internal/model"
	"github.com/BuzzLyutic/todo-tasks/internal/repo"
)

// MockTaskRepository is a testify mock of repo.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Load(ctx context.Context) []model.Task {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task)
}

func (m *MockTaskRepository) Save(ctx context.Context, tasks []model.Task) {
	m.Called(ctx, tasks)
}

// fakeClock advances one millisecond per reading.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestService(r repo.TaskRepository) *TaskService {
	s := NewTaskService(r, zap.NewNop())
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
	return s
}

func TestTaskService_Load(t *testing.T) {
	stored := []model.Task{{ID: "1", Title: "Test Task", Status: model.StatusPending, Priority: model.PriorityMedium, Tags: []string{}}}

	mockRepo := new(MockTaskRepository)
	mockRepo.On("Load", mock.Anything).Return(stored)

	s := newTestService(mockRepo)
	s.Load(context.Background())

	assert.Equal(t, stored, s.Tasks())
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_LoadOverwritesMemory(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()
	mockRepo.On("Load", mock.Anything).Return([]model.Task(nil))

	s := newTestService(mockRepo)
	s.Add(context.Background(), model.NewTask{Title: "unsaved"})
	s.Load(context.Background())

	assert.NotNil(t, s.Tasks())
	assert.Empty(t, s.Tasks())
}

func TestTaskService_Add(t *testing.T) {
	due := time.Date(2025, 6, 1, 18, 45, 0, 0, time.Local)

	tests := []struct {
		name  string
		input model.NewTask
		check func(*testing.T, model.Task)
	}{
		{
			name:  "defaults",
			input: model.NewTask{Title: "Buy milk"},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, model.StatusPending, task.Status)
				assert.Equal(t, model.PriorityMedium, task.Priority)
				assert.NotNil(t, task.Tags)
				assert.Empty(t, task.Tags)
				assert.Nil(t, task.DueDate)
				assert.Empty(t, task.Description)
				assert.Equal(t, task.CreatedAt, task.UpdatedAt)
			},
		},
		{
			name: "all fields",
			input: model.NewTask{
				Title:       "Report",
				Description: "Q3",
				Priority:    model.PriorityHigh,
				DueDate:     &due,
				Tags:        []string{"work", "work"},
			},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, "Q3", task.Description)
				assert.Equal(t, model.PriorityHigh, task.Priority)
				assert.Equal(t, []string{"work", "work"}, task.Tags)
				require.NotNil(t, task.DueDate)
				assert.Equal(t, model.NormalizeDate(due), *task.DueDate)
			},
		},
		{
			name:  "empty title is accepted",
			input: model.NewTask{Title: ""},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, "", task.Title)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(tasks []model.Task) bool {
				return len(tasks) == 1 && tasks[0].Title == tt.input.Title
			})).Return().Once()

			s := newTestService(mockRepo)
			task := s.Add(context.Background(), tt.input)

			assert.Equal(t, "task-1", task.ID)
			tt.check(t, task)
			assert.Equal(t, []model.Task{task}, s.Tasks())
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_AddKeepsInsertionOrder(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()

	s := newTestService(mockRepo)
	for _, title := range []string{"a", "b", "c"} {
		s.Add(context.Background(), model.NewTask{Title: title})
	}

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
	mockRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestTaskService_Update(t *testing.T) {
	oldDue := time.Date(2025, 5, 5, 0, 0, 0, 0, time.Local)
	newDue := time.Date(2025, 7, 7, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		upd   model.TaskUpdate
		check func(*testing.T, model.Task)
	}{
		{
			name: "due date unchanged when not supplied",
			upd:  model.TaskUpdate{Title: "Renamed"},
			check: func(t *testing.T, task model.Task) {
				require.NotNil(t, task.DueDate)
				assert.Equal(t, oldDue, *task.DueDate)
				assert.Equal(t, model.PriorityHigh, task.Priority)
				assert.Equal(t, []string{"keep"}, task.Tags)
			},
		},
		{
			name: "due date cleared",
			upd:  model.TaskUpdate{Title: "Renamed", DueDate: model.Cleared[time.Time]()},
			check: func(t *testing.T, task model.Task) {
				assert.Nil(t, task.DueDate)
			},
		},
		{
			name: "due date replaced",
			upd:  model.TaskUpdate{Title: "Renamed", DueDate: model.SetTo(newDue)},
			check: func(t *testing.T, task model.Task) {
				require.NotNil(t, task.DueDate)
				assert.Equal(t, model.NormalizeDate(newDue), *task.DueDate)
			},
		},
		{
			name: "description overwritten to absent",
			upd:  model.TaskUpdate{Title: "Renamed"},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, "Renamed", task.Title)
				assert.Empty(t, task.Description)
			},
		},
		{
			name: "priority and tags replaced",
			upd: model.TaskUpdate{
				Title:    "Renamed",
				Priority: model.SetTo(model.PriorityLow),
				Tags:     model.SetTo([]string{"x", "y"}),
			},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, model.PriorityLow, task.Priority)
				assert.Equal(t, []string{"x", "y"}, task.Tags)
			},
		},
		{
			name: "tags cleared",
			upd:  model.TaskUpdate{Title: "Renamed", Tags: model.Cleared[[]string]()},
			check: func(t *testing.T, task model.Task) {
				assert.NotNil(t, task.Tags)
				assert.Empty(t, task.Tags)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("Save", mock.Anything, mock.Anything).Return()

			s := newTestService(mockRepo)
			created := s.Add(context.Background(), model.NewTask{
				Title:       "Original",
				Description: "details",
				Priority:    model.PriorityHigh,
				DueDate:     &oldDue,
				Tags:        []string{"keep"},
			})

			updated, ok := s.Update(context.Background(), created.ID, tt.upd)

			require.True(t, ok)
			tt.check(t, updated)
			assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)

			stored, _ := s.Get(created.ID)
			assert.Equal(t, updated, stored)
			mockRepo.AssertNumberOfCalls(t, "Save", 2)
		})
	}
}

func TestTaskService_MissingIDIsNoop(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	s := newTestService(mockRepo)
	ctx := context.Background()

	_, ok := s.Update(ctx, "nope", model.TaskUpdate{Title: "x"})
	assert.False(t, ok)

	_, ok = s.Toggle(ctx, "nope")
	assert.False(t, ok)

	assert.False(t, s.Delete(ctx, "nope"))

	_, ok = s.Get("nope")
	assert.False(t, ok)

	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_ToggleIsInvolution(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()

	s := newTestService(mockRepo)
	ctx := context.Background()
	created := s.Add(ctx, model.NewTask{Title: "Buy milk"})

	once, ok := s.Toggle(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, once.Status)
	assert.False(t, once.UpdatedAt.Before(created.UpdatedAt))

	twice, ok := s.Toggle(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Status, twice.Status)
	assert.False(t, twice.UpdatedAt.Before(once.UpdatedAt))
	assert.Equal(t, created.CreatedAt, twice.CreatedAt)
}

func TestTaskService_DeleteIsIdempotent(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()

	s := newTestService(mockRepo)
	ctx := context.Background()
	a := s.Add(ctx, model.NewTask{Title: "a"})
	s.Add(ctx, model.NewTask{Title: "b"})

	assert.True(t, s.Delete(ctx, a.ID))
	afterOnce := s.Tasks()

	assert.False(t, s.Delete(ctx, a.ID))
	assert.Equal(t, afterOnce, s.Tasks())
	require.Len(t, afterOnce, 1)
	assert.Equal(t, "b", afterOnce[0].Title)
	mockRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestTaskService_Stats(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()

	s := newTestService(mockRepo)
	ctx := context.Background()
	a := s.Add(ctx, model.NewTask{Title: "a"})
	s.Add(ctx, model.NewTask{Title: "b"})
	s.Add(ctx, model.NewTask{Title: "c"})
	s.Toggle(ctx, a.ID)

	assert.Equal(t, model.Stats{Total: 3, Pending: 2, Completed: 1}, s.Stats())
}

func TestTaskService_ReturnedTasksAreCopies(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Save", mock.Anything, mock.Anything).Return()

	s := newTestService(mockRepo)
	created := s.Add(context.Background(), model.NewTask{Title: "a", Tags: []string{"x"}})

	created.Tags[0] = "mutated"
	tasks := s.Tasks()
	tasks[0].Title = "mutated"

	stored, _ := s.Get(created.ID)
	assert.Equal(t, "a", stored.Title)
	assert.Equal(t, []string{"x"}, stored.Tags)
}

// Buy milk: add, toggle, delete, checking the persisted blob after each step.
func TestTaskService_PersistedScenario(t *testing.T) {
	store := kv.NewMemory()
	taskRepo := repo.NewTaskRepo(store, "", zap.NewNop())
	s := NewTaskService(taskRepo, zap.NewNop())
	ctx := context.Background()

	s.Load(ctx)
	require.Empty(t, s.Tasks())

	assertPersisted := func(t *testing.T) {
		t.Helper()
		blob, ok, err := store.Get(ctx, repo.StorageKey)
		require.NoError(t, err)
		require.True(t, ok)
		want, err := repo.Encode(s.Tasks())
		require.NoError(t, err)
		assert.JSONEq(t, want, blob)
	}

	task := s.Add(ctx, model.NewTask{Title: "Buy milk"})
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assertPersisted(t)

	toggled, ok := s.Toggle(ctx, task.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, toggled.Status)
	assertPersisted(t)

	require.True(t, s.Delete(ctx, task.ID))
	assert.Empty(t, s.Tasks())
	assertPersisted(t)

	// a fresh session sees what the last one wrote
	next := NewTaskService(taskRepo, zap.NewNop())
	next.Load(ctx)
	assert.Empty(t, next.Tasks())
}

func TestTaskService_RoundTripThroughStore(t *testing.T) {
	store := kv.NewMemory()
	taskRepo := repo.NewTaskRepo(store, "", zap.NewNop())
	ctx := context.Background()
	due := time.Date(2025, 11, 3, 0, 0, 0, 0, time.Local)

	s := NewTaskService(taskRepo, zap.NewNop())
	created := s.Add(ctx, model.NewTask{
		Title:       "Dentist",
		Description: "bring card",
		Priority:    model.PriorityLow,
		DueDate:     &due,
		Tags:        []string{"health"},
	})

	reloaded := NewTaskService(taskRepo, zap.NewNop())
	reloaded.Load(ctx)
	got, ok := reloaded.Get(created.ID)
	require.True(t, ok)

	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Status, got.Status)
	assert.Equal(t, created.Priority, got.Priority)
	assert.Equal(t, created.Tags, got.Tags)
	require.NotNil(t, got.DueDate)
	assert.True(t, created.DueDate.Equal(*got.DueDate))
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
	assert.WithinDuration(t, created.UpdatedAt, got.UpdatedAt, time.Second)
}
