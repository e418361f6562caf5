package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-tasks/internal/kv"
	"github.com/BuzzLyutic/todo-tasks/internal/model"
)

// StorageKey is the default key the collection blob lives under.
const StorageKey = "todo-tasks"

// timestampLayout is ISO-8601 with milliseconds, the shape older records were written in.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type TaskRepo struct {
	store  kv.Store
	key    string
	logger *zap.Logger
}

func NewTaskRepo(store kv.Store, key string, logger *zap.Logger) *TaskRepo {
	if key == "" {
		key = StorageKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskRepo{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// record is the persisted shape of a task. Optional fields are pointers so
// that records written before those fields existed can be told apart.
type record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

func (r *TaskRepo) Save(ctx context.Context, tasks []model.Task) {
	blob, err := Encode(tasks)
	if err != nil {
		r.logger.Error("failed to save tasks", zap.String("key", r.key), zap.Error(err))
		return
	}
	if err := r.store.Set(ctx, r.key, blob); err != nil {
		r.logger.Error("failed to save tasks", zap.String("key", r.key), zap.Int("count", len(tasks)), zap.Error(err))
	}
}

func (r *TaskRepo) Load(ctx context.Context) []model.Task {
	blob, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.logger.Error("failed to load tasks", zap.String("key", r.key), zap.Error(err))
		return []model.Task{}
	}
	if !ok || strings.TrimSpace(blob) == "" {
		return []model.Task{}
	}

	tasks, err := Decode(blob)
	if err != nil {
		// the stored blob is left as is
		r.logger.Error("failed to load tasks", zap.String("key", r.key), zap.Error(err))
		return []model.Task{}
	}
	return tasks
}

// Encode serializes the collection. An empty collection becomes "[]".
func Encode(tasks []model.Task) (string, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toRecord(t))
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(b), nil
}

// Decode parses a blob written by Encode or by an older version of the format.
func Decode(blob string) ([]model.Task, error) {
	var records []record
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, fromRecord(rec))
	}
	return tasks, nil
}

func toRecord(t model.Task) record {
	priority := string(t.Priority)
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	rec := record{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    &priority,
		Tags:        &tags,
		CreatedAt:   formatTimestamp(t.CreatedAt),
		UpdatedAt:   formatTimestamp(t.UpdatedAt),
	}
	if t.DueDate != nil {
		due := formatTimestamp(*t.DueDate)
		rec.DueDate = &due
	}
	return rec
}

func fromRecord(rec record) model.Task {
	t := model.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Status:      model.StatusPending,
		Priority:    model.DefaultPriority,
		Tags:        []string{},
		CreatedAt:   parseTimestamp(rec.CreatedAt),
		UpdatedAt:   parseTimestamp(rec.UpdatedAt),
	}
	if s, ok := model.ParseStatus(rec.Status); ok {
		t.Status = s
	}
	if rec.Priority != nil {
		if p, ok := model.ParsePriority(*rec.Priority); ok {
			t.Priority = p
		}
	}
	if rec.Tags != nil {
		t.Tags = append(t.Tags, *rec.Tags...)
	}
	if rec.DueDate != nil {
		due := parseDueDate(*rec.DueDate)
		t.DueDate = &due
	}
	return t
}

// parseDueDate reads a bare YYYY-MM-DD in the local zone so the calendar day
// does not shift; full timestamps are normalized to local midnight.
func parseDueDate(s string) time.Time {
	if d, err := model.ParseDate(s); err == nil {
		return d
	}
	due := parseTimestamp(s)
	if due.IsZero() {
		return due
	}
	return model.NormalizeDate(due)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds and bare
// dates (read as UTC midnight). Anything else yields the zero time, which is
// kept rather than repaired so callers can spot it with IsZero.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	return time.Time{}
}
