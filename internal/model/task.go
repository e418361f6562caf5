package model

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggled returns the opposite status. Anything that is not completed counts as pending.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const DefaultPriority = PriorityMedium

func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Rank orders priorities for sorting: high=0, medium=1, low=2.
// Unknown values rank with medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	c.Tags = append(make([]string, 0, len(t.Tags)), t.Tags...)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}

// NewTask carries the caller-supplied fields of a task being created.
// Zero Priority means DefaultPriority; nil Tags means no tags.
type NewTask struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Tags        []string
}

// TaskUpdate replaces Title and Description unconditionally.
// The remaining fields only change when their Change says so.
type TaskUpdate struct {
	Title       string
	Description string
	Priority    Change[Priority]
	DueDate     Change[time.Time]
	Tags        Change[[]string]
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = Filter(StatusPending)
	FilterCompleted Filter = Filter(StatusCompleted)
)

func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterPending, FilterCompleted:
		return Filter(s), true
	case "":
		return FilterAll, true
	}
	return "", false
}

type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortUpdatedAt SortKey = "updatedAt"
	SortTitle     SortKey = "title"
	SortPriority  SortKey = "priority"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortCreatedAt, SortUpdatedAt, SortTitle, SortPriority:
		return SortKey(s), true
	case "":
		return SortCreatedAt, true
	}
	return "", false
}

// ViewOptions selects a derived view of the collection.
// Locale is a BCP 47 tag used for title collation; empty means root collation.
type ViewOptions struct {
	Filter Filter
	SortBy SortKey
	Query  string
	Locale string
}

type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}
