package model

type changeKind uint8

const (
	changeNone changeKind = iota
	changeClear
	changeSet
)

// Change is a tri-state update for an optional field: leave it alone, clear it,
// or set it to a value. The zero Change leaves the field unchanged.
type Change[T any] struct {
	kind  changeKind
	value T
}

func Unchanged[T any]() Change[T] { return Change[T]{} }

func Cleared[T any]() Change[T] { return Change[T]{kind: changeClear} }

func SetTo[T any](v T) Change[T] { return Change[T]{kind: changeSet, value: v} }

func (c Change[T]) IsUnchanged() bool { return c.kind == changeNone }

func (c Change[T]) IsCleared() bool { return c.kind == changeClear }

// Value reports the new value and whether one was supplied.
func (c Change[T]) Value() (T, bool) {
	return c.value, c.kind == changeSet
}

// Apply returns current, cleared, or the new value depending on c.
func (c Change[T]) Apply(current, cleared T) T {
	switch c.kind {
	case changeClear:
		return cleared
	case changeSet:
		return c.value
	default:
		return current
	}
}
