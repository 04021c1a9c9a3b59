// Package store holds the in-memory tables backing every management screen.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a ref does not name a row of the table.
var ErrNotFound = errors.New("row not found")

// Row is a snapshot of one table row.
//
// Ref is stable for the life of the row. Seq is the 1-based row number and may be
// reassigned when rows are removed or reordered.
type Row[T any] struct {
	Ref    string
	Seq    int
	Hidden bool
	Value  T
}

// Table is an ordered collection of rows. All methods are safe for concurrent use and
// each one is applied atomically.
type Table[T any] struct {
	mu     sync.RWMutex
	rows   []*Row[T]
	newRef func() string
}

// New returns an empty table issuing uuid refs.
func New[T any]() *Table[T] {
	return &Table[T]{newRef: uuid.NewString}
}

// Append adds v at the end of the table and returns the stored row.
func (t *Table[T]) Append(v T) Row[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	row := &Row[T]{Ref: t.newRef(), Seq: len(t.rows) + 1, Value: v}
	t.rows = append(t.rows, row)
	return *row
}

// Get returns the row named by ref.
func (t *Table[T]) Get(ref string) (Row[T], error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.indexOf(ref)
	if idx < 0 {
		return Row[T]{}, ErrNotFound
	}
	return *t.rows[idx], nil
}

// Update applies fn to a copy of the row value and stores it only when fn succeeds.
func (t *Table[T]) Update(ref string, fn func(*T) error) (Row[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(ref)
	if idx < 0 {
		return Row[T]{}, ErrNotFound
	}

	value := t.rows[idx].Value
	if err := fn(&value); err != nil {
		return Row[T]{}, err
	}
	t.rows[idx].Value = value
	return *t.rows[idx], nil
}

// Remove deletes the row named by ref and renumbers the remaining rows by position.
func (t *Table[T]) Remove(ref string) (Row[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(ref)
	if idx < 0 {
		return Row[T]{}, ErrNotFound
	}

	removed := *t.rows[idx]
	t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
	t.renumber()
	return removed, nil
}

// Rows returns every row in table order, hidden ones included.
func (t *Table[T]) Rows() []Row[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Row[T], 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, *row)
	}
	return out
}

// Visible returns the rows not hidden by the current filter.
func (t *Table[T]) Visible() []Row[T] {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Row[T], 0, len(t.rows))
	for _, row := range t.rows {
		if !row.Hidden {
			out = append(out, *row)
		}
	}
	return out
}

// Len counts all rows, hidden ones included.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Filter hides every row for which match is false and returns the visible count.
// Rows are never removed by a filter.
func (t *Table[T]) Filter(match func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	visible := 0
	for _, row := range t.rows {
		row.Hidden = !match(row.Value)
		if !row.Hidden {
			visible++
		}
	}
	return visible
}

// ClearFilter makes every row visible again.
func (t *Table[T]) ClearFilter() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		row.Hidden = false
	}
}

// Sort reorders rows with a stable sort. When renumber is set, Seq follows the new order.
func (t *Table[T]) Sort(less func(a, b T) bool, renumber bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sort.SliceStable(t.rows, func(i, j int) bool {
		return less(t.rows[i].Value, t.rows[j].Value)
	})
	if renumber {
		t.renumber()
	}
}

// Renumber reassigns Seq as 1..N in table order.
func (t *Table[T]) Renumber() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renumber()
}

func (t *Table[T]) renumber() {
	for i, row := range t.rows {
		row.Seq = i + 1
	}
}

func (t *Table[T]) indexOf(ref string) int {
	if ref == "" {
		return -1
	}
	for i, row := range t.rows {
		if row.Ref == ref {
			return i
		}
	}
	return -1
}
