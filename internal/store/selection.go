package store

import (
	"errors"
	"sync"
)

// ErrNoSelection is returned by edit, delete, detail and export requests made without a row.
var ErrNoSelection = errors.New("no row selected")

// Confirmer asks the user a yes/no question. Only a true answer lets a destructive
// operation proceed.
type Confirmer func(prompt string) bool

// Confirmed is a Confirmer that always answers yes.
func Confirmed(string) bool { return true }

// Ask returns false when c is nil.
func (c Confirmer) Ask(prompt string) bool {
	return c != nil && c(prompt)
}

// Selection is the optional current row of a table view.
type Selection struct {
	mu  sync.Mutex
	ref string
}

// Set makes ref the current row.
func (s *Selection) Set(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = ref
}

// Clear drops the current row.
func (s *Selection) Clear() { s.Set("") }

// Ref returns the current row, "" when none.
func (s *Selection) Ref() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref
}

// ClearIf drops the current row when it is ref.
func (s *Selection) ClearIf(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ref == ref {
		s.ref = ""
	}
}
