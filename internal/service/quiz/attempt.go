package quiz

import (
	"errors"
	"math"
	"sync"
)

var (
	ErrNoAnswer        = errors.New("quiz: no option selected")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("answer the current question first")
	ErrFinished        = errors.New("quiz finished")
)

// Feedback is returned once a question is answered.
type Feedback struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Result is the final score.
type Result struct {
	Score   int     `json:"score"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Comment string  `json:"comment"`
}

// State is a snapshot of an attempt for display.
type State struct {
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Question *Question `json:"question,omitempty"`
	Answered bool      `json:"answered"`
	Finished bool      `json:"finished"`
	Result   *Result   `json:"result,omitempty"`
}

// Attempt walks the questions in order. Each question is answered once, then Next moves on.
type Attempt struct {
	mu        sync.Mutex
	questions []Question
	index     int
	score     int
	answered  bool
}

// NewAttempt starts at the first question of questions.
func NewAttempt(questions []Question) *Attempt {
	return &Attempt{questions: questions}
}

// Current returns the question being asked, false once the quiz is over.
func (a *Attempt) Current() (Question, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished() {
		return Question{}, false
	}
	return a.questions[a.index], true
}

// Answer grades option for the current question.
func (a *Attempt) Answer(option int) (Feedback, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finished() {
		return Feedback{}, ErrFinished
	}
	if a.answered {
		return Feedback{}, ErrAlreadyAnswered
	}
	q := a.questions[a.index]
	if option < 0 || option >= len(q.Options) {
		return Feedback{}, ErrNoAnswer
	}

	a.answered = true
	correct := option == q.Correct
	if correct {
		a.score++
	}
	return Feedback{Correct: correct, Explanation: q.Explanation}, nil
}

// Next moves to the following question once the current one is answered.
func (a *Attempt) Next() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finished() {
		return ErrFinished
	}
	if !a.answered {
		return ErrNotAnswered
	}
	a.index++
	a.answered = false
	return nil
}

// Finished reports whether every question has been passed.
func (a *Attempt) Finished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished()
}

// Score returns the current result. Percent is rounded to a whole number.
func (a *Attempt) Score() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result()
}

// Restart resets the attempt to the first question.
func (a *Attempt) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.index, a.score, a.answered = 0, 0, false
}

// State returns what the quiz screen shows.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := State{Index: a.index, Total: len(a.questions), Answered: a.answered}
	if a.finished() {
		state.Finished = true
		result := a.result()
		state.Result = &result
		return state
	}
	q := a.questions[a.index]
	state.Question = &q
	return state
}

func (a *Attempt) finished() bool { return a.index >= len(a.questions) }

func (a *Attempt) result() Result {
	total := len(a.questions)
	percent := 0.0
	if total > 0 {
		percent = math.Round(float64(a.score) * 100 / float64(total))
	}
	return Result{Score: a.score, Total: total, Percent: percent, Comment: comment(percent)}
}

func comment(percent float64) string {
	switch {
	case percent < 40:
		return "Continuez à apprendre !"
	case percent < 70:
		return "Bon travail !"
	}
	return "Excellent !"
}

// Registry keeps one attempt per session.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
	bank     func() []Question
}

// NewRegistry hands out attempts over Bank.
func NewRegistry() *Registry {
	return &Registry{attempts: make(map[string]*Attempt), bank: Bank}
}

// Attempt returns the attempt for key, starting one if needed.
func (r *Registry) Attempt(key string) *Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.attempts[key]
	if !ok {
		attempt = NewAttempt(r.bank())
		r.attempts[key] = attempt
	}
	return attempt
}

// Drop forgets the attempt for key.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, key)
}
