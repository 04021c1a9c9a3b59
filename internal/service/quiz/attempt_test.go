package quiz

import (
	"errors"
	"testing"
)

func TestBankShape(t *testing.T) {
	bank := Bank()
	if len(bank) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(bank))
	}
	want := []int{1, 2, 0, 1, 1}
	for i, q := range bank {
		if len(q.Options) != 3 || q.Correct != want[i] {
			t.Fatalf("question %d: unexpected shape %+v", i, q)
		}
	}
}

func TestPerfectRun(t *testing.T) {
	attempt := NewAttempt(Bank())
	for !attempt.Finished() {
		q, ok := attempt.Current()
		if !ok {
			t.Fatal("current question missing before the end")
		}
		fb, err := attempt.Answer(q.Correct)
		if err != nil || !fb.Correct || fb.Explanation == "" {
			t.Fatalf("answer: %+v %v", fb, err)
		}
		if err := attempt.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
	result := attempt.Score()
	if result.Score != 5 || result.Percent != 100 || result.Comment != "Excellent !" {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := attempt.Answer(0); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
	if state := attempt.State(); !state.Finished || state.Question != nil || state.Result == nil {
		t.Fatalf("unexpected final state %+v", state)
	}
}

func TestAnswerRules(t *testing.T) {
	attempt := NewAttempt(Bank())

	if err := attempt.Next(); !errors.Is(err, ErrNotAnswered) {
		t.Fatalf("next before answering should fail, got %v", err)
	}
	if _, err := attempt.Answer(3); !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("out of range option should fail, got %v", err)
	}
	if _, err := attempt.Answer(-1); !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("no option should fail, got %v", err)
	}
	fb, err := attempt.Answer(0)
	if err != nil || fb.Correct {
		t.Fatalf("option 0 is wrong for the first question: %+v %v", fb, err)
	}
	if _, err := attempt.Answer(1); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second answer should fail, got %v", err)
	}
}

func TestScoreCommentsAndRestart(t *testing.T) {
	attempt := NewAttempt(Bank())
	// Two right answers out of five.
	for i, option := range []int{1, 2, 2, 0, 0} {
		if _, err := attempt.Answer(option); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		_ = attempt.Next()
	}
	if result := attempt.Score(); result.Score != 2 || result.Percent != 40 || result.Comment != "Bon travail !" {
		t.Fatalf("unexpected result %+v", result)
	}

	attempt.Restart()
	if attempt.Finished() || attempt.Score().Score != 0 {
		t.Fatal("restart should reset the attempt")
	}
	if result := attempt.Score(); result.Comment != "Continuez à apprendre !" {
		t.Fatalf("unexpected comment %q", result.Comment)
	}
}

func TestRegistryKeepsOneAttemptPerKey(t *testing.T) {
	registry := NewRegistry()
	a := registry.Attempt("token-a")
	if registry.Attempt("token-a") != a {
		t.Fatal("same key should return the same attempt")
	}
	if registry.Attempt("token-b") == a {
		t.Fatal("different keys should not share attempts")
	}
	registry.Drop("token-a")
	if registry.Attempt("token-a") == a {
		t.Fatal("dropped attempt should be replaced")
	}
}
