package gamification

import (
	"errors"
	"testing"
	"time"
)

func newTestSession(t *testing.T, total int) *Session {
	t.Helper()
	s, err := NewSession("s1", "u1", "l1", total, time.Now())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionRequiresExercises(t *testing.T) {
	if _, err := NewSession("s1", "u1", "l1", 0, time.Now()); !errors.Is(err, ErrNoExercises) {
		t.Fatalf("err = %v, want ErrNoExercises", err)
	}
}

func TestSessionNextRequiresAnswer(t *testing.T) {
	s := newTestSession(t, 3)

	if err := s.Next(); !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("err = %v, want ErrAnswerRequired", err)
	}
	_ = s.Answer("   ")
	if err := s.Next(); !errors.Is(err, ErrAnswerRequired) {
		t.Fatalf("blank answer: err = %v, want ErrAnswerRequired", err)
	}
	if s.Index != 0 {
		t.Fatalf("index moved to %d", s.Index)
	}
}

func TestSessionWalkToResults(t *testing.T) {
	s := newTestSession(t, 3)

	for i := 0; i < 3; i++ {
		if err := s.Answer("a"); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if err := s.Next(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	if s.State != StateSubmitting {
		t.Fatalf("state = %s, want submitting", s.State)
	}
	if err := s.Answer("late"); !errors.Is(err, ErrNotAnswering) {
		t.Fatalf("answer while submitting: %v", err)
	}

	if err := s.Complete(Outcome{Score: 100, Passed: true}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.State != StateResults || s.Result == nil || s.Result.Score != 100 {
		t.Fatalf("unexpected results state %+v", s)
	}
	if err := s.Prev(); !errors.Is(err, ErrNotAnswering) {
		t.Fatalf("prev from results: %v", err)
	}
	if err := s.Complete(Outcome{}); !errors.Is(err, ErrNotSubmitting) {
		t.Fatalf("second complete: %v", err)
	}
}

func TestSessionPrevKeepsAnswers(t *testing.T) {
	s := newTestSession(t, 3)

	if err := s.Prev(); !errors.Is(err, ErrFirstExercise) {
		t.Fatalf("prev at 0: %v", err)
	}

	_ = s.Answer("first")
	_ = s.Next()
	_ = s.Answer("second")
	_ = s.Next()

	if err := s.Prev(); err != nil {
		t.Fatal(err)
	}
	if err := s.Prev(); err != nil {
		t.Fatal(err)
	}
	if s.Index != 0 {
		t.Fatalf("index = %d", s.Index)
	}
	if s.Answers[0] != "first" || s.Answers[1] != "second" {
		t.Fatalf("answers lost: %v", s.Answers)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("next with retained answer: %v", err)
	}
}

func TestSessionSubmitOnlyFromLast(t *testing.T) {
	s := newTestSession(t, 2)
	_ = s.Answer("a")
	if err := s.Submit(); !errors.Is(err, ErrNotLastExercise) {
		t.Fatalf("err = %v", err)
	}
	_ = s.Next()
	_ = s.Answer("b")
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if s.State != StateSubmitting {
		t.Fatalf("state = %s", s.State)
	}
}

func TestSessionFailReturnsToLastExercise(t *testing.T) {
	s := newTestSession(t, 2)
	_ = s.Answer("a")
	_ = s.Next()
	_ = s.Answer("b")
	_ = s.Next()

	if err := s.Fail(); err != nil {
		t.Fatal(err)
	}
	if s.State != StateAnswering || s.Index != 1 {
		t.Fatalf("state = %s index = %d", s.State, s.Index)
	}
	if len(s.Answers) != 2 {
		t.Fatalf("answers lost: %v", s.Answers)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
}

func TestSessionSingleExercise(t *testing.T) {
	s := newTestSession(t, 1)
	_ = s.Answer("only")
	if err := s.Next(); err != nil {
		t.Fatal(err)
	}
	if s.State != StateSubmitting {
		t.Fatalf("state = %s", s.State)
	}
}
