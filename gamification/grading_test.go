package gamification

import "testing"

func TestIsAnswerCorrect(t *testing.T) {
	tests := []struct {
		name      string
		kind      ExerciseType
		submitted string
		correct   string
		want      bool
	}{
		{"multiple choice exact", ExerciseMultipleChoice, "Hanoi", "Hanoi", true},
		{"multiple choice case and space", ExerciseMultipleChoice, "  hanoi ", "Hanoi", true},
		{"multiple choice wrong", ExerciseMultipleChoice, "Hue", "Hanoi", false},
		{"case study trimmed", ExerciseCaseStudy, "Option B\n", "option b", true},
		{"fill blank in order", ExerciseFillBlank, "Paris;France", "Paris;France", true},
		{"fill blank normalised segments", ExerciseFillBlank, "paris ; france ", "Paris;France", true},
		{"fill blank swapped", ExerciseFillBlank, "France;Paris", "Paris;France", false},
		{"fill blank missing segment", ExerciseFillBlank, "Paris", "Paris;France", false},
		{"fill blank extra segment", ExerciseFillBlank, "Paris;France;EU", "Paris;France", false},
		{"fill blank single", ExerciseFillBlank, " Seine", "seine", true},
		{"semicolon is literal outside fill blank", ExerciseMultipleChoice, "a ; b", "a;b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAnswerCorrect(tt.kind, tt.submitted, tt.correct); got != tt.want {
				t.Fatalf("IsAnswerCorrect(%q, %q, %q) = %v, want %v", tt.kind, tt.submitted, tt.correct, got, tt.want)
			}
		})
	}
}

func TestScoreAndPassBoundary(t *testing.T) {
	tests := []struct {
		correct, total, score int
		passed                bool
	}{
		{7, 10, 70, true},
		{69, 100, 69, false},
		{70, 100, 70, true},
		{2, 3, 67, false},
		{1, 3, 33, false},
		{5, 5, 100, true},
		{0, 4, 0, false},
		{0, 0, 0, false},
	}

	for _, tt := range tests {
		score := Score(tt.correct, tt.total)
		if score != tt.score {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.correct, tt.total, score, tt.score)
		}
		if Passed(score) != tt.passed {
			t.Errorf("Passed(%d) = %v, want %v", score, Passed(score), tt.passed)
		}
	}
}

func TestGrade(t *testing.T) {
	exercises := make([]Gradable, 10)
	for i := range exercises {
		exercises[i] = Gradable{Type: ExerciseMultipleChoice, CorrectAnswer: "a"}
	}
	exercises[9] = Gradable{Type: ExerciseFillBlank, CorrectAnswer: "Paris;France"}

	answers := map[int]string{
		0: "a", 1: "A", 2: " a", 3: "a", 4: "a", 5: "a",
		6: "b",
		8: "  ",
		9: "Paris;France",
	}

	res := Grade(exercises, answers)
	if res.Total != 10 {
		t.Fatalf("total = %d, want 10", res.Total)
	}
	if res.Correct != 7 {
		t.Fatalf("correct = %d, want 7", res.Correct)
	}
	if res.Score != 70 || !res.Passed {
		t.Fatalf("score = %d passed = %v, want 70 true", res.Score, res.Passed)
	}
	if res.Marks[6] || res.Marks[7] || res.Marks[8] {
		t.Fatalf("wrong, missing and blank answers must be marked incorrect: %v", res.Marks)
	}
	if !res.Marks[9] {
		t.Fatal("fill blank answer should be marked correct")
	}
}

func TestGradeIgnoresAnswersOutOfRange(t *testing.T) {
	exercises := []Gradable{{Type: ExerciseMultipleChoice, CorrectAnswer: "x"}}
	res := Grade(exercises, map[int]string{0: "y", 5: "x", -1: "x"})
	if res.Correct != 0 || res.Score != 0 {
		t.Fatalf("got %+v", res)
	}
}

func TestExerciseTypeValid(t *testing.T) {
	for _, kind := range []ExerciseType{ExerciseMultipleChoice, ExerciseFillBlank, ExerciseCaseStudy} {
		if !kind.Valid() {
			t.Errorf("%q should be valid", kind)
		}
	}
	if ExerciseType("drag_drop").Valid() {
		t.Error("drag_drop should not be valid")
	}
}
