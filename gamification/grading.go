package gamification

import (
	"math"
	"strings"
)

type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseCaseStudy      ExerciseType = "case_study"
)

// PassingScore is the minimum lesson score that marks a lesson completed.
const PassingScore = 70

const blankSeparator = ";"

func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseMultipleChoice, ExerciseFillBlank, ExerciseCaseStudy:
		return true
	}
	return false
}

// Gradable is the part of an exercise the grader needs.
type Gradable struct {
	Type          ExerciseType
	CorrectAnswer string
}

// GradeResult summarises one graded answer set.
type GradeResult struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Score   int    `json:"score"`
	Passed  bool   `json:"passed"`
	Marks   []bool `json:"marks"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsAnswerCorrect compares a submitted answer with the stored correct answer.
// Fill-blank answers are compared segment by segment, in order.
func IsAnswerCorrect(kind ExerciseType, submitted, correct string) bool {
	if kind == ExerciseFillBlank {
		got := strings.Split(submitted, blankSeparator)
		want := strings.Split(correct, blankSeparator)
		if len(got) != len(want) {
			return false
		}
		for i := range want {
			if normalize(got[i]) != normalize(want[i]) {
				return false
			}
		}
		return true
	}

	return normalize(submitted) == normalize(correct)
}

// Score returns round(100 * correct / total). An empty lesson scores 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func Passed(score int) bool {
	return score >= PassingScore
}

// Grade marks answers (keyed by exercise index) against the ordered exercises.
// A missing answer counts as incorrect.
func Grade(exercises []Gradable, answers map[int]string) GradeResult {
	res := GradeResult{
		Total: len(exercises),
		Marks: make([]bool, len(exercises)),
	}

	for i, ex := range exercises {
		answer, ok := answers[i]
		if !ok || strings.TrimSpace(answer) == "" {
			continue
		}
		if IsAnswerCorrect(ex.Type, answer, ex.CorrectAnswer) {
			res.Marks[i] = true
			res.Correct++
		}
	}

	res.Score = Score(res.Correct, res.Total)
	res.Passed = Passed(res.Score)
	return res
}
