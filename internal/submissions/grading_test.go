package submissions

import (
	"testing"

	"github.com/inkroom/backend/internal/models"
)

func questions(correct ...int) []models.QuizQuestion {
	qs := make([]models.QuizQuestion, len(correct))
	for i, c := range correct {
		qs[i] = models.QuizQuestion{
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: c,
		}
	}
	return qs
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name      string
		questions []models.QuizQuestion
		answers   []int
		want      int
	}{
		{"all correct", questions(0, 1, 2, 3), []int{0, 1, 2, 3}, 100},
		{"all wrong", questions(0, 0, 0, 0), []int{1, 1, 1, 1}, 0},
		{"blank counts as wrong", questions(0, 1), []int{0, -1}, 50},
		{"short answer sheet", questions(0, 1, 2), []int{0}, 33},
		{"extra answers ignored", questions(0), []int{0, 3, 3}, 100},
		{"rounds up", questions(0, 0, 0), []int{0, 0, 1}, 67},
		{"no questions", nil, []int{0}, 0},
		{"two of five", questions(0, 1, 2, 3, 0), []int{0, 1, 0, 0, 1}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(tt.questions, tt.answers); got != tt.want {
				t.Errorf("Grade() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubmissionScores(t *testing.T) {
	sub := models.Submission{
		Score: 40,
		Attempts: []models.Attempt{
			{Score: 40},
			{Score: 75},
			{Score: 55},
		},
	}
	if got := sub.HighestScore(); got != 75 {
		t.Errorf("HighestScore = %d, want 75", got)
	}
	if !sub.Passed() {
		t.Error("best attempt 75 should pass")
	}
	// First-attempt score stays the record score regardless of retries.
	if sub.Score != 40 {
		t.Errorf("Score = %d, want 40", sub.Score)
	}

	failing := models.Submission{Score: 50, Attempts: []models.Attempt{{Score: 50}}}
	if failing.Passed() {
		t.Error("best attempt 50 should not pass")
	}
}
