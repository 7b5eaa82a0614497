package submissions

import (
	"math"

	"github.com/inkroom/backend/internal/models"
)

// Grade scores an answer sheet against the assignment questions on a
// 0-100 scale, rounded to the nearest integer. Answers beyond the
// question count are ignored; missing or blank (-1) answers count as
// wrong.
func Grade(questions []models.QuizQuestion, answers []int) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswerIndex {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(questions)) * 100))
}
