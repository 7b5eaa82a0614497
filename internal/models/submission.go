package models

import "time"

// PassScore is the highest-attempt cutoff used to display an assignment
// as passed. It is intentionally unrelated to the completion streak,
// which counts submission existence only.
const PassScore = 60

// HighScore is the first-attempt cutoff that extends the high-score streak.
const HighScore = 90

// Attempt is one quiz sitting. Answers holds the selected option index
// per question; -1 marks a question left blank.
type Attempt struct {
	Answers         []int     `json:"answers"`
	Score           int       `json:"score"`
	SubmittedAt     time.Time `json:"submitted_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// Submission is the one-per-(student, assignment) record. Score is the
// first attempt's score and never changes afterwards; retries only
// append to Attempts.
type Submission struct {
	ID           int64     `json:"id"`
	StudentID    string    `json:"student_id"`
	ClassID      string    `json:"class_id"`
	AssignmentID string    `json:"assignment_id"`
	Score        int       `json:"score"`
	Attempts     []Attempt `json:"attempts"`
	SubmittedAt  time.Time `json:"submitted_at"`
	IsOverdue    bool      `json:"is_overdue"`
}

// HighestScore returns the best score across all attempts.
func (s *Submission) HighestScore() int {
	best := 0
	for _, a := range s.Attempts {
		if a.Score > best {
			best = a.Score
		}
	}
	return best
}

// Passed reports whether the best attempt cleared the pass cutoff.
func (s *Submission) Passed() bool {
	return len(s.Attempts) > 0 && s.HighestScore() >= PassScore
}

type SubmitQuizRequest struct {
	AssignmentID    string `json:"assignment_id"`
	Answers         []int  `json:"answers"`
	DurationSeconds int    `json:"duration_seconds"`
}

type SubmitQuizResponse struct {
	Score        int           `json:"score"`
	HighestScore int           `json:"highest_score"`
	Passed       bool          `json:"passed"`
	IsOverdue    bool          `json:"is_overdue"`
	FirstAttempt bool          `json:"first_attempt"`
	Attempts     int           `json:"attempts"`
	Unlocked     []UnlockEvent `json:"unlocked"`
}
