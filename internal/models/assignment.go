package models

import "time"

// AssignmentTags classifies an article for the reading-breadth counters.
type AssignmentTags struct {
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Difficulty  string `json:"difficulty"`
}

type QuizQuestion struct {
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
}

// ArticleAnalysis is the AI-generated study companion for an article.
type ArticleAnalysis struct {
	Mindmap           string `json:"mindmap"`
	Explanation       string `json:"explanation"`
	ThinkingQuestions string `json:"thinking_questions"`
}

type Assignment struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Article   string          `json:"article"`
	Questions []QuizQuestion  `json:"questions"`
	Tags      AssignmentTags  `json:"tags"`
	Analysis  ArticleAnalysis `json:"analysis"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	IsPublic  bool            `json:"is_public"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateAssignmentRequest struct {
	Title     string          `json:"title"`
	Article   string          `json:"article"`
	Questions []QuizQuestion  `json:"questions"`
	Tags      AssignmentTags  `json:"tags"`
	Analysis  ArticleAnalysis `json:"analysis"`
	Deadline  *time.Time      `json:"deadline,omitempty"`
	IsPublic  bool            `json:"is_public"`
}

type AssignmentListResponse struct {
	Assignments []Assignment `json:"assignments"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
}
