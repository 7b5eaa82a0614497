package generator

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/inkroom/backend/internal/models"
)

// GeneratedArticle is the parsed article generation result.
type GeneratedArticle struct {
	Title   string                `json:"title"`
	Article string                `json:"article"`
	Tags    models.AssignmentTags `json:"tags"`
}

// AchievementIdea is a badge suggestion for the teacher to edit and save.
type AchievementIdea struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// cleanResponse strips code fences and any chatter around the JSON
// object. Models occasionally prefix the payload with a sentence even
// when told not to.
func cleanResponse(s string) (string, error) {
	s = stripCodeFences(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	s = s[start : end+1]
	if !gjson.Valid(s) {
		return "", fmt.Errorf("malformed JSON in response")
	}
	return s, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// ParseArticle validates a generated article and normalizes its tags
// onto the closed vocabularies, defaulting anything missing or
// out-of-vocabulary.
func ParseArticle(responseBody string) (*GeneratedArticle, error) {
	raw, err := cleanResponse(responseBody)
	if err != nil {
		return nil, err
	}

	// Fill tag defaults before reading so one lookup path serves both
	// complete and partial responses.
	for path, fallback := range map[string]string{
		"tags.format":       "白話文",
		"tags.content_type": "記敘",
		"tags.difficulty":   "普通",
	} {
		if !gjson.Get(raw, path).Exists() {
			if raw, err = sjson.Set(raw, path, fallback); err != nil {
				return nil, fmt.Errorf("apply tag default: %w", err)
			}
		}
	}

	article := &GeneratedArticle{
		Title:   strings.TrimSpace(gjson.Get(raw, "title").String()),
		Article: strings.TrimSpace(gjson.Get(raw, "article").String()),
		Tags: models.AssignmentTags{
			Format:      normalizeTag(gjson.Get(raw, "tags.format").String(), Formats, "白話文"),
			ContentType: normalizeTag(gjson.Get(raw, "tags.content_type").String(), ContentTypes, "記敘"),
			Difficulty:  normalizeTag(gjson.Get(raw, "tags.difficulty").String(), Difficulties, "普通"),
		},
	}

	var errs []string
	if article.Title == "" {
		errs = append(errs, "empty title")
	}
	if article.Article == "" {
		errs = append(errs, "empty article")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return article, nil
}

func normalizeTag(value string, vocabulary []string, fallback string) string {
	value = strings.TrimSpace(value)
	for _, v := range vocabulary {
		if value == v {
			return value
		}
	}
	return fallback
}

// ParseQuestions validates a generated quiz: each question needs four
// options and an in-range answer index.
func ParseQuestions(responseBody string) ([]models.QuizQuestion, error) {
	raw, err := cleanResponse(responseBody)
	if err != nil {
		return nil, err
	}

	items := gjson.Get(raw, "questions").Array()
	if len(items) == 0 {
		return nil, &ValidationError{Errors: []string{"no questions in response"}}
	}

	var errs []string
	questions := make([]models.QuizQuestion, 0, len(items))
	for i, item := range items {
		qNum := i + 1
		q := models.QuizQuestion{
			QuestionText: strings.TrimSpace(item.Get("question_text").String()),
			Explanation:  strings.TrimSpace(item.Get("explanation").String()),
		}
		for _, opt := range item.Get("options").Array() {
			q.Options = append(q.Options, opt.String())
		}
		q.CorrectAnswerIndex = int(item.Get("correct_answer_index").Int())

		if q.QuestionText == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty question_text", qNum))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer_index %d out of range", qNum, q.CorrectAnswerIndex))
		}
		questions = append(questions, q)
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return questions, nil
}

// ParseAnalysis is lenient about shape: thinking_questions may arrive
// as a string or as an array of strings.
func ParseAnalysis(responseBody string) (*models.ArticleAnalysis, error) {
	raw, err := cleanResponse(responseBody)
	if err != nil {
		return nil, err
	}

	thinking := gjson.Get(raw, "thinking_questions")
	thinkingText := strings.TrimSpace(thinking.String())
	if thinking.IsArray() {
		var lines []string
		for _, q := range thinking.Array() {
			if s := strings.TrimSpace(q.String()); s != "" {
				lines = append(lines, s)
			}
		}
		thinkingText = strings.Join(lines, "\n")
	}

	analysis := &models.ArticleAnalysis{
		Mindmap:           strings.TrimSpace(gjson.Get(raw, "mindmap").String()),
		Explanation:       strings.TrimSpace(gjson.Get(raw, "explanation").String()),
		ThinkingQuestions: thinkingText,
	}
	if analysis.Mindmap == "" && analysis.Explanation == "" && analysis.ThinkingQuestions == "" {
		return nil, &ValidationError{Errors: []string{"analysis response has no content"}}
	}
	return analysis, nil
}

func ParseAchievementIdea(responseBody string) (*AchievementIdea, error) {
	raw, err := cleanResponse(responseBody)
	if err != nil {
		return nil, err
	}

	idea := &AchievementIdea{
		Name:        strings.TrimSpace(gjson.Get(raw, "name").String()),
		Description: strings.TrimSpace(gjson.Get(raw, "description").String()),
		Icon:        strings.TrimSpace(gjson.Get(raw, "icon").String()),
	}
	if idea.Name == "" {
		return nil, &ValidationError{Errors: []string{"empty achievement name"}}
	}
	if idea.Icon == "" {
		idea.Icon = "🏅"
	}
	return idea, nil
}
