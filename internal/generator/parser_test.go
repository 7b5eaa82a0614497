package generator

import (
	"strings"
	"testing"
)

func TestParseArticle(t *testing.T) {
	body := "```json\n" + `{
	  "title": "夜市的燈",
	  "article": "黃昏之後，夜市的燈一盞一盞亮起來。",
	  "tags": {"format": "白話文", "content_type": "抒情", "difficulty": "進階"}
	}` + "\n```"

	article, err := ParseArticle(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "夜市的燈" {
		t.Errorf("title = %q", article.Title)
	}
	if article.Tags.ContentType != "抒情" || article.Tags.Difficulty != "進階" {
		t.Errorf("tags = %+v", article.Tags)
	}
}

func TestParseArticleWithChatter(t *testing.T) {
	body := `好的，以下是您要的文章：
	{"title": "小河", "article": "村子外有一條小河。", "tags": {"format": "白話文", "content_type": "記敘", "difficulty": "基礎"}}
	希望您滿意！`

	article, err := ParseArticle(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "小河" {
		t.Errorf("title = %q", article.Title)
	}
}

func TestParseArticleTagDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing tags", `{"title": "t", "article": "a"}`},
		{"out of vocabulary", `{"title": "t", "article": "a", "tags": {"format": "超長篇", "content_type": "玄幻", "difficulty": "地獄"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := ParseArticle(tt.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if article.Tags.Format != "白話文" || article.Tags.ContentType != "記敘" || article.Tags.Difficulty != "普通" {
				t.Errorf("tags not defaulted: %+v", article.Tags)
			}
		})
	}
}

func TestParseArticleRejectsEmpty(t *testing.T) {
	if _, err := ParseArticle(`{"title": "", "article": ""}`); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := ParseArticle("這不是 JSON"); err == nil {
		t.Fatal("expected parse error for non-JSON response")
	}
}

func TestParseQuestions(t *testing.T) {
	questions, err := ParseQuestions(mockQuestionsJSON())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(questions))
	}
	for i, q := range questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d: %d options", i+1, len(q.Options))
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex > 3 {
			t.Errorf("question %d: answer index %d", i+1, q.CorrectAnswerIndex)
		}
	}
}

func TestParseQuestionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			"empty list",
			`{"questions": []}`,
			"no questions",
		},
		{
			"three options",
			`{"questions": [{"question_text": "q", "options": ["a", "b", "c"], "correct_answer_index": 0}]}`,
			"expected 4 options",
		},
		{
			"answer out of range",
			`{"questions": [{"question_text": "q", "options": ["a", "b", "c", "d"], "correct_answer_index": 4}]}`,
			"out of range",
		},
		{
			"empty question text",
			`{"questions": [{"question_text": "", "options": ["a", "b", "c", "d"], "correct_answer_index": 0}]}`,
			"empty question_text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.body)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseAnalysisJoinsQuestionArray(t *testing.T) {
	body := `{
	  "mindmap": "主題\n  分支",
	  "explanation": "解析",
	  "thinking_questions": ["第一題", "第二題"]
	}`

	analysis, err := ParseAnalysis(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.ThinkingQuestions != "第一題\n第二題" {
		t.Errorf("thinking questions = %q", analysis.ThinkingQuestions)
	}
}

func TestParseAnalysisRejectsEmpty(t *testing.T) {
	if _, err := ParseAnalysis(`{}`); err == nil {
		t.Fatal("expected error for empty analysis")
	}
}

func TestParseAchievementIdea(t *testing.T) {
	idea, err := ParseAchievementIdea(`{"name": "閱讀新星", "description": "第一次交卷"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idea.Icon != "🏅" {
		t.Errorf("icon not defaulted: %q", idea.Icon)
	}

	if _, err := ParseAchievementIdea(`{"description": "沒有名字"}`); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestMockResponsesParse(t *testing.T) {
	if _, err := ParseArticle(mockArticleJSON()); err != nil {
		t.Errorf("mock article does not parse: %v", err)
	}
	if _, err := ParseQuestions(mockQuestionsJSON()); err != nil {
		t.Errorf("mock questions do not parse: %v", err)
	}
	if _, err := ParseAnalysis(mockAnalysisJSON()); err != nil {
		t.Errorf("mock analysis does not parse: %v", err)
	}
	if _, err := ParseAchievementIdea(mockAchievementJSON()); err != nil {
		t.Errorf("mock achievement does not parse: %v", err)
	}
}
