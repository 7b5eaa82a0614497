package generator

import (
	"strings"
	"testing"
)

func TestBuildArticleUserPrompt(t *testing.T) {
	req := ArticleRequest{
		Topic:       "夜市",
		Format:      "白話文",
		ContentType: "記敘",
		Difficulty:  "進階",
		WordCount:   800,
	}
	prompt := BuildArticleUserPrompt(req)

	for _, want := range []string{"800", "夜市", "白話文", "記敘", "進階"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildArticleUserPromptDefaults(t *testing.T) {
	prompt := BuildArticleUserPrompt(ArticleRequest{})
	if !strings.Contains(prompt, "600") {
		t.Errorf("default word count not applied:\n%s", prompt)
	}
}

func TestBuildQuestionsUserPrompt(t *testing.T) {
	prompt := BuildQuestionsUserPrompt("文章內容", 0)
	if !strings.Contains(prompt, "5 題") {
		t.Errorf("default count not applied:\n%s", prompt)
	}
	if !strings.Contains(prompt, "文章內容") {
		t.Error("article text missing from prompt")
	}
}

func TestSystemPromptsDemandJSON(t *testing.T) {
	prompts := map[string]string{
		"article":     ArticleSystemPrompt(),
		"questions":   QuestionsSystemPrompt(),
		"analysis":    AnalysisSystemPrompt(),
		"achievement": AchievementSystemPrompt(),
	}
	for name, p := range prompts {
		if !strings.Contains(p, "JSON") {
			t.Errorf("%s system prompt does not demand JSON output", name)
		}
	}
}

func TestTagVocabularyInArticlePrompt(t *testing.T) {
	p := ArticleSystemPrompt()
	for _, tag := range append(append([]string{}, ContentTypes...), Difficulties...) {
		if !strings.Contains(p, tag) {
			t.Errorf("system prompt missing tag %q", tag)
		}
	}
}
