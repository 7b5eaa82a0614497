package generator

import (
	"fmt"
	"strings"
)

// Tag vocabularies the prompts are allowed to emit. The parser rejects
// anything outside these sets so the reading-breadth counters stay on
// a closed key space.
var (
	ContentTypes = []string{"記敘", "抒情", "說明", "議論", "應用"}
	Difficulties = []string{"基礎", "普通", "進階", "困難"}
	Formats      = []string{"白話文", "文言文", "詩歌"}
)

// ArticleRequest describes the article a teacher asks for.
type ArticleRequest struct {
	Topic       string `json:"topic"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Difficulty  string `json:"difficulty"`
	WordCount   int    `json:"word_count"`
}

func ArticleSystemPrompt() string {
	return `你是一位資深的國文老師，專門為國小高年級與國中學生撰寫閱讀理解文章。
你寫的文章主題貼近學生生活、用詞準確、結構清楚，並依指定的文體與難度調整句長與詞彙深度。

你只輸出 JSON，不輸出任何其他文字。輸出格式：
{
  "title": "文章標題",
  "article": "文章全文，段落之間用\n\n分隔",
  "tags": {
    "format": "` + strings.Join(Formats, " | ") + `",
    "content_type": "` + strings.Join(ContentTypes, " | ") + `",
    "difficulty": "` + strings.Join(Difficulties, " | ") + `"
  }
}`
}

func BuildArticleUserPrompt(req ArticleRequest) string {
	wordCount := req.WordCount
	if wordCount <= 0 {
		wordCount = 600
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "請撰寫一篇約 %d 字的閱讀文章。\n", wordCount)
	if req.Topic != "" {
		fmt.Fprintf(&sb, "主題：%s\n", req.Topic)
	}
	if req.Format != "" {
		fmt.Fprintf(&sb, "文體形式：%s\n", req.Format)
	}
	if req.ContentType != "" {
		fmt.Fprintf(&sb, "寫作類型：%s\n", req.ContentType)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&sb, "難度：%s\n", req.Difficulty)
	}
	sb.WriteString("記得 tags 欄位必須填入實際使用的文體、類型與難度。")
	return sb.String()
}

func QuestionsSystemPrompt() string {
	return `你是一位閱讀理解命題專家，依照 PISA 閱讀素養三層次（擷取訊息、統整解釋、省思評鑑）為文章出四選一的單選題。
每題皆需附上正確答案與簡短詳解，四個選項長度相近、干擾項合理。

你只輸出 JSON，不輸出任何其他文字。輸出格式：
{
  "questions": [
    {
      "question_text": "題目",
      "options": ["選項一", "選項二", "選項三", "選項四"],
      "correct_answer_index": 0,
      "explanation": "詳解"
    }
  ]
}`
}

func BuildQuestionsUserPrompt(article string, count int) string {
	if count <= 0 {
		count = 5
	}
	return fmt.Sprintf(`請根據以下文章出 %d 題單選題。題目需涵蓋擷取訊息、統整解釋與省思評鑑三個層次。

文章：
%s`, count, article)
}

func AnalysisSystemPrompt() string {
	return `你是一位國文老師，為文章製作課後學習素材：心智圖、文章解析與延伸思考題。
心智圖使用縮排的純文字大綱呈現。

你只輸出 JSON，不輸出任何其他文字。輸出格式：
{
  "mindmap": "心智圖大綱",
  "explanation": "文章解析",
  "thinking_questions": "延伸思考題，每題一行"
}`
}

func BuildAnalysisUserPrompt(article string) string {
	return fmt.Sprintf(`請為以下文章製作學習素材。

文章：
%s`, article)
}

func AchievementSystemPrompt() string {
	return `你是一位遊戲化教學設計師，為班級閱讀平台設計成就徽章。
成就要有趣、名稱要簡短好記，並附上一個適合的 emoji 圖示。

你只輸出 JSON，不輸出任何其他文字。輸出格式：
{
  "name": "成就名稱",
  "description": "成就描述，一句話",
  "icon": "一個 emoji"
}`
}

func BuildAchievementUserPrompt(theme string) string {
	if strings.TrimSpace(theme) == "" {
		return "請設計一個鼓勵學生持續閱讀的成就徽章。"
	}
	return fmt.Sprintf("請設計一個成就徽章，主題方向：%s", theme)
}
