package generator

import (
	"context"
	"strings"
)

// MockClient returns canned responses for local development, keyed off
// the system prompt so every generation endpoint works offline.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	var content string
	switch {
	case strings.Contains(systemPrompt, "命題專家"):
		content = mockQuestionsJSON()
	case strings.Contains(systemPrompt, "學習素材"):
		content = mockAnalysisJSON()
	case strings.Contains(systemPrompt, "成就徽章"):
		content = mockAchievementJSON()
	default:
		content = mockArticleJSON()
	}
	return &LLMResponse{
		Content:      content,
		PromptTokens: 800,
		OutputTokens: 1600,
	}, nil
}

func mockArticleJSON() string {
	return `{
  "title": "【測試】巷口的麵攤",
  "article": "放學的時候，巷口的麵攤總是冒著白白的蒸氣。老闆娘記得每個熟客的口味，誰不要蔥、誰要加辣，她從來不會弄錯。\n\n我常常在寫完功課後，和妹妹一起去吃一碗陽春麵。熱湯下肚，一天的疲倦好像也跟著散掉了。\n\n後來我們搬家了，再回去時麵攤已經換成了便利商店。我才明白，有些味道只存在於記憶裡，而記憶，是帶不走也換不掉的。",
  "tags": {
    "format": "白話文",
    "content_type": "記敘",
    "difficulty": "普通"
  }
}`
}

func mockQuestionsJSON() string {
	return `{
  "questions": [
    {
      "question_text": "【測試】作者放學後常去巷口做什麼？",
      "options": ["買飲料", "吃陽春麵", "等公車", "找同學"],
      "correct_answer_index": 1,
      "explanation": "文中提到作者常和妹妹一起去吃一碗陽春麵。"
    },
    {
      "question_text": "【測試】老闆娘「從來不會弄錯」熟客的口味，這句話的作用是什麼？",
      "options": ["說明麵攤生意不好", "凸顯老闆娘與客人之間的熟悉感", "批評老闆娘太忙", "描述麵的種類很多"],
      "correct_answer_index": 1,
      "explanation": "細節描寫用來凸顯人情味與熟悉感。"
    },
    {
      "question_text": "【測試】文章最後說「記憶是帶不走也換不掉的」，作者想表達什麼？",
      "options": ["對新便利商店的期待", "對搬家的後悔", "對舊時光的珍惜與懷念", "對麵攤老闆娘的抱怨"],
      "correct_answer_index": 2,
      "explanation": "結尾抒發對逝去事物的懷念，屬於省思層次。"
    },
    {
      "question_text": "【測試】本文的敘述順序是？",
      "options": ["倒敘", "順敘", "插敘", "並敘"],
      "correct_answer_index": 1,
      "explanation": "文章依時間先後敘述，屬於順敘。"
    },
    {
      "question_text": "【測試】下列何者最接近本文的主旨？",
      "options": ["珍惜日常裡的平凡美好", "做生意要誠實", "搬家是人生大事", "吃麵有益健康"],
      "correct_answer_index": 0,
      "explanation": "全文藉麵攤寫日常與記憶的可貴。"
    }
  ]
}`
}

func mockAnalysisJSON() string {
	return `{
  "mindmap": "巷口的麵攤\n  場景\n    放學時分\n    蒸氣與香味\n  人物\n    老闆娘記得口味\n    我與妹妹\n  轉折\n    搬家\n    麵攤消失\n  主旨\n    記憶與珍惜",
  "explanation": "本文以巷口麵攤為線索，藉由「記得口味」與「換成便利商店」的對比，寫出日常事物承載的情感。結尾以「帶不走也換不掉」點題，抒發對舊時光的珍惜。",
  "thinking_questions": "你的生活中有沒有像麵攤一樣的角落？\n如果有一天它消失了，你會想用什麼方式記住它？"
}`
}

func mockAchievementJSON() string {
	return `{
  "name": "【測試】閱讀小行星",
  "description": "連續七天登入閱讀，像行星一樣穩定運行。",
  "icon": "🪐"
}`
}
