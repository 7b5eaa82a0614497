package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/inkroom/backend/internal/models"
)

// LLMClient is the interface all generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds the classroom content methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator(model string, mock bool) *Generator {
	var llm LLMClient

	if os.Getenv("USE_CLI_GENERATOR") == "true" {
		cliPath := os.Getenv("CLAUDE_CLI_PATH")
		if cliPath == "" {
			cliPath = "claude"
		}
		llm = NewCLIClient(cliPath)
		model = "claude-cli"
		log.Println("[generator] using Claude CLI (local plan)")
	} else if mock {
		llm = NewMockClient()
		model = "mock"
		log.Println("[generator] using mock data")
	} else {
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("[generator] using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

func (g *Generator) GenerateArticle(ctx context.Context, req ArticleRequest) (*GeneratedArticle, *LLMResponse, error) {
	systemPrompt := ArticleSystemPrompt()
	userPrompt := BuildArticleUserPrompt(req)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate article: %w", err)
	}

	article, err := ParseArticle(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse article response: %w", err)
	}
	return article, resp, nil
}

func (g *Generator) GenerateQuestions(ctx context.Context, article string, count int) ([]models.QuizQuestion, *LLMResponse, error) {
	systemPrompt := QuestionsSystemPrompt()
	userPrompt := BuildQuestionsUserPrompt(article, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate questions: %w", err)
	}

	questions, err := ParseQuestions(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse questions response: %w", err)
	}
	return questions, resp, nil
}

func (g *Generator) GenerateAnalysis(ctx context.Context, article string) (*models.ArticleAnalysis, *LLMResponse, error) {
	systemPrompt := AnalysisSystemPrompt()
	userPrompt := BuildAnalysisUserPrompt(article)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate analysis: %w", err)
	}

	analysis, err := ParseAnalysis(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse analysis response: %w", err)
	}
	return analysis, resp, nil
}

func (g *Generator) GenerateAchievementIdea(ctx context.Context, theme string) (*AchievementIdea, *LLMResponse, error) {
	systemPrompt := AchievementSystemPrompt()
	userPrompt := BuildAchievementUserPrompt(theme)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate achievement idea: %w", err)
	}

	idea, err := ParseAchievementIdea(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse achievement idea: %w", err)
	}
	return idea, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   8192,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

// requestTimeout bounds a single API attempt. Retries get a fresh
// window.
const requestTimeout = 30 * time.Second

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		message, err := c.client.Messages.New(attemptCtx, params)
		cancel()
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("[generator] Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}
