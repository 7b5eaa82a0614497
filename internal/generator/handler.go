package generator

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/inkroom/backend/internal/models"
)

// generationTimeout bounds one LLM round-trip including the retry.
const generationTimeout = 120 * time.Second

type Handler struct {
	generator *Generator
}

func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

func (h *Handler) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	article, resp, err := h.generator.GenerateArticle(ctx, req)
	if err != nil {
		log.Printf("[generator] article generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Article generation failed"})
		return
	}
	logUsage("article", resp)
	writeJSON(w, http.StatusOK, article)
}

type generateQuestionsRequest struct {
	Article string `json:"article"`
	Count   int    `json:"count"`
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Article) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "article is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	questions, resp, err := h.generator.GenerateQuestions(ctx, req.Article, req.Count)
	if err != nil {
		log.Printf("[generator] question generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed"})
		return
	}
	logUsage("questions", resp)
	writeJSON(w, http.StatusOK, map[string][]models.QuizQuestion{"questions": questions})
}

type generateAnalysisRequest struct {
	Article string `json:"article"`
}

func (h *Handler) GenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req generateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Article) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "article is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	analysis, resp, err := h.generator.GenerateAnalysis(ctx, req.Article)
	if err != nil {
		log.Printf("[generator] analysis generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Analysis generation failed"})
		return
	}
	logUsage("analysis", resp)
	writeJSON(w, http.StatusOK, analysis)
}

type generateAchievementRequest struct {
	Theme string `json:"theme"`
}

func (h *Handler) GenerateAchievementIdea(w http.ResponseWriter, r *http.Request) {
	var req generateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	idea, resp, err := h.generator.GenerateAchievementIdea(ctx, req.Theme)
	if err != nil {
		log.Printf("[generator] achievement idea generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Achievement idea generation failed"})
		return
	}
	logUsage("achievement idea", resp)
	writeJSON(w, http.StatusOK, idea)
}

func logUsage(kind string, resp *LLMResponse) {
	if resp == nil {
		return
	}
	log.Printf("[generator] %s generated: %d prompt tokens, %d output tokens", kind, resp.PromptTokens, resp.OutputTokens)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
