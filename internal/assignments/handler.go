package assignments

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/inkroom/backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Article) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Title and article are required"})
		return
	}

	a := &models.Assignment{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Article:   req.Article,
		Questions: req.Questions,
		Tags:      req.Tags,
		Analysis:  req.Analysis,
		Deadline:  req.Deadline,
		IsPublic:  req.IsPublic,
	}
	if err := h.store.Create(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create assignment"})
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	a := &models.Assignment{
		ID:        id,
		Title:     strings.TrimSpace(req.Title),
		Article:   req.Article,
		Questions: req.Questions,
		Tags:      req.Tags,
		Analysis:  req.Analysis,
		Deadline:  req.Deadline,
		IsPublic:  req.IsPublic,
	}
	if err := h.store.Update(r.Context(), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update assignment"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := intQueryParam(query, "page", 1)
	pageSize := intQueryParam(query, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	role, _ := r.Context().Value("role").(string)
	publicOnly := role != models.RoleTeacher

	resp, err := h.store.List(r.Context(), page, pageSize, publicOnly)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list assignments"})
		return
	}

	if publicOnly {
		for i := range resp.Assignments {
			sanitizeForStudent(&resp.Assignments[i])
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get assignment"})
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
		return
	}

	role, _ := r.Context().Value("role").(string)
	if role != models.RoleTeacher {
		if !a.IsPublic {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
			return
		}
		sanitizeForStudent(a)
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Assignment not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete assignment"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// sanitizeForStudent strips answer keys and explanations before an
// assignment goes to a student taking the quiz.
func sanitizeForStudent(a *models.Assignment) {
	for i := range a.Questions {
		a.Questions[i].CorrectAnswerIndex = -1
		a.Questions[i].Explanation = ""
	}
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
