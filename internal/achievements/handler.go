package achievements

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/inkroom/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("user_id").(string)
	return uid, ok && uid != ""
}

// ── Teacher catalog management ──────────────────────────

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListAchievements(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list achievements"})
		return
	}
	if resp == nil {
		resp = []TeacherAchievement{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req models.SaveAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	def, err := h.service.SaveAchievement(r.Context(), "", &req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func (h *Handler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.SaveAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	def, err := h.service.SaveAchievement(r.Context(), id, &req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (h *Handler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.DeleteAchievement(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Achievement not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete achievement"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ── Student view ────────────────────────────────────────

func (h *Handler) MyAchievements(w http.ResponseWriter, r *http.Request) {
	studentID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.ListForStudent(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list achievements"})
		return
	}
	if resp == nil {
		resp = []models.StudentAchievement{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
