package submissions

import (
	"encoding/json"
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

func callerIdentity(r *http.Request) (userID, classID string, ok bool) {
	userID, _ = r.Context().Value("user_id").(string)
	classID, _ = r.Context().Value("class_id").(string)
	return userID, classID, userID != ""
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	studentID, classID, ok := callerIdentity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	role, _ := r.Context().Value("role").(string)
	if role != models.RoleStudent {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Student role required"})
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.AssignmentID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "assignment_id is required"})
		return
	}

	resp, err := h.service.SubmitQuiz(r.Context(), studentID, classID, &req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) MySubmissions(w http.ResponseWriter, r *http.Request) {
	studentID, _, ok := callerIdentity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	subs, err := h.service.MySubmissions(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list submissions"})
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) MySubmissionForAssignment(w http.ResponseWriter, r *http.Request) {
	studentID, _, ok := callerIdentity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	assignmentID := mux.Vars(r)["id"]

	sub, err := h.service.MySubmissionForAssignment(r.Context(), studentID, assignmentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get submission"})
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No submission yet"})
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) ListByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := mux.Vars(r)["id"]

	subs, err := h.service.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list submissions"})
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) ListByClass(w http.ResponseWriter, r *http.Request) {
	classID := mux.Vars(r)["id"]

	subs, err := h.service.ListByClass(r.Context(), classID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list submissions"})
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
