package auth

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkroom/backend/internal/classes"
	"github.com/inkroom/backend/internal/models"
	"github.com/inkroom/backend/internal/streaks"
)

// JWTSecret is the HMAC signing key for auth tokens.
// This is a server-side secret — it never leaves the backend.
// Overridden from JWT_SECRET at startup.
var JWTSecret = []byte("inkroom-staging-signing-key-2026")

type Handler struct {
	db       *sql.DB
	students *classes.Store
	tracker  *streaks.Tracker
}

func NewHandler(db *sql.DB, students *classes.Store, tracker *streaks.Tracker) *Handler {
	return &Handler{db: db, students: students, tracker: tracker}
}

// ── Teacher accounts ────────────────────────────────────

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Email, name, and password are required"})
		return
	}

	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Password must be at least 8 characters"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	var teacher models.Teacher
	err = h.db.QueryRow(
		`INSERT INTO teachers (email, name, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, name, created_at, updated_at`,
		req.Email, req.Name, string(hashedPassword), time.Now(), time.Now(),
	).Scan(&teacher.ID, &teacher.Email, &teacher.Name, &teacher.CreatedAt, &teacher.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "An account with this email already exists"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create account"})
		return
	}

	token, err := generateToken(teacherSubject(teacher.ID), models.RoleTeacher, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{Token: token, Teacher: &teacher})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Email and password are required"})
		return
	}

	var teacher models.Teacher
	var hashedPassword string
	err := h.db.QueryRow(
		`SELECT id, email, name, password, created_at, updated_at FROM teachers WHERE email = $1`,
		req.Email,
	).Scan(&teacher.ID, &teacher.Email, &teacher.Name, &hashedPassword, &teacher.CreatedAt, &teacher.UpdatedAt)

	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
		return
	}

	token, err := generateToken(teacherSubject(teacher.ID), models.RoleTeacher, "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, Teacher: &teacher})
}

// ── Student login ───────────────────────────────────────

// StudentLogin authenticates a roster entry by class and seat number.
// A successful login also runs the streak tracker, so the response can
// carry freshly unlocked achievements.
func (h *Handler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req models.StudentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	req.ClassID = strings.TrimSpace(req.ClassID)
	if req.ClassID == "" || req.SeatNumber <= 0 || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Class, seat number, and password are required"})
		return
	}

	student, err := h.students.GetStudentBySeat(r.Context(), req.ClassID, req.SeatNumber)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if student == nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid class, seat, or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid class, seat, or password"})
		return
	}

	unlocked, err := h.tracker.ProcessLogin(r.Context(), student, time.Now())
	if err != nil {
		// The login itself still succeeds; streaks catch up next time.
		log.Printf("[auth] login streak update failed for student %s: %v", student.ID, err)
	}

	token, err := generateToken(student.ID, models.RoleStudent, student.ClassID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, Student: student, Unlocked: unlocked})
}

// ── Current user ────────────────────────────────────────

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	role, _ := r.Context().Value("role").(string)

	switch role {
	case models.RoleTeacher:
		var teacher models.Teacher
		err := h.db.QueryRow(
			`SELECT id, email, name, created_at, updated_at FROM teachers WHERE id = $1`,
			strings.TrimPrefix(userID, "t"),
		).Scan(&teacher.ID, &teacher.Email, &teacher.Name, &teacher.CreatedAt, &teacher.UpdatedAt)
		if err != nil {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, teacher)

	case models.RoleStudent:
		student, err := h.students.GetStudent(r.Context(), userID)
		if err != nil || student == nil {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, student)

	default:
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
	}
}

// ChangePassword lets a student replace their handed-out default
// password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	role, _ := r.Context().Value("role").(string)
	if role != models.RoleStudent {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Student role required"})
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.NewPassword) < 4 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "New password must be at least 4 characters"})
		return
	}

	student, err := h.students.GetStudent(r.Context(), userID)
	if err != nil || student == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(req.OldPassword)); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if err := h.students.UpdateStudentPassword(r.Context(), userID, string(hash)); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to change password"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"changed": true})
}

// teacherSubject prefixes teacher ids so the string "user_id" claim
// never collides with a student uuid.
func teacherSubject(id int64) string {
	return "t" + strconv.FormatInt(id, 10)
}

func generateToken(userID, role, classID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	if classID != "" {
		claims["class_id"] = classID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
