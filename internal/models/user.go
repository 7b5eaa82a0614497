package models

import "time"

// Role values carried in JWT claims.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type Teacher struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Class struct {
	ID        string    `json:"id"`
	ClassName string    `json:"class_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Student is a roster entry under a class. The streak counters live
// directly on the row so a single UPDATE can write a counter together
// with its check-date sentinel.
type Student struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	SeatNumber int       `json:"seat_number"`
	Name       string    `json:"name"`
	Password   string    `json:"-"`
	Stats      UserStats `json:"stats"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateClassRequest struct {
	ID        string   `json:"id"`
	ClassName string   `json:"class_name"`
	Students  []string `json:"students"`
}

type AddStudentsRequest struct {
	Names []string `json:"names"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type StudentLoginRequest struct {
	ClassID    string `json:"class_id"`
	SeatNumber int    `json:"seat_number"`
	Password   string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	Token    string        `json:"token"`
	Teacher  *Teacher      `json:"teacher,omitempty"`
	Student  *Student      `json:"student,omitempty"`
	Unlocked []UnlockEvent `json:"unlocked,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
