package classes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkroom/backend/internal/models"
)

// Service manages classes and their rosters.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ClassDetail is a class together with its roster, streaks included.
type ClassDetail struct {
	models.Class
	Students []models.Student `json:"students"`
}

// DefaultPassword is the initial student password: the class number
// followed by the two-digit seat number, e.g. class 601 seat 5 gives
// "60105". Teachers hand these out on paper.
func DefaultPassword(classID string, seatNumber int) string {
	return fmt.Sprintf("%s%02d", classID, seatNumber)
}

func (s *Service) CreateClass(ctx context.Context, req *models.CreateClassRequest) (*ClassDetail, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.ClassName = strings.TrimSpace(req.ClassName)
	if req.ID == "" || req.ClassName == "" {
		return nil, fmt.Errorf("class id and name are required")
	}

	class := &models.Class{ID: req.ID, ClassName: req.ClassName}
	if err := s.store.CreateClass(ctx, class); err != nil {
		return nil, err
	}

	detail := &ClassDetail{Class: *class, Students: []models.Student{}}
	students, err := s.addStudents(ctx, class.ID, 0, req.Students)
	if err != nil {
		return nil, err
	}
	detail.Students = students
	return detail, nil
}

func (s *Service) ListClasses(ctx context.Context) ([]models.Class, error) {
	return s.store.ListClasses(ctx)
}

func (s *Service) GetClassDetail(ctx context.Context, id string) (*ClassDetail, error) {
	class, err := s.store.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, nil
	}
	students, err := s.store.ListStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return &ClassDetail{Class: *class, Students: students}, nil
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	return s.store.DeleteClass(ctx, id)
}

// AddStudents appends names to the roster, continuing seat numbering
// after the current highest seat.
func (s *Service) AddStudents(ctx context.Context, classID string, names []string) ([]models.Student, error) {
	class, err := s.store.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, fmt.Errorf("class %s not found", classID)
	}

	existing, err := s.store.ListStudents(ctx, classID)
	if err != nil {
		return nil, err
	}
	maxSeat := 0
	for _, st := range existing {
		if st.SeatNumber > maxSeat {
			maxSeat = st.SeatNumber
		}
	}
	return s.addStudents(ctx, classID, maxSeat, names)
}

func (s *Service) addStudents(ctx context.Context, classID string, seatOffset int, names []string) ([]models.Student, error) {
	created := []models.Student{}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		seat := seatOffset + i + 1
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword(classID, seat)), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash default password: %w", err)
		}
		student := &models.Student{
			ID:         uuid.New().String(),
			ClassID:    classID,
			SeatNumber: seat,
			Name:       name,
			Password:   string(hash),
			Stats:      models.UserStats{TagReadCounts: map[string]int{}},
		}
		if err := s.store.CreateStudent(ctx, student); err != nil {
			return created, err
		}
		created = append(created, *student)
	}
	return created, nil
}

func (s *Service) RemoveStudent(ctx context.Context, studentID string) error {
	return s.store.DeleteStudent(ctx, studentID)
}

// ResetStudentPassword puts the student back on the default password.
func (s *Service) ResetStudentPassword(ctx context.Context, studentID string) error {
	student, err := s.store.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if student == nil {
		return fmt.Errorf("student %s not found", studentID)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword(student.ClassID, student.SeatNumber)), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}
	return s.store.UpdateStudentPassword(ctx, studentID, string(hash))
}
