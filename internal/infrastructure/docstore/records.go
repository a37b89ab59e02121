package docstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// Esquemas JSON persistidos. La entidad de dominio no lleva tags; la traducción vive aquí,
// igual que el mapeo de columnas en un repositorio SQL.

type categoryRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type courseRecord struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id"`
	Status        string          `json:"status"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	DurationHours int             `json:"duration_hours"`
	Price         decimal.Decimal `json:"price"`
	Modality      string          `json:"modality,omitempty"`
	InstructorID  string          `json:"instructor_id,omitempty"`
	Capacity      int             `json:"capacity"`
	Metadata      metadataRecord  `json:"metadata"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type metadataRecord struct {
	Materials        string   `json:"materials,omitempty"`
	EvaluationMethod string   `json:"evaluation_method,omitempty"`
	Certification    string   `json:"certification,omitempty"`
	ImageRef         string   `json:"image_ref,omitempty"`
	Modules          []string `json:"modules,omitempty"`
}

type enrollmentRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	CourseID    string    `json:"course_id"`
	Status      string    `json:"status"`
	Documents   []string  `json:"documents,omitempty"`
	ProfileNote string    `json:"profile_note,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type userRecord struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Credential string    `json:"credential,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type nameIndexRecord struct {
	CategoryID string `json:"category_id"`
}

type quizRecord struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
}

type quizResultRecord struct {
	ID         string          `json:"id"`
	QuizID     string          `json:"quiz_id"`
	StudentID  string          `json:"student_id"`
	Score      decimal.Decimal `json:"score"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type sessionRecord struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	RoomName  string     `json:"room_name"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type emailIndexRecord struct {
	UserID string `json:"user_id"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func encodeCategory(c *entity.Category) ([]byte, error) {
	return json.Marshal(categoryRecord{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt})
}

func decodeCategory(d *Document) (*entity.Category, error) {
	var r categoryRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode category %s: %w", d.Key, err)
	}
	return &entity.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, Version: d.Version}, nil
}

func encodeCourse(c *entity.Course) ([]byte, error) {
	return json.Marshal(courseRecord{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		CategoryID:    c.CategoryID,
		Status:        string(c.Status),
		StartDate:     timePtr(c.StartDate),
		EndDate:       timePtr(c.EndDate),
		DurationHours: c.DurationHours,
		Price:         c.Price,
		Modality:      string(c.Modality),
		InstructorID:  c.InstructorID,
		Capacity:      c.Capacity,
		Metadata: metadataRecord{
			Materials:        c.Metadata.Materials,
			EvaluationMethod: c.Metadata.EvaluationMethod,
			Certification:    c.Metadata.Certification,
			ImageRef:         c.Metadata.ImageRef,
			Modules:          c.Metadata.Modules,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	})
}

func decodeCourse(d *Document) (*entity.Course, error) {
	var r courseRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", d.Key, err)
	}
	return &entity.Course{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		Status:        entity.CourseStatus(r.Status),
		StartDate:     timeVal(r.StartDate),
		EndDate:       timeVal(r.EndDate),
		DurationHours: r.DurationHours,
		Price:         r.Price,
		Modality:      entity.Modality(r.Modality),
		InstructorID:  r.InstructorID,
		Capacity:      r.Capacity,
		Metadata: entity.CourseMetadata{
			Materials:        r.Metadata.Materials,
			EvaluationMethod: r.Metadata.EvaluationMethod,
			Certification:    r.Metadata.Certification,
			ImageRef:         r.Metadata.ImageRef,
			Modules:          r.Metadata.Modules,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Version:   d.Version,
	}, nil
}

func encodeEnrollment(e *entity.Enrollment) ([]byte, error) {
	return json.Marshal(enrollmentRecord{
		ID:          e.ID,
		StudentID:   e.StudentID,
		CourseID:    e.CourseID,
		Status:      string(e.Status),
		Documents:   e.Documents,
		ProfileNote: e.ProfileNote,
		SubmittedAt: e.SubmittedAt,
		UpdatedAt:   e.UpdatedAt,
	})
}

func decodeEnrollment(d *Document) (*entity.Enrollment, error) {
	var r enrollmentRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode enrollment %s: %w", d.Key, err)
	}
	return &entity.Enrollment{
		ID:          r.ID,
		StudentID:   r.StudentID,
		CourseID:    r.CourseID,
		Status:      entity.EnrollmentStatus(r.Status),
		Documents:   r.Documents,
		ProfileNote: r.ProfileNote,
		SubmittedAt: r.SubmittedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     d.Version,
	}, nil
}

func encodeUser(u *entity.User) ([]byte, error) {
	return json.Marshal(userRecord{
		ID:         u.ID,
		Role:       u.Role,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Credential: u.Credential,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	})
}

func decodeUser(d *Document) (*entity.User, error) {
	var r userRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", d.Key, err)
	}
	return &entity.User{
		ID:         r.ID,
		Role:       r.Role,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Credential: r.Credential,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Version:    d.Version,
	}, nil
}

func encodeQuiz(q *entity.Quiz) ([]byte, error) {
	return json.Marshal(quizRecord{
		ID: q.ID, CourseID: q.CourseID, InstructorID: q.InstructorID, Title: q.Title, CreatedAt: q.CreatedAt,
	})
}

func decodeQuiz(d *Document) (*entity.Quiz, error) {
	var r quizRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode quiz %s: %w", d.Key, err)
	}
	return &entity.Quiz{
		ID: r.ID, CourseID: r.CourseID, InstructorID: r.InstructorID, Title: r.Title, CreatedAt: r.CreatedAt, Version: d.Version,
	}, nil
}

func encodeQuizResult(q *entity.QuizResult) ([]byte, error) {
	return json.Marshal(quizResultRecord{
		ID: q.ID, QuizID: q.QuizID, StudentID: q.StudentID, Score: q.Score, RecordedAt: q.RecordedAt,
	})
}

func decodeQuizResult(d *Document) (*entity.QuizResult, error) {
	var r quizResultRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode quiz result %s: %w", d.Key, err)
	}
	return &entity.QuizResult{
		ID: r.ID, QuizID: r.QuizID, StudentID: r.StudentID, Score: r.Score, RecordedAt: r.RecordedAt, Version: d.Version,
	}, nil
}

func encodeSession(s *entity.Session) ([]byte, error) {
	return json.Marshal(sessionRecord{
		ID:        s.ID,
		CourseID:  s.CourseID,
		RoomName:  s.RoomName,
		Status:    string(s.Status),
		StartsAt:  timePtr(s.StartsAt),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	})
}

func decodeSession(d *Document) (*entity.Session, error) {
	var r sessionRecord
	if err := json.Unmarshal(d.Data, &r); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", d.Key, err)
	}
	return &entity.Session{
		ID:        r.ID,
		CourseID:  r.CourseID,
		RoomName:  r.RoomName,
		Status:    entity.SessionStatus(r.Status),
		StartsAt:  timeVal(r.StartsAt),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Version:   d.Version,
	}, nil
}
