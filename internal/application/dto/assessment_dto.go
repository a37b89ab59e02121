package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateQuizRequest alta de un quiz; course_id se toma de la ruta.
type CreateQuizRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
}

// QuizResponse salida de un quiz.
type QuizResponse struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordResultRequest nota de un estudiante (escala 0-20).
type RecordResultRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	Score     decimal.Decimal `json:"score"`
}

// QuizResultResponse nota registrada.
type QuizResultResponse struct {
	ID         string          `json:"id"`
	QuizID     string          `json:"quiz_id"`
	StudentID  string          `json:"student_id"`
	Score      decimal.Decimal `json:"score"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// ResultRow fila del listado de notas de un formador.
type ResultRow struct {
	ID               string          `json:"id"`
	StudentID        string          `json:"student_id"`
	StudentFirstName string          `json:"student_first_name"`
	StudentLastName  string          `json:"student_last_name"`
	CourseID         string          `json:"course_id"`
	CourseTitle      string          `json:"course_title"`
	QuizID           string          `json:"quiz_id"`
	QuizTitle        string          `json:"quiz_title"`
	Score            decimal.Decimal `json:"score"`
	MaxScore         decimal.Decimal `json:"max_score"`
}

// ResultListResponse notas de los quizzes de un formador.
type ResultListResponse struct {
	Items []ResultRow `json:"items"`
	Total int         `json:"total"`
}
