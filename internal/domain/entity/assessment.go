package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxScore nota máxima de un quiz (escala sobre 20).
var MaxScore = decimal.NewFromInt(20)

// Quiz evaluación de una formación, propiedad de su formador.
type Quiz struct {
	ID           string
	CourseID     string
	InstructorID string
	Title        string
	CreatedAt    time.Time
	Version      int64
}

// QuizResult nota de un estudiante en un quiz.
type QuizResult struct {
	ID         string
	QuizID     string
	StudentID  string
	Score      decimal.Decimal // 0..MaxScore
	RecordedAt time.Time
	Version    int64
}
