package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// AssessmentRepository define el puerto de persistencia para quizzes (quizzes/{id})
// y sus notas (quiz-results/{quizId}/{id}).
type AssessmentRepository interface {
	CreateQuiz(ctx context.Context, quiz *entity.Quiz) error
	GetQuiz(ctx context.Context, id string) (*entity.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*entity.Quiz, error)

	CreateResult(ctx context.Context, result *entity.QuizResult) error
	ListResults(ctx context.Context, quizID string) ([]*entity.QuizResult, error)
}
