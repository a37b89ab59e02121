package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.AssessmentRepository = (*AssessmentRepo)(nil)

// AssessmentRepo quizzes y notas sobre el store documental.
type AssessmentRepo struct {
	ops Ops
}

// NewAssessmentRepository construye el adaptador.
func NewAssessmentRepository(ops Ops) *AssessmentRepo {
	return &AssessmentRepo{ops: ops}
}

func (r *AssessmentRepo) CreateQuiz(ctx context.Context, quiz *entity.Quiz) error {
	data, err := encodeQuiz(quiz)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, quizKey(quiz.ID), data, 0)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	quiz.Version = v
	return nil
}

// GetQuiz (nil, nil) si no existe.
func (r *AssessmentRepo) GetQuiz(ctx context.Context, id string) (*entity.Quiz, error) {
	d, err := r.ops.Get(ctx, quizKey(id))
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeQuiz(d)
}

func (r *AssessmentRepo) ListQuizzes(ctx context.Context) ([]*entity.Quiz, error) {
	docs, err := r.ops.Scan(ctx, quizzesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	list := make([]*entity.Quiz, 0, len(docs))
	for _, d := range docs {
		q, err := decodeQuiz(d)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, nil
}

func (r *AssessmentRepo) CreateResult(ctx context.Context, result *entity.QuizResult) error {
	data, err := encodeQuizResult(result)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, quizResultsOf(result.QuizID)+result.ID, data, 0)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	result.Version = v
	return nil
}

// ListResults notas de un quiz en orden de registro.
func (r *AssessmentRepo) ListResults(ctx context.Context, quizID string) ([]*entity.QuizResult, error) {
	docs, err := r.ops.Scan(ctx, quizResultsOf(quizID))
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	list := make([]*entity.QuizResult, 0, len(docs))
	for _, d := range docs {
		res, err := decodeQuizResult(d)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, nil
}
