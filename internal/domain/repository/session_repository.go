package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para Session (sessions/{courseId}/{id}).
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, courseID, id string) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	ListByCourse(ctx context.Context, courseID string) ([]*entity.Session, error)
}
