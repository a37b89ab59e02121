package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository; cada formación es una partición sessions/{courseId}/.
type SessionRepo struct {
	ops Ops
}

// NewSessionRepository construye el adaptador.
func NewSessionRepository(ops Ops) *SessionRepo {
	return &SessionRepo{ops: ops}
}

func (r *SessionRepo) Create(ctx context.Context, session *entity.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, sessionsOf(session.CourseID)+session.ID, data, 0)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	session.Version = v
	return nil
}

// Get (nil, nil) si no existe.
func (r *SessionRepo) Get(ctx context.Context, courseID, id string) (*entity.Session, error) {
	d, err := r.ops.Get(ctx, sessionsOf(courseID)+id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeSession(d)
}

// Update escritura condicional sobre session.Version.
func (r *SessionRepo) Update(ctx context.Context, session *entity.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, sessionsOf(session.CourseID)+session.ID, data, session.Version)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	session.Version = v
	return nil
}

func (r *SessionRepo) ListByCourse(ctx context.Context, courseID string) ([]*entity.Session, error) {
	docs, err := r.ops.Scan(ctx, sessionsOf(courseID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	list := make([]*entity.Session, 0, len(docs))
	for _, d := range docs {
		s, err := decodeSession(d)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}
