package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// EnrollmentRepository define el puerto de persistencia para Enrollment
// (enrollments/{studentId}/{id}).
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	Get(ctx context.Context, studentID, id string) (*entity.Enrollment, error)
	Update(ctx context.Context, enrollment *entity.Enrollment) error
	List(ctx context.Context) ([]*entity.Enrollment, error)
	// ListByCourse recorre la colección completa; se usa para recalcular plazas.
	ListByCourse(ctx context.Context, courseID string) ([]*entity.Enrollment, error)
}
