package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)

// EnrollmentRepo implementación de EnrollmentRepository sobre el store documental.
type EnrollmentRepo struct {
	ops Ops
}

// NewEnrollmentRepository construye el adaptador.
func NewEnrollmentRepository(ops Ops) *EnrollmentRepo {
	return &EnrollmentRepo{ops: ops}
}

// Create persiste una inscripción nueva.
func (r *EnrollmentRepo) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	data, err := encodeEnrollment(enrollment)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, enrollmentKey(enrollment.StudentID, enrollment.ID), data, 0)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	enrollment.Version = v
	return nil
}

// Get obtiene una inscripción; (nil, nil) si no existe.
func (r *EnrollmentRepo) Get(ctx context.Context, studentID, id string) (*entity.Enrollment, error) {
	d, err := r.ops.Get(ctx, enrollmentKey(studentID, id))
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeEnrollment(d)
}

// Update escritura condicional sobre enrollment.Version.
func (r *EnrollmentRepo) Update(ctx context.Context, enrollment *entity.Enrollment) error {
	data, err := encodeEnrollment(enrollment)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, enrollmentKey(enrollment.StudentID, enrollment.ID), data, enrollment.Version)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	enrollment.Version = v
	return nil
}

// List recorre la colección completa.
func (r *EnrollmentRepo) List(ctx context.Context) ([]*entity.Enrollment, error) {
	docs, err := r.ops.Scan(ctx, enrollmentsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	list := make([]*entity.Enrollment, 0, len(docs))
	for _, d := range docs {
		e, err := decodeEnrollment(d)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

// ListByCourse filtra la colección completa por formación.
func (r *EnrollmentRepo) ListByCourse(ctx context.Context, courseID string) ([]*entity.Enrollment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var list []*entity.Enrollment
	for _, e := range all {
		if e.CourseID == courseID {
			list = append(list, e)
		}
	}
	return list, nil
}
