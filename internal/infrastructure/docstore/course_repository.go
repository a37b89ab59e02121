package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.CourseRepository = (*CourseRepo)(nil)

// CourseRepo implementación de CourseRepository sobre el store documental.
type CourseRepo struct {
	ops Ops
}

// NewCourseRepository construye el adaptador.
func NewCourseRepository(ops Ops) *CourseRepo {
	return &CourseRepo{ops: ops}
}

// Create persiste una formación nueva.
func (r *CourseRepo) Create(ctx context.Context, course *entity.Course) error {
	data, err := encodeCourse(course)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, courseKey(course.ID), data, 0)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	course.Version = v
	return nil
}

// GetByID obtiene una formación; (nil, nil) si no existe.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	d, err := r.ops.Get(ctx, courseKey(id))
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeCourse(d)
}

// GetForUpdate obtiene la formación bloqueando el documento hasta el commit.
func (r *CourseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Course, error) {
	d, err := r.ops.GetForUpdate(ctx, courseKey(id))
	if err != nil {
		return nil, fmt.Errorf("get course for update: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeCourse(d)
}

// Update escritura condicional sobre course.Version.
func (r *CourseRepo) Update(ctx context.Context, course *entity.Course) error {
	data, err := encodeCourse(course)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, courseKey(course.ID), data, course.Version)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	course.Version = v
	return nil
}

// List recorre la colección completa.
func (r *CourseRepo) List(ctx context.Context) ([]*entity.Course, error) {
	docs, err := r.ops.Scan(ctx, coursesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	list := make([]*entity.Course, 0, len(docs))
	for _, d := range docs {
		c, err := decodeCourse(d)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}

// CountByCategory cuántas formaciones referencian la categoría.
func (r *CourseRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	list, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range list {
		if c.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}
