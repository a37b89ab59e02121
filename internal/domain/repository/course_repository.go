package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// CourseRepository define el puerto de persistencia para Course (fuente de verdad).
// Update es condicional sobre course.Version: si otro escritor se adelantó devuelve ErrConflict.
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	// GetForUpdate bloquea el documento hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	List(ctx context.Context) ([]*entity.Course, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}
