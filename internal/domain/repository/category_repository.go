package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category y sus copias
// desnormalizadas de formaciones (categories/{id}/courses/{courseId}).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetForUpdate bloquea la categoría hasta el fin de la transacción. Altas de formaciones
	// y borrado de la categoría se serializan sobre este bloqueo.
	GetForUpdate(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error

	// ReserveName reserva el nombre normalizado; ErrConflict si otro registro lo tiene.
	ReserveName(ctx context.Context, folded, categoryID string) error
	ReleaseName(ctx context.Context, folded string) error

	PutCourseCopy(ctx context.Context, course *entity.Course) error
	DeleteCourseCopy(ctx context.Context, categoryID, courseID string) error
	ListCourseCopies(ctx context.Context, categoryID string) ([]*entity.Course, error)
}
