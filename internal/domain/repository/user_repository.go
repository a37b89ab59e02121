package repository

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (users/{role}/{id}).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, role, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List con role vacío devuelve todos los roles.
	List(ctx context.Context, role string) ([]*entity.User, error)
}
