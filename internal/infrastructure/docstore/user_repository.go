package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository; cada rol es una partición users/{role}/.
type UserRepo struct {
	ops Ops
}

// NewUserRepository construye el adaptador.
func NewUserRepository(ops Ops) *UserRepo {
	return &UserRepo{ops: ops}
}

// Create persiste un usuario nuevo junto con su entrada user-emails/{role}/{email}.
// Si el email ya está tomado en el rol devuelve ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	if user.Email != "" {
		idx, _ := json.Marshal(emailIndexRecord{UserID: user.ID})
		if _, err := r.ops.PutIf(ctx, userEmailKey(user.Role, user.Email), idx, 0); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrEmailAlreadyExists
			}
			return fmt.Errorf("reserve user email: %w", err)
		}
	}
	v, err := r.ops.PutIf(ctx, userKey(user.Role, user.ID), data, 0)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.Version = v
	return nil
}

// GetByID busca el ID en cada partición de rol.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	for _, role := range entity.Roles {
		d, err := r.ops.Get(ctx, userKey(role, id))
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		if d != nil {
			return decodeUser(d)
		}
	}
	return nil, nil
}

// FindByEmail busca por email (sin distinguir mayúsculas) dentro de un rol.
func (r *UserRepo) FindByEmail(ctx context.Context, role, email string) (*entity.User, error) {
	list, err := r.List(ctx, role)
	if err != nil {
		return nil, err
	}
	for _, u := range list {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

// Update escritura condicional sobre user.Version.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, userKey(user.Role, user.ID), data, user.Version)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	user.Version = v
	return nil
}

// List devuelve los usuarios de un rol (o de todos si role es vacío).
func (r *UserRepo) List(ctx context.Context, role string) ([]*entity.User, error) {
	prefix := usersPrefix
	if role != "" {
		prefix = usersPrefix + role + "/"
	}
	docs, err := r.ops.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	list := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		u, err := decodeUser(d)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, nil
}
