// Package user directorio de usuarios y activación/bloqueo de cuentas por el administrador.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// UseCase casos de uso del directorio.
type UseCase struct {
	repos  ports.Repositories
	tx     ports.TxRunner
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos ports.Repositories, tx ports.TxRunner, events ports.EventPublisher, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, tx: tx, events: events, log: log, now: time.Now}
}

// Create da de alta un usuario en pending. El email es único dentro de su rol.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(in.Email)
	v := &domain.ValidationError{}
	if !entity.ValidRole(in.Role) {
		v.Add("role", "debe ser admin, instructor o student")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		v.Add("first_name", "es requerido")
	}
	if strings.TrimSpace(in.LastName) == "" {
		v.Add("last_name", "es requerido")
	}
	if email == "" {
		v.Add("email", "es requerido")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	u := &entity.User{
		ID:         id.String(),
		Role:       in.Role,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      email,
		Credential: in.Credential,
		Status:     entity.UserStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.tx.Run(ctx, func(r ports.Repositories) error {
		existing, err := r.Users.FindByEmail(ctx, u.Role, u.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		return r.Users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// Get obtiene un usuario.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := uc.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewNotFoundError("usuario", id)
	}
	return toUserResponse(u), nil
}

// List usuarios filtrados por rol, estado y texto libre (nombre o email).
func (uc *UseCase) List(ctx context.Context, f dto.UserFilter) (*dto.UserListResponse, error) {
	if f.Role != "" && !entity.ValidRole(f.Role) {
		return nil, domain.NewValidationError("role", fmt.Sprintf("rol desconocido %q", f.Role))
	}
	list, err := uc.repos.Users.List(ctx, f.Role)
	if err != nil {
		return nil, err
	}
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(u.FullName()), search) &&
			!strings.Contains(fold.String(u.Email), search) {
			continue
		}
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Total: len(items)}, nil
}

// ChangeStatus cambio explícito (active o blocked). Pedir el estado actual no escribe nada.
func (uc *UseCase) ChangeStatus(ctx context.Context, id, status string) (*dto.UserResponse, error) {
	return uc.apply(ctx, id, func(u *entity.User) (string, error) {
		if u.Status == status {
			return status, nil
		}
		return status, workflow.CheckUserTransition(u, status)
	})
}

// Toggle el botón del panel: pending -> active, active -> blocked, blocked -> active.
func (uc *UseCase) Toggle(ctx context.Context, id string) (*dto.UserResponse, error) {
	return uc.apply(ctx, id, func(u *entity.User) (string, error) {
		return workflow.ToggleUserStatus(u.Status), nil
	})
}

func (uc *UseCase) apply(ctx context.Context, id string, next func(u *entity.User) (string, error)) (*dto.UserResponse, error) {
	var (
		result  *entity.User
		changed bool
	)
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		u, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NewNotFoundError("usuario", id)
		}
		to, err := next(u)
		if err != nil {
			return err
		}
		if to == u.Status {
			result = u
			return nil
		}
		u.Status = to
		u.UpdatedAt = uc.now()
		if err := r.Users.Update(ctx, u); err != nil {
			return err
		}
		result, changed = u, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.log.Info().Str("user_id", id).Str("status", result.Status).Msg("estado de cuenta actualizado")
		if uc.events != nil {
			evtID, _ := uuid.NewV7()
			uc.events.Publish(ctx, entity.LifecycleEvent{
				ID:          evtID.String(),
				Type:        entity.EventUserStatusChanged,
				EntityID:    result.ID,
				RecipientID: result.ID,
				Status:      result.Status,
				OccurredAt:  uc.now(),
			})
		}
	}
	return toUserResponse(result), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
