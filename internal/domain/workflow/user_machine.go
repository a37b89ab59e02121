package workflow

import (
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

var userTransitions = map[string][]string{
	entity.UserStatusPending: {entity.UserStatusActive, entity.UserStatusBlocked},
	entity.UserStatusActive:  {entity.UserStatusBlocked},
	entity.UserStatusBlocked: {entity.UserStatusActive},
}

// ToggleUserStatus el botón del panel: aprobar, bloquear o reactivar.
func ToggleUserStatus(status string) string {
	switch status {
	case entity.UserStatusActive:
		return entity.UserStatusBlocked
	default: // pending y blocked pasan a active
		return entity.UserStatusActive
	}
}

// CheckUserTransition valida un cambio explícito de estado de cuenta.
func CheckUserTransition(u *entity.User, to string) error {
	for _, allowed := range userTransitions[u.Status] {
		if allowed == to {
			return nil
		}
	}
	return &domain.InvalidTransitionError{Entity: "usuario", ID: u.ID, From: u.Status, Event: "set_" + to}
}
