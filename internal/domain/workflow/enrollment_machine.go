package workflow

import (
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// enrollmentTransitions destinos permitidos por estado. Ningún estado es terminal.
var enrollmentTransitions = map[entity.EnrollmentStatus][]entity.EnrollmentStatus{
	entity.EnrollmentStatusPending:   {entity.EnrollmentStatusConfirmed, entity.EnrollmentStatusDeclined},
	entity.EnrollmentStatusConfirmed: {entity.EnrollmentStatusDeclined},
	entity.EnrollmentStatusDeclined:  {entity.EnrollmentStatusConfirmed},
}

// EnrollmentEvent nombre del evento que lleva a un estado (para mensajes de error).
func EnrollmentEvent(to entity.EnrollmentStatus) string {
	switch to {
	case entity.EnrollmentStatusConfirmed:
		return "confirm"
	case entity.EnrollmentStatusDeclined:
		return "decline"
	}
	return string(to)
}

// CheckEnrollmentTransition valida el paso a `to`.
// noop=true cuando la inscripción ya está en `to` (confirmed o declined): no se escribe
// nada y el control de plazas no se evalúa.
func CheckEnrollmentTransition(e *entity.Enrollment, to entity.EnrollmentStatus) (noop bool, err error) {
	if e.Status == to && e.Status != entity.EnrollmentStatusPending {
		return true, nil
	}
	for _, allowed := range enrollmentTransitions[e.Status] {
		if allowed == to {
			return false, nil
		}
	}
	return false, &domain.InvalidTransitionError{
		Entity: "inscripción",
		ID:     e.ID,
		From:   string(e.Status),
		Event:  EnrollmentEvent(to),
	}
}
