// Package enrollment ciclo de vida de las inscripciones y control de plazas.
package enrollment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// UseCase casos de uso de inscripciones.
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

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Submit registra la solicitud de un estudiante sobre una formación publicada y vigente.
func (uc *UseCase) Submit(ctx context.Context, in dto.SubmitEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	v := &domain.ValidationError{}
	if strings.TrimSpace(in.StudentID) == "" {
		v.Add("student_id", "es requerido")
	}
	if strings.TrimSpace(in.CourseID) == "" {
		v.Add("course_id", "es requerido")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	student, err := uc.repos.Users.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != entity.RoleStudent {
		return nil, domain.NewNotFoundError("estudiante", in.StudentID)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	e := &entity.Enrollment{
		ID:          id.String(),
		StudentID:   in.StudentID,
		CourseID:    in.CourseID,
		Status:      entity.EnrollmentStatusPending,
		Documents:   in.Documents,
		ProfileNote: strings.TrimSpace(in.ProfileNote),
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(r ports.Repositories) error {
		// el bloqueo de la formación serializa las altas sobre ella
		course, err := r.Courses.GetForUpdate(ctx, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.NewNotFoundError("formación", in.CourseID)
		}
		if course.Status != entity.CourseStatusPublished || workflow.IsExpired(course, now) {
			return &domain.InvalidTransitionError{Entity: "formación", ID: course.ID, From: string(course.Status), Event: "enroll"}
		}
		existing, err := r.Enrollments.ListByCourse(ctx, in.CourseID)
		if err != nil {
			return err
		}
		for _, x := range existing {
			if x.StudentID == in.StudentID && x.Status != entity.EnrollmentStatusDeclined {
				return fmt.Errorf("%w: el estudiante ya tiene una inscripción activa (%s)", domain.ErrDuplicate, x.ID)
			}
		}
		return r.Enrollments.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("enrollment_id", e.ID).Str("course_id", e.CourseID).Msg("inscripción recibida")
	return toEnrollmentResponse(e), nil
}

// Get obtiene una inscripción.
func (uc *UseCase) Get(ctx context.Context, studentID, id string) (*dto.EnrollmentResponse, error) {
	e, err := uc.repos.Enrollments.Get(ctx, studentID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NewNotFoundError("inscripción", id)
	}
	return toEnrollmentResponse(e), nil
}

// List todas las inscripciones, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, status string) (*dto.EnrollmentListResponse, error) {
	if status != "" && !entity.EnrollmentStatus(status).Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", status))
	}
	list, err := uc.repos.Enrollments.List(ctx)
	if err != nil {
		return nil, err
	}
	return toListResponse(list, status), nil
}

// ListByCourse inscripciones de una formación.
func (uc *UseCase) ListByCourse(ctx context.Context, courseID string) (*dto.EnrollmentListResponse, error) {
	list, err := uc.repos.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toListResponse(list, ""), nil
}

// Confirm entra en confirmed si quedan plazas; si ya estaba confirmada no hace nada.
func (uc *UseCase) Confirm(ctx context.Context, studentID, id string) (*dto.EnrollmentResponse, error) {
	return uc.setStatus(ctx, studentID, id, entity.EnrollmentStatusConfirmed)
}

// Decline entra en declined; si ya estaba rechazada no hace nada.
func (uc *UseCase) Decline(ctx context.Context, studentID, id string) (*dto.EnrollmentResponse, error) {
	return uc.setStatus(ctx, studentID, id, entity.EnrollmentStatusDeclined)
}

// setStatus bloquea la formación, relee la inscripción y recalcula las plazas dentro de la misma
// transacción: dos confirmaciones concurrentes por la última plaza no pueden tener éxito ambas.
func (uc *UseCase) setStatus(ctx context.Context, studentID, id string, to entity.EnrollmentStatus) (*dto.EnrollmentResponse, error) {
	var (
		result  *entity.Enrollment
		course  *entity.Course
		changed bool
	)
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		e, err := r.Enrollments.Get(ctx, studentID, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.NewNotFoundError("inscripción", id)
		}
		course, err = r.Courses.GetForUpdate(ctx, e.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domain.NewNotFoundError("formación", e.CourseID)
		}
		if e, err = r.Enrollments.Get(ctx, studentID, id); err != nil {
			return err
		}
		if e == nil {
			return domain.NewNotFoundError("inscripción", id)
		}
		noop, err := workflow.CheckEnrollmentTransition(e, to)
		if err != nil {
			return err
		}
		if noop {
			result = e
			return nil
		}
		if to == entity.EnrollmentStatusConfirmed {
			all, err := r.Enrollments.ListByCourse(ctx, course.ID)
			if err != nil {
				return err
			}
			if capacity := workflow.ComputeCapacity(course, all); capacity.IsFull() {
				return &domain.CapacityExceededError{CourseID: course.ID, Capacity: capacity.Capacity, Confirmed: capacity.Confirmed}
			}
		}
		cand := *e
		cand.Status = to
		cand.UpdatedAt = uc.now()
		if err := r.Enrollments.Update(ctx, &cand); err != nil {
			return err
		}
		result, changed = &cand, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.log.Info().Str("enrollment_id", id).Str("course_id", result.CourseID).Str("status", string(to)).Msg("transición de inscripción")
		uc.publish(ctx, result, course)
	}
	return toEnrollmentResponse(result), nil
}

func (uc *UseCase) publish(ctx context.Context, e *entity.Enrollment, c *entity.Course) {
	if uc.events == nil {
		return
	}
	t := entity.EventEnrollmentConfirmed
	if e.Status == entity.EnrollmentStatusDeclined {
		t = entity.EventEnrollmentDeclined
	}
	id, _ := uuid.NewV7()
	uc.events.Publish(ctx, entity.LifecycleEvent{
		ID:          id.String(),
		Type:        t,
		EntityID:    e.ID,
		RecipientID: e.StudentID,
		Title:       c.Title,
		Status:      string(e.Status),
		OccurredAt:  uc.now(),
	})
}

func toListResponse(list []*entity.Enrollment, status string) *dto.EnrollmentListResponse {
	items := make([]dto.EnrollmentResponse, 0, len(list))
	for _, e := range list {
		if status != "" && string(e.Status) != status {
			continue
		}
		items = append(items, *toEnrollmentResponse(e))
	}
	return &dto.EnrollmentListResponse{Items: items, Total: len(items)}
}

func toEnrollmentResponse(e *entity.Enrollment) *dto.EnrollmentResponse {
	docs := e.Documents
	if docs == nil {
		docs = []string{}
	}
	return &dto.EnrollmentResponse{
		ID:          e.ID,
		StudentID:   e.StudentID,
		CourseID:    e.CourseID,
		Status:      string(e.Status),
		Documents:   docs,
		ProfileNote: e.ProfileNote,
		SubmittedAt: e.SubmittedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
