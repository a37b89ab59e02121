// Package course orquesta el ciclo de vida de las formaciones: moderación,
// publicación, archivado perezoso y edición administrativa.
package course

import (
	"context"
	"errors"
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

// reintentos del archivado perezoso ante escrituras concurrentes
const archiveAttempts = 3

// UseCase casos de uso de formaciones.
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

// Submit registra la propuesta de un formador en estado pending.
func (uc *UseCase) Submit(ctx context.Context, in dto.SubmitCourseRequest) (*dto.CourseResponse, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Course{
		ID:            id.String(),
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    in.CategoryID,
		Status:        entity.CourseStatusPending,
		DurationHours: in.DurationHours,
		Price:         in.Price,
		Modality:      entity.Modality(in.Modality),
		InstructorID:  in.InstructorID,
		Capacity:      in.Capacity,
		Metadata:      fromMetadataDTO(in.Metadata),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.StartDate != nil {
		c.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = *in.EndDate
	}
	if err := workflow.ValidateDraft(c); err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(r ports.Repositories) error {
		if err := requireCategory(ctx, r, c.CategoryID); err != nil {
			return err
		}
		return r.Courses.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("course_id", c.ID).Str("category_id", c.CategoryID).Msg("formación propuesta")
	return ToResponse(c), nil
}

// Get obtiene una formación aplicando el archivado perezoso.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CourseResponse, error) {
	c, err := uc.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(c), nil
}

// Load devuelve la entidad (archivada si venció). NotFoundError si no existe.
func (uc *UseCase) Load(ctx context.Context, id string) (*entity.Course, error) {
	c, err := uc.repos.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("formación", id)
	}
	c, _, err = uc.archiveIfExpired(ctx, c)
	return c, err
}

// LoadAll todas las formaciones con el archivado perezoso aplicado.
func (uc *UseCase) LoadAll(ctx context.Context) ([]*entity.Course, error) {
	list, err := uc.repos.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, c := range list {
		if list[i], _, err = uc.archiveIfExpired(ctx, c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// List formaciones, opcionalmente filtradas por estado.
func (uc *UseCase) List(ctx context.Context, status string) (*dto.CourseListResponse, error) {
	if status != "" && !entity.CourseStatus(status).Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", status))
	}
	list, err := uc.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CourseResponse, 0, len(list))
	for _, c := range list {
		if status != "" && string(c.Status) != status {
			continue
		}
		items = append(items, *ToResponse(c))
	}
	return &dto.CourseListResponse{Items: items, Total: len(items)}, nil
}

// SweepExpired archiva todas las formaciones publicadas vencidas. Devuelve cuántas archivó esta llamada.
func (uc *UseCase) SweepExpired(ctx context.Context) (int, error) {
	list, err := uc.repos.Courses.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range list {
		if !workflow.IsExpired(c, uc.now()) {
			continue
		}
		_, archived, err := uc.archiveIfExpired(ctx, c)
		if err != nil {
			return n, err
		}
		if archived {
			n++
		}
	}
	return n, nil
}

// archiveIfExpired escritura condicional sobre la versión leída: entre lectores concurrentes
// solo uno archiva; los demás releen el resultado.
func (uc *UseCase) archiveIfExpired(ctx context.Context, c *entity.Course) (*entity.Course, bool, error) {
	for attempt := 0; attempt < archiveAttempts; attempt++ {
		now := uc.now()
		if !workflow.IsExpired(c, now) {
			return c, false, nil
		}
		cand := *c
		cand.Status = entity.CourseStatusArchived
		cand.UpdatedAt = now
		err := uc.repos.Courses.Update(ctx, &cand)
		if err == nil {
			uc.log.Info().Str("course_id", c.ID).Time("end_date", c.EndDate).Msg("formación archivada por vencimiento")
			return &cand, true, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, false, err
		}
		fresh, err := uc.repos.Courses.GetByID(ctx, c.ID)
		if err != nil {
			return nil, false, err
		}
		if fresh == nil {
			return nil, false, domain.NewNotFoundError("formación", c.ID)
		}
		c = fresh
	}
	if workflow.IsExpired(c, uc.now()) {
		return nil, false, fmt.Errorf("archivar formación %s: %w", c.ID, domain.ErrConflict)
	}
	return c, false, nil
}

// PreApprove pending -> pre_validated.
func (uc *UseCase) PreApprove(ctx context.Context, id string) (*dto.CourseResponse, error) {
	return uc.transition(ctx, id, workflow.EventPreApprove)
}

// Reject pending|pre_validated -> rejected.
func (uc *UseCase) Reject(ctx context.Context, id string) (*dto.CourseResponse, error) {
	return uc.transition(ctx, id, workflow.EventReject)
}

// Approve pre_validated -> validated (con validación y copia bajo la categoría).
func (uc *UseCase) Approve(ctx context.Context, id string) (*dto.CourseResponse, error) {
	return uc.transition(ctx, id, workflow.EventApprove)
}

// Publish validated -> published (con validación y copia bajo la categoría).
func (uc *UseCase) Publish(ctx context.Context, id string) (*dto.CourseResponse, error) {
	return uc.transition(ctx, id, workflow.EventPublish)
}

// Archive published -> archived. Sobre una formación ya archivada no hace nada.
func (uc *UseCase) Archive(ctx context.Context, id string) (*dto.CourseResponse, error) {
	return uc.transition(ctx, id, workflow.EventArchive)
}

func (uc *UseCase) transition(ctx context.Context, id string, ev workflow.CourseEvent) (*dto.CourseResponse, error) {
	var (
		result  *entity.Course
		changed bool
	)
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		c, err := r.Courses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFoundError("formación", id)
		}
		next, err := workflow.NextCourseStatus(c, ev)
		if err != nil {
			return err
		}
		if next == c.Status {
			result = c
			return nil
		}
		cand := *c
		cand.Status = next
		cand.UpdatedAt = uc.now()
		if cand.HasCategoryCopy() {
			if err := workflow.ValidateForPublication(&cand); err != nil {
				return err
			}
			if err := requireCategory(ctx, r, cand.CategoryID); err != nil {
				return err
			}
		}
		if err := r.Courses.Update(ctx, &cand); err != nil {
			return err
		}
		if cand.HasCategoryCopy() {
			if err := r.Categories.PutCourseCopy(ctx, &cand); err != nil {
				return err
			}
		}
		result, changed = &cand, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		uc.log.Info().Str("course_id", id).Str("event", string(ev)).Str("status", string(result.Status)).Msg("transición de formación")
		uc.publish(ctx, result)
	}
	return ToResponse(result), nil
}

// AdminEdit aplica una edición administrativa y opcionalmente fuerza el estado.
// Solo desde pending, pre_validated o validated; el estado forzado solo puede avanzar.
func (uc *UseCase) AdminEdit(ctx context.Context, id string, in dto.AdminEditCourseRequest) (*dto.CourseResponse, error) {
	var (
		result        *entity.Course
		statusChanged bool
	)
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		c, err := r.Courses.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFoundError("formación", id)
		}
		if _, err := workflow.NextCourseStatus(c, workflow.EventAdminEdit); err != nil {
			return err
		}
		cand := *c
		applyEdit(&cand, in)
		if in.Status != nil {
			to := entity.CourseStatus(*in.Status)
			if !workflow.CanForceStatus(c.Status, to) {
				return &domain.InvalidTransitionError{
					Entity: "formación",
					ID:     c.ID,
					From:   string(c.Status),
					Event:  string(workflow.EventAdminEdit) + ":" + string(to),
				}
			}
			cand.Status = to
		}
		if cand.Status == entity.CourseStatusPending {
			err = workflow.ValidateDraft(&cand)
		} else {
			err = workflow.ValidateAdminEdit(&cand)
		}
		if err != nil {
			return err
		}
		if cand.CategoryID != c.CategoryID || cand.HasCategoryCopy() {
			if err := requireCategory(ctx, r, cand.CategoryID); err != nil {
				return err
			}
		}
		cand.UpdatedAt = uc.now()
		if err := r.Courses.Update(ctx, &cand); err != nil {
			return err
		}
		if c.HasCategoryCopy() && c.CategoryID != cand.CategoryID {
			if err := r.Categories.DeleteCourseCopy(ctx, c.CategoryID, c.ID); err != nil {
				return err
			}
		}
		if cand.HasCategoryCopy() {
			if err := r.Categories.PutCourseCopy(ctx, &cand); err != nil {
				return err
			}
		}
		result, statusChanged = &cand, cand.Status != c.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("course_id", id).Str("status", string(result.Status)).Msg("edición administrativa")
	if statusChanged {
		uc.publish(ctx, result)
	}
	return ToResponse(result), nil
}

func applyEdit(c *entity.Course, in dto.AdminEditCourseRequest) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		c.CategoryID = *in.CategoryID
	}
	if in.StartDate != nil {
		c.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = *in.EndDate
	}
	if in.DurationHours != nil {
		c.DurationHours = *in.DurationHours
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Modality != nil {
		c.Modality = entity.Modality(*in.Modality)
	}
	if in.InstructorID != nil {
		c.InstructorID = *in.InstructorID
	}
	if in.Capacity != nil {
		c.Capacity = *in.Capacity
	}
	if in.Metadata != nil {
		c.Metadata = fromMetadataDTO(*in.Metadata)
	}
}

// eventTypes evento emitido al entrar en cada estado; archived no notifica.
var eventTypes = map[entity.CourseStatus]entity.EventType{
	entity.CourseStatusPreValidated: entity.EventCoursePreValidated,
	entity.CourseStatusRejected:     entity.EventCourseRejected,
	entity.CourseStatusValidated:    entity.EventCourseValidated,
	entity.CourseStatusPublished:    entity.EventCoursePublished,
}

func (uc *UseCase) publish(ctx context.Context, c *entity.Course) {
	t, ok := eventTypes[c.Status]
	if !ok || uc.events == nil {
		return
	}
	id, _ := uuid.NewV7()
	uc.events.Publish(ctx, entity.LifecycleEvent{
		ID:          id.String(),
		Type:        t,
		EntityID:    c.ID,
		RecipientID: c.InstructorID,
		Title:       c.Title,
		Status:      string(c.Status),
		OccurredAt:  uc.now(),
	})
}

// requireCategory bloquea la categoría: un borrado concurrente espera o la encuentra en uso.
func requireCategory(ctx context.Context, r ports.Repositories, id string) error {
	cat, err := r.Categories.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.NewNotFoundError("categoría", id)
	}
	return nil
}
