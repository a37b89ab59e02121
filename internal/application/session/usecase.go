// Package session sesiones en vivo de las formaciones y su vista por estudiante.
package session

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
)

// DefaultRoomName nombre de sala cuando no se indica uno.
const DefaultRoomName = "Reunión"

// UseCase casos de uso de sesiones.
type UseCase struct {
	repos ports.Repositories
	tx    ports.TxRunner
	log   zerolog.Logger
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos ports.Repositories, tx ports.TxRunner, log zerolog.Logger) *UseCase {
	return &UseCase{repos: repos, tx: tx, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Open abre una sesión en curso sobre una formación publicada.
// owner no vacío exige que la formación sea de ese formador.
func (uc *UseCase) Open(ctx context.Context, owner, courseID string, in dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	c, err := uc.course(ctx, uc.repos, owner, courseID)
	if err != nil {
		return nil, err
	}
	if c.Status != entity.CourseStatusPublished {
		return nil, &domain.InvalidTransitionError{Entity: "formación", ID: c.ID, From: string(c.Status), Event: "open_session"}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	s := &entity.Session{
		ID:        id.String(),
		CourseID:  c.ID,
		RoomName:  strings.TrimSpace(in.RoomName),
		Status:    entity.SessionStatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.RoomName == "" {
		s.RoomName = DefaultRoomName
	}
	if in.StartsAt != nil {
		s.StartsAt = *in.StartsAt
	}
	if err := uc.repos.Sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("session_id", s.ID).Str("course_id", s.CourseID).Msg("sesión abierta")
	return toResponse(s, c.Title), nil
}

// Finish in_progress -> finished. Sobre una sesión terminada no hace nada.
func (uc *UseCase) Finish(ctx context.Context, owner, courseID, id string) (*dto.SessionResponse, error) {
	var (
		result *entity.Session
		title  string
	)
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		c, err := uc.course(ctx, r, owner, courseID)
		if err != nil {
			return err
		}
		title = c.Title
		s, err := r.Sessions.Get(ctx, courseID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewNotFoundError("sesión", id)
		}
		if s.Status == entity.SessionStatusFinished {
			result = s
			return nil
		}
		s.Status = entity.SessionStatusFinished
		s.UpdatedAt = uc.now()
		if err := r.Sessions.Update(ctx, s); err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(result, title), nil
}

// ListByCourse sesiones de una formación en orden de apertura.
func (uc *UseCase) ListByCourse(ctx context.Context, owner, courseID string) (*dto.SessionListResponse, error) {
	c, err := uc.course(ctx, uc.repos, owner, courseID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Sessions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toResponse(s, c.Title))
	}
	return &dto.SessionListResponse{Items: items, Total: len(items)}, nil
}

// ForStudent sesiones de las formaciones en las que el estudiante tiene la inscripción confirmada.
func (uc *UseCase) ForStudent(ctx context.Context, studentID string) (*dto.StudentSessionsResponse, error) {
	if studentID == "" {
		return nil, domain.NewValidationError("student_id", "es requerido")
	}
	enrollments, err := uc.repos.Enrollments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.StudentSessionsResponse{Upcoming: []dto.SessionResponse{}, Past: []dto.SessionResponse{}}
	seen := make(map[string]bool)
	for _, e := range enrollments {
		if e.StudentID != studentID || e.Status != entity.EnrollmentStatusConfirmed || seen[e.CourseID] {
			continue
		}
		seen[e.CourseID] = true
		c, err := uc.repos.Courses.GetByID(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		var title string
		if c != nil {
			title = c.Title
		}
		sessions, err := uc.repos.Sessions.ListByCourse(ctx, e.CourseID)
		if err != nil {
			return nil, err
		}
		for _, s := range sessions {
			switch s.Status {
			case entity.SessionStatusInProgress:
				out.Upcoming = append(out.Upcoming, *toResponse(s, title))
			case entity.SessionStatusFinished:
				out.Past = append(out.Past, *toResponse(s, title))
			}
		}
	}
	return out, nil
}

func (uc *UseCase) course(ctx context.Context, r ports.Repositories, owner, courseID string) (*entity.Course, error) {
	c, err := r.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("formación", courseID)
	}
	if owner != "" && owner != c.InstructorID {
		return nil, fmt.Errorf("%w: la formación es de otro formador", domain.ErrForbidden)
	}
	return c, nil
}

func toResponse(s *entity.Session, courseTitle string) *dto.SessionResponse {
	out := &dto.SessionResponse{
		ID:          s.ID,
		CourseID:    s.CourseID,
		CourseTitle: courseTitle,
		RoomName:    s.RoomName,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if !s.StartsAt.IsZero() {
		t := s.StartsAt
		out.StartsAt = &t
	}
	return out
}
