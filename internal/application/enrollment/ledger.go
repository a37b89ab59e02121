package enrollment

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// Ledger consulta de plazas. No guarda nada: cada llamada recorre las inscripciones.
type Ledger struct {
	repos ports.Repositories
}

// NewLedger construye el servicio de consulta.
func NewLedger(repos ports.Repositories) *Ledger {
	return &Ledger{repos: repos}
}

// Snapshot ocupación actual de la formación.
func (l *Ledger) Snapshot(ctx context.Context, courseID string) (*dto.CapacityResponse, error) {
	c, err := l.compute(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return ToCapacityResponse(c), nil
}

// Remaining plazas libres; negativo si un forzado excedió el cupo.
func (l *Ledger) Remaining(ctx context.Context, courseID string) (int, error) {
	c, err := l.compute(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return c.Remaining, nil
}

// IsFull true si no quedan plazas.
func (l *Ledger) IsFull(ctx context.Context, courseID string) (bool, error) {
	c, err := l.compute(ctx, courseID)
	if err != nil {
		return false, err
	}
	return c.IsFull(), nil
}

func (l *Ledger) compute(ctx context.Context, courseID string) (workflow.Capacity, error) {
	course, err := l.repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return workflow.Capacity{}, err
	}
	if course == nil {
		return workflow.Capacity{}, domain.NewNotFoundError("formación", courseID)
	}
	list, err := l.repos.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return workflow.Capacity{}, err
	}
	return workflow.ComputeCapacity(course, list), nil
}

// ToCapacityResponse convierte la vista de plazas en su DTO.
func ToCapacityResponse(c workflow.Capacity) *dto.CapacityResponse {
	return &dto.CapacityResponse{
		CourseID:  c.CourseID,
		Capacity:  c.Capacity,
		Confirmed: c.Confirmed,
		Pending:   c.Pending,
		Declined:  c.Declined,
		Remaining: c.Remaining,
		Full:      c.IsFull(),
	}
}
