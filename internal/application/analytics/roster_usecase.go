package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// RosterPDFGenerator puerto de salida: representación PDF de la lista de inscritos.
type RosterPDFGenerator interface {
	GenerateRosterPDF(ctx context.Context, roster *dto.RosterDTO) ([]byte, error)
}

// RosterUseCase genera la lista de inscritos de una formación.
type RosterUseCase struct {
	courses   CourseLoader
	repos     ports.Repositories
	generator RosterPDFGenerator
	now       func() time.Time
}

// NewRosterUseCase construye el caso de uso inyectando todas sus dependencias.
func NewRosterUseCase(courses CourseLoader, repos ports.Repositories, generator RosterPDFGenerator) *RosterUseCase {
	return &RosterUseCase{courses: courses, repos: repos, generator: generator, now: time.Now}
}

// Build arma los datos de la lista (nombres resueltos en el directorio).
func (uc *RosterUseCase) Build(ctx context.Context, courseID string) (*dto.RosterDTO, error) {
	// ── 1. Formación ──────────────────────────────────────────────────────────
	c, err := uc.courses.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// ── 2. Categoría y formador (opcionales en el documento) ─────────────────
	roster := &dto.RosterDTO{
		CourseID:    c.ID,
		Title:       c.Title,
		Status:      string(c.Status),
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Price:       c.Price,
		GeneratedAt: uc.now(),
	}
	if cat, err := uc.repos.Categories.GetByID(ctx, c.CategoryID); err == nil && cat != nil {
		roster.CategoryName = cat.Name
	}
	if c.InstructorID != "" {
		if inst, err := uc.repos.Users.GetByID(ctx, c.InstructorID); err == nil && inst != nil {
			roster.InstructorName = inst.FullName()
		}
	}

	// ── 3. Inscripciones + plazas ─────────────────────────────────────────────
	list, err := uc.repos.Enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("roster: inscripciones: %w", err)
	}
	roster.Capacity = *enrollment.ToCapacityResponse(workflow.ComputeCapacity(c, list))
	roster.Rows = make([]dto.RosterRowDTO, 0, len(list))
	for _, e := range list {
		r := dto.RosterRowDTO{StudentName: e.StudentID, Status: string(e.Status), SubmittedAt: e.SubmittedAt}
		if u, err := uc.repos.Users.GetByID(ctx, e.StudentID); err == nil && u != nil {
			r.StudentName, r.Email = u.FullName(), u.Email
		}
		roster.Rows = append(roster.Rows, r)
	}
	return roster, nil
}

// CoursePDF genera el PDF y el nombre de archivo sugerido.
func (uc *RosterUseCase) CoursePDF(ctx context.Context, courseID string) (pdfBytes []byte, filename string, err error) {
	roster, err := uc.Build(ctx, courseID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateRosterPDF(ctx, roster)
	if err != nil {
		return nil, "", fmt.Errorf("roster: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("inscritos-%s.pdf", courseID), nil
}
