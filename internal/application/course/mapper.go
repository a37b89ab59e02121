package course

import (
	"time"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

// ToResponse convierte la entidad en su DTO, con los eventos aplicables desde su estado.
func ToResponse(c *entity.Course) *dto.CourseResponse {
	if c == nil {
		return nil
	}
	events := workflow.AllowedCourseEvents(c.Status)
	allowed := make([]string, 0, len(events))
	for _, ev := range events {
		allowed = append(allowed, string(ev))
	}
	return &dto.CourseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		CategoryID:    c.CategoryID,
		Status:        string(c.Status),
		StartDate:     optionalTime(c.StartDate),
		EndDate:       optionalTime(c.EndDate),
		DurationHours: c.DurationHours,
		Price:         c.Price,
		Modality:      string(c.Modality),
		InstructorID:  c.InstructorID,
		Capacity:      c.Capacity,
		Metadata: dto.CourseMetadataDTO{
			Materials:        c.Metadata.Materials,
			EvaluationMethod: c.Metadata.EvaluationMethod,
			Certification:    c.Metadata.Certification,
			ImageRef:         c.Metadata.ImageRef,
			Modules:          c.Metadata.Modules,
		},
		AllowedEvents: allowed,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func fromMetadataDTO(m dto.CourseMetadataDTO) entity.CourseMetadata {
	return entity.CourseMetadata{
		Materials:        m.Materials,
		EvaluationMethod: m.EvaluationMethod,
		Certification:    m.Certification,
		ImageRef:         m.ImageRef,
		Modules:          m.Modules,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
