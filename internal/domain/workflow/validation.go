package workflow

import (
	"strings"

	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// ValidateDraft campos mínimos de una propuesta (estado pending).
func ValidateDraft(c *entity.Course) error {
	v := &domain.ValidationError{}
	if strings.TrimSpace(c.Title) == "" {
		v.Add("title", "es requerido")
	}
	if c.CategoryID == "" {
		v.Add("category_id", "es requerido")
	}
	if c.Capacity < 0 {
		v.Add("capacity", "no puede ser negativa")
	}
	if c.DurationHours < 0 {
		v.Add("duration_hours", "no puede ser negativa")
	}
	if c.Price.IsNegative() {
		v.Add("price", "no puede ser negativo")
	}
	if c.Modality != "" && !c.Modality.Valid() {
		v.Add("modality", "debe ser on_site, online o hybrid")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.StartDate.After(c.EndDate) {
		v.Add("end_date", "debe ser posterior o igual a start_date")
	}
	return v.OrNil()
}

// ValidateForPublication reglas de entrada a validated/published.
func ValidateForPublication(c *entity.Course) error {
	return validateRequired(c, false)
}

// ValidateAdminEdit igual que la publicación, exigiendo además la descripción.
func ValidateAdminEdit(c *entity.Course) error {
	return validateRequired(c, true)
}

func validateRequired(c *entity.Course, withDescription bool) error {
	v := &domain.ValidationError{}
	if strings.TrimSpace(c.Title) == "" {
		v.Add("title", "es requerido")
	}
	if c.CategoryID == "" {
		v.Add("category_id", "es requerido")
	}
	if withDescription && strings.TrimSpace(c.Description) == "" {
		v.Add("description", "es requerida")
	}
	switch {
	case c.StartDate.IsZero():
		v.Add("start_date", "es requerida")
	case c.EndDate.IsZero():
		v.Add("end_date", "es requerida")
	case c.StartDate.After(c.EndDate):
		v.Add("end_date", "debe ser posterior o igual a start_date")
	}
	if c.DurationHours < 1 {
		v.Add("duration_hours", "debe ser al menos 1")
	}
	if c.Price.IsNegative() {
		v.Add("price", "no puede ser negativo")
	}
	if c.Capacity < 0 {
		v.Add("capacity", "no puede ser negativa")
	}
	if c.Modality != "" && !c.Modality.Valid() {
		v.Add("modality", "debe ser on_site, online o hybrid")
	}
	return v.OrNil()
}
