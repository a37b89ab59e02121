package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourseMetadataDTO atributos libres de una formación.
type CourseMetadataDTO struct {
	Materials        string   `json:"materials,omitempty"`
	EvaluationMethod string   `json:"evaluation_method,omitempty"`
	Certification    string   `json:"certification,omitempty"`
	ImageRef         string   `json:"image_ref,omitempty"`
	Modules          []string `json:"modules,omitempty"`
}

// SubmitCourseRequest propuesta de formación de un formador (queda en pending).
type SubmitCourseRequest struct {
	Title         string            `json:"title" validate:"required,max=200"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"category_id" validate:"required"`
	StartDate     *time.Time        `json:"start_date"`
	EndDate       *time.Time        `json:"end_date"`
	DurationHours int               `json:"duration_hours"`
	Price         decimal.Decimal   `json:"price"`
	Modality      string            `json:"modality" validate:"omitempty,oneof=on_site online hybrid"`
	InstructorID  string            `json:"instructor_id"`
	Capacity      int               `json:"capacity" validate:"min=0"`
	Metadata      CourseMetadataDTO `json:"metadata"`
}

// AdminEditCourseRequest edición administrativa. Los campos nil no se tocan;
// Status opcional fuerza el estado resultante.
type AdminEditCourseRequest struct {
	Title         *string            `json:"title" validate:"omitempty,max=200"`
	Description   *string            `json:"description"`
	CategoryID    *string            `json:"category_id"`
	StartDate     *time.Time         `json:"start_date"`
	EndDate       *time.Time         `json:"end_date"`
	DurationHours *int               `json:"duration_hours"`
	Price         *decimal.Decimal   `json:"price"`
	Modality      *string            `json:"modality" validate:"omitempty,oneof=on_site online hybrid"`
	InstructorID  *string            `json:"instructor_id"`
	Capacity      *int               `json:"capacity" validate:"omitempty,min=0"`
	Metadata      *CourseMetadataDTO `json:"metadata"`
	Status        *string            `json:"status" validate:"omitempty,oneof=pending pre_validated validated published"`
}

// CourseResponse salida de una formación.
type CourseResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	CategoryID    string            `json:"category_id"`
	Status        string            `json:"status"`
	StartDate     *time.Time        `json:"start_date,omitempty"`
	EndDate       *time.Time        `json:"end_date,omitempty"`
	DurationHours int               `json:"duration_hours"`
	Price         decimal.Decimal   `json:"price"`
	Modality      string            `json:"modality,omitempty"`
	InstructorID  string            `json:"instructor_id,omitempty"`
	Capacity      int               `json:"capacity"`
	Metadata      CourseMetadataDTO `json:"metadata"`
	AllowedEvents []string          `json:"allowed_events"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CourseListResponse lista de formaciones.
type CourseListResponse struct {
	Items []CourseResponse `json:"items"`
	Total int              `json:"total"`
}
