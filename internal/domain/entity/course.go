package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourseStatus estado de una formación en el circuito de moderación.
type CourseStatus string

// Estados válidos de Course.
const (
	CourseStatusPending      CourseStatus = "pending"
	CourseStatusPreValidated CourseStatus = "pre_validated"
	CourseStatusValidated    CourseStatus = "validated"
	CourseStatusPublished    CourseStatus = "published"
	CourseStatusArchived     CourseStatus = "archived"
	CourseStatusRejected     CourseStatus = "rejected"
)

// CourseStatuses en orden del circuito (rejected al final, es una rama lateral).
var CourseStatuses = []CourseStatus{
	CourseStatusPending,
	CourseStatusPreValidated,
	CourseStatusValidated,
	CourseStatusPublished,
	CourseStatusArchived,
	CourseStatusRejected,
}

// Valid indica si el estado es conocido.
func (s CourseStatus) Valid() bool {
	for _, st := range CourseStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Modality modalidad de impartición.
type Modality string

const (
	ModalityOnSite Modality = "on_site"
	ModalityOnline Modality = "online"
	ModalityHybrid Modality = "hybrid"
)

// Valid indica si la modalidad es conocida.
func (m Modality) Valid() bool {
	return m == ModalityOnSite || m == ModalityOnline || m == ModalityHybrid
}

// CourseMetadata atributos libres que no participan del ciclo de vida.
type CourseMetadata struct {
	Materials        string
	EvaluationMethod string
	Certification    string
	ImageRef         string
	Modules          []string
}

// Course representa una formación propuesta por un formador.
// Course es la fuente de verdad; la copia bajo la categoría es derivada.
type Course struct {
	ID            string
	Title         string
	Description   string
	CategoryID    string
	Status        CourseStatus
	StartDate     time.Time
	EndDate       time.Time
	DurationHours int
	Price         decimal.Decimal
	Modality      Modality
	InstructorID  string // vacío si no hay formador asignado
	Capacity      int    // plazas; 0 = sin plazas
	Metadata      CourseMetadata
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// HasCategoryCopy indica si el estado exige la copia desnormalizada bajo la categoría.
func (c *Course) HasCategoryCopy() bool {
	return c.Status == CourseStatusValidated || c.Status == CourseStatusPublished
}
