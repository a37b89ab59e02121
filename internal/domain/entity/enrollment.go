package entity

import "time"

// EnrollmentStatus estado de una inscripción.
type EnrollmentStatus string

const (
	EnrollmentStatusPending   EnrollmentStatus = "pending"
	EnrollmentStatusConfirmed EnrollmentStatus = "confirmed"
	EnrollmentStatusDeclined  EnrollmentStatus = "declined"
)

// Valid indica si el estado es conocido.
func (s EnrollmentStatus) Valid() bool {
	return s == EnrollmentStatusPending || s == EnrollmentStatusConfirmed || s == EnrollmentStatusDeclined
}

// Enrollment solicitud de plaza de un estudiante en una formación.
type Enrollment struct {
	ID          string
	StudentID   string
	CourseID    string
	Status      EnrollmentStatus
	Documents   []string // referencias a documentos subidos (almacenamiento externo)
	ProfileNote string
	SubmittedAt time.Time
	UpdatedAt   time.Time
	Version     int64
}
