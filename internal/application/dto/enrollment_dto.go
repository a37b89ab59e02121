package dto

import "time"

// SubmitEnrollmentRequest solicitud de inscripción de un estudiante.
type SubmitEnrollmentRequest struct {
	StudentID   string   `json:"student_id" validate:"required"`
	CourseID    string   `json:"course_id" validate:"required"`
	Documents   []string `json:"documents"`
	ProfileNote string   `json:"profile_note"`
}

// EnrollmentResponse salida de una inscripción.
type EnrollmentResponse struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	CourseID    string    `json:"course_id"`
	Status      string    `json:"status"`
	Documents   []string  `json:"documents"`
	ProfileNote string    `json:"profile_note,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EnrollmentListResponse lista de inscripciones.
type EnrollmentListResponse struct {
	Items []EnrollmentResponse `json:"items"`
	Total int                  `json:"total"`
}

// CapacityResponse plazas de una formación, recalculadas en cada consulta.
type CapacityResponse struct {
	CourseID  string `json:"course_id"`
	Capacity  int    `json:"capacity"`
	Confirmed int    `json:"confirmed"`
	Pending   int    `json:"pending"`
	Declined  int    `json:"declined"`
	Remaining int    `json:"remaining"`
	Full      bool   `json:"full"`
}
