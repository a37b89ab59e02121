package workflow

import "github.com/jhoicas/formaciones-api/internal/domain/entity"

// Capacity vista derivada de las inscripciones de una formación.
// Se recalcula siempre; no tiene estado persistido propio.
type Capacity struct {
	CourseID  string
	Capacity  int
	Confirmed int
	Pending   int
	Declined  int
	Remaining int // puede ser negativo si un forzado administrativo excedió el cupo
}

// IsFull cualquier valor <= 0 cuenta como completo.
func (c Capacity) IsFull() bool { return c.Remaining <= 0 }

// ComputeCapacity cuenta las inscripciones de la formación. Ignora las de otras formaciones.
func ComputeCapacity(course *entity.Course, enrollments []*entity.Enrollment) Capacity {
	out := Capacity{CourseID: course.ID, Capacity: course.Capacity}
	for _, e := range enrollments {
		if e == nil || e.CourseID != course.ID {
			continue
		}
		switch e.Status {
		case entity.EnrollmentStatusConfirmed:
			out.Confirmed++
		case entity.EnrollmentStatusPending:
			out.Pending++
		case entity.EnrollmentStatusDeclined:
			out.Declined++
		}
	}
	out.Remaining = out.Capacity - out.Confirmed
	return out
}
