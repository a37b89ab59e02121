package entity

import "time"

// EventType tipo de evento de ciclo de vida.
type EventType string

const (
	EventCoursePreValidated  EventType = "course.pre_validated"
	EventCourseRejected      EventType = "course.rejected"
	EventCourseValidated     EventType = "course.validated"
	EventCoursePublished     EventType = "course.published"
	EventEnrollmentConfirmed EventType = "enrollment.confirmed"
	EventEnrollmentDeclined  EventType = "enrollment.declined"
	EventUserStatusChanged   EventType = "user.status_changed"
)

// LifecycleEvent se emite después de confirmar una transición.
// Los suscriptores (notificaciones, espejo Redis) no pueden revertirla.
type LifecycleEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	EntityID    string    `json:"entity_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}
