package entity

import "time"

// SessionStatus estado de una sesión (reunión) de una formación.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusFinished   SessionStatus = "finished"
)

// Valid indica si el estado es conocido.
func (s SessionStatus) Valid() bool {
	return s == SessionStatusInProgress || s == SessionStatusFinished
}

// Session sesión en vivo de una formación (sessions/{courseId}/{id}).
type Session struct {
	ID        string
	CourseID  string
	RoomName  string
	Status    SessionStatus
	StartsAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}
