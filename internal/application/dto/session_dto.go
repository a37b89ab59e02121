package dto

import "time"

// CreateSessionRequest apertura de una sesión en vivo de una formación.
type CreateSessionRequest struct {
	RoomName string     `json:"room_name" validate:"max=120"`
	StartsAt *time.Time `json:"starts_at"`
}

// SessionResponse salida de una sesión.
type SessionResponse struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	CourseTitle string     `json:"course_title,omitempty"`
	RoomName    string     `json:"room_name"`
	Status      string     `json:"status"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SessionListResponse sesiones de una formación.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Total int               `json:"total"`
}

// StudentSessionsResponse sesiones de las formaciones confirmadas de un estudiante:
// upcoming (en curso) y past (terminadas).
type StudentSessionsResponse struct {
	Upcoming []SessionResponse `json:"upcoming"`
	Past     []SessionResponse `json:"past"`
}
