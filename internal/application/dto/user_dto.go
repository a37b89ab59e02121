package dto

import "time"

// CreateUserRequest alta de un usuario; queda en pending hasta que un admin lo active.
type CreateUserRequest struct {
	Role       string `json:"role" validate:"required,oneof=admin instructor student"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"credential"`
}

// ChangeUserStatusRequest cambio explícito de estado de cuenta.
type ChangeUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

// UserFilter filtros del listado de usuarios.
type UserFilter struct {
	Role   string `query:"role"`
	Status string `query:"status"`
	Search string `query:"search"` // nombre o email, sin distinguir mayúsculas
}

// UserResponse salida de un usuario (sin credencial).
type UserResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
