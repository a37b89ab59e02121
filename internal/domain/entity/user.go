package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Roles lista de roles conocidos (partición de emails).
var Roles = []string{RoleAdmin, RoleInstructor, RoleStudent}

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Estados de cuenta.
const (
	UserStatusPending = "pending"
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User representa un estudiante, formador o administrador.
type User struct {
	ID         string
	Role       string // admin, instructor, student
	FirstName  string
	LastName   string
	Email      string // único dentro de su rol
	Credential string // opaco para este núcleo (lo gestiona el subsistema de auth)
	Status     string // pending, active, blocked
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

// FullName nombre para mostrar.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
