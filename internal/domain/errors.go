package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrCategoryInUse      = errors.New("la categoría está en uso")
	ErrCapacityExceeded   = errors.New("la formación está completa")
	ErrDispatch           = errors.New("fallo al enviar la notificación")
)

// FieldError describe un campo inválido.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa todos los campos inválidos de una entidad.
type ValidationError struct {
	Fields []FieldError
}

// Add registra un campo inválido.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil devuelve nil si no se registró ningún campo.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError de un solo campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// InvalidTransitionError indica que el evento no es aplicable al estado actual.
// Lleva el estado actual y el evento pedido para que el llamador explique el rechazo.
type InvalidTransitionError struct {
	Entity string
	ID     string
	From   string
	Event  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s: no se puede aplicar %q desde el estado %q", e.Entity, e.ID, e.Event, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// DuplicateNameError nombre ya usado por otro registro.
type DuplicateNameError struct {
	Name       string
	ExistingID string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("el nombre %q ya existe (id %s)", e.Name, e.ExistingID)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicate }

// CategoryInUseError la categoría aún es referenciada por formaciones.
type CategoryInUseError struct {
	CategoryID string
	Courses    int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("la categoría %s está usada por %d formación(es)", e.CategoryID, e.Courses)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrCategoryInUse }

// CapacityExceededError no quedan plazas para confirmar una inscripción.
type CapacityExceededError struct {
	CourseID  string
	Capacity  int
	Confirmed int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("no se puede confirmar: la formación %s está completa (%d/%d plazas)", e.CourseID, e.Confirmed, e.Capacity)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// NotFoundError entidad referenciada inexistente.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrada", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// DispatchError fallo del despachador de notificaciones. Nunca revierte una transición.
type DispatchError struct {
	To  string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("notificación a %s: %v", e.To, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

func (e *DispatchError) Is(target error) bool { return target == ErrDispatch }
