package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RosterDTO datos de la lista de inscritos de una formación (entrada del generador PDF).
type RosterDTO struct {
	CourseID       string
	Title          string
	CategoryName   string
	Status         string
	StartDate      time.Time
	EndDate        time.Time
	Price          decimal.Decimal
	InstructorName string
	Capacity       CapacityResponse
	Rows           []RosterRowDTO
	GeneratedAt    time.Time
}

// RosterRowDTO una inscripción en la lista.
type RosterRowDTO struct {
	StudentName string
	Email       string
	Status      string
	SubmittedAt time.Time
}
