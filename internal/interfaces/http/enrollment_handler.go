package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// EnrollmentHandler inscripciones y plazas.
type EnrollmentHandler struct {
	uc     *enrollment.UseCase
	ledger *enrollment.Ledger
}

// NewEnrollmentHandler construye el handler.
func NewEnrollmentHandler(uc *enrollment.UseCase, ledger *enrollment.Ledger) *EnrollmentHandler {
	return &EnrollmentHandler{uc: uc, ledger: ledger}
}

// Submit godoc
// @Summary      Solicitar inscripción
// @Description  Un estudiante solo puede inscribirse a sí mismo: student_id se toma del token.
// @Tags         enrollments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitEnrollmentRequest  true  "Inscripción"
// @Success      201   {object}  dto.EnrollmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/enrollments [post]
func (h *EnrollmentHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitEnrollmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if GetRole(c) == entity.RoleStudent {
		in.StudentID = GetUserID(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar inscripciones
// @Tags         enrollments
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|confirmed|declined"
// @Success      200     {object}  dto.EnrollmentListResponse
// @Router       /api/enrollments [get]
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/enrollments/:studentId/:id
func (h *EnrollmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("studentId"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar inscripción (consume una plaza)
// @Tags         enrollments
// @Security     Bearer
// @Produce      json
// @Param        studentId  path  string  true  "ID del estudiante"
// @Param        id         path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.EnrollmentResponse
// @Failure      409  {object}  dto.ErrorResponse  "CAPACITY_EXCEEDED o INVALID_TRANSITION"
// @Router       /api/enrollments/{studentId}/{id}/confirm [post]
func (h *EnrollmentHandler) Confirm(c *fiber.Ctx) error { return h.setStatus(c, h.uc.Confirm) }

// Decline godoc
// @Summary      Rechazar inscripción (libera la plaza si estaba confirmada)
// @Tags         enrollments
// @Security     Bearer
// @Produce      json
// @Param        studentId  path  string  true  "ID del estudiante"
// @Param        id         path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.EnrollmentResponse
// @Router       /api/enrollments/{studentId}/{id}/decline [post]
func (h *EnrollmentHandler) Decline(c *fiber.Ctx) error { return h.setStatus(c, h.uc.Decline) }

func (h *EnrollmentHandler) setStatus(c *fiber.Ctx, fn func(context.Context, string, string) (*dto.EnrollmentResponse, error)) error {
	out, err := fn(c.UserContext(), c.Params("studentId"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCourse GET /api/courses/:id/enrollments
func (h *EnrollmentHandler) ListByCourse(c *fiber.Ctx) error {
	out, err := h.uc.ListByCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Capacity godoc
// @Summary      Plazas de una formación
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la formación"
// @Success      200  {object}  dto.CapacityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/courses/{id}/capacity [get]
func (h *EnrollmentHandler) Capacity(c *fiber.Ctx) error {
	out, err := h.ledger.Snapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
