package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/session"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// SessionHandler sesiones en vivo de las formaciones.
type SessionHandler struct {
	uc *session.UseCase
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *session.UseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir sesión de una formación publicada
// @Tags         sessions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la formación"
// @Param        body  body  dto.CreateSessionRequest  true  "Sesión"
// @Success      201   {object}  dto.SessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/courses/{id}/sessions [post]
func (h *SessionHandler) Open(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Open(c.UserContext(), owner(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByCourse GET /api/courses/:id/sessions
func (h *SessionHandler) ListByCourse(c *fiber.Ctx) error {
	out, err := h.uc.ListByCourse(c.UserContext(), owner(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finish POST /api/courses/:id/sessions/:sessionId/finish
func (h *SessionHandler) Finish(c *fiber.Ctx) error {
	out, err := h.uc.Finish(c.UserContext(), owner(c), c.Params("id"), c.Params("sessionId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ForStudent godoc
// @Summary      Sesiones de un estudiante (en curso y terminadas)
// @Description  Un estudiante ve las suyas; el admin indica ?student_id=.
// @Tags         sessions
// @Security     Bearer
// @Produce      json
// @Param        student_id  query  string  false  "Estudiante (solo admin)"
// @Success      200  {object}  dto.StudentSessionsResponse
// @Router       /api/sessions [get]
func (h *SessionHandler) ForStudent(c *fiber.Ctx) error {
	studentID := c.Query("student_id")
	if GetRole(c) == entity.RoleStudent {
		studentID = GetUserID(c)
	}
	out, err := h.uc.ForStudent(c.UserContext(), studentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
