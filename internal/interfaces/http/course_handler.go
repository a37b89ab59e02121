package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// CourseHandler moderación de formaciones.
type CourseHandler struct {
	uc *course.UseCase
}

// NewCourseHandler construye el handler.
func NewCourseHandler(uc *course.UseCase) *CourseHandler {
	return &CourseHandler{uc: uc}
}

// Submit godoc
// @Summary      Proponer formación (queda en pending)
// @Description  Un formador propone una formación; si no indica instructor_id se usa el del token.
// @Tags         courses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitCourseRequest  true  "Formación"
// @Success      201   {object}  dto.CourseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/courses [post]
func (h *CourseHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitCourseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if GetRole(c) == entity.RoleInstructor || in.InstructorID == "" {
		in.InstructorID = GetUserID(c)
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

// GetByID godoc
// @Summary      Obtener formación (archiva al vuelo si expiró)
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la formación"
// @Success      200  {object}  dto.CourseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar formaciones
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|pre_validated|validated|published|archived"
// @Success      200     {object}  dto.CourseListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminEdit godoc
// @Summary      Edición administrativa
// @Description  Los campos omitidos no cambian; status opcional fuerza el estado si la transición lo permite.
// @Tags         courses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la formación"
// @Param        body  body  dto.AdminEditCourseRequest  true  "Cambios"
// @Success      200   {object}  dto.CourseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/courses/{id} [patch]
func (h *CourseHandler) AdminEdit(c *fiber.Ctx) error {
	var in dto.AdminEditCourseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AdminEdit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transiciones de moderación: POST /api/courses/:id/{pre-approve|reject|approve|publish|archive}.
// Un evento no aplicable al estado actual responde 409 INVALID_TRANSITION.

func (h *CourseHandler) PreApprove(c *fiber.Ctx) error { return h.transition(c, h.uc.PreApprove) }
func (h *CourseHandler) Reject(c *fiber.Ctx) error     { return h.transition(c, h.uc.Reject) }
func (h *CourseHandler) Approve(c *fiber.Ctx) error    { return h.transition(c, h.uc.Approve) }
func (h *CourseHandler) Publish(c *fiber.Ctx) error    { return h.transition(c, h.uc.Publish) }
func (h *CourseHandler) Archive(c *fiber.Ctx) error    { return h.transition(c, h.uc.Archive) }

func (h *CourseHandler) transition(c *fiber.Ctx, fn func(context.Context, string) (*dto.CourseResponse, error)) error {
	out, err := fn(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
