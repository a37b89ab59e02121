package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/formaciones-api/internal/application/assessment"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// AssessmentHandler quizzes y notas.
type AssessmentHandler struct {
	uc *assessment.UseCase
}

// NewAssessmentHandler construye el handler.
func NewAssessmentHandler(uc *assessment.UseCase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

// CreateQuiz godoc
// @Summary      Crear quiz de una formación
// @Tags         results
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la formación"
// @Param        body  body  dto.CreateQuizRequest  true  "Quiz"
// @Success      201   {object}  dto.QuizResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/courses/{id}/quizzes [post]
func (h *AssessmentHandler) CreateQuiz(c *fiber.Ctx) error {
	var in dto.CreateQuizRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	in.CourseID = c.Params("id")
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateQuiz(c.UserContext(), owner(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordResult godoc
// @Summary      Registrar nota de un estudiante (0-20)
// @Tags         results
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del quiz"
// @Param        body  body  dto.RecordResultRequest  true  "Nota"
// @Success      201   {object}  dto.QuizResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quizzes/{id}/results [post]
func (h *AssessmentHandler) RecordResult(c *fiber.Ctx) error {
	var in dto.RecordResultRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordResult(c.UserContext(), owner(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Results godoc
// @Summary      Notas de los quizzes de un formador
// @Description  Un formador ve solo las suyas; el admin indica ?instructor_id=.
// @Tags         results
// @Security     Bearer
// @Produce      json
// @Param        instructor_id  query  string  false  "Formador (solo admin)"
// @Success      200  {object}  dto.ResultListResponse
// @Router       /api/results [get]
func (h *AssessmentHandler) Results(c *fiber.Ctx) error {
	instructorID := c.Query("instructor_id")
	if GetRole(c) == entity.RoleInstructor {
		instructorID = GetUserID(c)
	}
	out, err := h.uc.ResultsForInstructor(c.UserContext(), instructorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// owner formador dueño exigido por la operación; vacío para el admin.
func owner(c *fiber.Ctx) string {
	if GetRole(c) == entity.RoleInstructor {
		return GetUserID(c)
	}
	return ""
}
