package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/formaciones-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero de moderación.
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	roster *appanalytics.RosterUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, roster *appanalytics.RosterUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, roster: roster}
}

// GetSummary devuelve formaciones e inscripciones por estado, usuarios pendientes
// y las formaciones publicadas con sus plazas.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// RosterPDF godoc
// @Summary      Lista de inscritos en PDF
// @Tags         courses
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la formación"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/courses/{id}/roster.pdf [get]
func (h *DashboardHandler) RosterPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.roster.CoursePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
