package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/formaciones-api/internal/application/analytics"
	"github.com/jhoicas/formaciones-api/internal/application/assessment"
	"github.com/jhoicas/formaciones-api/internal/application/catalog"
	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/application/session"
	"github.com/jhoicas/formaciones-api/internal/application/user"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.UseCase
	CourseUC     *course.UseCase
	EnrollmentUC *enrollment.UseCase
	Ledger       *enrollment.Ledger
	UserUC       *user.UseCase
	DashboardUC  *appanalytics.DashboardUseCase
	RosterUC     *appanalytics.RosterUseCase
	AssessmentUC *assessment.UseCase
	SessionUC    *session.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Todo bajo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(entity.RoleAdmin)

	// Categories (admin)
	categories := api.Group("/categories", admin)
	categoryHandler := NewCategoryHandler(deps.CatalogUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Rename)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Get("/:id/courses", categoryHandler.ListCourses)

	// Courses: los formadores proponen, el admin modera.
	courses := api.Group("/courses")
	courseHandler := NewCourseHandler(deps.CourseUC)
	enrollmentHandler := NewEnrollmentHandler(deps.EnrollmentUC, deps.Ledger)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.RosterUC)
	courses.Post("/", RequireRole(entity.RoleAdmin, entity.RoleInstructor), courseHandler.Submit)
	courses.Get("/", courseHandler.List)
	courses.Get("/:id", courseHandler.GetByID)
	courses.Get("/:id/capacity", enrollmentHandler.Capacity)
	courses.Patch("/:id", admin, courseHandler.AdminEdit)
	courses.Post("/:id/pre-approve", admin, courseHandler.PreApprove)
	courses.Post("/:id/reject", admin, courseHandler.Reject)
	courses.Post("/:id/approve", admin, courseHandler.Approve)
	courses.Post("/:id/publish", admin, courseHandler.Publish)
	courses.Post("/:id/archive", admin, courseHandler.Archive)
	courses.Get("/:id/enrollments", admin, enrollmentHandler.ListByCourse)
	courses.Get("/:id/roster.pdf", admin, dashboardHandler.RosterPDF)

	// Quizzes, notas y sesiones: el formador gestiona las de sus formaciones.
	teaching := RequireRole(entity.RoleAdmin, entity.RoleInstructor)
	assessmentHandler := NewAssessmentHandler(deps.AssessmentUC)
	sessionHandler := NewSessionHandler(deps.SessionUC)
	courses.Post("/:id/quizzes", teaching, assessmentHandler.CreateQuiz)
	courses.Post("/:id/sessions", teaching, sessionHandler.Open)
	courses.Get("/:id/sessions", teaching, sessionHandler.ListByCourse)
	courses.Post("/:id/sessions/:sessionId/finish", teaching, sessionHandler.Finish)
	api.Post("/quizzes/:id/results", teaching, assessmentHandler.RecordResult)
	api.Get("/results", teaching, assessmentHandler.Results)
	api.Get("/sessions", RequireRole(entity.RoleAdmin, entity.RoleStudent), sessionHandler.ForStudent)

	// Enrollments: los estudiantes solicitan, el admin confirma o rechaza.
	enrollments := api.Group("/enrollments")
	enrollments.Post("/", RequireRole(entity.RoleAdmin, entity.RoleStudent), enrollmentHandler.Submit)
	enrollments.Get("/", admin, enrollmentHandler.List)
	enrollments.Get("/:studentId/:id", admin, enrollmentHandler.GetByID)
	enrollments.Post("/:studentId/:id/confirm", admin, enrollmentHandler.Confirm)
	enrollments.Post("/:studentId/:id/decline", admin, enrollmentHandler.Decline)

	// Users (admin)
	users := api.Group("/users", admin)
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id/status", userHandler.ChangeStatus)
	users.Post("/:id/toggle", userHandler.Toggle)

	// Dashboard (admin)
	api.Get("/dashboard/summary", admin, dashboardHandler.GetSummary)
}
