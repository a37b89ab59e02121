package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/formaciones-api/internal/application/analytics"
	"github.com/jhoicas/formaciones-api/internal/application/assessment"
	"github.com/jhoicas/formaciones-api/internal/application/catalog"
	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/application/session"
	"github.com/jhoicas/formaciones-api/internal/application/user"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
	apphttp "github.com/jhoicas/formaciones-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/formaciones-api/pkg/jwt"
)

type fakePDF struct{}

func (fakePDF) GenerateRosterPDF(context.Context, *dto.RosterDTO) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type apiFixture struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	tx := docstore.NewTxRunner(store)
	log := zerolog.Nop()

	courseUC := course.NewUseCase(repos, tx, nil, log)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:    catalog.NewUseCase(repos, tx),
		CourseUC:     courseUC,
		EnrollmentUC: enrollment.NewUseCase(repos, tx, nil, log),
		Ledger:       enrollment.NewLedger(repos),
		UserUC:       user.NewUseCase(repos, tx, nil, log),
		DashboardUC:  appanalytics.NewDashboardUseCase(courseUC, repos.Enrollments, repos.Users),
		RosterUC:     appanalytics.NewRosterUseCase(courseUC, repos, fakePDF{}),
		AssessmentUC: assessment.NewUseCase(repos, log),
		SessionUC:    session.NewUseCase(repos, tx, log),
		JWTSecret:    testJWTSecret,
	})
	return &apiFixture{t: t, app: app}
}

func (f *apiFixture) token(userID, role string) string {
	f.t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(f.t, err)
	return "Bearer " + tok
}

// call ejecuta la petición y decodifica el cuerpo JSON en out (si no es nil).
func (f *apiFixture) call(method, path, auth string, body any, out any) int {
	f.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, _ := io.ReadAll(resp.Body)
		if len(raw) > 0 {
			require.NoError(f.t, json.Unmarshal(raw, out), string(raw))
		}
	}
	return resp.StatusCode
}

func (f *apiFixture) createUser(admin, role, email string) string {
	f.t.Helper()
	var u dto.UserResponse
	status := f.call(http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Role: role, FirstName: "Nombre", LastName: "Apellido", Email: email,
	}, &u)
	require.Equal(f.t, http.StatusCreated, status)
	return u.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Circuito completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CircuitoCompletoHastaLlenarPlazas(t *testing.T) {
	f := newAPI(t)
	admin := f.token("admin-1", "admin")

	// Categorías: nombre único sin distinguir mayúsculas.
	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/categories", admin, dto.CreateCategoryRequest{Name: "Salud"}, &cat))
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, f.call(http.MethodPost, "/api/categories", admin, dto.CreateCategoryRequest{Name: "SALUD"}, &errResp))
	assert.Equal(t, "DUPLICATE_NAME", errResp.Code)

	// El formador propone.
	instructorID := f.createUser(admin, "instructor", "formador@mail.com")
	instructor := f.token(instructorID, "instructor")
	start := time.Now().AddDate(0, 1, 0)
	end := start.AddDate(0, 1, 0)
	var c dto.CourseResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/courses", instructor, dto.SubmitCourseRequest{
		Title: "Primeros auxilios", Description: "Práctico", CategoryID: cat.ID,
		StartDate: &start, EndDate: &end, DurationHours: 10, Capacity: 1,
	}, &c))
	assert.Equal(t, "pending", c.Status)
	assert.Equal(t, instructorID, c.InstructorID)

	// Solo el admin modera.
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodPost, "/api/courses/"+c.ID+"/publish", instructor, nil, nil))
	for _, step := range []string{"pre-approve", "approve", "publish"} {
		require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/courses/"+c.ID+"/"+step, admin, nil, &c), step)
	}
	assert.Equal(t, "published", c.Status)

	errResp = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, f.call(http.MethodPost, "/api/courses/"+c.ID+"/approve", admin, nil, &errResp))
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
	assert.Contains(t, errResp.Message, "published")

	// Dos estudiantes para una sola plaza.
	ana := f.createUser(admin, "student", "ana@mail.com")
	luis := f.createUser(admin, "student", "luis@mail.com")
	var e1, e2 dto.EnrollmentResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/enrollments", f.token(ana, "student"),
		dto.SubmitEnrollmentRequest{StudentID: "otro", CourseID: c.ID}, &e1))
	assert.Equal(t, ana, e1.StudentID, "un estudiante solo se inscribe a sí mismo")
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/enrollments", f.token(luis, "student"),
		dto.SubmitEnrollmentRequest{CourseID: c.ID}, &e2))

	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/enrollments/"+ana+"/"+e1.ID+"/confirm", admin, nil, &e1))
	assert.Equal(t, "confirmed", e1.Status)

	errResp = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, f.call(http.MethodPost, "/api/enrollments/"+luis+"/"+e2.ID+"/confirm", admin, nil, &errResp))
	assert.Equal(t, "CAPACITY_EXCEEDED", errResp.Code)

	var capResp dto.CapacityResponse
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/courses/"+c.ID+"/capacity", admin, nil, &capResp))
	assert.Equal(t, 1, capResp.Confirmed)
	assert.Equal(t, 1, capResp.Pending)
	assert.True(t, capResp.Full)

	// Liberar la plaza permite confirmar al segundo.
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/enrollments/"+ana+"/"+e1.ID+"/decline", admin, nil, nil))
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/enrollments/"+luis+"/"+e2.ID+"/confirm", admin, nil, nil))

	// La categoría en uso no se puede borrar.
	errResp = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, f.call(http.MethodDelete, "/api/categories/"+cat.ID, admin, nil, &errResp))
	assert.Equal(t, "CATEGORY_IN_USE", errResp.Code)

	var summary dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/dashboard/summary", admin, nil, &summary))
	assert.Equal(t, 1, summary.CoursesByStatus["published"])
	assert.Equal(t, 1, summary.EnrollmentsByStatus["confirmed"])
	assert.Equal(t, 1, summary.EnrollmentsByStatus["declined"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores y casos borde
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_FormacionInexistenteEs404(t *testing.T) {
	f := newAPI(t)
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, f.call(http.MethodGet, "/api/courses/nope", f.token("a", "admin"), nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestAPI_ValidacionEs400(t *testing.T) {
	f := newAPI(t)
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPost, "/api/categories", f.token("a", "admin"), dto.CreateCategoryRequest{Name: "  "}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestAPI_EtiquetasDeValidacionEnElCuerpo(t *testing.T) {
	f := newAPI(t)
	admin := f.token("a", "admin")

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Role: "student", FirstName: "Ana", LastName: "Pérez", Email: "ana-sin-arroba",
	}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Message, "email")

	errResp = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPost, "/api/categories", admin,
		dto.CreateCategoryRequest{Name: strings.Repeat("x", 121)}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Message, "name")
}

func TestAPI_SinTokenEs401(t *testing.T) {
	f := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, f.call(http.MethodGet, "/api/courses", "", nil, nil))
}

func TestAPI_EstudianteNoGestionaUsuarios(t *testing.T) {
	f := newAPI(t)
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodGet, "/api/users", f.token("s", "student"), nil, nil))
}

func TestAPI_EmailDuplicadoEnElMismoRol(t *testing.T) {
	f := newAPI(t)
	admin := f.token("a", "admin")
	f.createUser(admin, "student", "ana@mail.com")
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, f.call(http.MethodPost, "/api/users", admin, dto.CreateUserRequest{
		Role: "student", FirstName: "Ana", LastName: "B", Email: "ANA@mail.com",
	}, &errResp))
	assert.Equal(t, "EMAIL_EXISTS", errResp.Code)
}

func TestAPI_ToggleUsuario(t *testing.T) {
	f := newAPI(t)
	admin := f.token("a", "admin")
	id := f.createUser(admin, "student", "ana@mail.com")

	var u dto.UserResponse
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/users/"+id+"/toggle", admin, nil, &u))
	assert.Equal(t, "active", u.Status)
	require.Equal(t, http.StatusOK, f.call(http.MethodPatch, "/api/users/"+id+"/status", admin, dto.ChangeUserStatusRequest{Status: "blocked"}, &u))
	assert.Equal(t, "blocked", u.Status)

	var list dto.UserListResponse
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/users?status=blocked&search=ANA", admin, nil, &list))
	assert.Equal(t, 1, list.Total)
}

func TestAPI_RosterPDF(t *testing.T) {
	f := newAPI(t)
	admin := f.token("a", "admin")
	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/categories", admin, dto.CreateCategoryRequest{Name: "Idiomas"}, &cat))
	var c dto.CourseResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/courses", admin, dto.SubmitCourseRequest{Title: "Inglés", CategoryID: cat.ID}, &c))

	req := httptest.NewRequest(http.MethodGet, "/api/courses/"+c.ID+"/roster.pdf", nil)
	req.Header.Set("Authorization", admin)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inscritos-"+c.ID+".pdf")
}

// ──────────────────────────────────────────────────────────────────────────────
// Notas y sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_NotasYSesionesDelFormador(t *testing.T) {
	f := newAPI(t)
	admin := f.token("admin-1", "admin")

	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/categories", admin, dto.CreateCategoryRequest{Name: "Oficios"}, &cat))
	instructorID := f.createUser(admin, "instructor", "profe@mail.com")
	instructor := f.token(instructorID, "instructor")
	other := f.token(f.createUser(admin, "instructor", "otro@mail.com"), "instructor")
	start := time.Now().AddDate(0, 1, 0)
	end := start.AddDate(0, 1, 0)
	var c dto.CourseResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/courses", instructor, dto.SubmitCourseRequest{
		Title: "Soldadura", CategoryID: cat.ID, StartDate: &start, EndDate: &end, DurationHours: 20, Capacity: 5,
	}, &c))
	for _, step := range []string{"pre-approve", "approve", "publish"} {
		require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/courses/"+c.ID+"/"+step, admin, nil, nil), step)
	}
	studentID := f.createUser(admin, "student", "alumno@mail.com")
	student := f.token(studentID, "student")
	var e dto.EnrollmentResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/enrollments", student, dto.SubmitEnrollmentRequest{CourseID: c.ID}, &e))
	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/enrollments/"+studentID+"/"+e.ID+"/confirm", admin, nil, nil))

	// Quiz y nota.
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodPost, "/api/courses/"+c.ID+"/quizzes", other, dto.CreateQuizRequest{Title: "Parcial"}, nil))
	var q dto.QuizResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/courses/"+c.ID+"/quizzes", instructor, dto.CreateQuizRequest{Title: "Parcial"}, &q))
	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.call(http.MethodPost, "/api/quizzes/"+q.ID+"/results", instructor,
		dto.RecordResultRequest{StudentID: studentID, Score: decimal.NewFromInt(21)}, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/quizzes/"+q.ID+"/results", instructor,
		dto.RecordResultRequest{StudentID: studentID, Score: decimal.NewFromInt(15)}, nil))

	var results dto.ResultListResponse
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/results", instructor, nil, &results))
	require.Equal(t, 1, results.Total)
	assert.Equal(t, "Soldadura", results.Items[0].CourseTitle)
	results = dto.ResultListResponse{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/results", other, nil, &results))
	assert.Zero(t, results.Total)
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodGet, "/api/results", student, nil, nil))

	// Sesiones.
	var s dto.SessionResponse
	require.Equal(t, http.StatusCreated, f.call(http.MethodPost, "/api/courses/"+c.ID+"/sessions", instructor, dto.CreateSessionRequest{RoomName: "Taller"}, &s))
	var mine dto.StudentSessionsResponse
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/sessions", student, nil, &mine))
	require.Len(t, mine.Upcoming, 1)
	assert.Equal(t, "Taller", mine.Upcoming[0].RoomName)

	require.Equal(t, http.StatusOK, f.call(http.MethodPost, "/api/courses/"+c.ID+"/sessions/"+s.ID+"/finish", instructor, nil, &s))
	assert.Equal(t, "finished", s.Status)
	mine = dto.StudentSessionsResponse{}
	require.Equal(t, http.StatusOK, f.call(http.MethodGet, "/api/sessions?student_id="+studentID, admin, nil, &mine))
	assert.Empty(t, mine.Upcoming)
	assert.Len(t, mine.Past, 1)
	assert.Equal(t, http.StatusForbidden, f.call(http.MethodGet, "/api/sessions", instructor, nil, nil))
}
