package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/workflow"
)

func validCourse(status entity.CourseStatus) *entity.Course {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &entity.Course{
		ID:            "c1",
		Title:         "Go para backend",
		Description:   "Servicios HTTP y concurrencia",
		CategoryID:    "cat1",
		Status:        status,
		StartDate:     start,
		EndDate:       start.AddDate(0, 1, 0),
		DurationHours: 40,
		Price:         decimal.NewFromInt(150),
		Modality:      entity.ModalityOnline,
		Capacity:      20,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestNextCourseStatus_CircuitoCompleto(t *testing.T) {
	cases := []struct {
		from entity.CourseStatus
		ev   workflow.CourseEvent
		to   entity.CourseStatus
	}{
		{entity.CourseStatusPending, workflow.EventPreApprove, entity.CourseStatusPreValidated},
		{entity.CourseStatusPending, workflow.EventReject, entity.CourseStatusRejected},
		{entity.CourseStatusPreValidated, workflow.EventReject, entity.CourseStatusRejected},
		{entity.CourseStatusPreValidated, workflow.EventApprove, entity.CourseStatusValidated},
		{entity.CourseStatusPreValidated, workflow.EventAdminEdit, entity.CourseStatusPreValidated},
		{entity.CourseStatusValidated, workflow.EventPublish, entity.CourseStatusPublished},
		{entity.CourseStatusPublished, workflow.EventArchive, entity.CourseStatusArchived},
		{entity.CourseStatusArchived, workflow.EventArchive, entity.CourseStatusArchived},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"/"+string(tc.ev), func(t *testing.T) {
			got, err := workflow.NextCourseStatus(validCourse(tc.from), tc.ev)
			require.NoError(t, err)
			assert.Equal(t, tc.to, got)
		})
	}
}

func TestNextCourseStatus_RechazadaEsTerminal(t *testing.T) {
	c := validCourse(entity.CourseStatusRejected)
	for _, ev := range []workflow.CourseEvent{
		workflow.EventPreApprove, workflow.EventApprove, workflow.EventPublish,
		workflow.EventArchive, workflow.EventReject, workflow.EventAdminEdit,
	} {
		_, err := workflow.NextCourseStatus(c, ev)
		require.Error(t, err, "rejected no debe aceptar %s", ev)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Empty(t, workflow.AllowedCourseEvents(entity.CourseStatusRejected))
}

func TestNextCourseStatus_ErrorNombraEstadoYEvento(t *testing.T) {
	_, err := workflow.NextCourseStatus(validCourse(entity.CourseStatusPending), workflow.EventPublish)
	var te *domain.InvalidTransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "pending", te.From)
	assert.Equal(t, "publish", te.Event)
	assert.Equal(t, "c1", te.ID)
}

func TestAllowedCourseEvents_Pending(t *testing.T) {
	got := workflow.AllowedCourseEvents(entity.CourseStatusPending)
	assert.Equal(t, []workflow.CourseEvent{workflow.EventAdminEdit, workflow.EventPreApprove, workflow.EventReject}, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Forzado de estado y expiración
// ──────────────────────────────────────────────────────────────────────────────

func TestCanForceStatus(t *testing.T) {
	assert.True(t, workflow.CanForceStatus(entity.CourseStatusPending, entity.CourseStatusPublished))
	assert.True(t, workflow.CanForceStatus(entity.CourseStatusValidated, entity.CourseStatusValidated))
	assert.False(t, workflow.CanForceStatus(entity.CourseStatusValidated, entity.CourseStatusPending), "no retrocede")
	assert.False(t, workflow.CanForceStatus(entity.CourseStatusPending, entity.CourseStatusRejected))
	assert.False(t, workflow.CanForceStatus(entity.CourseStatusPending, entity.CourseStatusArchived))
	assert.False(t, workflow.CanForceStatus(entity.CourseStatusPublished, entity.CourseStatusPublished), "published no admite edición")
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	c := validCourse(entity.CourseStatusPublished)
	assert.True(t, workflow.IsExpired(c, now))

	c.EndDate = now.Add(time.Hour)
	assert.False(t, workflow.IsExpired(c, now))

	c = validCourse(entity.CourseStatusValidated)
	assert.False(t, workflow.IsExpired(c, now), "solo las publicadas expiran")

	c = validCourse(entity.CourseStatusPublished)
	c.EndDate = time.Time{}
	assert.False(t, workflow.IsExpired(c, now), "sin fecha de fin no expira")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateForPublication_ReportaTodosLosCampos(t *testing.T) {
	c := validCourse(entity.CourseStatusPreValidated)
	c.Title = "  "
	c.CategoryID = ""
	c.DurationHours = 0
	c.Price = decimal.NewFromInt(-1)
	c.EndDate = c.StartDate.Add(-time.Hour)

	err := workflow.ValidateForPublication(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "category_id", "duration_hours", "price", "end_date"}, fields)
}

func TestValidateForPublication_FechasRequeridas(t *testing.T) {
	c := validCourse(entity.CourseStatusPreValidated)
	c.StartDate = time.Time{}
	assert.ErrorIs(t, workflow.ValidateForPublication(c), domain.ErrInvalidInput)
}

func TestValidateAdminEdit_ExigeDescripcion(t *testing.T) {
	c := validCourse(entity.CourseStatusPreValidated)
	require.NoError(t, workflow.ValidateForPublication(c))
	c.Description = ""
	assert.NoError(t, workflow.ValidateForPublication(c))
	assert.ErrorIs(t, workflow.ValidateAdminEdit(c), domain.ErrInvalidInput)
}

func TestValidateDraft(t *testing.T) {
	c := &entity.Course{Title: "Borrador", CategoryID: "cat1"}
	assert.NoError(t, workflow.ValidateDraft(c))

	c.Modality = "presencial"
	assert.ErrorIs(t, workflow.ValidateDraft(c), domain.ErrInvalidInput)
}
