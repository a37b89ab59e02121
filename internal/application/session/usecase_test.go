package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/session"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) *session.UseCase {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	require.NoError(t, repos.Courses.Create(ctx, &entity.Course{
		ID: "c1", Title: "Soldadura", InstructorID: "i1", Status: entity.CourseStatusPublished,
		StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0), Capacity: 10,
	}))
	require.NoError(t, repos.Courses.Create(ctx, &entity.Course{
		ID: "c2", Title: "Electricidad", InstructorID: "i1", Status: entity.CourseStatusValidated,
	}))
	require.NoError(t, repos.Enrollments.Create(ctx, &entity.Enrollment{
		ID: "e1", StudentID: "s1", CourseID: "c1", Status: entity.EnrollmentStatusConfirmed, SubmittedAt: now,
	}))
	require.NoError(t, repos.Enrollments.Create(ctx, &entity.Enrollment{
		ID: "e2", StudentID: "s2", CourseID: "c1", Status: entity.EnrollmentStatusPending, SubmittedAt: now,
	}))
	return session.NewUseCase(repos, docstore.NewTxRunner(store), zerolog.Nop()).WithClock(func() time.Time { return now })
}

func TestOpen_SalaPorDefecto(t *testing.T) {
	uc := newUseCase(t)

	s, err := uc.Open(context.Background(), "i1", "c1", dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, session.DefaultRoomName, s.RoomName)
	assert.Equal(t, string(entity.SessionStatusInProgress), s.Status)
	assert.Equal(t, "Soldadura", s.CourseTitle)
	assert.Nil(t, s.StartsAt)
}

func TestOpen_Errores(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Open(ctx, "i2", "c1", dto.CreateSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Open(ctx, "", "c2", dto.CreateSessionRequest{})
	var it *domain.InvalidTransitionError
	require.True(t, errors.As(err, &it))
	assert.Equal(t, "open_session", it.Event)

	_, err = uc.Open(ctx, "", "nope", dto.CreateSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFinish_EsIdempotente(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	s, err := uc.Open(ctx, "", "c1", dto.CreateSessionRequest{RoomName: "Taller"})
	require.NoError(t, err)

	done, err := uc.Finish(ctx, "i1", "c1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SessionStatusFinished), done.Status)

	again, err := uc.Finish(ctx, "i1", "c1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, done.UpdatedAt, again.UpdatedAt)

	_, err = uc.Finish(ctx, "i1", "c1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForStudent_SoloInscripcionesConfirmadas(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()
	start := now.Add(2 * time.Hour)
	open, err := uc.Open(ctx, "", "c1", dto.CreateSessionRequest{RoomName: "Práctica", StartsAt: &start})
	require.NoError(t, err)
	old, err := uc.Open(ctx, "", "c1", dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = uc.Finish(ctx, "", "c1", old.ID)
	require.NoError(t, err)

	out, err := uc.ForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, out.Upcoming, 1)
	require.Len(t, out.Past, 1)
	assert.Equal(t, open.ID, out.Upcoming[0].ID)
	require.NotNil(t, out.Upcoming[0].StartsAt)
	assert.True(t, start.Equal(*out.Upcoming[0].StartsAt))
	assert.Equal(t, old.ID, out.Past[0].ID)

	pending, err := uc.ForStudent(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, pending.Upcoming)
	assert.Empty(t, pending.Past)

	list, err := uc.ListByCourse(ctx, "i1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}
