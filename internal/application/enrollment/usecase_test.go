package enrollment_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/enrollment"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []entity.LifecycleEvent
}

func (r *recorder) Publish(_ context.Context, evt entity.LifecycleEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	uc     *enrollment.UseCase
	ledger *enrollment.Ledger
	repos  ports.Repositories
	events *recorder
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	rec := &recorder{}
	require.NoError(t, repos.Courses.Create(ctx, &entity.Course{
		ID:         "c1",
		Title:      "Soldadura",
		CategoryID: "cat1",
		Status:     entity.CourseStatusPublished,
		StartDate:  now.AddDate(0, 1, 0),
		EndDate:    now.AddDate(0, 2, 0),
		Capacity:   capacity,
	}))
	return &fixture{
		uc:     enrollment.NewUseCase(repos, docstore.NewTxRunner(store), rec, zerolog.Nop()).WithClock(func() time.Time { return now }),
		ledger: enrollment.NewLedger(repos),
		repos:  repos,
		events: rec,
	}
}

// seed crea inscripciones directamente en el store con el estado indicado.
func (f *fixture) seed(t *testing.T, statuses ...entity.EnrollmentStatus) []string {
	t.Helper()
	ids := make([]string, 0, len(statuses))
	for i, s := range statuses {
		id := fmt.Sprintf("e%d", i)
		require.NoError(t, f.repos.Enrollments.Create(context.Background(), &entity.Enrollment{
			ID: id, StudentID: fmt.Sprintf("s%d", i), CourseID: "c1", Status: s, SubmittedAt: now,
		}))
		ids = append(ids, id)
	}
	return ids
}

func student(i int) string { return fmt.Sprintf("s%d", i) }

// ─── Confirmación y plazas ──────────────────────────────────────────────────

func TestConfirm_HastaCompletarPlazas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	ids := f.seed(t, entity.EnrollmentStatusPending, entity.EnrollmentStatusPending, entity.EnrollmentStatusPending)

	for i := 0; i < 2; i++ {
		resp, err := f.uc.Confirm(ctx, student(i), ids[i])
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
	}

	_, err := f.uc.Confirm(ctx, student(2), ids[2])
	var cerr *domain.CapacityExceededError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Capacity)
	assert.Equal(t, 2, cerr.Confirmed)
	assert.Contains(t, err.Error(), "está completa")

	snap, err := f.ledger.Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Remaining)
	assert.True(t, snap.Full)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, 2, f.events.count())
}

func TestConfirm_YaConfirmadaEsNoopAunqueEsteCompleta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	ids := f.seed(t, entity.EnrollmentStatusConfirmed)

	resp, err := f.uc.Confirm(ctx, student(0), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Zero(t, f.events.count())
}

func TestDecline_YaRechazadaEsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	ids := f.seed(t, entity.EnrollmentStatusDeclined)

	_, err := f.uc.Decline(ctx, student(0), ids[0])
	require.NoError(t, err)
	assert.Zero(t, f.events.count())
}

func TestDecline_LiberaPlazaYReconfirmar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	ids := f.seed(t, entity.EnrollmentStatusConfirmed, entity.EnrollmentStatusDeclined)

	_, err := f.uc.Confirm(ctx, student(1), ids[1])
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded, "declined -> confirmed respeta el cupo")

	_, err = f.uc.Decline(ctx, student(0), ids[0])
	require.NoError(t, err)
	remaining, err := f.ledger.Remaining(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	_, err = f.uc.Confirm(ctx, student(1), ids[1])
	require.NoError(t, err)
	full, err := f.ledger.IsFull(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, full)
}

func TestConfirm_CapacidadCero(t *testing.T) {
	f := newFixture(t, 0)
	ids := f.seed(t, entity.EnrollmentStatusPending)
	_, err := f.uc.Confirm(context.Background(), student(0), ids[0])
	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestConfirm_Inexistente(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.uc.Confirm(context.Background(), "s0", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirm_ConcurrenciaUltimaPlaza(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	statuses := make([]entity.EnrollmentStatus, 16)
	for i := range statuses {
		statuses[i] = entity.EnrollmentStatusPending
	}
	ids := f.seed(t, statuses...)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, full int
	)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.uc.Confirm(ctx, student(i), ids[i])
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrCapacityExceeded):
				full++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, len(ids)-1, full)
	snap, err := f.ledger.Snapshot(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Confirmed)
	assert.Equal(t, 0, snap.Remaining)
}

// ─── Solicitud ──────────────────────────────────────────────────────────────

func (f *fixture) addStudent(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.repos.Users.Create(context.Background(), &entity.User{
		ID: id, Role: entity.RoleStudent, Email: id + "@mail.com", Status: entity.UserStatusActive,
	}))
}

func TestSubmit_CreaPendienteYEvitaDuplicado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	f.addStudent(t, "stu")

	resp, err := f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{StudentID: "stu", CourseID: "c1", Documents: []string{"cv.pdf"}})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, []string{"cv.pdf"}, resp.Documents)

	_, err = f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{StudentID: "stu", CourseID: "c1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := f.uc.Get(ctx, "stu", resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.CourseID)
}

func TestSubmit_ConcurrentesMismoEstudianteUnaSolaActiva(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	f.addStudent(t, "stu")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{StudentID: "stu", CourseID: "c1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, domain.ErrDuplicate):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, 7, dups)
	all, err := f.repos.Enrollments.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubmit_FormacionNoPublicada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	f.addStudent(t, "stu")
	require.NoError(t, f.repos.Courses.Create(ctx, &entity.Course{ID: "c2", Status: entity.CourseStatusValidated}))

	_, err := f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{StudentID: "stu", CourseID: "c2"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSubmit_CamposRequeridosYEstudianteDesconocido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	_, err := f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = f.uc.Submit(ctx, dto.SubmitEnrollmentRequest{StudentID: "ghost", CourseID: "c1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	f.seed(t, entity.EnrollmentStatusPending, entity.EnrollmentStatusConfirmed, entity.EnrollmentStatusPending)

	pending, err := f.uc.List(ctx, "pending")
	require.NoError(t, err)
	assert.Equal(t, 2, pending.Total)

	all, err := f.uc.ListByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	_, err = f.uc.List(ctx, "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
