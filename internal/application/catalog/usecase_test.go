package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/formaciones-api/internal/application/catalog"
	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/docstore"
)

func newUseCase(t *testing.T) (*catalog.UseCase, ports.Repositories) {
	t.Helper()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	return catalog.NewUseCase(repos, docstore.NewTxRunner(store)), repos
}

func create(t *testing.T, uc *catalog.UseCase, name string) *dto.CategoryResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return out
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestCreate_NombreRecortado(t *testing.T) {
	uc, _ := newUseCase(t)
	out := create(t, uc, "  Salud  ")
	assert.Equal(t, "Salud", out.Name)
	assert.NotEmpty(t, out.ID)
}

func TestCreate_NombreVacioEsValidationError(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_DuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc, _ := newUseCase(t)
	first := create(t, uc, "Ética")

	_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: "ÉTICA"})
	var dup *domain.DuplicateNameError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, first.ID, dup.ExistingID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestCreate_ConcurrenteSoloUnoGana(t *testing.T) {
	uc, _ := newUseCase(t)
	names := []string{"Idiomas", "IDIOMAS", "idiomas", "Idiomas ", "iDiOmAs", "Idiomas"}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for _, n := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: name})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, domain.ErrDuplicate):
				dups++
			}
		}(n)
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, len(names)-1, dups)
}

func TestList_OrdenDeCreacion(t *testing.T) {
	uc, _ := newUseCase(t)
	create(t, uc, "Zoología")
	create(t, uc, "Arte")
	create(t, uc, "Música")

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "Zoología", list.Items[0].Name)
	assert.Equal(t, "Arte", list.Items[1].Name)
	assert.Equal(t, "Música", list.Items[2].Name)
}

// ─── Rename ──────────────────────────────────────────────────────────────────

func TestRename_MismoNombreOtroCasoPermitido(t *testing.T) {
	uc, _ := newUseCase(t)
	c := create(t, uc, "salud")

	out, err := uc.Rename(context.Background(), c.ID, dto.RenameCategoryRequest{Name: "Salud"})
	require.NoError(t, err)
	assert.Equal(t, "Salud", out.Name)
}

func TestRename_ANombreDeOtraEsDuplicado(t *testing.T) {
	uc, _ := newUseCase(t)
	create(t, uc, "Salud")
	c := create(t, uc, "Idiomas")

	_, err := uc.Rename(context.Background(), c.ID, dto.RenameCategoryRequest{Name: "SALUD"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Idiomas", got.Name)
}

func TestRename_LiberaElNombreAnterior(t *testing.T) {
	uc, _ := newUseCase(t)
	c := create(t, uc, "Salud")
	_, err := uc.Rename(context.Background(), c.ID, dto.RenameCategoryRequest{Name: "Bienestar"})
	require.NoError(t, err)

	create(t, uc, "salud")
}

func TestRename_GetDevuelveNuevoNombreMismoID(t *testing.T) {
	uc, _ := newUseCase(t)
	c := create(t, uc, "Web Development")

	_, err := uc.Rename(context.Background(), c.ID, dto.RenameCategoryRequest{Name: "Web Dev"})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Web Dev", got.Name)
}

func TestRename_Inexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Rename(context.Background(), "nope", dto.RenameCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Delete ──────────────────────────────────────────────────────────────────

func TestDelete_EnUsoNoBorra(t *testing.T) {
	uc, repos := newUseCase(t)
	c := create(t, uc, "Salud")
	require.NoError(t, repos.Courses.Create(context.Background(), &entity.Course{
		ID: "course1", Title: "Primeros auxilios", CategoryID: c.ID, Status: entity.CourseStatusPending,
	}))

	err := uc.Delete(context.Background(), c.ID)
	var inUse *domain.CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 1, inUse.Courses)

	_, err = uc.Get(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestDelete_LiberaElNombre(t *testing.T) {
	uc, _ := newUseCase(t)
	c := create(t, uc, "Salud")
	require.NoError(t, uc.Delete(context.Background(), c.ID))

	_, err := uc.Get(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	create(t, uc, "SALUD")
}

func TestDelete_Inexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	assert.ErrorIs(t, uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

// afterCountTx ejecuta onCount una sola vez, dentro de la transacción del borrado,
// justo después de contar las formaciones de la categoría.
type afterCountTx struct {
	inner   ports.TxRunner
	onCount func()
	once    sync.Once
}

func (h *afterCountTx) Run(ctx context.Context, fn func(ports.Repositories) error) error {
	return h.inner.Run(ctx, func(r ports.Repositories) error {
		r.Courses = &countingCourses{CourseRepository: r.Courses, after: func() { h.once.Do(h.onCount) }}
		return fn(r)
	})
}

type countingCourses struct {
	repository.CourseRepository
	after func()
}

func (c *countingCourses) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	n, err := c.CourseRepository.CountByCategory(ctx, categoryID)
	c.after()
	return n, err
}

func TestDelete_AltaConcurrenteNoDejaFormacionHuerfana(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	tx := docstore.NewTxRunner(store)
	courses := course.NewUseCase(repos, tx, nil, zerolog.Nop())
	cat := create(t, catalog.NewUseCase(repos, tx), "Salud")

	submitErr := make(chan error, 1)
	hook := &afterCountTx{inner: tx, onCount: func() {
		go func() {
			_, err := courses.Submit(ctx, dto.SubmitCourseRequest{
				Title: "Primeros auxilios", CategoryID: cat.ID, Capacity: 5,
			})
			submitErr <- err
		}()
		// margen para que el alta intente colarse entre el recuento y el borrado
		time.Sleep(30 * time.Millisecond)
	}}

	require.NoError(t, catalog.NewUseCase(repos, hook).Delete(ctx, cat.ID))

	select {
	case err := <-submitErr:
		assert.ErrorIs(t, err, domain.ErrNotFound)
	case <-time.After(2 * time.Second):
		t.Fatal("el alta no terminó")
	}
	n, err := repos.Courses.CountByCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete_TrasAltaQuedaEnUso(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	repos := docstore.NewRepositories(store)
	tx := docstore.NewTxRunner(store)
	uc := catalog.NewUseCase(repos, tx)
	cat := create(t, uc, "Salud")

	_, err := course.NewUseCase(repos, tx, nil, zerolog.Nop()).Submit(ctx, dto.SubmitCourseRequest{
		Title: "Primeros auxilios", CategoryID: cat.ID,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, cat.ID), domain.ErrCategoryInUse)
}

// ─── ListCourses ─────────────────────────────────────────────────────────────

func TestListCourses_DevuelveCopias(t *testing.T) {
	uc, repos := newUseCase(t)
	c := create(t, uc, "Salud")
	require.NoError(t, repos.Categories.PutCourseCopy(context.Background(), &entity.Course{
		ID: "course1", Title: "Primeros auxilios", CategoryID: c.ID, Status: entity.CourseStatusPublished,
	}))

	out, err := uc.ListCourses(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "Primeros auxilios", out.Items[0].Title)
	assert.Equal(t, "published", out.Items[0].Status)

	_, err = uc.ListCourses(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, catalog.FoldName("ÉTICA "), catalog.FoldName("ética"))
	assert.NotEqual(t, catalog.FoldName("Arte"), catalog.FoldName("Artes"))
}
