// Package catalog registro de categorías: nombres únicos sin distinguir mayúsculas
// y borrado bloqueado mientras alguna formación las use.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/formaciones-api/internal/application/course"
	"github.com/jhoicas/formaciones-api/internal/application/dto"
	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// UseCase casos de uso del registro de categorías.
type UseCase struct {
	repos ports.Repositories
	tx    ports.TxRunner
	now   func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos ports.Repositories, tx ports.TxRunner) *UseCase {
	return &UseCase{repos: repos, tx: tx, now: time.Now}
}

// FoldName clave de comparación de nombres: recortado y con plegado de mayúsculas Unicode.
func FoldName(name string) string {
	// un Caser tiene estado: uno por llamada
	return cases.Fold().String(strings.TrimSpace(name))
}

// Create da de alta una categoría. Nombre vacío -> ValidationError; repetido -> DuplicateNameError.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	category := &entity.Category{ID: id.String(), Name: name, CreatedAt: now, UpdatedAt: now}

	err = uc.tx.Run(ctx, func(r ports.Repositories) error {
		if err := checkDuplicate(ctx, r, name, ""); err != nil {
			return err
		}
		if err := reserve(ctx, r, name, category.ID); err != nil {
			return err
		}
		return r.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Rename cambia el nombre con el mismo control de duplicados, excluyendo la propia categoría.
func (uc *UseCase) Rename(ctx context.Context, id string, in dto.RenameCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	var category *entity.Category
	err := uc.tx.Run(ctx, func(r ports.Repositories) error {
		c, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFoundError("categoría", id)
		}
		if err := checkDuplicate(ctx, r, name, id); err != nil {
			return err
		}
		oldKey, newKey := FoldName(c.Name), FoldName(name)
		if oldKey != newKey {
			if err := reserve(ctx, r, name, id); err != nil {
				return err
			}
			if err := r.Categories.ReleaseName(ctx, oldKey); err != nil {
				return err
			}
		}
		c.Name = name
		c.UpdatedAt = uc.now()
		if err := r.Categories.Update(ctx, c); err != nil {
			return err
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina la categoría si ninguna formación la referencia.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r ports.Repositories) error {
		c, err := r.Categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFoundError("categoría", id)
		}
		n, err := r.Courses.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.CategoryInUseError{CategoryID: id, Courses: n}
		}
		if err := r.Categories.ReleaseName(ctx, FoldName(c.Name)); err != nil {
			return err
		}
		return r.Categories.Delete(ctx, id)
	})
}

// Get obtiene una categoría.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("categoría", id)
	}
	return toCategoryResponse(c), nil
}

// List todas las categorías en orden de creación.
func (uc *UseCase) List(ctx context.Context) (*dto.CategoryListResponse, error) {
	list, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items}, nil
}

// ListCourses copias desnormalizadas (validadas o publicadas) de la categoría.
func (uc *UseCase) ListCourses(ctx context.Context, id string) (*dto.CourseListResponse, error) {
	c, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("categoría", id)
	}
	copies, err := uc.repos.Categories.ListCourseCopies(ctx, id)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CourseResponse, 0, len(copies))
	for _, cp := range copies {
		items = append(items, *course.ToResponse(cp))
	}
	return &dto.CourseListResponse{Items: items, Total: len(items)}, nil
}

// checkDuplicate recorre las categorías existentes; cubre datos anteriores al índice de nombres.
func checkDuplicate(ctx context.Context, r ports.Repositories, name, selfID string) error {
	list, err := r.Categories.List(ctx)
	if err != nil {
		return err
	}
	key := FoldName(name)
	for _, c := range list {
		if c.ID != selfID && FoldName(c.Name) == key {
			return &domain.DuplicateNameError{Name: name, ExistingID: c.ID}
		}
	}
	return nil
}

func reserve(ctx context.Context, r ports.Repositories, name, id string) error {
	if err := r.Categories.ReserveName(ctx, FoldName(name), id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return &domain.DuplicateNameError{Name: name}
		}
		return err
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
