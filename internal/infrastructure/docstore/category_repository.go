package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre el store documental.
type CategoryRepo struct {
	ops Ops
}

// NewCategoryRepository construye el adaptador; ops puede ser el store o una transacción.
func NewCategoryRepository(ops Ops) *CategoryRepo {
	return &CategoryRepo{ops: ops}
}

// Create persiste una categoría nueva (falla si la clave ya existe).
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	data, err := encodeCategory(category)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, categoryKey(category.ID), data, 0)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	category.Version = v
	return nil
}

// GetByID obtiene una categoría; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	d, err := r.ops.Get(ctx, categoryKey(id))
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeCategory(d)
}

// GetForUpdate igual que GetByID pero con la clave bloqueada (SELECT FOR UPDATE en postgres).
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	d, err := r.ops.GetForUpdate(ctx, categoryKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock category: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	return decodeCategory(d)
}

// Update escritura condicional sobre category.Version.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	data, err := encodeCategory(category)
	if err != nil {
		return err
	}
	v, err := r.ops.PutIf(ctx, categoryKey(category.ID), data, category.Version)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	category.Version = v
	return nil
}

// List devuelve las categorías en orden de creación (los IDs v7 ordenan por tiempo).
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	docs, err := r.ops.Scan(ctx, categoriesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var list []*entity.Category
	for _, d := range docs {
		if !isDirectChild(categoriesPrefix, d.Key) {
			continue // copias desnormalizadas bajo categories/{id}/courses/
		}
		c, err := decodeCategory(d)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}

// Delete elimina la categoría y cualquier copia residual bajo ella.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	copies, err := r.ops.Scan(ctx, categoryCoursesPrefix(id))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	for _, d := range copies {
		if err := r.ops.Delete(ctx, d.Key); err != nil {
			return fmt.Errorf("delete category copy: %w", err)
		}
	}
	if err := r.ops.Delete(ctx, categoryKey(id)); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ReserveName crea el índice category-names/{folded}. Si ya apunta a otra categoría devuelve ErrConflict.
func (r *CategoryRepo) ReserveName(ctx context.Context, folded, categoryID string) error {
	key := categoryNameKey(folded)
	d, err := r.ops.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reserve category name: %w", err)
	}
	if d != nil {
		var idx nameIndexRecord
		if err := json.Unmarshal(d.Data, &idx); err == nil && idx.CategoryID == categoryID {
			return nil
		}
		return domain.ErrConflict
	}
	data, _ := json.Marshal(nameIndexRecord{CategoryID: categoryID})
	if _, err := r.ops.PutIf(ctx, key, data, 0); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrConflict
		}
		return fmt.Errorf("reserve category name: %w", err)
	}
	return nil
}

// ReleaseName borra la entrada del índice de nombres.
func (r *CategoryRepo) ReleaseName(ctx context.Context, folded string) error {
	if err := r.ops.Delete(ctx, categoryNameKey(folded)); err != nil {
		return fmt.Errorf("release category name: %w", err)
	}
	return nil
}

// PutCourseCopy escribe (o reescribe) la copia desnormalizada bajo la categoría de la formación.
func (r *CategoryRepo) PutCourseCopy(ctx context.Context, course *entity.Course) error {
	data, err := encodeCourse(course)
	if err != nil {
		return err
	}
	if _, err := r.ops.Put(ctx, categoryCourseKey(course.CategoryID, course.ID), data); err != nil {
		return fmt.Errorf("write category course copy: %w", err)
	}
	return nil
}

// DeleteCourseCopy elimina la copia de una formación bajo una categoría.
func (r *CategoryRepo) DeleteCourseCopy(ctx context.Context, categoryID, courseID string) error {
	if err := r.ops.Delete(ctx, categoryCourseKey(categoryID, courseID)); err != nil {
		return fmt.Errorf("delete category course copy: %w", err)
	}
	return nil
}

// ListCourseCopies lista las copias desnormalizadas de una categoría.
func (r *CategoryRepo) ListCourseCopies(ctx context.Context, categoryID string) ([]*entity.Course, error) {
	prefix := categoryCoursesPrefix(categoryID)
	docs, err := r.ops.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list category course copies: %w", err)
	}
	var list []*entity.Course
	for _, d := range docs {
		if !isDirectChild(prefix, d.Key) {
			continue
		}
		c, err := decodeCourse(d)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, nil
}
