package ports

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

// Repositories conjunto de repositorios atados a una misma lectura/transacción.
type Repositories struct {
	Categories  repository.CategoryRepository
	Courses     repository.CourseRepository
	Enrollments repository.EnrollmentRepository
	Users       repository.UserRepository
	Assessments repository.AssessmentRepository
	Sessions    repository.SessionRepository
}

// TxRunner ejecuta fn dentro de una transacción del store, pasando repositorios atados a ella.
// Si fn devuelve error nada de lo escrito es visible: todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
