package docstore

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del store.
type TxRunner struct {
	store Store
}

// NewTxRunner construye el runner con el store.
func NewTxRunner(store Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return r.store.RunTx(ctx, func(tx Ops) error {
		return fn(NewRepositories(tx))
	})
}

// NewRepositories construye todos los repositorios sobre las mismas Ops.
func NewRepositories(ops Ops) ports.Repositories {
	return ports.Repositories{
		Categories:  NewCategoryRepository(ops),
		Courses:     NewCourseRepository(ops),
		Enrollments: NewEnrollmentRepository(ops),
		Users:       NewUserRepository(ops),
		Assessments: NewAssessmentRepository(ops),
		Sessions:    NewSessionRepository(ops),
	}
}
