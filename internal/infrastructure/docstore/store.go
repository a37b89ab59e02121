// Package docstore implementa el almacén documental direccionado por rutas
// (categories/{id}, courses/{id}, enrollments/{userId}/{id}, ...) y los
// repositorios de dominio construidos sobre él.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/formaciones-api/internal/domain"
)

// ErrVersionConflict escritura condicional rechazada: la versión ya no es la esperada.
var ErrVersionConflict = fmt.Errorf("docstore: versión inesperada: %w", domain.ErrConflict)

// Document valor JSON almacenado bajo una clave.
type Document struct {
	Key       string
	Data      json.RawMessage
	Version   int64 // empieza en 1 y aumenta en cada escritura
	UpdatedAt time.Time
}

// Ops operaciones puntuales y de recorrido. Get devuelve (nil, nil) si la clave no existe.
type Ops interface {
	Get(ctx context.Context, key string) (*Document, error)
	// GetForUpdate bloquea la clave hasta el fin de la transacción (fuera de ella equivale a Get).
	GetForUpdate(ctx context.Context, key string) (*Document, error)
	// Put escribe sin condición (last write wins) y devuelve la nueva versión.
	Put(ctx context.Context, key string, data []byte) (int64, error)
	// PutIf escribe solo si la versión actual es `version`; 0 exige que la clave no exista.
	PutIf(ctx context.Context, key string, data []byte, version int64) (int64, error)
	Delete(ctx context.Context, key string) error
	// Scan devuelve todos los documentos cuya clave empieza por prefix, ordenados por clave.
	Scan(ctx context.Context, prefix string) ([]*Document, error)
}

// Store almacén con transacciones.
type Store interface {
	Ops
	RunTx(ctx context.Context, fn func(tx Ops) error) error
}
