package ports

import (
	"context"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

// EventPublisher recibe los eventos de ciclo de vida después del commit.
// Publish no bloquea ni falla: la transición ya está confirmada.
type EventPublisher interface {
	Publish(ctx context.Context, evt entity.LifecycleEvent)
}
