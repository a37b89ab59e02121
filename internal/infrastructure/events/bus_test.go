package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/infrastructure/events"
)

func TestBus_EntregaATodosYDrenaAlCerrar(t *testing.T) {
	bus := events.NewBus(16, 2, zerolog.Nop())
	var (
		mu  sync.Mutex
		got = map[string]int{}
	)
	handler := func(name string) events.Handler {
		return func(_ context.Context, evt entity.LifecycleEvent) error {
			mu.Lock()
			defer mu.Unlock()
			got[name]++
			return nil
		}
	}
	bus.Subscribe("a", handler("a"))
	bus.Subscribe("b", handler("b"))

	for i := 0; i < 10; i++ {
		bus.Publish(context.Background(), entity.LifecycleEvent{Type: entity.EventCoursePublished})
	}
	bus.Close()

	assert.Equal(t, 10, got["a"])
	assert.Equal(t, 10, got["b"])
	assert.Zero(t, bus.Dropped())
}

func TestBus_ErrorYPanicNoDetienenLaEntrega(t *testing.T) {
	bus := events.NewBus(4, 1, zerolog.Nop())
	var n int
	bus.Subscribe("falla", func(context.Context, entity.LifecycleEvent) error { return errors.New("boom") })
	bus.Subscribe("panic", func(context.Context, entity.LifecycleEvent) error { panic("x") })
	bus.Subscribe("ok", func(context.Context, entity.LifecycleEvent) error { n++; return nil })

	bus.Publish(context.Background(), entity.LifecycleEvent{})
	bus.Publish(context.Background(), entity.LifecycleEvent{})
	bus.Close()
	assert.Equal(t, 2, n)
}

func TestBus_ColaLlenaDescartaSinBloquear(t *testing.T) {
	bus := events.NewBus(1, 1, zerolog.Nop())
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	bus.Subscribe("lento", func(context.Context, entity.LifecycleEvent) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	})

	bus.Publish(context.Background(), entity.LifecycleEvent{}) // lo toma el worker
	<-started
	bus.Publish(context.Background(), entity.LifecycleEvent{}) // ocupa la cola
	bus.Publish(context.Background(), entity.LifecycleEvent{}) // descartado
	assert.Equal(t, uint64(1), bus.Dropped())

	close(release)
	bus.Close()
}

func TestBus_PublicarTrasCerrar(t *testing.T) {
	bus := events.NewBus(1, 1, zerolog.Nop())
	bus.Close()
	bus.Close()
	bus.Publish(context.Background(), entity.LifecycleEvent{})
	assert.Equal(t, uint64(1), bus.Dropped())
}
