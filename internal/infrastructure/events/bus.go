// Package events bus en proceso para los eventos de ciclo de vida.
// Publish nunca bloquea: los eventos se encolan en un canal acotado y
// un grupo de workers los entrega a los suscriptores.
package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
)

var _ ports.EventPublisher = (*Bus)(nil)

// HandlerTimeout tiempo máximo por suscriptor y evento, desacoplado del request que lo originó.
const HandlerTimeout = 30 * time.Second

// Handler suscriptor. Un error solo se registra en el log.
type Handler func(ctx context.Context, evt entity.LifecycleEvent) error

type subscriber struct {
	name string
	fn   Handler
}

// Bus implementación de ports.EventPublisher.
type Bus struct {
	log     zerolog.Logger
	queue   chan entity.LifecycleEvent
	timeout time.Duration

	mu     sync.RWMutex
	subs   []subscriber
	closed bool

	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// NewBus arranca `workers` goroutines sobre una cola de `buffer` eventos.
func NewBus(buffer, workers int, log zerolog.Logger) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	b := &Bus{
		log:     log,
		queue:   make(chan entity.LifecycleEvent, buffer),
		timeout: HandlerTimeout,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b
}

// Subscribe registra un suscriptor; recibe los eventos publicados a partir de ahora.
func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscriber{name: name, fn: fn})
}

// Publish encola el evento. Con la cola llena o el bus cerrado el evento se descarta.
func (b *Bus) Publish(_ context.Context, evt entity.LifecycleEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.drop(evt, "bus cerrado")
		return
	}
	select {
	case b.queue <- evt:
	default:
		b.drop(evt, "cola llena")
	}
}

// Dropped cuántos eventos se descartaron.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }

// Close deja de aceptar eventos y espera a que los workers vacíen la cola.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Bus) drop(evt entity.LifecycleEvent, reason string) {
	b.dropped.Add(1)
	b.log.Warn().Str("event_type", string(evt.Type)).Str("entity_id", evt.EntityID).Str("reason", reason).Msg("evento descartado")
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for evt := range b.queue {
		b.mu.RLock()
		subs := append([]subscriber(nil), b.subs...)
		b.mu.RUnlock()
		for _, s := range subs {
			b.deliver(s, evt)
		}
	}
}

func (b *Bus) deliver(s subscriber, evt entity.LifecycleEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("subscriber", s.name).Str("event_type", string(evt.Type)).
				Err(fmt.Errorf("panic: %v", r)).Msg("suscriptor abortado")
		}
	}()
	if err := s.fn(ctx, evt); err != nil {
		b.log.Warn().Err(err).Str("subscriber", s.name).Str("event_type", string(evt.Type)).
			Str("entity_id", evt.EntityID).Msg("fallo al procesar evento")
	}
}
