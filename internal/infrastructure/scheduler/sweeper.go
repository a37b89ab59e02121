// Package scheduler tareas periódicas (cron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ExpirySweeper archiva las formaciones publicadas cuya fecha de fin ya pasó.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Sweeper ejecuta el barrido de expiración según una expresión cron.
type Sweeper struct {
	cron    *cron.Cron
	job     ExpirySweeper
	log     zerolog.Logger
	timeout time.Duration
}

// NewSweeper registra el barrido con la expresión dada (ej. "@every 1h", "0 3 * * *").
func NewSweeper(spec string, job ExpirySweeper, log zerolog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(),
		job:     job,
		log:     log,
		timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("scheduler: expresión %q: %w", spec, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.Info().Msg("barrido de formaciones expiradas iniciado")
}

// Stop detiene el cron y espera a que termine una ejecución en curso.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// RunNow ejecuta un barrido fuera de calendario y devuelve cuántas formaciones archivó.
func (s *Sweeper) RunNow(ctx context.Context) (int, error) {
	return s.job.SweepExpired(ctx)
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := s.RunNow(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de expiración fallido")
		return
	}
	if n > 0 {
		s.log.Info().Int("archived", n).Msg("formaciones expiradas archivadas")
	}
}
