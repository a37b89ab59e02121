// Package redisbus réplica de los eventos de ciclo de vida en un canal Redis pub/sub
// para consumidores externos (tiempo real, auditoría).
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/pkg/config"
)

// Publisher publica cada evento serializado en JSON.
type Publisher struct {
	rdb     *goredis.Client
	channel string
	log     zerolog.Logger
}

// NewPublisher conecta con Redis y verifica la conexión con un PING.
func NewPublisher(cfg config.RedisConfig, log zerolog.Logger) (*Publisher, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redisbus: REDIS_ADDR vacío")
	}
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		return nil, fmt.Errorf("redisbus: REDIS_CHANNEL vacío")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisbus: ping: %w", err)
	}

	log.Info().Str("addr", addr).Str("channel", channel).Msg("réplica de eventos en Redis habilitada")
	return &Publisher{rdb: rdb, channel: channel, log: log}, nil
}

// Handle suscriptor del bus de eventos.
func (p *Publisher) Handle(ctx context.Context, evt entity.LifecycleEvent) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("redisbus: marshal: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redisbus: publish %s: %w", evt.Type, err)
	}
	return nil
}

// Channel canal de publicación.
func (p *Publisher) Channel() string { return p.channel }

func (p *Publisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
