// Package mail despachadores de correo: relay HTTP y, sin relay configurado, log.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/application/ports"
)

var (
	_ ports.MailDispatcher = (*RelayDispatcher)(nil)
	_ ports.MailDispatcher = (*LogDispatcher)(nil)
)

// relayRequest cuerpo que espera el servicio /send-email.
type relayRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	From    string `json:"from,omitempty"`
}

// RelayDispatcher envía cada correo con un POST JSON al relay.
type RelayDispatcher struct {
	client *resty.Client
	url    string
	from   string
}

// NewRelayDispatcher construye el cliente HTTP del relay.
func NewRelayDispatcher(url, from string, timeout time.Duration) *RelayDispatcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &RelayDispatcher{client: client, url: url, from: from}
}

// Send devuelve error si el relay no responde o responde con un estado >= 400.
func (d *RelayDispatcher) Send(ctx context.Context, to, subject, body string) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(relayRequest{To: to, Subject: subject, Text: body, From: d.from}).
		Post(d.url)
	if err != nil {
		return fmt.Errorf("mail relay: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// LogDispatcher registra el correo en lugar de enviarlo (desarrollo).
type LogDispatcher struct {
	log zerolog.Logger
}

// NewLogDispatcher construye el despachador de desarrollo.
func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Send nunca falla.
func (d *LogDispatcher) Send(_ context.Context, to, subject, body string) error {
	d.log.Info().Str("to", to).Str("subject", subject).Int("body_len", len(body)).Msg("relay de correo no configurado, correo no enviado")
	return nil
}
