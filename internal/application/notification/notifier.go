// Package notification traduce los eventos de ciclo de vida en correos.
// Un fallo de envío se informa como DispatchError y nunca revierte la transición.
package notification

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/formaciones-api/internal/application/ports"
	"github.com/jhoicas/formaciones-api/internal/domain"
	"github.com/jhoicas/formaciones-api/internal/domain/entity"
	"github.com/jhoicas/formaciones-api/internal/domain/repository"
)

// Notifier suscriptor del bus de eventos.
type Notifier struct {
	users  repository.UserRepository
	mailer ports.MailDispatcher
	log    zerolog.Logger
}

// NewNotifier construye el suscriptor.
func NewNotifier(users repository.UserRepository, mailer ports.MailDispatcher, log zerolog.Logger) *Notifier {
	return &Notifier{users: users, mailer: mailer, log: log}
}

// Message asunto y cuerpo de un correo.
type Message struct {
	Subject string
	Body    string
}

// Compose arma el mensaje para el evento; ok=false si el evento no se notifica.
func Compose(evt entity.LifecycleEvent, recipient *entity.User) (Message, bool) {
	name := recipient.FullName()
	switch evt.Type {
	case entity.EventCoursePreValidated:
		return Message{
			Subject: "Tu formación fue pre-validada",
			Body: fmt.Sprintf("Hola %s,\n\ntu formación \"%s\" fue pre-validada. "+
				"Completa los detalles pendientes (fechas, duración, precio y modalidad) para continuar con la validación.", name, evt.Title),
		}, true
	case entity.EventCourseRejected:
		return Message{
			Subject: "Tu formación fue rechazada",
			Body:    fmt.Sprintf("Hola %s,\n\nlamentamos informarte que tu formación \"%s\" fue rechazada.", name, evt.Title),
		}, true
	case entity.EventCourseValidated:
		return Message{
			Subject: "Tu formación fue validada",
			Body:    fmt.Sprintf("Hola %s,\n\ntu formación \"%s\" fue validada y pronto será publicada.", name, evt.Title),
		}, true
	case entity.EventCoursePublished:
		return Message{
			Subject: "Tu formación está publicada",
			Body:    fmt.Sprintf("Hola %s,\n\ntu formación \"%s\" ya está publicada y abierta a inscripciones.", name, evt.Title),
		}, true
	case entity.EventEnrollmentConfirmed:
		return Message{
			Subject: "Inscripción confirmada",
			Body:    fmt.Sprintf("Hola %s,\n\ntu inscripción a \"%s\" fue confirmada.", name, evt.Title),
		}, true
	case entity.EventEnrollmentDeclined:
		return Message{
			Subject: "Inscripción no aceptada",
			Body:    fmt.Sprintf("Hola %s,\n\ntu inscripción a \"%s\" no fue aceptada.", name, evt.Title),
		}, true
	case entity.EventUserStatusChanged:
		switch evt.Status {
		case entity.UserStatusActive:
			return Message{Subject: "Tu cuenta está activa", Body: fmt.Sprintf("Hola %s,\n\ntu cuenta fue activada.", name)}, true
		case entity.UserStatusBlocked:
			return Message{Subject: "Tu cuenta fue bloqueada", Body: fmt.Sprintf("Hola %s,\n\ntu cuenta fue bloqueada por un administrador.", name)}, true
		}
	}
	return Message{}, false
}

// Handle busca al destinatario y envía el correo. Sin destinatario conocido no hace nada.
func (n *Notifier) Handle(ctx context.Context, evt entity.LifecycleEvent) error {
	if evt.RecipientID == "" {
		n.log.Debug().Str("event_type", string(evt.Type)).Str("entity_id", evt.EntityID).Msg("evento sin destinatario")
		return nil
	}
	u, err := n.users.GetByID(ctx, evt.RecipientID)
	if err != nil {
		return fmt.Errorf("notifier: buscar destinatario: %w", err)
	}
	if u == nil || u.Email == "" {
		n.log.Warn().Str("recipient_id", evt.RecipientID).Str("event_type", string(evt.Type)).Msg("destinatario desconocido, notificación omitida")
		return nil
	}
	msg, ok := Compose(evt, u)
	if !ok {
		return nil
	}
	if err := n.mailer.Send(ctx, u.Email, msg.Subject, msg.Body); err != nil {
		return &domain.DispatchError{To: u.Email, Err: err}
	}
	n.log.Debug().Str("to", u.Email).Str("event_type", string(evt.Type)).Msg("notificación enviada")
	return nil
}
