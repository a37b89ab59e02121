package ports

import "context"

// MailDispatcher puerto de salida hacia el servicio de correo.
// Cualquier error se trata como no fatal por quien lo invoca.
type MailDispatcher interface {
	Send(ctx context.Context, to, subject, body string) error
}
