package email

import (
	"fmt"
	"time"
)

// Sender abstrae el transporte de correo saliente.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Notifier compone los correos del ciclo de vida de cuentas e invitaciones.
type Notifier struct {
	sender Sender
	// AcceptURL es la base del link de aceptación de invitaciones; el token
	// se agrega como query param.
	AcceptURL string
	// VerifyURL es la base del link de verificación de cuentas nuevas.
	VerifyURL string
}

// NewNotifier crea el notifier sobre el sender dado.
func NewNotifier(sender Sender, acceptURL, verifyURL string) *Notifier {
	return &Notifier{sender: sender, AcceptURL: acceptURL, VerifyURL: verifyURL}
}

// SendVerification envía el correo de verificación de una cuenta recién
// registrada con su token.
func (n *Notifier) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s?token=%s", n.VerifyURL, token)
	subject := "Verificá tu cuenta"
	text := fmt.Sprintf("Para activar tu cuenta, verificá tu email en: %s", link)
	html := fmt.Sprintf(
		`<p>Para activar tu cuenta, verificá tu email.</p><p><a href="%s">Verificar cuenta</a></p>`,
		link)
	return n.sender.Send(to, subject, html, text)
}

// SendInvitation envía el correo de invitación con su token de aceptación.
func (n *Notifier) SendInvitation(to, role, token string) error {
	link := fmt.Sprintf("%s?token=%s", n.AcceptURL, token)
	subject := "Fuiste invitado"
	text := fmt.Sprintf("Fuiste invitado con el rol %s. Aceptá la invitación en: %s", role, link)
	html := fmt.Sprintf(
		`<p>Fuiste invitado con el rol <b>%s</b>.</p><p><a href="%s">Aceptar invitación</a></p>`,
		role, link)
	return n.sender.Send(to, subject, html, text)
}

// SendDeletionScheduled avisa que la cuenta fue borrada y cuándo se
// eliminará definitivamente.
func (n *Notifier) SendDeletionScheduled(to string, dueAt time.Time) error {
	subject := "Tu cuenta fue desactivada"
	text := fmt.Sprintf(
		"Tu cuenta fue desactivada. Se eliminará definitivamente el %s. Si fue un error, podés restaurarla antes de esa fecha.",
		dueAt.Format("02/01/2006"))
	html := fmt.Sprintf(
		`<p>Tu cuenta fue desactivada. Se eliminará definitivamente el <b>%s</b>.</p><p>Si fue un error, podés restaurarla antes de esa fecha.</p>`,
		dueAt.Format("02/01/2006"))
	return n.sender.Send(to, subject, html, text)
}

// SendRestored avisa que la cuenta fue restaurada.
func (n *Notifier) SendRestored(to string) error {
	subject := "Tu cuenta fue restaurada"
	text := "Tu cuenta y todos tus datos fueron restaurados."
	html := "<p>Tu cuenta y todos tus datos fueron restaurados.</p>"
	return n.sender.Send(to, subject, html, text)
}
