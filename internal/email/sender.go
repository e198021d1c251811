package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mingus-outlook/internal/domain"
)

// ErrDisabled indica que no hay proveedor de correo configurado.
var ErrDisabled = errors.New("email sender disabled")

// Recipient es el destinatario de la notificacion diaria.
type Recipient struct {
	Email     string
	FirstName string
}

// Sender entrega el outlook diario por correo. Hay una implementacion por proveedor,
// elegida por configuracion.
type Sender interface {
	SendDailyOutlook(ctx context.Context, to Recipient, outlook domain.DailyOutlook) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendDailyOutlook(_ context.Context, _ Recipient, _ domain.DailyOutlook) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return fmt.Errorf("%w: %s", ErrDisabled, s.reason)
}

// composeOutlook arma asunto y cuerpo en texto plano.
func composeOutlook(to Recipient, o domain.DailyOutlook) (string, string) {
	name := strings.TrimSpace(to.FirstName)
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("Your Daily Outlook for %s", o.Date)

	var b strings.Builder
	fmt.Fprintf(&b, "Good morning, %s!\n\n", name)
	fmt.Fprintf(&b, "Balance score: %d/100\n\n", o.BalanceScore)
	b.WriteString(o.PrimaryInsight)
	b.WriteString("\n\n")
	if len(o.QuickActions) > 0 {
		b.WriteString("Quick actions for today:\n")
		for _, a := range o.QuickActions {
			fmt.Fprintf(&b, "- %s (%d min)\n", a.Title, a.EstimatedMinutes)
		}
		b.WriteString("\n")
	}
	b.WriteString(o.EncouragementMessage)
	b.WriteString("\n\n")
	b.WriteString(o.SurpriseElement)
	b.WriteString("\n\n")
	b.WriteString(o.TomorrowTeaser)
	b.WriteString("\n")
	return subject, b.String()
}

func validateRecipient(to Recipient) error {
	if strings.TrimSpace(to.Email) == "" {
		return fmt.Errorf("to email is required")
	}
	return nil
}
