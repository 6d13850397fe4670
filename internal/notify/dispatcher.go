package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-agenda/internal/agenda"
	"github.com/example/room-agenda/internal/application"
)

// Mailer sends one notification email.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, params TemplateParams) error
}

const defaultSendTimeout = 30 * time.Second

// Dispatcher fans a booking change out to every non-privileged user and
// summarizes the delivery outcome in Spanish, the language of the audience.
// It satisfies application.Notifier.
type Dispatcher struct {
	mailer  Mailer
	timeout time.Duration
	logger  *slog.Logger
}

// NewDispatcher builds a dispatcher around the given mailer. A zero timeout
// falls back to the default.
func NewDispatcher(mailer Mailer, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{mailer: mailer, timeout: timeout, logger: logger}
}

// Notify sends one email per recipient and returns a status sentence. It
// never returns an error and never panics past its boundary; any failure
// degrades to a status string.
func (d *Dispatcher) Notify(ctx context.Context, action application.NotifyAction, booking application.Booking, users []application.User) (status string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.ErrorContext(ctx, "notification dispatch panicked", "panic", fmt.Sprint(recovered))
			status = "pero ocurrió un error grave al intentar enviar notificaciones."
		}
	}()

	var owner *application.User
	for i := range users {
		if users[i].ID == booking.UserID {
			owner = &users[i]
			break
		}
	}
	if owner == nil {
		return "Usuario de la reserva no encontrado."
	}

	if d.mailer == nil || !d.mailer.Configured() {
		return "AVISO: Las notificaciones por email están desactivadas."
	}

	recipients := make([]application.User, 0, len(users))
	for _, u := range users {
		if !u.Privileged && strings.TrimSpace(u.Email) != "" {
			recipients = append(recipients, u)
		}
	}
	if len(recipients) == 0 {
		return "No hay usuarios para notificar."
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	params := TemplateParams{
		Action:      actionLabel(action),
		UserName:    fmt.Sprintf("%s, %s", owner.LastName, owner.FirstName),
		UserSector:  owner.Sector,
		BookingDay:  formatDay(booking.Date),
		BookingTime: formatTimeRange(booking.StartTime, booking.Duration),
	}

	sent := 0
	for _, recipient := range recipients {
		params.ToEmail = recipient.Email
		err := d.mailer.Send(sendCtx, params)
		if err == nil {
			sent++
			continue
		}
		if errors.Is(err, ErrQuotaExceeded) {
			d.logger.WarnContext(ctx, "email quota exceeded, aborting remaining notifications",
				"sent", sent, "total", len(recipients))
			return "pero se ha alcanzado la cuota de envío de emails."
		}
		d.logger.ErrorContext(ctx, "failed to send notification email",
			"recipient", recipient.Email, "error", err)
	}

	if sent == 0 {
		return "pero falló el envío de todas las notificaciones."
	}
	return fmt.Sprintf("Notificaciones enviadas a %d de %d usuarios.", sent, len(recipients))
}

func actionLabel(action application.NotifyAction) string {
	switch action {
	case application.ActionCreated:
		return "creada"
	case application.ActionModified:
		return "modificada"
	case application.ActionDeleted:
		return "eliminada"
	default:
		return string(action)
	}
}

// formatDay turns the stored YYYY-MM-DD form into dd/mm/yyyy for the email
// body.
func formatDay(date string) string {
	day, err := agenda.ParseDate(date)
	if err != nil {
		return date
	}
	return day.Format("02/01/2006")
}

func formatTimeRange(startTime, duration int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", startTime, startTime+duration)
}
