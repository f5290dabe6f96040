package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const sendTimeout = 15 * time.Second

// Notifier envia os avisos de agendamento por e-mail em background.
type Notifier struct {
	mailer Mailer
	log    *slog.Logger
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewNotifier(mailer Mailer, log *slog.Logger) *Notifier {
	n := &Notifier{
		mailer: mailer,
		log:    log,
		queue:  make(chan Message, 100),
	}
	n.wg.Add(1)
	go n.worker()
	return n
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for msg := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := n.mailer.Send(ctx, msg); err != nil {
			n.log.Error("notification failed", "to", msg.To, "subject", msg.Subject, "error", err)
		}
		cancel()
	}
}

func (n *Notifier) enqueue(msg Message) {
	if n == nil || msg.To == "" {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.log.Warn("notifier closed, dropping message", "to", msg.To)
		return
	}

	select {
	case n.queue <- msg:
	default:
		n.log.Warn("notification queue full, dropping message", "to", msg.To)
	}
}

func (n *Notifier) AppointmentBooked(ap *models.Appointment) {
	if ap.Client == nil {
		return
	}
	n.enqueue(Message{
		To:      ap.Client.Email,
		Subject: "Votre demande de rendez-vous chez Nana Head Spa",
		HTML: fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Nous avons bien reçu votre demande pour le %s de %s à %s%s. "+
				"Vous recevrez une confirmation dès sa validation.</p>",
			html.EscapeString(ap.Client.FirstName), ap.Date, ap.StartTime, ap.EndTime, formulaSuffix(ap),
		),
	})
}

func (n *Notifier) AppointmentCancelled(ap *models.Appointment) {
	if ap.Client == nil {
		return
	}
	n.enqueue(Message{
		To:      ap.Client.Email,
		Subject: "Annulation de votre rendez-vous chez Nana Head Spa",
		HTML: fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Votre rendez-vous du %s à %s a été annulé.</p>",
			html.EscapeString(ap.Client.FirstName), ap.Date, ap.StartTime,
		),
	})
}

func (n *Notifier) AppointmentStatusChanged(ap *models.Appointment) {
	if ap.Client == nil || ap.Status != "confirmed" {
		return
	}
	n.enqueue(Message{
		To:      ap.Client.Email,
		Subject: "Votre rendez-vous chez Nana Head Spa est confirmé",
		HTML: fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Votre rendez-vous du %s de %s à %s est confirmé.</p>",
			html.EscapeString(ap.Client.FirstName), ap.Date, ap.StartTime, ap.EndTime,
		),
	})
}

func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func formulaSuffix(ap *models.Appointment) string {
	if ap.Formula == nil {
		return ""
	}
	return " (" + html.EscapeString(ap.Formula.Title) + ")"
}
