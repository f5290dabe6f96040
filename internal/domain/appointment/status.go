package appointment

import "github.com/BruksfildServices01/headspa-scheduler/internal/httperr"

// ===============================
// Status do agendamento
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Status para os quais um admin pode mover um agendamento.
var adminTargets = map[Status]bool{
	StatusConfirmed:  true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// ===============================
// Validações
// ===============================

func InitialStatus() Status {
	return StatusPending
}

// CanCancel define se um agendamento ainda pode ser cancelado
func CanCancel(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrValidation(
			"invalid_state",
			"Ce rendez-vous est déjà "+label(current)+".",
		)
	}
	return nil
}

// CanTransition valida uma mudança de status feita pelo admin
func CanTransition(from, to Status) error {
	if !adminTargets[to] {
		return httperr.ErrValidation("invalid_status", "Statut invalide.").
			WithField("status", "doit être confirmed, in_progress, completed ou cancelled")
	}
	if from.IsTerminal() {
		return httperr.ErrValidation(
			"invalid_state",
			"Ce rendez-vous est déjà "+label(from)+".",
		)
	}
	return nil
}

func label(s Status) string {
	switch s {
	case StatusCancelled:
		return "annulé"
	case StatusCompleted:
		return "terminé"
	default:
		return string(s)
	}
}
