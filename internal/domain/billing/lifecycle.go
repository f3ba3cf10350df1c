package billing

import (
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// Lifecycle máquina de estados finita: tabla explícita de transiciones permitidas.
// En modo permisivo cualquier estado conocido es alcanzable desde cualquier otro.
type Lifecycle struct {
	states      map[string]struct{}
	transitions map[string]map[string]struct{}
	strict      bool
}

func newLifecycle(strict bool, states []string, edges [][2]string) *Lifecycle {
	l := &Lifecycle{
		states:      make(map[string]struct{}, len(states)),
		transitions: make(map[string]map[string]struct{}),
		strict:      strict,
	}
	for _, s := range states {
		l.states[s] = struct{}{}
	}
	for _, e := range edges {
		if l.transitions[e[0]] == nil {
			l.transitions[e[0]] = make(map[string]struct{})
		}
		l.transitions[e[0]][e[1]] = struct{}{}
	}
	return l
}

// InvoiceLifecycle draft → issued → paid; draft/issued → voided. paid y voided son terminales.
func InvoiceLifecycle(strict bool) *Lifecycle {
	return newLifecycle(strict,
		[]string{entity.InvoiceDraft, entity.InvoiceIssued, entity.InvoicePaid, entity.InvoiceVoided},
		[][2]string{
			{entity.InvoiceDraft, entity.InvoiceIssued},
			{entity.InvoiceIssued, entity.InvoicePaid},
			{entity.InvoiceDraft, entity.InvoiceVoided},
			{entity.InvoiceIssued, entity.InvoiceVoided},
		})
}

// AppointmentLifecycle scheduled → completed | cancelled.
func AppointmentLifecycle(strict bool) *Lifecycle {
	return newLifecycle(strict,
		[]string{entity.AppointmentScheduled, entity.AppointmentCompleted, entity.AppointmentCancelled},
		[][2]string{
			{entity.AppointmentScheduled, entity.AppointmentCompleted},
			{entity.AppointmentScheduled, entity.AppointmentCancelled},
		})
}

// Strict indica si se aplica la tabla de transiciones.
func (l *Lifecycle) Strict() bool { return l.strict }

// Valid indica si el estado existe.
func (l *Lifecycle) Valid(state string) bool {
	_, ok := l.states[state]
	return ok
}

// Check valida el paso from → to. Mismo estado: permitido (no-op).
func (l *Lifecycle) Check(from, to string) error {
	if !l.Valid(to) || !l.Valid(from) {
		return domain.ErrInvalidInput
	}
	if from == to || !l.strict {
		return nil
	}
	if _, ok := l.transitions[from][to]; !ok {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Terminal indica que no hay transiciones de salida en modo estricto.
func (l *Lifecycle) Terminal(state string) bool {
	return l.Valid(state) && len(l.transitions[state]) == 0
}
