package entity

import "time"

// Estados de una cita.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment representa una cita en la agenda.
type Appointment struct {
	ID          int64
	CustomerID  *int64
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      *time.Time
	Location    string
	Status      string
	Reminder    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer
}

// IsToday indica si la cita empieza el mismo día calendario que now (en la zona de now).
func (a *Appointment) IsToday(now time.Time) bool {
	s := a.StartsAt.In(now.Location())
	y1, m1, d1 := s.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsOverdue indica una cita ya pasada que sigue programada.
func (a *Appointment) IsOverdue(now time.Time) bool {
	return a.Status == AppointmentScheduled && a.StartsAt.Before(now)
}
