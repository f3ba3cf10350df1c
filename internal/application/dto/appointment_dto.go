package dto

import "time"

// CreateAppointmentRequest entrada para crear o reemplazar una cita.
type CreateAppointmentRequest struct {
	CustomerID  *int64     `json:"customer_id" validate:"omitempty,min=1"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    string     `json:"location" validate:"max=200"`
	Reminder    bool       `json:"reminder"`
}

// UpdateAppointmentRequest el estado solo cambia vía /status.
type UpdateAppointmentRequest = CreateAppointmentRequest

// AppointmentFilterRequest query de GET /api/appointments.
type AppointmentFilterRequest struct {
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
	Status string     `query:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	PageRequest
}

// AppointmentResponse salida de una cita.
type AppointmentResponse struct {
	ID          int64             `json:"id"`
	CustomerID  *int64            `json:"customer_id,omitempty"`
	Customer    *CustomerResponse `json:"customer,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      *time.Time        `json:"ends_at,omitempty"`
	Location    string            `json:"location"`
	Status      string            `json:"status"`
	Reminder    bool              `json:"reminder"`
	IsToday     bool              `json:"is_today"`
	IsOverdue   bool              `json:"is_overdue"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AppointmentListResponse lista paginada de citas.
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
