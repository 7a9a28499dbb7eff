package domain

import (
	"time"

	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled treatment appointment
type Appointment struct {
	ID     string // UUID
	UserID int64  // GuestUserID для записей без аккаунта

	ServiceID int64
	Date      time.Time // календарная дата, без времени
	StartTime types.TimeString
	Status    AppointmentStatus

	// Denormalized service data for history
	ServiceName            string
	ServicePrice           float64
	ServiceDurationMinutes int

	// Contact data of the booking party
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Notes *string

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment status permits cancellation
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are valid
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// StartsAt returns the full start instant of the appointment in loc.
// Некорректное StartTime трактуется как полночь.
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	minutes, err := a.StartTime.Minutes()
	if err != nil {
		minutes = 0
	}
	day := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, loc)
	return day.Add(time.Duration(minutes) * time.Minute)
}

// EndTime returns the time-of-day at which the appointment finishes
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.ServiceDurationMinutes)
}

// CanTransitionTo validates the forward-only status machine:
// pending -> confirmed -> completed; pending|confirmed -> cancelled.
// Терминальные статусы (cancelled, completed) переходов не имеют.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.IsTerminal() {
		return false
	}

	switch next {
	case StatusConfirmed:
		return a.Status == StatusPending
	case StatusCompleted:
		return a.Status == StatusPending || a.Status == StatusConfirmed
	case StatusCancelled:
		return a.CanBeCancelled()
	default:
		return false
	}
}
