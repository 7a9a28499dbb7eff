package domain

import "github.com/namstudio/NAM-AppointmentService/pkg/types"

// TimeSlot кандидат времени начала записи на конкретную дату.
// Вычисляемое представление: пересчитывается на каждый запрос и не хранится.
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
	AppointmentID   *string // id активной записи, занимающей слот
}

// IsFree returns true if the slot can be booked
func (s *TimeSlot) IsFree() bool {
	return s.Available
}
