package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// Контактные данные проверяются позже, после дозаполнения из identity.
func validateRequest(req *Request) error {
	if req.UserID < domain.GuestUserID {
		return fmt.Errorf("%w: userID must not be negative", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateContacts проверяет контактные данные записи.
// Контакты денормализуются в запись и обязательны даже для
// авторизованных пользователей.
func validateContacts(req *Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	if !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	return nil
}

// validateSlot проверяет, что запрошенное время — валидный слот дня.
//
// Порядок проверок даёт специфичные ошибки: прошедшая дата, закрытый
// день и нарушение минимального времени до записи различимы для API.
// Принадлежность к сетке (шаг, рабочие часы, обеденный перерыв)
// проверяется по детерминированному списку кандидатов.
func validateSlot(
	schedule *domain.Schedule,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
	now time.Time,
) error {
	if domain.IsDateInPast(date, now) {
		return ErrInvalidDate
	}

	if schedule.IsClosedOn(date.Weekday()) {
		return ErrStudioClosed
	}

	if domain.IsSameDay(date, now) {
		currentTime := types.NewTimeString(now)
		minAllowed, err := currentTime.AddMinutes(schedule.MinBookingNoticeMinutes())
		if err != nil {
			return fmt.Errorf("%w: failed to calculate min allowed time: %v", ErrInternal, err)
		}
		if startTime.IsBefore(minAllowed) {
			return fmt.Errorf("%w: must book at least %d minutes in advance",
				ErrTooLateToBook, schedule.MinBookingNoticeMinutes())
		}
	}

	for _, candidate := range schedule.SlotsForDay(date, durationMinutes, now) {
		if candidate == startTime {
			return nil
		}
	}

	return ErrInvalidSlot
}

// countOverlappingAppointments подсчитывает активные записи,
// пересекающиеся с запрошенным интервалом. Строгие неравенства:
// граничное касание пересечением не считается.
func countOverlappingAppointments(
	startTime types.TimeString,
	durationMinutes int,
	appointments []*domain.Appointment,
) (int, error) {
	slotEnd, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}

		apptStart := appt.StartTime
		apptEnd, err := appt.EndTime()
		if err != nil {
			continue
		}

		if apptStart.IsBefore(slotEnd) && apptEnd.IsAfter(startTime) {
			count++
		}
	}

	return count, nil
}
