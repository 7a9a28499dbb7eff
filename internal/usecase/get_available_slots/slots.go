package get_available_slots

import (
	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// annotateSlots размечает кандидаты занятостью по активным записям дня.
// Слот занят, если его интервал реально пересекается с интервалом записи.
// Граничное касание пересечением не считается: запись, заканчивающаяся
// ровно в начале слота (или начинающаяся ровно в его конце), слот не занимает.
//
// Примеры:
// - Слот 11:30-12:00, запись 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - Слот 11:30-12:00, запись 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, запись 12:00-12:30 → НЕТ пересечения (граничат)
func annotateSlots(
	candidates []types.TimeString,
	durationMinutes int,
	appointments []*domain.Appointment,
) []Slot {
	result := make([]Slot, len(candidates))

	for i, start := range candidates {
		occupiedBy := findOverlappingAppointment(start, durationMinutes, appointments)

		result[i] = Slot{
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       occupiedBy == nil,
			AppointmentID:   occupiedBy,
		}
	}

	return result
}

// findOverlappingAppointment возвращает ID первой активной записи,
// пересекающейся со слотом, либо nil
func findOverlappingAppointment(
	slotStart types.TimeString,
	slotDuration int,
	appointments []*domain.Appointment,
) *string {
	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		// Конец слота за полночь: пересечений не считаем
		return nil
	}

	for _, appt := range appointments {
		// Отменённые записи слот не занимают
		if !appt.IsActive() {
			continue
		}

		apptStart := appt.StartTime
		apptEnd, err := appt.EndTime()
		if err != nil {
			continue
		}

		// Интервалы пересекаются, только если начало записи СТРОГО раньше
		// конца слота И конец записи СТРОГО позже начала слота
		if apptStart.IsBefore(slotEnd) && apptEnd.IsAfter(slotStart) {
			id := appt.ID
			return &id
		}
	}

	return nil
}
