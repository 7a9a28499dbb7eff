package get_available_slots

import (
	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	getAvailableSlots "github.com/namstudio/NAM-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string  `json:"startTime"` // "10:00"
	DurationMinutes int     `json:"durationMinutes"`
	Available       bool    `json:"available"`
	AppointmentID   *string `json:"appointmentId,omitempty"`
}

// SlotsResponse HTTP модель ответа со слотами дня
type SlotsResponse struct {
	Date            string         `json:"date"` // "2026-03-14"
	ServiceID       int64          `json:"serviceId"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
			AppointmentID:   slot.AppointmentID,
		})
	}

	return &SlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
