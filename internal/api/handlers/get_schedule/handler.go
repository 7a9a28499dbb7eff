package get_schedule

import (
	"net/http"

	"github.com/namstudio/NAM-AppointmentService/internal/api/handlers"
	"github.com/namstudio/NAM-AppointmentService/internal/domain"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ScheduleResponse HTTP модель расписания студии.
// Клиент использует её для отрисовки календаря записи.
type ScheduleResponse struct {
	OpenTime                string   `json:"openTime"`  // "09:00"
	CloseTime               string   `json:"closeTime"` // "18:00"
	SlotIntervalMinutes     int      `json:"slotIntervalMinutes"`
	LunchStart              string   `json:"lunchStart,omitempty"`
	LunchEnd                string   `json:"lunchEnd,omitempty"`
	ClosedWeekdays          []string `json:"closedWeekdays"` // "Sunday", ...
	MinBookingNoticeMinutes int      `json:"minBookingNoticeMinutes"`
	CancellationCutoffHours int      `json:"cancellationCutoffHours"`
}

type Handler struct {
	schedule *domain.Schedule
	logger   Logger
}

func NewHandler(schedule *domain.Schedule, logger Logger) *Handler {
	return &Handler{
		schedule: schedule,
		logger:   logger,
	}
}

// Handle GET /api/v1/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	closed := make([]string, 0)
	for _, wd := range h.schedule.ClosedWeekdays() {
		closed = append(closed, wd.String())
	}

	response := &ScheduleResponse{
		OpenTime:                h.schedule.OpenTime().String(),
		CloseTime:               h.schedule.CloseTime().String(),
		SlotIntervalMinutes:     h.schedule.SlotIntervalMinutes(),
		LunchStart:              h.schedule.LunchStart().String(),
		LunchEnd:                h.schedule.LunchEnd().String(),
		ClosedWeekdays:          closed,
		MinBookingNoticeMinutes: h.schedule.MinBookingNoticeMinutes(),
		CancellationCutoffHours: int(h.schedule.CancellationCutoff().Hours()),
	}

	handlers.RespondJSON(w, http.StatusOK, response)
}
