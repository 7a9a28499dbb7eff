package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/namstudio/NAM-AppointmentService/internal/api/handlers"
	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	getAvailableSlots "github.com/namstudio/NAM-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID   = "parâmetro serviceId inválido"
	msgInvalidDate        = "parâmetro date inválido, esperado YYYY-MM-DD"
	msgServiceNotFound    = "serviço não encontrado"
	msgServiceNotBookable = "serviço indisponível para agendamento"
	msgInvalidInput       = "parâmetros de consulta inválidos"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots?serviceId=3&date=2026-03-14
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq := &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotBookable):
			h.logger.Warn("GET /available-slots - Service not bookable: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceNotBookable)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /available-slots - Slots retrieved successfully: service_id=%d, date=%s, count=%d",
		serviceID, query.Get("date"), len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
