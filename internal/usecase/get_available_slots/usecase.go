package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
)

// UseCase use case для получения слотов на день для услуги
type UseCase struct {
	apptRepo     AppointmentRepository
	serviceRepo  ServiceRepository
	schedule     *domain.Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	schedule *domain.Schedule,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		serviceRepo:  serviceRepo,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов.
//
// Кандидаты генерируются детерминированно из расписания студии, затем
// размечаются занятостью по активным записям на эту дату. Прошедшая дата
// и закрытый день дают пустой список, а не ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу: длительность определяет форму слотов
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, svcRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotBookable
	}

	now := uc.timeProvider.Now()

	// 3. Генерируем кандидаты по расписанию
	candidates := uc.schedule.SlotsForDay(req.Date, service.DurationMinutes, now)
	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: no candidates for date=%s (closed or past)",
			req.Date.Format(domain.DateFormat))
		return &Response{
			Date:            req.Date,
			ServiceID:       req.ServiceID,
			DurationMinutes: service.DurationMinutes,
			Slots:           []Slot{},
		}, nil
	}

	// 4. Получаем активные записи на эту дату по всем услугам:
	// канал обслуживания один, запись на любую процедуру занимает слот
	filter := domain.AppointmentsFilter{
		Date:            &req.Date,
		IncludeInactive: false,
	}

	appointments, err := uc.apptRepo.GetWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Размечаем занятость
	slots := annotateSlots(candidates, service.DurationMinutes, appointments)

	uc.logger.Info("GetAvailableSlots: generated %d slots for service=%d, date=%s",
		len(slots), req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
