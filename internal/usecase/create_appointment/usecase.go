package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	identityClient "github.com/namstudio/NAM-AppointmentService/internal/integrations/identity"
	"github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
)

// Тексты уведомлений (pt-BR, как в сторфронте)
const (
	notifyCreatedTitle = "Agendamento confirmado!"
	notifyCreatedDesc  = "Seu agendamento para %s foi confirmado para %s às %s."

	notifyConflictTitle = "Horário não disponível"
	notifyConflictDesc  = "Este horário já foi reservado. Por favor, escolha outro."
)

// notifyDateFormat формат даты в тексте уведомления (pt-BR)
const notifyDateFormat = "02/01/2006"

// UseCase use case для создания записи
type UseCase struct {
	apptRepo     AppointmentRepository
	serviceRepo  ServiceRepository
	identity     IdentityClient
	notifier     NotificationClient
	txManager    TransactionManager
	schedule     *domain.Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	serviceRepo ServiceRepository,
	identity IdentityClient,
	notifier NotificationClient,
	txManager TransactionManager,
	schedule *domain.Schedule,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		serviceRepo:  serviceRepo,
		identity:     identity,
		notifier:     notifier,
		txManager:    txManager,
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

// Execute выполняет use case создания записи.
// Проверка занятости и вставка идут в сериализуемой транзакции
// с блокировкой записей дня, чтобы два конкурентных запроса
// не заняли один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, service=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу: длительность и цена денормализуются в запись
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, svcRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsBookable() {
		uc.logger.Warn("CreateAppointment: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotBookable
	}

	// 3. Для авторизованных пользователей дозаполняем контакты из identity
	if req.UserID != domain.GuestUserID {
		if err := uc.fillContactsFromIdentity(ctx, req); err != nil {
			return nil, err
		}
	}

	if err := validateContacts(req); err != nil {
		uc.logger.Warn("CreateAppointment: contact validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем, что запрошенное время — валидный слот дня
	if err := validateSlot(uc.schedule, req.Date, req.StartTime, service.DurationMinutes, now); err != nil {
		uc.logger.Warn("CreateAppointment: slot validation failed: %v", err)
		return nil, err
	}

	var result *domain.Appointment

	// 5. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Все активные записи дня с блокировкой (FOR UPDATE)
		filter := domain.AppointmentsFilter{
			Date:            &req.Date,
			IncludeInactive: false,
		}

		appointments, err := uc.apptRepo.GetWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5.2. Канал обслуживания один: любое пересечение занимает слот
		overlapping, err := countOverlappingAppointments(req.StartTime, service.DurationMinutes, appointments)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to count overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to count overlapping appointments: %v", ErrInternal, err)
		}

		if overlapping > 0 {
			uc.logger.Warn("CreateAppointment: slot %s on %s already taken",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotNotAvailable
		}

		// 5.3. Создаем запись со статусом pending: подтверждение
		// приходит отдельным процессом через UpdateStatus
		appt := &domain.Appointment{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			StartTime: req.StartTime,
			Status:    domain.StatusPending,
			// Денормализация данных услуги
			ServiceName:            service.Name,
			ServicePrice:           service.Price,
			ServiceDurationMinutes: service.DurationMinutes,
			// Контактные данные
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Notes:         req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.pushConflict(ctx, req.UserID)
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)

	uc.push(ctx, result.UserID, notify.Notification{
		Title: notifyCreatedTitle,
		Description: fmt.Sprintf(notifyCreatedDesc,
			result.ServiceName, result.Date.Format(notifyDateFormat), result.StartTime),
		Severity:   notify.SeveritySuccess,
		DurationMS: 6000,
	})

	return &Response{
		ID:                     result.ID,
		UserID:                 result.UserID,
		ServiceID:              result.ServiceID,
		Date:                   result.Date,
		StartTime:              result.StartTime,
		Status:                 string(result.Status),
		ServiceName:            result.ServiceName,
		ServicePrice:           result.ServicePrice,
		ServiceDurationMinutes: result.ServiceDurationMinutes,
		CustomerName:           result.CustomerName,
		CustomerEmail:          result.CustomerEmail,
		CustomerPhone:          result.CustomerPhone,
		Notes:                  result.Notes,
		CreatedAt:              result.CreatedAt,
		UpdatedAt:              result.UpdatedAt,
	}, nil
}

// fillContactsFromIdentity дозаполняет пустые контактные поля
// профилем пользователя. Явно переданные значения не перетираются.
func (uc *UseCase) fillContactsFromIdentity(ctx context.Context, req *Request) error {
	user, err := uc.identity.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			uc.logger.Warn("CreateAppointment: user id=%d not found in identity", req.UserID)
			return fmt.Errorf("%w: unknown user", ErrInvalidInput)
		}
		uc.logger.Error("CreateAppointment: failed to get user id=%d: %v", req.UserID, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	if req.CustomerName == "" {
		req.CustomerName = user.Name
	}
	if req.CustomerEmail == "" {
		req.CustomerEmail = user.Email
	}
	if req.CustomerPhone == "" {
		req.CustomerPhone = user.Phone
	}

	return nil
}

// push отправляет уведомление; ошибка доставки только логируется.
// Гостевые записи адресата не имеют.
func (uc *UseCase) push(ctx context.Context, userID int64, n notify.Notification) {
	if uc.notifier == nil || userID == domain.GuestUserID {
		return
	}
	if err := uc.notifier.Push(ctx, userID, n); err != nil {
		uc.logger.Warn("push: failed to deliver notification to user=%d: %v", userID, err)
	}
}

func (uc *UseCase) pushConflict(ctx context.Context, userID int64) {
	uc.push(ctx, userID, notify.Notification{
		Title:       notifyConflictTitle,
		Description: notifyConflictDesc,
		Severity:    notify.SeverityError,
		DurationMS:  4000,
	})
}
