package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	apptRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/appointment"
	"github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
	"github.com/namstudio/NAM-AppointmentService/internal/service/appointments/models"
)

// Тексты уведомлений (pt-BR, как в сторфронте)
const (
	notifyCancelledTitle = "Agendamento cancelado"
	notifyCancelledDesc  = "Seu agendamento foi cancelado com sucesso."

	notifyCancelDeniedTitle = "Cancelamento não permitido"
	notifyCancelDeniedDesc  = "Cancelamentos são permitidos com no mínimo %d horas de antecedência."
)

// Service сервис управления жизненным циклом записей
type Service struct {
	apptRepo     AppointmentRepository
	notifier     NotificationClient
	schedule     *domain.Schedule
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	apptRepo AppointmentRepository,
	notifier NotificationClient,
	schedule *domain.Schedule,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:     apptRepo,
		notifier:     notifier,
		schedule:     schedule,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID.
// Пользователь видит только собственные записи.
func (s *Service) GetByID(ctx context.Context, id string, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%d", id, userID)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// GetUserAppointments получает записи пользователя по возрастанию
// хронологического ключа (дата, время). Опционально фильтрует по статусу.
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appts, err := s.apptRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appts), req.UserID)
	return models.FromDomainAppointmentList(appts), nil
}

// Cancel отменяет запись пользователя.
// Политика отмены проверяется здесь, на границе мутации, а не только в UI:
//   - отменить можно только pending или confirmed запись;
//   - до начала записи должно оставаться больше cancellation cutoff (24ч).
//
// Запись переводится в статус cancelled и сохраняется в истории.
func (s *Service) Cancel(ctx context.Context, appointmentID string, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%s by user=%d", appointmentID, req.UserID)

	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%s not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%s", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", appointmentID, appt.Status)
		s.pushCancelDenied(ctx, appt.UserID)
		return ErrCannotCancel
	}

	now := s.timeProvider.Now()
	startsAt := appt.StartsAt(now.Location())
	if startsAt.Sub(now) <= s.schedule.CancellationCutoff() {
		s.logger.Warn("Cancel: too late to cancel appointment id=%s, starts at %s", appointmentID, startsAt)
		s.pushCancelDenied(ctx, appt.UserID)
		return ErrTooLateToCancel
	}

	if err := s.apptRepo.Cancel(ctx, appointmentID); err != nil {
		// Статус изменился между проверкой политики и UPDATE:
		// запись уже не отменяема, терминальный статус не перезаписывается
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: concurrent status change for appointment id=%s", appointmentID)
			s.pushCancelDenied(ctx, appt.UserID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", appointmentID)

	s.push(ctx, appt.UserID, notify.Notification{
		Title:       notifyCancelledTitle,
		Description: notifyCancelledDesc,
		Severity:    notify.SeverityInfo,
		DurationMS:  4000,
	})

	return nil
}

// UpdateStatus обновляет статус записи.
// Используется внешним процессом подтверждения/завершения; переходы
// только вперёд (pending -> confirmed -> completed), терминальные
// статусы неизменяемы.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID string, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s", appointmentID, req.Status)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, appointmentID)
		return ErrInvalidStatus
	}

	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%s not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !appt.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for appointment id=%s",
			appt.Status, newStatus, appointmentID)
		return ErrInvalidTransition
	}

	// Отмена через UpdateStatus запрещена: у неё собственная политика
	if newStatus == domain.StatusCancelled {
		return ErrInvalidTransition
	}

	if err := s.apptRepo.UpdateStatus(ctx, appointmentID, appt.Status, newStatus); err != nil {
		// Статус изменился между проверкой перехода и UPDATE
		if errors.Is(err, apptRepo.ErrStatusConflict) {
			s.logger.Warn("UpdateStatus: concurrent status change for appointment id=%s", appointmentID)
			return ErrInvalidTransition
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%s to status=%s", appointmentID, newStatus)
	return nil
}

// push отправляет уведомление; ошибка доставки только логируется
func (s *Service) push(ctx context.Context, userID int64, n notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Push(ctx, userID, n); err != nil {
		s.logger.Warn("push: failed to deliver notification to user=%d: %v", userID, err)
	}
}

func (s *Service) pushCancelDenied(ctx context.Context, userID int64) {
	cutoffHours := int(s.schedule.CancellationCutoff().Hours())
	s.push(ctx, userID, notify.Notification{
		Title:       notifyCancelDeniedTitle,
		Description: fmt.Sprintf(notifyCancelDeniedDesc, cutoffHours),
		Severity:    notify.SeverityError,
		DurationMS:  4000,
	})
}
