package appointments

import (
	"context"
	"time"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	"github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error
}

// NotificationClient интерфейс клиента сервиса уведомлений
type NotificationClient interface {
	Push(ctx context.Context, userID int64, n notify.Notification) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
