package catalog

import (
	"context"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога процедур
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListActive(ctx context.Context) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
