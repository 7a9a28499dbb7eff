package create_appointment

import (
	"time"

	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID    int64            // domain.GuestUserID для гостевых записей
	ServiceID int64            // ID услуги каталога
	Date      time.Time        // Дата записи (без времени)
	StartTime types.TimeString // Время начала, например "10:00"

	// Контактные данные; для авторизованных пользователей пустые
	// поля дозаполняются из identity-сервиса
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Notes *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID                     string
	UserID                 int64
	ServiceID              int64
	Date                   time.Time
	StartTime              types.TimeString
	Status                 string
	ServiceName            string
	ServicePrice           float64
	ServiceDurationMinutes int
	CustomerName           string
	CustomerEmail          string
	CustomerPhone          string
	Notes                  *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
