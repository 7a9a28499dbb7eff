package domain

// GuestUserID идентификатор гостевых записей (без аккаунта)
const GuestUserID int64 = 0

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MinSlotIntervalMinutes    = 5
	MaxSlotIntervalMinutes    = 120
	MaxNotesLength            = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ValidStatuses закрытый набор статусов записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}

// CancellableStatuses статусы, из которых разрешена отмена.
// Используются как предикат UPDATE при отмене записи.
var CancellableStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не занимающие слот.
// Используются при подсчёте доступности слотов.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// IsValidStatus проверяет, что строка входит в закрытый набор статусов
func IsValidStatus(s AppointmentStatus) bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
