package domain

import "time"

// AppointmentsFilter фильтр выборки записей
type AppointmentsFilter struct {
	Date            *time.Time         // конкретная дата (без времени)
	UserID          *int64             // фильтр по пользователю
	Status          *AppointmentStatus // фильтр по статусу
	IncludeInactive bool               // включать ли отменённые записи
}
