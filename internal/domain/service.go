package domain

import "time"

// Service позиция каталога процедур студии
type Service struct {
	ID              int64
	Name            string
	Description     string
	Category        string
	Price           float64 // BRL
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsBookable returns true if the service can be scheduled
func (s *Service) IsBookable() bool {
	return s.Active &&
		s.DurationMinutes >= MinServiceDurationMinutes &&
		s.DurationMinutes <= MaxServiceDurationMinutes
}
