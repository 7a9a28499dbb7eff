package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotBookable возвращается, когда услуга неактивна
	// или её длительность вне допустимого диапазона
	ErrServiceNotBookable = errors.New("service is not bookable")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrStudioClosed возвращается, когда студия закрыта в указанный день
	ErrStudioClosed = errors.New("studio is closed on this date")

	// ErrTooLateToBook возвращается при нарушении минимального
	// времени до начала записи
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrInvalidSlot возвращается, когда время начала не входит
	// в сетку слотов дня (шаг, рабочие часы, обеденный перерыв)
	ErrInvalidSlot = errors.New("start time is not a valid slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят активной записью
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
