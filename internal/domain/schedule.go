package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// ErrInvalidSchedule возвращается конструктором при некорректной конфигурации
var ErrInvalidSchedule = errors.New("domain: invalid schedule configuration")

// Default schedule values (значения оригинального салона)
var (
	DefaultOpenTime   = types.TimeString("09:00")
	DefaultCloseTime  = types.TimeString("18:00")
	DefaultLunchStart = types.TimeString("12:00")
	DefaultLunchEnd   = types.TimeString("13:00")
)

const (
	DefaultSlotIntervalMinutes     = 30
	DefaultMinBookingNoticeMinutes = 0
	DefaultCancellationCutoffHours = 24
)

// DefaultClosedWeekdays салон закрыт по воскресеньям
var DefaultClosedWeekdays = []time.Weekday{time.Sunday}

// Schedule бизнес-часы студии: единственный канал обслуживания,
// слоты с фиксированным шагом, обеденный перерыв, закрытые дни недели.
type Schedule struct {
	openTime            types.TimeString
	closeTime           types.TimeString
	slotIntervalMinutes int
	lunchStart          types.TimeString
	lunchEnd            types.TimeString
	closedWeekdays      map[time.Weekday]bool
	minNoticeMinutes    int
	cancellationCutoff  time.Duration
}

// NewSchedule создает расписание с валидацией конфигурации
func NewSchedule(
	openTime, closeTime types.TimeString,
	slotIntervalMinutes int,
	lunchStart, lunchEnd types.TimeString,
	closedWeekdays []time.Weekday,
	minNoticeMinutes int,
	cancellationCutoffHours int,
) (*Schedule, error) {
	if err := openTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: open time: %v", ErrInvalidSchedule, err)
	}
	if err := closeTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: close time: %v", ErrInvalidSchedule, err)
	}
	if !openTime.IsBefore(closeTime) {
		return nil, fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidSchedule, openTime, closeTime)
	}

	if slotIntervalMinutes < MinSlotIntervalMinutes || slotIntervalMinutes > MaxSlotIntervalMinutes {
		return nil, fmt.Errorf("%w: slot interval %d minutes is out of range", ErrInvalidSchedule, slotIntervalMinutes)
	}

	// Обед опционален: обе границы либо заданы, либо пусты
	hasLunch := !lunchStart.IsZero() || !lunchEnd.IsZero()
	if hasLunch {
		if err := lunchStart.Validate(); err != nil {
			return nil, fmt.Errorf("%w: lunch start: %v", ErrInvalidSchedule, err)
		}
		if err := lunchEnd.Validate(); err != nil {
			return nil, fmt.Errorf("%w: lunch end: %v", ErrInvalidSchedule, err)
		}
		if !lunchStart.IsBefore(lunchEnd) {
			return nil, fmt.Errorf("%w: lunch start %s must be before lunch end %s", ErrInvalidSchedule, lunchStart, lunchEnd)
		}
		if lunchStart.IsBefore(openTime) || lunchEnd.IsAfter(closeTime) {
			return nil, fmt.Errorf("%w: lunch window %s-%s must be within business hours", ErrInvalidSchedule, lunchStart, lunchEnd)
		}
	}

	closed := make(map[time.Weekday]bool, len(closedWeekdays))
	for _, wd := range closedWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("%w: unknown weekday %d", ErrInvalidSchedule, wd)
		}
		closed[wd] = true
	}
	if len(closed) == 7 {
		return nil, fmt.Errorf("%w: every weekday is closed", ErrInvalidSchedule)
	}

	if minNoticeMinutes < 0 {
		return nil, fmt.Errorf("%w: negative min booking notice", ErrInvalidSchedule)
	}
	if cancellationCutoffHours < 0 {
		return nil, fmt.Errorf("%w: negative cancellation cutoff", ErrInvalidSchedule)
	}

	return &Schedule{
		openTime:            openTime,
		closeTime:           closeTime,
		slotIntervalMinutes: slotIntervalMinutes,
		lunchStart:          lunchStart,
		lunchEnd:            lunchEnd,
		closedWeekdays:      closed,
		minNoticeMinutes:    minNoticeMinutes,
		cancellationCutoff:  time.Duration(cancellationCutoffHours) * time.Hour,
	}, nil
}

// DefaultSchedule возвращает расписание с дефолтными значениями салона
func DefaultSchedule() *Schedule {
	s, err := NewSchedule(
		DefaultOpenTime,
		DefaultCloseTime,
		DefaultSlotIntervalMinutes,
		DefaultLunchStart,
		DefaultLunchEnd,
		DefaultClosedWeekdays,
		DefaultMinBookingNoticeMinutes,
		DefaultCancellationCutoffHours,
	)
	if err != nil {
		// Дефолты статичны и валидны; ошибка здесь означает баг в константах
		panic(err)
	}
	return s
}

// OpenTime возвращает время открытия
func (s *Schedule) OpenTime() types.TimeString { return s.openTime }

// CloseTime возвращает время закрытия
func (s *Schedule) CloseTime() types.TimeString { return s.closeTime }

// SlotIntervalMinutes возвращает шаг генерации слотов
func (s *Schedule) SlotIntervalMinutes() int { return s.slotIntervalMinutes }

// LunchStart возвращает начало обеденного перерыва ("" если перерыва нет)
func (s *Schedule) LunchStart() types.TimeString { return s.lunchStart }

// LunchEnd возвращает конец обеденного перерыва ("" если перерыва нет)
func (s *Schedule) LunchEnd() types.TimeString { return s.lunchEnd }

// MinBookingNoticeMinutes возвращает минимальное время до начала записи
func (s *Schedule) MinBookingNoticeMinutes() int { return s.minNoticeMinutes }

// CancellationCutoff возвращает минимальный срок до записи, при котором
// отмена ещё разрешена
func (s *Schedule) CancellationCutoff() time.Duration { return s.cancellationCutoff }

// ClosedWeekdays возвращает закрытые дни недели по возрастанию
func (s *Schedule) ClosedWeekdays() []time.Weekday {
	result := make([]time.Weekday, 0, len(s.closedWeekdays))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if s.closedWeekdays[wd] {
			result = append(result, wd)
		}
	}
	return result
}

// IsClosedOn возвращает true, если студия закрыта в этот день недели
func (s *Schedule) IsClosedOn(weekday time.Weekday) bool {
	return s.closedWeekdays[weekday]
}

// SlotsForDay генерирует упорядоченный список времени начала слотов на дату.
//
// Кандидат входит в список, если:
//   - дата не в прошлом и день недели не закрыт;
//   - услуга целиком помещается до закрытия (конец == закрытию допустим);
//   - интервал [start, start+duration) не задевает обеденный перерыв:
//     слот, конец которого совпадает с началом обеда, исключается, а слот,
//     начинающийся ровно в конце обеда, допускается;
//   - для сегодняшней даты слот начинается не раньше now + minNotice.
//
// Результат детерминирован: зависит только от аргументов и конфигурации.
func (s *Schedule) SlotsForDay(date time.Time, durationMinutes int, now time.Time) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if durationMinutes <= 0 {
		return slots
	}
	if IsDateInPast(date, now) {
		return slots
	}
	if s.IsClosedOn(date.Weekday()) {
		return slots
	}

	// Для сегодняшней даты слоты раньше minAllowed отбрасываются
	var minAllowed types.TimeString
	if IsSameDay(date, now) {
		current := types.NewTimeString(now)
		allowed, err := current.AddMinutes(s.minNoticeMinutes)
		if err != nil {
			return slots
		}
		minAllowed = allowed
	}

	for current := s.openTime; current.IsBefore(s.closeTime); {
		end, err := current.AddMinutes(durationMinutes)
		if err != nil {
			break
		}

		fits := !end.IsAfter(s.closeTime)
		if fits && !s.overlapsLunch(current, end) {
			if minAllowed.IsZero() || !current.IsBefore(minAllowed) {
				slots = append(slots, current)
			}
		}

		next, err := current.AddMinutes(s.slotIntervalMinutes)
		if err != nil {
			break
		}
		current = next
	}

	return slots
}

// overlapsLunch проверяет пересечение интервала слота с обеденным перерывом.
// Конец слота, совпадающий с началом обеда, считается пересечением;
// начало слота, совпадающее с концом обеда, — нет.
func (s *Schedule) overlapsLunch(start, end types.TimeString) bool {
	if s.lunchStart.IsZero() {
		return false
	}
	return start.IsBefore(s.lunchEnd) && !end.IsBefore(s.lunchStart)
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
