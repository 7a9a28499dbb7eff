package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// 2026-03-11 среда
var (
	testNow  = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	testDate = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
)

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.appointments, nil
}

type fakeServiceRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func bookableService(durationMinutes int) *domain.Service {
	return &domain.Service{
		ID:              3,
		Name:            "Limpeza de Pele",
		Price:           120,
		DurationMinutes: durationMinutes,
		Active:          true,
	}
}

func activeAppointment(id string, start types.TimeString, durationMinutes int) *domain.Appointment {
	return &domain.Appointment{
		ID:                     id,
		Date:                   testDate,
		StartTime:              start,
		Status:                 domain.StatusConfirmed,
		ServiceDurationMinutes: durationMinutes,
	}
}

func newTestUseCase(apptRepo *fakeAppointmentRepo, serviceRepo *fakeServiceRepo) *UseCase {
	uc := NewUseCase(apptRepo, serviceRepo, domain.DefaultSchedule(), nopLogger{})
	return uc.WithTimeProvider(&fixedTimeProvider{now: testNow})
}

func TestExecute_AllSlotsFree(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService(60)})

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 13)
	assert.Equal(t, 60, resp.DurationMinutes)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
		assert.Nil(t, slot.AppointmentID)
	}
}

func TestExecute_BookedSlotMarkedUnavailable(t *testing.T) {
	appt := activeAppointment("a1b2", "10:00", 60)
	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appt}},
		&fakeServiceRepo{service: bookableService(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	require.NoError(t, err)

	bySlot := make(map[types.TimeString]Slot)
	for _, slot := range resp.Slots {
		bySlot[slot.StartTime] = slot
	}

	// Запись 10:00-11:00 занимает все пересекающиеся часовые слоты
	for _, start := range []types.TimeString{"09:30", "10:00", "10:30"} {
		slot := bySlot[start]
		assert.False(t, slot.Available, "slot %s", start)
		require.NotNil(t, slot.AppointmentID, "slot %s", start)
		assert.Equal(t, "a1b2", *slot.AppointmentID)
	}

	// Слот 09:00-10:00 граничит с записью и остаётся свободным
	assert.True(t, bySlot["09:00"].Available)
	assert.True(t, bySlot["13:00"].Available)
}

func TestExecute_CancelledAppointmentDoesNotOccupy(t *testing.T) {
	appt := activeAppointment("c3d4", "10:00", 60)
	appt.Status = domain.StatusCancelled

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appt}},
		&fakeServiceRepo{service: bookableService(60)},
	)

	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime)
	}
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService(30)})

	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: sunday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService(30)})

	past := testNow.AddDate(0, 0, -3)
	resp, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: past})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{err: svcRepo.ErrServiceNotFound})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 99, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceNotBookable(t *testing.T) {
	svc := bookableService(30)
	svc.Active = false

	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{service: svc})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	assert.ErrorIs(t, err, ErrServiceNotBookable)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService(30)})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 0, Date: testDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ServiceID: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryError(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{err: errors.New("connection refused")},
		&fakeServiceRepo{service: bookableService(30)},
	)

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_Idempotent(t *testing.T) {
	appt := activeAppointment("e5f6", "14:00", 45)
	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{appt}},
		&fakeServiceRepo{service: bookableService(45)},
	)

	first, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{ServiceID: 3, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
