package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	apptRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/appointment"
	"github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
	"github.com/namstudio/NAM-AppointmentService/internal/service/appointments/models"
	"github.com/namstudio/NAM-AppointmentService/pkg/ptr"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type fakeRepo struct {
	appointments map[string]*domain.Appointment
	byUser       []*domain.Appointment
	cancelled    []string
	updated      map[string]domain.AppointmentStatus

	// Эмулирует конкурентное завершение записи: GetByID возвращает
	// снимок с прежним статусом, а в хранилище статус уже completed
	completeAfterGet bool
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	repo := &fakeRepo{
		appointments: make(map[string]*domain.Appointment),
		updated:      make(map[string]domain.AppointmentStatus),
	}
	for _, a := range appts {
		repo.appointments[a.ID] = a
	}
	return repo
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	if f.completeAfterGet {
		snapshot := *appt
		appt.Status = domain.StatusCompleted
		return &snapshot, nil
	}
	return appt, nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, _ int64, _ *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return f.byUser, nil
}

// Cancel и UpdateStatus повторяют предикатную семантику репозитория:
// UPDATE применяется только из ожидаемого статуса, иначе ErrStatusConflict.
func (f *fakeRepo) Cancel(_ context.Context, id string) error {
	appt, ok := f.appointments[id]
	if !ok || !appt.CanBeCancelled() {
		return apptRepo.ErrStatusConflict
	}
	appt.Status = domain.StatusCancelled
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, from, to domain.AppointmentStatus) error {
	appt, ok := f.appointments[id]
	if !ok || appt.Status != from {
		return apptRepo.ErrStatusConflict
	}
	appt.Status = to
	f.updated[id] = to
	return nil
}

type fakeNotifier struct {
	pushed []notify.Notification
}

func (f *fakeNotifier) Push(_ context.Context, _ int64, n notify.Notification) error {
	f.pushed = append(f.pushed, n)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// запись пользователя 42 более чем за сутки до начала
func upcomingAppointment(id string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:                     id,
		UserID:                 42,
		ServiceID:              3,
		Date:                   time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:              "10:00",
		Status:                 status,
		ServiceName:            "Limpeza de Pele",
		ServiceDurationMinutes: 60,
	}
}

func newTestService(repo *fakeRepo, notifier *fakeNotifier) *Service {
	svc := NewService(repo, notifier, domain.DefaultSchedule(), nopLogger{})
	return svc.WithTimeProvider(&fixedTimeProvider{now: testNow})
}

func TestGetByID_OwnerOnly(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusPending)
	svc := newTestService(newFakeRepo(appt), &fakeNotifier{})

	resp, err := svc.GetByID(context.Background(), "a1", 42)
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.ID)

	_, err = svc.GetByID(context.Background(), "a1", 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), "missing", 42)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancel_MoreThanCutoffAhead(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusConfirmed)
	repo := newFakeRepo(appt)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
	require.NoError(t, err)

	assert.Equal(t, []string{"a1"}, repo.cancelled)
	require.Len(t, notifier.pushed, 1)
	assert.Equal(t, notify.SeverityInfo, notifier.pushed[0].Severity)
	assert.Equal(t, "Agendamento cancelado", notifier.pushed[0].Title)
}

func TestCancel_WithinCutoff(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusConfirmed)
	// Начало через 2 часа, при лимите отмены 24 часа
	appt.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	appt.StartTime = "10:00"

	repo := newFakeRepo(appt)
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrTooLateToCancel)

	// Статус остаётся неизменным, пользователь получает отказ
	assert.Empty(t, repo.cancelled)
	require.Len(t, notifier.pushed, 1)
	assert.Equal(t, notify.SeverityError, notifier.pushed[0].Severity)
}

func TestCancel_ExactlyAtCutoff(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusConfirmed)
	// Начало ровно через 24 часа: отмена уже запрещена
	appt.Date = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	appt.StartTime = "08:00"

	repo := newFakeRepo(appt)
	svc := newTestService(repo, &fakeNotifier{})

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrTooLateToCancel)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			appt := upcomingAppointment("a1", status)
			repo := newFakeRepo(appt)
			svc := newTestService(repo, &fakeNotifier{})

			err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Empty(t, repo.cancelled)
		})
	}
}

// Запись завершается конкурентно между проверкой политики и UPDATE:
// статусный предикат не даёт перезаписать терминальный статус
func TestCancel_ConcurrentStatusChange(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusConfirmed)
	repo := newFakeRepo(appt)
	repo.completeAfterGet = true
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrCannotCancel)

	assert.Empty(t, repo.cancelled)
	assert.Equal(t, domain.StatusCompleted, repo.appointments["a1"].Status)
	require.Len(t, notifier.pushed, 1)
	assert.Equal(t, notify.SeverityError, notifier.pushed[0].Severity)
}

func TestCancel_AccessDenied(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusPending)
	repo := newFakeRepo(appt)
	svc := newTestService(repo, &fakeNotifier{})

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	err := svc.Cancel(context.Background(), "missing", &models.CancelAppointmentRequest{UserID: 42})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments(t *testing.T) {
	repo := newFakeRepo()
	repo.byUser = []*domain.Appointment{
		upcomingAppointment("a1", domain.StatusPending),
		upcomingAppointment("a2", domain.StatusConfirmed),
	}
	svc := newTestService(repo, &fakeNotifier{})

	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{UserID: 42})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: 42,
		Status: ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ForwardTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "confirmed to completed", from: domain.StatusConfirmed, to: "completed"},
		{name: "pending to completed", from: domain.StatusPending, to: "completed"},
		{name: "confirmed to pending", from: domain.StatusConfirmed, to: "pending", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancel goes through Cancel", from: domain.StatusPending, to: "cancelled", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "bogus", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := upcomingAppointment("a1", tt.from)
			repo := newFakeRepo(appt)
			svc := newTestService(repo, &fakeNotifier{})

			err := svc.UpdateStatus(context.Background(), "a1", &models.UpdateStatusRequest{Status: tt.to})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.AppointmentStatus(tt.to), repo.updated["a1"])
		})
	}
}

// Аналогичная гонка для UpdateStatus: переход проверен по снимку,
// но статус в хранилище уже изменился
func TestUpdateStatus_ConcurrentStatusChange(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusPending)
	repo := newFakeRepo(appt)
	repo.completeAfterGet = true
	svc := newTestService(repo, &fakeNotifier{})

	err := svc.UpdateStatus(context.Background(), "a1", &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Empty(t, repo.updated)
	assert.Equal(t, domain.StatusCompleted, repo.appointments["a1"].Status)
}

func TestCancel_NotificationFailureDoesNotFailCancel(t *testing.T) {
	appt := upcomingAppointment("a1", domain.StatusPending)
	repo := newFakeRepo(appt)

	svc := NewService(repo, &failingNotifier{}, domain.DefaultSchedule(), nopLogger{})
	svc.WithTimeProvider(&fixedTimeProvider{now: testNow})

	err := svc.Cancel(context.Background(), "a1", &models.CancelAppointmentRequest{UserID: 42})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a1"}, repo.cancelled)
}

type failingNotifier struct{}

func (failingNotifier) Push(context.Context, int64, notify.Notification) error {
	return errors.New("notification service unavailable")
}
