package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namstudio/NAM-AppointmentService/internal/domain"
	svcRepo "github.com/namstudio/NAM-AppointmentService/internal/infra/storage/service"
	identityClient "github.com/namstudio/NAM-AppointmentService/internal/integrations/identity"
	"github.com/namstudio/NAM-AppointmentService/internal/integrations/notify"
	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// 2026-03-11 среда, 2026-03-15 воскресенье
var (
	testNow    = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	testDate   = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	testSunday = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

type fakeAppointmentRepo struct {
	existing  []*domain.Appointment
	created   []*domain.Appointment
	createErr error
}

func (f *fakeAppointmentRepo) GetWithFilter(_ context.Context, _ domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	// Вновь созданные записи видны следующим вызовам, как в БД
	return append(append([]*domain.Appointment{}, f.existing...), f.created...), nil
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	appt.CreatedAt = testNow
	appt.UpdatedAt = testNow
	f.created = append(f.created, appt)
	return appt, nil
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

type fakeIdentity struct {
	user *identityClient.User
	err  error
}

func (f *fakeIdentity) GetUser(_ context.Context, _ int64) (*identityClient.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeNotifier struct {
	pushed []notify.Notification
}

func (f *fakeNotifier) Push(_ context.Context, _ int64, n notify.Notification) error {
	f.pushed = append(f.pushed, n)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func bookableService() *domain.Service {
	return &domain.Service{
		ID:              3,
		Name:            "Limpeza de Pele",
		Price:           120,
		DurationMinutes: 60,
		Active:          true,
	}
}

func guestRequest(start types.TimeString) *Request {
	return &Request{
		UserID:        domain.GuestUserID,
		ServiceID:     3,
		Date:          testDate,
		StartTime:     start,
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com",
		CustomerPhone: "+55 11 99999-0000",
	}
}

type fixture struct {
	uc       *UseCase
	repo     *fakeAppointmentRepo
	notifier *fakeNotifier
}

func newFixture(repo *fakeAppointmentRepo, serviceRepo *fakeServiceRepo, identity *fakeIdentity) *fixture {
	notifier := &fakeNotifier{}
	uc := NewUseCase(repo, serviceRepo, identity, notifier, fakeTxManager{}, domain.DefaultSchedule(), nopLogger{})
	uc.WithTimeProvider(&fixedTimeProvider{now: testNow})
	return &fixture{uc: uc, repo: repo, notifier: notifier}
}

func TestExecute_GuestBooking(t *testing.T) {
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()}, &fakeIdentity{})

	resp, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, domain.GuestUserID, resp.UserID)
	assert.Equal(t, "Limpeza de Pele", resp.ServiceName)
	assert.Equal(t, 120.0, resp.ServicePrice)
	assert.Equal(t, 60, resp.ServiceDurationMinutes)

	// ID — валидный UUID
	_, err = uuid.Parse(resp.ID)
	assert.NoError(t, err)

	require.Len(t, fx.repo.created, 1)
	// Гостевые записи не получают push-уведомлений
	assert.Empty(t, fx.notifier.pushed)
}

func TestExecute_RegisteredUserPrefillsContacts(t *testing.T) {
	identity := &fakeIdentity{user: &identityClient.User{
		ID:    42,
		Name:  "João Souza",
		Email: "joao@example.com",
		Phone: "+55 11 98888-0000",
	}}
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()}, identity)

	req := &Request{
		UserID:    42,
		ServiceID: 3,
		Date:      testDate,
		StartTime: "10:00",
	}

	resp, err := fx.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "João Souza", resp.CustomerName)
	assert.Equal(t, "joao@example.com", resp.CustomerEmail)
	assert.Equal(t, "+55 11 98888-0000", resp.CustomerPhone)

	// Авторизованный пользователь получает подтверждение
	require.Len(t, fx.notifier.pushed, 1)
	assert.Equal(t, notify.SeveritySuccess, fx.notifier.pushed[0].Severity)
	assert.Equal(t, "Agendamento confirmado!", fx.notifier.pushed[0].Title)
}

func TestExecute_SlotTaken(t *testing.T) {
	existing := &domain.Appointment{
		ID:                     uuid.NewString(),
		Date:                   testDate,
		StartTime:              "10:00",
		Status:                 domain.StatusConfirmed,
		ServiceDurationMinutes: 60,
	}
	fx := newFixture(
		&fakeAppointmentRepo{existing: []*domain.Appointment{existing}},
		&fakeServiceRepo{service: bookableService()},
		&fakeIdentity{},
	)

	// Пересечение по интервалу, не только точное совпадение времени
	_, err := fx.uc.Execute(context.Background(), guestRequest("10:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Empty(t, fx.repo.created)
}

func TestExecute_DoubleBookingSameSlot(t *testing.T) {
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()}, &fakeIdentity{})

	_, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	require.NoError(t, err)

	_, err = fx.uc.Execute(context.Background(), guestRequest("10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, fx.repo.created, 1)
}

func TestExecute_AdjacentSlotsDoNotConflict(t *testing.T) {
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()}, &fakeIdentity{})

	_, err := fx.uc.Execute(context.Background(), guestRequest("09:00"))
	require.NoError(t, err)

	// Запись 10:00 начинается ровно в конце предыдущей (09:00-10:00)
	_, err = fx.uc.Execute(context.Background(), guestRequest("10:00"))
	require.NoError(t, err)
	assert.Len(t, fx.repo.created, 2)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	cancelled := &domain.Appointment{
		ID:                     uuid.NewString(),
		Date:                   testDate,
		StartTime:              "10:00",
		Status:                 domain.StatusCancelled,
		ServiceDurationMinutes: 60,
	}
	fx := newFixture(
		&fakeAppointmentRepo{existing: []*domain.Appointment{cancelled}},
		&fakeServiceRepo{service: bookableService()},
		&fakeIdentity{},
	)

	_, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(req *Request) { req.CustomerName = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing email",
			mutate:  func(req *Request) { req.CustomerEmail = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed email",
			mutate:  func(req *Request) { req.CustomerEmail = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing phone",
			mutate:  func(req *Request) { req.CustomerPhone = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero service id",
			mutate:  func(req *Request) { req.ServiceID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero date",
			mutate:  func(req *Request) { req.Date = time.Time{} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty start time",
			mutate:  func(req *Request) { req.StartTime = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "notes too long",
			mutate: func(req *Request) {
				long := make([]byte, domain.MaxNotesLength+1)
				for i := range long {
					long[i] = 'x'
				}
				notes := string(long)
				req.Notes = &notes
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			mutate:  func(req *Request) { req.Date = testNow.AddDate(0, 0, -1) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "closed day",
			mutate:  func(req *Request) { req.Date = testSunday },
			wantErr: ErrStudioClosed,
		},
		{
			name:    "off-grid time",
			mutate:  func(req *Request) { req.StartTime = "10:15" },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "lunch overlap",
			mutate:  func(req *Request) { req.StartTime = "11:30" },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "past closing",
			mutate:  func(req *Request) { req.StartTime = "17:30" },
			wantErr: ErrInvalidSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()}, &fakeIdentity{})

			req := guestRequest("10:00")
			tt.mutate(req)

			_, err := fx.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, fx.repo.created)
		})
	}
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	notifier := &fakeNotifier{}
	schedule, err := domain.NewSchedule(
		"09:00", "18:00", 30, "12:00", "13:00",
		[]time.Weekday{time.Sunday}, 60, 24,
	)
	require.NoError(t, err)

	uc := NewUseCase(repo, &fakeServiceRepo{service: bookableService()}, &fakeIdentity{}, notifier,
		fakeTxManager{}, schedule, nopLogger{})
	uc.WithTimeProvider(&fixedTimeProvider{now: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)})

	req := guestRequest("10:30")
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{err: svcRepo.ErrServiceNotFound}, &fakeIdentity{})

	_, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveServiceNotBookable(t *testing.T) {
	svc := bookableService()
	svc.Active = false
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: svc}, &fakeIdentity{})

	_, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	assert.ErrorIs(t, err, ErrServiceNotBookable)
}

func TestExecute_UnknownRegisteredUser(t *testing.T) {
	fx := newFixture(&fakeAppointmentRepo{}, &fakeServiceRepo{service: bookableService()},
		&fakeIdentity{err: identityClient.ErrUserNotFound})

	req := guestRequest("10:00")
	req.UserID = 42

	_, err := fx.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CreateFailure(t *testing.T) {
	fx := newFixture(
		&fakeAppointmentRepo{createErr: errors.New("insert failed")},
		&fakeServiceRepo{service: bookableService()},
		&fakeIdentity{},
	)

	_, err := fx.uc.Execute(context.Background(), guestRequest("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
}
