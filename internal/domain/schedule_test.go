package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namstudio/NAM-AppointmentService/pkg/types"
)

// 2026-03-11 среда, 2026-03-15 воскресенье
var (
	testNow       = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	testWednesday = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	testSunday    = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
)

func TestNewSchedule_Validation(t *testing.T) {
	tests := []struct {
		name       string
		open       types.TimeString
		close      types.TimeString
		interval   int
		lunchStart types.TimeString
		lunchEnd   types.TimeString
		closed     []time.Weekday
		wantErr    bool
	}{
		{
			name: "valid default shape", open: "09:00", close: "18:00", interval: 30,
			lunchStart: "12:00", lunchEnd: "13:00", closed: []time.Weekday{time.Sunday},
		},
		{
			name: "no lunch", open: "09:00", close: "18:00", interval: 30,
		},
		{
			name: "open after close", open: "18:00", close: "09:00", interval: 30, wantErr: true,
		},
		{
			name: "open equals close", open: "09:00", close: "09:00", interval: 30, wantErr: true,
		},
		{
			name: "interval too small", open: "09:00", close: "18:00", interval: 1, wantErr: true,
		},
		{
			name: "lunch start after lunch end", open: "09:00", close: "18:00", interval: 30,
			lunchStart: "13:00", lunchEnd: "12:00", wantErr: true,
		},
		{
			name: "lunch outside business hours", open: "09:00", close: "18:00", interval: 30,
			lunchStart: "08:00", lunchEnd: "09:30", wantErr: true,
		},
		{
			name: "every weekday closed", open: "09:00", close: "18:00", interval: 30,
			closed: []time.Weekday{
				time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
				time.Thursday, time.Friday, time.Saturday,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.open, tt.close, tt.interval, tt.lunchStart, tt.lunchEnd, tt.closed, 0, 24)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSchedule_SlotsForDay_HourLongService(t *testing.T) {
	s := DefaultSchedule()

	slots := s.SlotsForDay(testWednesday, 60, testNow)

	// Утро до обеда: слот 11:00 заканчивался бы в 12:00 и задевает обед.
	// После обеда: с 13:00, последний слот 17:00 заканчивается ровно в 18:00.
	want := []types.TimeString{
		"09:00", "09:30", "10:00", "10:30",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
		"16:00", "16:30", "17:00",
	}
	assert.Equal(t, want, slots)
}

func TestSchedule_SlotsForDay_HalfHourService(t *testing.T) {
	s := DefaultSchedule()

	slots := s.SlotsForDay(testWednesday, 30, testNow)

	// Слот 11:30 заканчивается ровно в начале обеда и исключается,
	// слот 13:00 начинается ровно в конце обеда и разрешён
	assert.NotContains(t, slots, types.TimeString("11:30"))
	assert.NotContains(t, slots, types.TimeString("12:00"))
	assert.NotContains(t, slots, types.TimeString("12:30"))
	assert.Contains(t, slots, types.TimeString("11:00"))
	assert.Contains(t, slots, types.TimeString("13:00"))

	// Последний слот заканчивается ровно в закрытие
	assert.Equal(t, types.TimeString("17:30"), slots[len(slots)-1])
	assert.Equal(t, types.TimeString("09:00"), slots[0])
	assert.Len(t, slots, 15)
}

func TestSchedule_SlotsForDay_ClosedDay(t *testing.T) {
	s := DefaultSchedule()

	slots := s.SlotsForDay(testSunday, 30, testNow)
	assert.Empty(t, slots)
}

func TestSchedule_SlotsForDay_PastDate(t *testing.T) {
	s := DefaultSchedule()

	yesterday := testNow.AddDate(0, 0, -1)
	slots := s.SlotsForDay(yesterday, 30, testNow)
	assert.Empty(t, slots)
}

func TestSchedule_SlotsForDay_TodayFiltersByNotice(t *testing.T) {
	s, err := NewSchedule("09:00", "18:00", 30, "12:00", "13:00", []time.Weekday{time.Sunday}, 30, 24)
	require.NoError(t, err)

	// Сегодня 10:05: с получасовым предупреждением первый доступный слот 11:00
	// (слот 10:30 начинается раньше 10:35, а 11:30 задевает обед)
	now := time.Date(2026, 3, 11, 10, 5, 0, 0, time.UTC)
	slots := s.SlotsForDay(testWednesday, 30, now)

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("11:00"), slots[0])
}

func TestSchedule_SlotsForDay_OversizedDuration(t *testing.T) {
	s := DefaultSchedule()

	// Услуга длиннее любого окна между открытием, обедом и закрытием
	slots := s.SlotsForDay(testWednesday, 600, testNow)
	assert.Empty(t, slots)
}

func TestSchedule_SlotsForDay_Deterministic(t *testing.T) {
	s := DefaultSchedule()

	first := s.SlotsForDay(testWednesday, 45, testNow)
	second := s.SlotsForDay(testWednesday, 45, testNow)
	assert.Equal(t, first, second)
}

func TestSchedule_SlotsForDay_NoLunch(t *testing.T) {
	s, err := NewSchedule("09:00", "12:00", 30, "", "", nil, 0, 24)
	require.NoError(t, err)

	slots := s.SlotsForDay(testWednesday, 30, testNow)
	want := []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	assert.Equal(t, want, slots)
}

func TestSchedule_IsClosedOn(t *testing.T) {
	s := DefaultSchedule()

	assert.True(t, s.IsClosedOn(time.Sunday))
	assert.False(t, s.IsClosedOn(time.Monday))
	assert.False(t, s.IsClosedOn(time.Saturday))
}

func TestIsSameDay(t *testing.T) {
	assert.True(t, IsSameDay(
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC),
	))
	assert.False(t, IsSameDay(
		time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), now))
	// Сегодня не считается прошлым, даже если время дня уже позднее
	assert.False(t, IsDateInPast(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), now))
}
