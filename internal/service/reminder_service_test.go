package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/internal/service/mocks"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, time.March, 10, h, m, 30, 0, time.Local)
	}
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", at(7, 59), false},
		{"at start", at(8, 0), true},
		{"midday", at(13, 15), true},
		{"at end", at(20, 0), true},
		{"after end", at(20, 1), false},
		{"midnight", at(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.InWindow(tt.now, "08:00", "20:00"))
		})
	}
}

func TestReminderDefaults(t *testing.T) {
	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{})
	assert.Equal(t, entity.DefaultReminderSettings(), app.Reminders.Settings())
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())
	assert.Equal(t, service.PermissionDenied, app.Reminders.Permission())
}

func TestEnableRequiresPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Permission().Return(service.PermissionDefault).AnyTimes()

	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{Notifier: notifier})
	_, err := app.Reminders.SetEnabled(context.Background(), true)
	assert.True(t, errors.Is(err, errorvalues.ErrPermissionDenied))
	assert.False(t, app.Reminders.Settings().Enabled)
}

func TestRequestPermission(t *testing.T) {
	tests := []struct {
		name    string
		current service.Permission
		prompt  bool
		answer  service.Permission
		want    service.Permission
	}{
		{"already granted", service.PermissionGranted, false, "", service.PermissionGranted},
		{"denied is final", service.PermissionDenied, false, "", service.PermissionDenied},
		{"prompt grants", service.PermissionDefault, true, service.PermissionGranted, service.PermissionGranted},
		{"prompt denies", service.PermissionDefault, true, service.PermissionDenied, service.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := mocks.NewMockNotifier(ctrl)
			notifier.EXPECT().Permission().Return(tt.current).AnyTimes()
			if tt.prompt {
				notifier.EXPECT().RequestPermission(gomock.Any()).Return(tt.answer, nil).Times(1)
			}
			app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{Notifier: notifier})
			got, err := app.Reminders.RequestPermission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnableWithPermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Permission().Return(service.PermissionDenied).AnyTimes()

	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{Notifier: notifier})
	_, err := app.Reminders.EnableWithPermission(context.Background())
	assert.True(t, errors.Is(err, errorvalues.ErrPermissionDenied))
}

func TestUpdateReminderSettingsValidation(t *testing.T) {
	zero := 0
	tooLong := 1441
	loose := "8:00"
	late := "23:00"
	early := "06:00"
	tests := []struct {
		name string
		upd  service.ReminderUpdate
	}{
		{"zero interval", service.ReminderUpdate{IntervalMinutes: &zero}},
		{"interval over a day", service.ReminderUpdate{IntervalMinutes: &tooLong}},
		{"unpadded time", service.ReminderUpdate{StartTime: &loose}},
		{"start after end", service.ReminderUpdate{StartTime: &late}},
		{"end before start", service.ReminderUpdate{EndTime: &early}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{})
			_, err := app.Reminders.UpdateSettings(context.Background(), tt.upd)
			assert.True(t, errors.Is(err, errorvalues.ErrValidation), "got %v", err)
			assert.Equal(t, entity.DefaultReminderSettings(), app.Reminders.Settings())
		})
	}
}

func TestReminderSettingsPersist(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	clock := newFakeClock(testStart)
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	app := newTestApp(t, clock, kv, service.AppDeps{Notifier: notifier})

	interval := 45
	start := "07:30"
	_, err := app.Reminders.UpdateSettings(ctx, service.ReminderUpdate{IntervalMinutes: &interval, StartTime: &start})
	require.NoError(t, err)
	_, err = app.Reminders.Toggle(ctx)
	require.NoError(t, err)

	restarted := newTestApp(t, clock, kv, service.AppDeps{Notifier: notifier})
	assert.Equal(t, entity.ReminderSettings{
		Enabled:         true,
		IntervalMinutes: 45,
		StartTime:       "07:30",
		EndTime:         "20:00",
	}, restarted.Reminders.Settings())
}

func newTickingApp(t *testing.T, clock *fakeClock, notifier *fakeNotifier) *service.App {
	t.Helper()
	app := service.NewApp(context.Background(), service.AppDeps{
		KV:       repository.NewMemoryStore(),
		Notifier: notifier,
	}, service.WithClock(clock.Now), service.WithIntervalUnit(time.Millisecond))
	t.Cleanup(app.Stop)
	app.Reminders.Start(context.Background())
	interval := 5
	_, err := app.Reminders.UpdateSettings(context.Background(), service.ReminderUpdate{IntervalMinutes: &interval})
	require.NoError(t, err)
	return app
}

func TestReminderFiresUntilDisabled(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	app := newTickingApp(t, newFakeClock(testStart), notifier)

	_, err := app.Reminders.SetEnabled(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())
	require.Eventually(t, func() bool { return notifier.Sent() >= 2 }, time.Second, time.Millisecond)

	_, err = app.Reminders.SetEnabled(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())
	sent := notifier.Sent()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, sent, notifier.Sent())
}

func TestReminderSilentOutsideWindow(t *testing.T) {
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	late := time.Date(2026, time.March, 10, 22, 0, 0, 0, time.Local)
	app := newTickingApp(t, newFakeClock(late), notifier)

	_, err := app.Reminders.SetEnabled(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, notifier.Sent())
}

func TestReminderDisarmsOnRevocation(t *testing.T) {
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	app := newTickingApp(t, newFakeClock(testStart), notifier)
	_, err := app.Reminders.SetEnabled(context.Background(), true)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return notifier.Sent() >= 1 }, time.Second, time.Millisecond)

	notifier.setPermission(service.PermissionDenied)
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())
	sent := notifier.Sent()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, sent, notifier.Sent())

	// Granting again re-arms the still enabled settings
	notifier.setPermission(service.PermissionGranted)
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())
}

func TestReminderNotArmedBeforeStart(t *testing.T) {
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{Notifier: notifier})
	_, err := app.Reminders.SetEnabled(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())

	app.Reminders.Start(context.Background())
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())
	app.Reminders.Stop()
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())
}

func TestReminderDisarmedWhenRunContextEnds(t *testing.T) {
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{Notifier: notifier})
	_, err := app.Reminders.SetEnabled(context.Background(), true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	app.Reminders.Start(ctx)
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())
	cancel()
	assert.Eventually(t, func() bool {
		return app.Reminders.State() == service.ReminderDisabled
	}, time.Second, time.Millisecond)
}
