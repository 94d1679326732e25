package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/notify"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPermission(t *testing.T) {
	tests := []struct {
		name      string
		initial   service.Permission
		autoGrant bool
		want      service.Permission
	}{
		{"auto grant", service.PermissionDefault, true, service.PermissionGranted},
		{"no auto grant", service.PermissionDefault, false, service.PermissionDenied},
		{"denied stays denied", service.PermissionDenied, true, service.PermissionDenied},
		{"granted stays granted", service.PermissionGranted, false, service.PermissionGranted},
		{"unknown value starts undetermined", "maybe", true, service.PermissionGranted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := notify.NewLogNotifier(nil, tt.initial, tt.autoGrant)
			got, err := n.RequestPermission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, n.Permission())
		})
	}
}

func TestNotify(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	n := notify.NewLogNotifier(logger, service.PermissionDefault, false)
	err := n.Notify(context.Background(), service.ReminderNotification)
	assert.True(t, errors.Is(err, errorvalues.ErrPermissionDenied))
	assert.Zero(t, buf.Len())

	n = notify.NewLogNotifier(logger, service.PermissionGranted, false)
	require.NoError(t, n.Notify(context.Background(), service.ReminderNotification))
	assert.Contains(t, buf.String(), `"title":"Time to hydrate! 💧"`)
	assert.Contains(t, buf.String(), `"icon":"/assets/logo.png"`)
}

func TestPermissionListeners(t *testing.T) {
	n := notify.NewLogNotifier(nil, service.PermissionDefault, true)
	var seen []service.Permission
	n.OnPermissionChange(func(p service.Permission) {
		// Must not deadlock
		_ = n.Permission()
		seen = append(seen, p)
	})
	_, err := n.RequestPermission(context.Background())
	require.NoError(t, err)
	n.Revoke()
	n.Revoke()
	assert.Equal(t, []service.Permission{service.PermissionGranted, service.PermissionDenied}, seen)
}

func TestRevokeDisarmsReminders(t *testing.T) {
	ctx := context.Background()
	n := notify.NewLogNotifier(nil, service.PermissionDefault, true)
	app := service.NewApp(ctx, service.AppDeps{KV: repository.NewMemoryStore(), Notifier: n},
		service.WithIntervalUnit(time.Millisecond))
	defer app.Stop()
	app.Start(ctx)

	_, err := app.Reminders.EnableWithPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.ReminderArmed, app.Reminders.State())

	n.Revoke()
	assert.Equal(t, service.ReminderDisabled, app.Reminders.State())
	_, err = app.Reminders.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.PermissionDenied, app.Reminders.Permission())
}
