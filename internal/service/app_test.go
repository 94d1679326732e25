package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/internal/repository/mocks"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	clock := newFakeClock(testStart)
	notifier := &fakeNotifier{perm: service.PermissionGranted}
	provider := &fakeWeather{weather: entity.Weather{TempC: 24, HumidityPct: 50}}
	app := newTestApp(t, clock, kv, service.AppDeps{Weather: provider, Notifier: notifier})

	onboard(t, app, 70)
	_, err := app.Intake.RecordIntake(ctx, 500)
	require.NoError(t, err)
	_, err = app.Reminders.SetEnabled(ctx, true)
	require.NoError(t, err)
	app.Weather.Refresh(ctx)
	require.NoError(t, kv.Set(ctx, repository.KeyRemoteToken, "jwt"))
	assert.ElementsMatch(t, append([]string{repository.KeyRemoteToken}, repository.AppKeys...), kv.Keys())

	require.NoError(t, app.ResetAll(ctx))
	assert.Equal(t, []string{repository.KeyRemoteToken}, kv.Keys())
	assert.Nil(t, app.Profile.Profile())
	assert.Equal(t, 0, app.Intake.Today().AmountMl)
	assert.Equal(t, entity.DefaultReminderSettings(), app.Reminders.Settings())
	assert.Equal(t, entity.Weather{}, app.Weather.Current())

	restarted := newTestApp(t, clock, kv, service.AppDeps{})
	assert.Nil(t, restarted.Profile.Profile())
	_, ok := restarted.Profile.WaterGoal()
	assert.False(t, ok)
}

// blockingWeather parks each fetch until release is closed.
type blockingWeather struct {
	started chan struct{}
	release chan struct{}
}

func (bw *blockingWeather) Current(ctx context.Context, _ string) (*entity.Weather, error) {
	close(bw.started)
	select {
	case <-bw.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &entity.Weather{TempC: 20, HumidityPct: 40, Description: "clear sky"}, nil
}

func TestResetAllDuringWeatherFetch(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	provider := &blockingWeather{started: make(chan struct{}), release: make(chan struct{})}
	app := newTestApp(t, newFakeClock(testStart), kv, service.AppDeps{Weather: provider})
	onboard(t, app, 70)

	done := make(chan entity.Weather)
	go func() {
		done <- app.Weather.Refresh(ctx)
	}()
	<-provider.started

	require.NoError(t, app.ResetAll(ctx))
	close(provider.release)
	<-done

	assert.Empty(t, kv.Keys())
	assert.Equal(t, entity.Weather{}, app.Weather.Current())
	assert.Nil(t, app.Profile.Profile())
}

func TestResetAllReportsPersistenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, nil).AnyTimes()
	kv.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	kv.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	app := newTestApp(t, newFakeClock(testStart), kv, service.AppDeps{})
	err := app.ResetAll(context.Background())
	assert.ErrorIs(t, err, errorvalues.ErrPersistence)
	assert.ErrorContains(t, err, "connection refused")
}

func TestFlushRetriesPendingWrites(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, newFakeClock(testStart), repository.NewMemoryStore(), service.AppDeps{})
	onboard(t, app, 70)
	assert.Empty(t, app.Store.Pending())
	assert.NoError(t, app.Flush(ctx))
}
