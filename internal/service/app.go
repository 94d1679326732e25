package service

import (
	"context"
	"errors"
	"log/slog"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
)

type AppDeps struct {
	KV       repository.KVStore
	Weather  WeatherProvider
	Notifier Notifier
	// City name or "lat,lon" for weather lookups
	Location string
}

// App owns the services and the wiring between them.
type App struct {
	Store     *repository.JSONStore
	Profile   *ProfileService
	Intake    *IntakeService
	Weather   *WeatherService
	Reminders *ReminderService
}

func NewApp(ctx context.Context, deps AppDeps, opts ...Option) *App {
	store := repository.NewJSONStore(deps.KV)
	profile := NewProfileService(ctx, store, opts...)
	intake := NewIntakeService(ctx, store, profile, profile, opts...)
	profile.OnGoalChange(intake.CheckGoal)
	return &App{
		Store:     store,
		Profile:   profile,
		Intake:    intake,
		Weather:   NewWeatherService(ctx, store, deps.Weather, profile, deps.Location, opts...),
		Reminders: NewReminderService(ctx, store, deps.Notifier, opts...),
	}
}

// Start runs the weather refresh and arms reminders if they are enabled.
func (app *App) Start(ctx context.Context) {
	app.Weather.Start(ctx)
	app.Reminders.Start(ctx)
}

func (app *App) Stop() {
	app.Reminders.Stop()
	app.Weather.Stop()
}

// ResetAll deletes every stored app key and returns to the state before onboarding.
// The remote API token is kept.
func (app *App) ResetAll(ctx context.Context) error {
	app.Reminders.Clear()
	app.Weather.Clear()
	app.Intake.Clear()
	app.Profile.Clear()
	if err := app.Store.Delete(ctx, repository.AppKeys...); err != nil {
		return errors.Join(errorvalues.ErrPersistence, errors.New("deleting app data"), err)
	}
	slog.Info("all app data reset")
	return nil
}

// Flush retries writes that failed earlier.
func (app *App) Flush(ctx context.Context) error {
	return app.Store.Flush(ctx)
}
