package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/limbo/hydrobuddy/pkg/schedule"
)

const (
	ReminderDisabled = "disabled"
	ReminderArmed    = "armed"
)

var ReminderNotification = Notification{
	Title: "Time to hydrate! 💧",
	Body:  "Take a moment to drink some water.",
	Icon:  "/assets/logo.png",
}

// PermissionWatcher is implemented by notifiers that can report a permission
// change made outside the app, such as a revocation.
type PermissionWatcher interface {
	OnPermissionChange(fn func(p Permission))
}

// InWindow reports whether the wall-clock time of now lies in [start, end].
// Both bounds are zero-padded "HH:MM".
func InWindow(now time.Time, start, end string) bool {
	hm := now.Format("15:04")
	return hm >= start && hm <= end
}

// ReminderService arms a notification timer while reminders are enabled and
// permission is granted, and tears it down as soon as either stops holding.
type ReminderService struct {
	store    *repository.JSONStore
	notifier Notifier
	now      func() time.Time
	unit     time.Duration

	mu       sync.Mutex
	settings entity.ReminderSettings
	runCtx   context.Context
	task     *schedule.Task
	armedFor entity.ReminderSettings
}

func NewReminderService(ctx context.Context, store *repository.JSONStore, notifier Notifier, opts ...Option) *ReminderService {
	o := buildOptions(opts)
	rs := &ReminderService{
		store:    store,
		notifier: notifier,
		now:      o.now,
		unit:     o.intervalUnit,
		settings: entity.DefaultReminderSettings(),
	}
	var settings entity.ReminderSettings
	ok, err := store.Load(ctx, repository.KeyReminderSettings, &settings)
	switch {
	case err != nil:
		slog.Warn("loading reminder settings error, using defaults", slog.String("error", err.Error()))
	case ok:
		rs.settings = settings
	}
	if w, ok := notifier.(PermissionWatcher); ok {
		w.OnPermissionChange(func(p Permission) {
			slog.Info("notification permission changed", slog.String("permission", string(p)))
			rs.Reconcile()
		})
	}
	return rs
}

func (rs *ReminderService) Settings() entity.ReminderSettings {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.settings
}

// UpdateSettings merges upd and re-arms the timer. Turning reminders on
// requires a granted permission.
func (rs *ReminderService) UpdateSettings(ctx context.Context, upd ReminderUpdate) (entity.ReminderSettings, error) {
	if err := validateStruct(upd); err != nil {
		return entity.ReminderSettings{}, err
	}
	rs.mu.Lock()
	next := rs.settings
	if upd.Enabled != nil {
		next.Enabled = *upd.Enabled
	}
	if upd.IntervalMinutes != nil {
		next.IntervalMinutes = *upd.IntervalMinutes
	}
	if upd.StartTime != nil {
		next.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		next.EndTime = *upd.EndTime
	}
	if next.StartTime > next.EndTime {
		rs.mu.Unlock()
		return entity.ReminderSettings{}, errors.Join(errorvalues.ErrValidation,
			errors.New("start time "+next.StartTime+" is after end time "+next.EndTime))
	}
	if next.Enabled && !rs.settings.Enabled && rs.permission() != PermissionGranted {
		rs.mu.Unlock()
		return entity.ReminderSettings{}, errorvalues.ErrPermissionDenied
	}
	rs.settings = next
	if err := rs.store.Save(ctx, repository.KeyReminderSettings, next); err != nil {
		slog.Warn("saving reminder settings error, keeping them in memory", slog.String("error", err.Error()))
	}
	rs.reconcileLocked()
	rs.mu.Unlock()
	return next, nil
}

func (rs *ReminderService) SetEnabled(ctx context.Context, enabled bool) (entity.ReminderSettings, error) {
	return rs.UpdateSettings(ctx, ReminderUpdate{Enabled: &enabled})
}

func (rs *ReminderService) Toggle(ctx context.Context) (entity.ReminderSettings, error) {
	return rs.SetEnabled(ctx, !rs.Settings().Enabled)
}

// RequestPermission returns at once when the answer is already known and
// prompts only while it is undetermined. A denial is final.
func (rs *ReminderService) RequestPermission(ctx context.Context) (Permission, error) {
	if rs.notifier == nil {
		return PermissionDenied, nil
	}
	switch p := rs.notifier.Permission(); p {
	case PermissionGranted, PermissionDenied:
		return p, nil
	}
	p, err := rs.notifier.RequestPermission(ctx)
	if err != nil {
		return PermissionDefault, errors.New("requesting notification permission: " + err.Error())
	}
	slog.Info("notification permission answered", slog.String("permission", string(p)))
	rs.Reconcile()
	return p, nil
}

// EnableWithPermission asks for permission if needed and then turns reminders on.
func (rs *ReminderService) EnableWithPermission(ctx context.Context) (entity.ReminderSettings, error) {
	p, err := rs.RequestPermission(ctx)
	if err != nil {
		return entity.ReminderSettings{}, err
	}
	if p != PermissionGranted {
		return entity.ReminderSettings{}, errorvalues.ErrPermissionDenied
	}
	return rs.SetEnabled(ctx, true)
}

func (rs *ReminderService) Permission() Permission {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.permission()
}

func (rs *ReminderService) State() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.task != nil && rs.task.Running() {
		return ReminderArmed
	}
	return ReminderDisabled
}

// Start allows the timer to run under ctx. Nothing fires before Start.
func (rs *ReminderService) Start(ctx context.Context) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.runCtx = ctx
	rs.reconcileLocked()
}

func (rs *ReminderService) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.runCtx = nil
	rs.disarmLocked()
}

// Reconcile arms or disarms the timer for the current settings and permission.
func (rs *ReminderService) Reconcile() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.reconcileLocked()
}

// Clear disarms the timer and restores default settings.
func (rs *ReminderService) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.settings = entity.DefaultReminderSettings()
	rs.disarmLocked()
}

func (rs *ReminderService) permission() Permission {
	if rs.notifier == nil {
		return PermissionDenied
	}
	return rs.notifier.Permission()
}

func (rs *ReminderService) reconcileLocked() {
	if rs.runCtx == nil || !rs.settings.Enabled || rs.permission() != PermissionGranted {
		rs.disarmLocked()
		return
	}
	if rs.task != nil && rs.armedFor == rs.settings {
		return
	}
	rs.disarmLocked()

	snapshot := rs.settings
	if snapshot.IntervalMinutes <= 0 {
		snapshot.IntervalMinutes = entity.DefaultReminderSettings().IntervalMinutes
	}
	interval := time.Duration(snapshot.IntervalMinutes) * rs.unit
	rs.task = schedule.NewTask("reminder", interval, func(ctx context.Context) {
		rs.fire(ctx, snapshot)
	})
	rs.armedFor = rs.settings
	rs.task.Start(rs.runCtx, false)
	slog.Info("reminders armed", slog.Int("interval_min", snapshot.IntervalMinutes),
		slog.String("start", snapshot.StartTime), slog.String("end", snapshot.EndTime))
}

// disarmLocked returns only after the timer loop has exited.
func (rs *ReminderService) disarmLocked() {
	if rs.task == nil {
		return
	}
	rs.task.Stop()
	rs.task = nil
	rs.armedFor = entity.ReminderSettings{}
	slog.Info("reminders disarmed")
}

// fire runs on the timer goroutine and must not take rs.mu.
func (rs *ReminderService) fire(ctx context.Context, s entity.ReminderSettings) {
	if !InWindow(rs.now(), s.StartTime, s.EndTime) {
		return
	}
	if rs.notifier.Permission() != PermissionGranted {
		return
	}
	if err := rs.notifier.Notify(ctx, ReminderNotification); err != nil {
		slog.Warn("sending reminder error", slog.String("error", err.Error()))
	}
}
