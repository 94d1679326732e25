// Package notify delivers reminders to the log of a headless process.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/service"
)

// LogNotifier writes notifications as structured log records. Prompts are
// answered by the autoGrant setting since there is nobody to ask.
type LogNotifier struct {
	logger    *slog.Logger
	autoGrant bool

	mu        sync.Mutex
	perm      service.Permission
	listeners []func(service.Permission)
}

func NewLogNotifier(logger *slog.Logger, perm service.Permission, autoGrant bool) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	switch perm {
	case service.PermissionGranted, service.PermissionDenied:
	default:
		perm = service.PermissionDefault
	}
	return &LogNotifier{
		logger:    logger,
		autoGrant: autoGrant,
		perm:      perm,
	}
}

func (ln *LogNotifier) Permission() service.Permission {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	return ln.perm
}

func (ln *LogNotifier) RequestPermission(_ context.Context) (service.Permission, error) {
	ln.mu.Lock()
	if ln.perm != service.PermissionDefault {
		p := ln.perm
		ln.mu.Unlock()
		return p, nil
	}
	ln.mu.Unlock()
	p := service.PermissionDenied
	if ln.autoGrant {
		p = service.PermissionGranted
	}
	ln.set(p)
	return p, nil
}

func (ln *LogNotifier) Notify(ctx context.Context, n service.Notification) error {
	if ln.Permission() != service.PermissionGranted {
		return errors.Join(errorvalues.ErrPermissionDenied, errors.New("notification dropped: "+n.Title))
	}
	ln.logger.InfoContext(ctx, "notification",
		slog.String("title", n.Title),
		slog.String("body", n.Body),
		slog.String("icon", n.Icon),
	)
	return nil
}

// Revoke withdraws a granted permission, as a user would in system settings.
func (ln *LogNotifier) Revoke() {
	ln.set(service.PermissionDenied)
}

// OnPermissionChange registers fn. It runs without the notifier lock held.
func (ln *LogNotifier) OnPermissionChange(fn func(service.Permission)) {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.listeners = append(ln.listeners, fn)
}

func (ln *LogNotifier) set(p service.Permission) {
	ln.mu.Lock()
	if ln.perm == p {
		ln.mu.Unlock()
		return
	}
	ln.perm = p
	listeners := make([]func(service.Permission), len(ln.listeners))
	copy(listeners, ln.listeners)
	ln.mu.Unlock()
	for _, fn := range listeners {
		fn(p)
	}
}
