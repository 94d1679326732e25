package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	mx        *chi.Mux
	profile   ProfileServiceI
	intake    IntakeServiceI
	weather   WeatherServiceI
	reminders ReminderServiceI
	resetter  DataResetter
}

type ServicesList struct {
	Profile   ProfileServiceI
	Intake    IntakeServiceI
	Weather   WeatherServiceI
	Reminders ReminderServiceI
	Resetter  DataResetter
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:        chi.NewMux(),
		profile:   servicesOptions.Profile,
		intake:    servicesOptions.Intake,
		weather:   servicesOptions.Weather,
		reminders: servicesOptions.Reminders,
		resetter:  servicesOptions.Resetter,
	}
	s.mountHandlers()
	return s
}

func (s *Server) mountHandlers() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(s.AccessLogMiddleware)

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.Health)

		r.Get("/profile", s.GetProfile)
		r.Post("/profile", s.CreateProfile)
		r.Patch("/profile", s.UpdateProfile)
		r.Put("/profile/details", s.UpdateDetails)
		r.Post("/profile/streak/reset", s.ResetStreak)
		r.Get("/badges", s.GetBadges)

		r.Post("/water-intake", s.AddIntake)
		r.Get("/water-intake/today", s.GetToday)
		r.Delete("/water-intake/today", s.ResetToday)
		r.Get("/water-intake/history", s.GetHistory)
		r.Get("/water-intake/weekly", s.GetWeekly)
		r.Get("/water-intake/monthly", s.GetMonthly)

		r.Get("/weather", s.GetWeather)
		r.Post("/weather/refresh", s.RefreshWeather)

		r.Get("/reminders", s.GetReminders)
		r.Patch("/reminders", s.UpdateReminders)
		r.Post("/reminders/permission", s.RequestPermission)

		r.Delete("/data", s.ResetData)
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", slog.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("api server error: " + err.Error())
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("api server shutdown error: " + err.Error())
	}
	slog.Info("api server stopped")
	return nil
}
