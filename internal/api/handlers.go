package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/pkg/dateutil"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/limbo/hydrobuddy/pkg/httputil"
)

const requestTimeout = 10 * time.Second

type ProfileRequest struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit,omitempty"`
}

type ProfilePatchRequest struct {
	Name      *string  `json:"name,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	WaterGoal *int     `json:"waterGoal,omitempty"`
	Streak    *int     `json:"streak,omitempty"`
}

type IntakeRequest struct {
	Amount int `json:"amount"`
}

type TodayResponse struct {
	entity.DayIntake
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
	Achieved   bool    `json:"achieved"`
}

type SeriesItem struct {
	Date   string `json:"date"`
	Day    string `json:"day"`
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

type WeatherResponse struct {
	entity.Weather
	Message    string  `json:"message,omitempty"`
	Adjustment float64 `json:"adjustment"`
}

type RemindersPatchRequest struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	Interval  *int    `json:"interval,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
}

type RemindersResponse struct {
	entity.ReminderSettings
	Permission service.Permission `json:"permission"`
	State      string             `json:"state"`
}

// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}

// @Summary Get the profile
// @Tags profile
// @Produce json
// @Success 200 {object} entity.UserProfile
// @Failure 404 {object} httputil.ErrorResponse
// @Router /profile [get]
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	p := s.profile.Profile()
	if p == nil {
		logger.Info("get profile: not onboarded yet")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "profile not found", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, p)
}

// @Summary Onboard the user
// @Tags profile
// @Accept json
// @Param request body ProfileRequest true "Name, weight and unit"
// @Produce json
// @Success 201 {object} entity.UserProfile
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 409 {object} httputil.ErrorResponse
// @Router /profile [post]
func (s *Server) CreateProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ProfileRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		logger.Error("create profile error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	p, err := s.profile.CreateProfile(ctx, &service.CreateProfileRequest{
		Name:   req.Name,
		Weight: req.Weight,
		Unit:   service.WeightUnit(req.Unit),
	})
	if err != nil {
		s.writeServiceError(w, logger, "create profile", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, p)
	logger.Info("profile created")
}

// @Summary Patch profile fields
// @Tags profile
// @Accept json
// @Param request body ProfilePatchRequest true "Fields to change"
// @Produce json
// @Success 200 {object} entity.UserProfile
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /profile [patch]
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ProfilePatchRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		logger.Error("update profile error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	p, err := s.profile.UpdateProfile(ctx, service.ProfileUpdate{
		Name:        req.Name,
		WeightKg:    req.Weight,
		WaterGoalMl: req.WaterGoal,
		Streak:      req.Streak,
	})
	if err == nil && p == nil {
		err = errorvalues.ErrProfileNotFound
	}
	if err != nil {
		s.writeServiceError(w, logger, "update profile", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, p)
}

// @Summary Change name and weight, recomputing the goal
// @Tags profile
// @Accept json
// @Param request body ProfileRequest true "Name, weight and unit"
// @Produce json
// @Success 200 {object} entity.UserProfile
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 404 {object} httputil.ErrorResponse
// @Router /profile/details [put]
func (s *Server) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ProfileRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		logger.Error("update details error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	p, err := s.profile.UpdateDetails(ctx, &service.CreateProfileRequest{
		Name:   req.Name,
		Weight: req.Weight,
		Unit:   service.WeightUnit(req.Unit),
	})
	if err != nil {
		s.writeServiceError(w, logger, "update details", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, p)
}

// @Summary Reset the streak
// @Tags profile
// @Produce json
// @Success 200 {object} entity.UserProfile
// @Failure 404 {object} httputil.ErrorResponse
// @Router /profile/streak/reset [post]
func (s *Server) ResetStreak(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if s.profile.Profile() == nil {
		s.writeServiceError(w, logger, "reset streak", errorvalues.ErrProfileNotFound)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	s.profile.ResetStreak(ctx)
	httputil.WriteJSONResponse(w, http.StatusOK, s.profile.Profile())
	logger.Info("streak reset")
}

// @Summary List badges
// @Tags profile
// @Produce json
// @Success 200 {array} entity.Badge
// @Router /badges [get]
func (s *Server) GetBadges(w http.ResponseWriter, r *http.Request) {
	badges := s.profile.Badges()
	if badges == nil {
		badges = []entity.Badge{}
	}
	httputil.WriteJSONResponse(w, http.StatusOK, badges)
}

// @Summary Log a drink
// @Tags water-intake
// @Accept json
// @Param request body IntakeRequest true "Amount in ml"
// @Produce json
// @Success 201 {object} TodayResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Router /water-intake [post]
func (s *Server) AddIntake(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req IntakeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		logger.Error("add intake error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if _, err := s.intake.RecordIntake(ctx, req.Amount); err != nil {
		s.writeServiceError(w, logger, "add intake", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, s.todayResponse())
	logger.Info("intake recorded", slog.Int("amount_ml", req.Amount))
}

// @Summary Today's intake and progress
// @Tags water-intake
// @Produce json
// @Success 200 {object} TodayResponse
// @Router /water-intake/today [get]
func (s *Server) GetToday(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.todayResponse())
}

// @Summary Clear today's intake
// @Tags water-intake
// @Produce json
// @Success 200 {object} TodayResponse
// @Router /water-intake/today [delete]
func (s *Server) ResetToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	s.intake.ResetToday(ctx)
	httputil.WriteJSONResponse(w, http.StatusOK, s.todayResponse())
	GetLoggerFromCtx(r.Context()).Info("today's intake reset")
}

// @Summary Intake records in a date range
// @Tags water-intake
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string true "YYYY-MM-DD"
// @Produce json
// @Success 200 {array} entity.DayIntake
// @Failure 400 {object} httputil.ErrorResponse
// @Router /water-intake/history [get]
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	from := r.URL.Query().Get("start_date")
	to := r.URL.Query().Get("end_date")
	if from == "" || to == "" {
		logger.Error("get history error: missing range")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "start_date and end_date are required", nil)
		return
	}
	hist, err := s.intake.History(from, to)
	if err != nil {
		s.writeServiceError(w, logger, "get history", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, hist)
}

// @Summary Last 7 days
// @Tags water-intake
// @Produce json
// @Success 200 {array} SeriesItem
// @Router /water-intake/weekly [get]
func (s *Server) GetWeekly(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, seriesItems(s.intake.WeeklySeries()))
}

// @Summary Month to date
// @Tags water-intake
// @Produce json
// @Success 200 {array} SeriesItem
// @Router /water-intake/monthly [get]
func (s *Server) GetMonthly(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, seriesItems(s.intake.MonthlySeries()))
}

// @Summary Cached weather and goal advice
// @Tags weather
// @Produce json
// @Success 200 {object} WeatherResponse
// @Router /weather [get]
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, weatherResponse(s.weather.Current()))
}

// @Summary Fetch weather if the cache is stale
// @Tags weather
// @Produce json
// @Success 200 {object} WeatherResponse
// @Router /weather/refresh [post]
func (s *Server) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	httputil.WriteJSONResponse(w, http.StatusOK, weatherResponse(s.weather.Refresh(ctx)))
}

// @Summary Reminder settings and state
// @Tags reminders
// @Produce json
// @Success 200 {object} RemindersResponse
// @Router /reminders [get]
func (s *Server) GetReminders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.remindersResponse(s.reminders.Settings()))
}

// @Summary Change reminder settings
// @Tags reminders
// @Accept json
// @Param request body RemindersPatchRequest true "Fields to change"
// @Produce json
// @Success 200 {object} RemindersResponse
// @Failure 400 {object} httputil.ErrorResponse
// @Failure 403 {object} httputil.ErrorResponse
// @Router /reminders [patch]
func (s *Server) UpdateReminders(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RemindersPatchRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		logger.Error("update reminders error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	settings, err := s.reminders.UpdateSettings(ctx, service.ReminderUpdate{
		Enabled:         req.Enabled,
		IntervalMinutes: req.Interval,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		s.writeServiceError(w, logger, "update reminders", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.remindersResponse(settings))
}

// @Summary Ask for notification permission
// @Tags reminders
// @Produce json
// @Success 200 {object} map[string]any
// @Router /reminders/permission [post]
func (s *Server) RequestPermission(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	p, err := s.reminders.RequestPermission(ctx)
	if err != nil {
		s.writeServiceError(w, logger, "request permission", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"permission": p})
}

// @Summary Delete all app data
// @Tags data
// @Produce json
// @Success 204
// @Router /data [delete]
func (s *Server) ResetData(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.resetter.ResetAll(ctx); err != nil {
		s.writeServiceError(w, logger, "reset data", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("all data reset")
}

// writeServiceError maps service errors to statuses: bad input 400,
// missing profile 404, second onboarding 409, notifications denied 403,
// anything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrValidation):
		logger.Error(op+" error: validation", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, errorvalues.ErrProfileNotFound):
		logger.Error(op + " error: no profile")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "profile not found", nil)
	case errors.Is(err, errorvalues.ErrProfileExists):
		logger.Error(op + " error: profile exists")
		httputil.WriteErrorResponse(w, http.StatusConflict, "profile already exists", nil)
	case errors.Is(err, errorvalues.ErrPermissionDenied):
		logger.Error(op + " error: notification permission not granted")
		httputil.WriteErrorResponse(w, http.StatusForbidden, "notification permission not granted", nil)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during "+op, nil)
	}
}

func (s *Server) todayResponse() TodayResponse {
	goal, _ := s.profile.WaterGoal()
	return TodayResponse{
		DayIntake:  s.intake.Today(),
		Goal:       goal,
		Percentage: s.intake.TodayPercentage(),
		Achieved:   s.intake.GoalAchievedToday(),
	}
}

func (s *Server) remindersResponse(settings entity.ReminderSettings) RemindersResponse {
	return RemindersResponse{
		ReminderSettings: settings,
		Permission:       s.reminders.Permission(),
		State:            s.reminders.State(),
	}
}

func weatherResponse(w entity.Weather) WeatherResponse {
	msg, _ := service.WeatherMessage(w)
	return WeatherResponse{
		Weather:    w,
		Message:    msg,
		Adjustment: service.AdjustmentFactor(w),
	}
}

func seriesItems(points []entity.SeriesPoint) []SeriesItem {
	res := make([]SeriesItem, 0, len(points))
	for _, p := range points {
		res = append(res, SeriesItem{
			Date:   p.Date,
			Day:    dateutil.DayName(p.Date),
			Label:  dateutil.DisplayDate(p.Date),
			Amount: p.AmountMl,
		})
	}
	return res
}
