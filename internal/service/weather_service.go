package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/pkg/entity"
	"github.com/limbo/hydrobuddy/pkg/schedule"
)

const (
	hotTempC       = 30
	warmTempC      = 25
	humidPct       = 70
	minGoalNudgeMl = 50

	weatherFetchFailed = "failed to fetch weather data"
)

// AdjustmentFactor is the extra share of water the conditions call for.
// Temperature tiers are exclusive, humidity adds on top.
func AdjustmentFactor(w entity.Weather) float64 {
	var f float64
	switch {
	case w.TempC >= hotTempC:
		f = 0.10
	case w.TempC >= warmTempC:
		f = 0.05
	}
	if w.HumidityPct >= humidPct {
		f += 0.05
	}
	return f
}

// WeatherMessage picks a hint for w, hot before warm before humid.
// There is none while loading or after a failed fetch.
func WeatherMessage(w entity.Weather) (string, bool) {
	if w.Loading || w.Error != "" {
		return "", false
	}
	switch {
	case w.TempC >= hotTempC:
		return "It's hot! Stay extra hydrated 💦", true
	case w.TempC >= warmTempC:
		return "It's warm today. Remember to drink more water 💧", true
	case w.HumidityPct >= humidPct:
		return "High humidity today. Keep your water bottle handy 💦", true
	}
	return "", false
}

// WeatherService keeps the cached conditions for one location and nudges
// the water goal after each successful fetch.
type WeatherService struct {
	store    *repository.JSONStore
	provider WeatherProvider
	goals    GoalSetter
	location string
	now      func() time.Time
	ttl      time.Duration
	task     *schedule.Task

	mu        sync.Mutex
	current   entity.Weather
	fetchedAt time.Time
	fetching  bool
	// bumped by Clear; results of fetches started before it are dropped
	generation uint64
}

func NewWeatherService(ctx context.Context, store *repository.JSONStore, provider WeatherProvider, goals GoalSetter, location string, opts ...Option) *WeatherService {
	o := buildOptions(opts)
	ws := &WeatherService{
		store:    store,
		provider: provider,
		goals:    goals,
		location: location,
		now:      o.now,
		ttl:      o.cacheTTL,
	}
	ws.task = schedule.NewTask("weather-refresh", o.refreshInterval, func(ctx context.Context) {
		ws.Refresh(ctx)
	})

	// Stale entries are kept too: they stand in until a fetch succeeds
	var cached entity.Weather
	if ok, err := store.Load(ctx, repository.KeyWeather, &cached); err != nil {
		slog.Warn("loading cached weather error", slog.String("error", err.Error()))
	} else if ok {
		cached.Loading = false
		ws.current = cached
	}
	var fetchedMs int64
	if ok, err := store.Load(ctx, repository.KeyWeatherFetchedAt, &fetchedMs); err != nil {
		slog.Warn("loading weather fetch time error", slog.String("error", err.Error()))
	} else if ok {
		ws.fetchedAt = time.UnixMilli(fetchedMs)
	}
	return ws
}

// Refresh serves the cache while it is fresh and fetches otherwise. It never
// fails: on error the last good data is kept and Error is set.
func (ws *WeatherService) Refresh(ctx context.Context) entity.Weather {
	ws.mu.Lock()
	if ws.fresh() || ws.fetching {
		res := ws.current
		ws.mu.Unlock()
		return res
	}
	ws.fetching = true
	ws.current.Loading = true
	gen := ws.generation
	ws.mu.Unlock()

	w, err := ws.fetch(ctx)

	ws.mu.Lock()
	ws.fetching = false
	if gen != ws.generation {
		res := ws.current
		ws.mu.Unlock()
		slog.Debug("weather fetch dropped after reset", slog.String("location", ws.location))
		return res
	}
	if err != nil {
		slog.Warn("weather fetch error", slog.String("location", ws.location),
			slog.String("error", errors.Join(errorvalues.ErrNetwork, err).Error()))
		ws.current.Loading = false
		ws.current.Error = weatherFetchFailed
		res := ws.current
		ws.mu.Unlock()
		return res
	}
	w.Loading = false
	w.Error = ""
	ws.current = *w
	ws.fetchedAt = ws.now()
	if err := ws.store.Save(ctx, repository.KeyWeather, ws.current); err != nil {
		slog.Warn("saving weather error", slog.String("error", err.Error()))
	}
	if err := ws.store.Save(ctx, repository.KeyWeatherFetchedAt, ws.fetchedAt.UnixMilli()); err != nil {
		slog.Warn("saving weather fetch time error", slog.String("error", err.Error()))
	}
	res := ws.current
	ws.mu.Unlock()

	slog.Debug("weather fetched", slog.Float64("temp_c", res.TempC), slog.Float64("humidity_pct", res.HumidityPct))
	ws.nudgeGoal(ctx, res)
	return res
}

func (ws *WeatherService) Current() entity.Weather {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.current
}

func (ws *WeatherService) Message() (string, bool) {
	return WeatherMessage(ws.Current())
}

// Start fetches right away and then on every refresh interval.
func (ws *WeatherService) Start(ctx context.Context) {
	ws.task.Start(ctx, true)
}

func (ws *WeatherService) Stop() {
	ws.task.Stop()
}

// Clear drops the cached conditions so the next Refresh goes to the network.
func (ws *WeatherService) Clear() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.current = entity.Weather{}
	ws.fetchedAt = time.Time{}
	ws.generation++
}

func (ws *WeatherService) fresh() bool {
	if ws.fetchedAt.IsZero() {
		return false
	}
	return ws.now().Sub(ws.fetchedAt) < ws.ttl
}

func (ws *WeatherService) fetch(ctx context.Context) (*entity.Weather, error) {
	if ws.provider == nil {
		return nil, errors.New("weather provider not configured")
	}
	w, err := ws.provider.Current(ctx, ws.location)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, errors.New("weather provider returned no data")
	}
	return w, nil
}

// nudgeGoal scales the current goal by the adjustment factor and applies it
// only when it moves by more than minGoalNudgeMl.
func (ws *WeatherService) nudgeGoal(ctx context.Context, w entity.Weather) {
	if ws.goals == nil {
		return
	}
	goal, ok := ws.goals.WaterGoal()
	if !ok {
		return
	}
	newGoal := int(math.Round(float64(goal) * (1 + AdjustmentFactor(w))))
	delta := newGoal - goal
	if delta < 0 {
		delta = -delta
	}
	if delta <= minGoalNudgeMl {
		return
	}
	if err := ws.goals.SetWaterGoal(ctx, newGoal); err != nil {
		slog.Warn("applying weather goal error", slog.String("error", err.Error()))
		return
	}
	slog.Info("water goal nudged by weather", slog.Int("from_ml", goal), slog.Int("to_ml", newGoal))
}
