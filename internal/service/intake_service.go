package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/pkg/dateutil"
	"github.com/limbo/hydrobuddy/pkg/entity"
)

// QuickAmounts are the one-tap intake sizes in ml.
var QuickAmounts = []int{250, 500}

// IntakeService is the water ledger: today's record, the per-day history
// and the once-a-day goal achievement flag.
type IntakeService struct {
	store    *repository.JSONStore
	goals    GoalProvider
	observer GoalObserver
	now      func() time.Time

	mu       sync.Mutex
	today    entity.DayIntake
	history  map[string]entity.DayIntake
	achieved bool
}

func NewIntakeService(ctx context.Context, store *repository.JSONStore, goals GoalProvider, observer GoalObserver, opts ...Option) *IntakeService {
	o := buildOptions(opts)
	is := &IntakeService{
		store:    store,
		goals:    goals,
		observer: observer,
		now:      o.now,
		history:  make(map[string]entity.DayIntake),
	}
	history := make(map[string]entity.DayIntake)
	ok, err := store.Load(ctx, repository.KeyHistory, &history)
	switch {
	case err != nil:
		slog.Warn("loading intake history error, starting empty", slog.String("error", err.Error()))
	case ok:
		is.history = history
	}

	todayKey := dateutil.Key(is.now())
	if rec, ok := is.history[todayKey]; ok {
		is.today = rec.Clone()
		// Goal met before a restart: don't count it again
		if goal, ok := goals.WaterGoal(); ok && is.today.AmountMl >= goal {
			is.achieved = true
		}
	} else {
		is.today = entity.NewDayIntake(todayKey)
	}
	return is
}

// RecordIntake adds amountMl to today's record.
func (is *IntakeService) RecordIntake(ctx context.Context, amountMl int) (entity.DayIntake, error) {
	if err := validateStruct(IntakeRequest{AmountMl: amountMl}); err != nil {
		return entity.DayIntake{}, err
	}
	is.mu.Lock()
	now := is.now()
	is.rolloverLocked(now)
	is.today.AmountMl += amountMl
	is.today.Entries = append(is.today.Entries, entity.IntakeEntry{
		ID:        uuid.New(),
		Timestamp: now,
		AmountMl:  amountMl,
	})
	is.history[is.today.Date] = is.today.Clone()
	is.persistLocked(ctx)
	crossed := is.checkGoalLocked()
	res := is.today.Clone()
	is.mu.Unlock()

	slog.Debug("intake recorded", slog.Int("amount_ml", amountMl), slog.Int("total_ml", res.AmountMl))
	if crossed {
		is.notifyAchieved(ctx, res.Date)
	}
	return res, nil
}

// ResetToday replaces today's record with an empty one and clears the achievement flag.
func (is *IntakeService) ResetToday(ctx context.Context) entity.DayIntake {
	is.mu.Lock()
	defer is.mu.Unlock()
	key := dateutil.Key(is.now())
	is.today = entity.NewDayIntake(key)
	is.history[key] = is.today.Clone()
	is.achieved = false
	is.persistLocked(ctx)
	return is.today.Clone()
}

// CheckGoal runs the achievement watcher. Called after goal changes.
func (is *IntakeService) CheckGoal(ctx context.Context) {
	is.mu.Lock()
	is.rolloverLocked(is.now())
	crossed := is.checkGoalLocked()
	date := is.today.Date
	is.mu.Unlock()
	if crossed {
		is.notifyAchieved(ctx, date)
	}
}

func (is *IntakeService) Today() entity.DayIntake {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.rolloverLocked(is.now())
	return is.today.Clone()
}

func (is *IntakeService) GoalAchievedToday() bool {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.rolloverLocked(is.now())
	return is.achieved
}

// TodayPercentage is today's total relative to the goal, clamped to [0, 100].
func (is *IntakeService) TodayPercentage() float64 {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.rolloverLocked(is.now())
	goal, ok := is.goals.WaterGoal()
	if !ok || goal <= 0 {
		return 0
	}
	return min(float64(is.today.AmountMl)/float64(goal)*100, 100)
}

// WeeklySeries covers the 7 days ending today, oldest first.
func (is *IntakeService) WeeklySeries() []entity.SeriesPoint {
	is.mu.Lock()
	defer is.mu.Unlock()
	now := is.now()
	is.rolloverLocked(now)
	return is.seriesLocked(dateutil.LastNDays(now, 7))
}

// MonthlySeries covers the first of the current month through today.
func (is *IntakeService) MonthlySeries() []entity.SeriesPoint {
	is.mu.Lock()
	defer is.mu.Unlock()
	now := is.now()
	is.rolloverLocked(now)
	return is.seriesLocked(dateutil.MonthToDate(now))
}

// History returns stored records with from <= date <= to, oldest first.
func (is *IntakeService) History(from, to string) ([]entity.DayIntake, error) {
	if _, err := dateutil.Parse(from, time.UTC); err != nil {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("invalid start date: "+from))
	}
	if _, err := dateutil.Parse(to, time.UTC); err != nil {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("invalid end date: "+to))
	}
	if from > to {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("start date is after end date"))
	}
	is.mu.Lock()
	defer is.mu.Unlock()
	is.rolloverLocked(is.now())
	keys := make([]string, 0, len(is.history))
	for k := range is.history {
		if k >= from && k <= to {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	res := make([]entity.DayIntake, 0, len(keys))
	for _, k := range keys {
		res = append(res, is.history[k].Clone())
	}
	return res, nil
}

// Clear drops all in-memory records. Stored data is removed by the caller.
func (is *IntakeService) Clear() {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.history = make(map[string]entity.DayIntake)
	is.today = entity.NewDayIntake(dateutil.Key(is.now()))
	is.achieved = false
}

// rolloverLocked starts a fresh record once the wall-clock day moved on.
// The previous day is already in history.
func (is *IntakeService) rolloverLocked(now time.Time) {
	key := dateutil.Key(now)
	if is.today.Date == key {
		return
	}
	slog.Info("day rolled over", slog.String("from", is.today.Date), slog.String("to", key))
	is.today = entity.NewDayIntake(key)
	is.achieved = false
}

// checkGoalLocked flips the achievement flag at most once per day and reports whether it did.
func (is *IntakeService) checkGoalLocked() bool {
	if is.achieved {
		return false
	}
	goal, ok := is.goals.WaterGoal()
	if !ok || is.today.AmountMl < goal {
		return false
	}
	is.achieved = true
	return true
}

func (is *IntakeService) notifyAchieved(ctx context.Context, date string) {
	if is.observer != nil {
		is.observer.OnGoalAchieved(ctx, date)
	}
}

func (is *IntakeService) seriesLocked(keys []string) []entity.SeriesPoint {
	res := make([]entity.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		res = append(res, entity.SeriesPoint{Date: k, AmountMl: is.history[k].AmountMl})
	}
	return res
}

func (is *IntakeService) persistLocked(ctx context.Context) {
	if err := is.store.Save(ctx, repository.KeyHistory, is.history); err != nil {
		slog.Warn("saving intake history error, keeping it in memory", slog.String("error", err.Error()))
	}
}
