package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
	"github.com/limbo/hydrobuddy/internal/repository"
	"github.com/limbo/hydrobuddy/pkg/entity"
)

const (
	mlPerKg = 35
	kgPerLb = 0.453592
)

// Streak lengths that unlock a badge
var streakBadges = map[int]string{
	3: entity.BadgeThreeDayStreak,
	7: entity.BadgeHydrationStreaker,
}

// CalculateWaterGoal returns the daily goal in ml for a body weight and a weather adjustment.
func CalculateWaterGoal(weightKg, tempAdjustment float64) int {
	return int(math.Round(weightKg * mlPerKg * (1 + tempAdjustment)))
}

// ToKg converts weight given in unit to kilograms. An empty unit means kg.
func ToKg(weight float64, unit WeightUnit) float64 {
	if unit == UnitLb {
		return weight * kgPerLb
	}
	return weight
}

type ProfileService struct {
	store *repository.JSONStore
	now   func() time.Time

	mu        sync.Mutex
	profile   *entity.UserProfile
	listeners []func(ctx context.Context)
}

func NewProfileService(ctx context.Context, store *repository.JSONStore, opts ...Option) *ProfileService {
	o := buildOptions(opts)
	ps := &ProfileService{
		store: store,
		now:   o.now,
	}
	var profile entity.UserProfile
	ok, err := store.Load(ctx, repository.KeyProfile, &profile)
	switch {
	case err != nil:
		slog.Warn("loading profile error, starting without profile", slog.String("error", err.Error()))
	case ok:
		if len(profile.Badges) == 0 {
			profile.Badges = entity.DefaultBadges()
		}
		ps.profile = &profile
	}
	return ps
}

// OnGoalChange registers fn to run after any change of the water goal.
func (ps *ProfileService) OnGoalChange(fn func(ctx context.Context)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.listeners = append(ps.listeners, fn)
}

// Profile returns a copy of the profile, or nil before onboarding.
func (ps *ProfileService) Profile() *entity.UserProfile {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.profile.Clone()
}

func (ps *ProfileService) Badges() []entity.Badge {
	p := ps.Profile()
	if p == nil {
		return nil
	}
	return p.Badges
}

func (ps *ProfileService) WaterGoal() (int, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.profile == nil {
		return 0, false
	}
	return ps.profile.WaterGoalMl, true
}

// CreateProfile onboards the user: goal from weight, locked badge catalog, zero streak.
// It fails with ErrProfileExists once a profile is stored.
func (ps *ProfileService) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*entity.UserProfile, error) {
	if req == nil {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("request is nil"))
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	weightKg := ToKg(req.Weight, req.Unit)
	profile := &entity.UserProfile{
		Name:        strings.TrimSpace(req.Name),
		WeightKg:    weightKg,
		WaterGoalMl: CalculateWaterGoal(weightKg, 0),
		Streak:      0,
		Badges:      entity.DefaultBadges(),
	}
	ps.mu.Lock()
	// Only a full reset destroys a profile
	if ps.profile != nil {
		ps.mu.Unlock()
		return nil, errors.Join(errorvalues.ErrProfileExists, errors.New("use the details update to change name or weight"))
	}
	ps.profile = profile
	ps.persistLocked(ctx)
	res := profile.Clone()
	ps.mu.Unlock()

	slog.Info("profile created", slog.String("name", res.Name), slog.Int("goal_ml", res.WaterGoalMl))
	ps.goalChanged(ctx)
	return res, nil
}

// UpdateProfile merges the set fields of upd. Without a profile it does nothing and returns nil, nil.
func (ps *ProfileService) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*entity.UserProfile, error) {
	ps.mu.Lock()
	if ps.profile == nil {
		ps.mu.Unlock()
		return nil, nil
	}
	ps.mu.Unlock()
	if err := validateStruct(upd); err != nil {
		return nil, err
	}

	ps.mu.Lock()
	if ps.profile == nil {
		ps.mu.Unlock()
		return nil, nil
	}
	oldGoal := ps.profile.WaterGoalMl
	if upd.Name != nil {
		ps.profile.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.WeightKg != nil {
		ps.profile.WeightKg = *upd.WeightKg
	}
	if upd.WaterGoalMl != nil {
		ps.profile.WaterGoalMl = *upd.WaterGoalMl
	}
	if upd.Streak != nil {
		ps.profile.Streak = *upd.Streak
	}
	ps.persistLocked(ctx)
	res := ps.profile.Clone()
	ps.mu.Unlock()

	if res.WaterGoalMl != oldGoal {
		slog.Info("water goal changed", slog.Int("from_ml", oldGoal), slog.Int("to_ml", res.WaterGoalMl))
		ps.goalChanged(ctx)
	}
	return res, nil
}

// UpdateDetails changes name and weight and recomputes the goal from the new weight.
func (ps *ProfileService) UpdateDetails(ctx context.Context, req *CreateProfileRequest) (*entity.UserProfile, error) {
	if req == nil {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("request is nil"))
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	weightKg := ToKg(req.Weight, req.Unit)
	goal := CalculateWaterGoal(weightKg, 0)
	res, err := ps.UpdateProfile(ctx, ProfileUpdate{
		Name:        &name,
		WeightKg:    &weightKg,
		WaterGoalMl: &goal,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errorvalues.ErrProfileNotFound
	}
	return res, nil
}

func (ps *ProfileService) SetWaterGoal(ctx context.Context, goal int) error {
	_, err := ps.UpdateProfile(ctx, ProfileUpdate{WaterGoalMl: &goal})
	return err
}

// UnlockBadge unlocks the badge with id. Unknown ids and already unlocked
// badges are left untouched; the result reports whether anything changed.
func (ps *ProfileService) UnlockBadge(ctx context.Context, id string) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if !ps.unlockLocked(id) {
		return false
	}
	ps.persistLocked(ctx)
	return true
}

func (ps *ProfileService) unlockLocked(id string) bool {
	if ps.profile == nil {
		return false
	}
	for i := range ps.profile.Badges {
		b := &ps.profile.Badges[i]
		if b.ID != id {
			continue
		}
		if b.Unlocked {
			return false
		}
		at := ps.now()
		b.Unlocked = true
		b.UnlockedAt = &at
		slog.Info("badge unlocked", slog.String("badge", id))
		return true
	}
	return false
}

// IncrementStreak adds a day to the streak and unlocks streak badges on their thresholds.
func (ps *ProfileService) IncrementStreak(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.profile == nil {
		return
	}
	ps.profile.Streak++
	if badge, ok := streakBadges[ps.profile.Streak]; ok {
		ps.unlockLocked(badge)
	}
	slog.Info("streak incremented", slog.Int("streak", ps.profile.Streak))
	ps.persistLocked(ctx)
}

// ResetStreak zeroes the streak. Badges stay unlocked.
func (ps *ProfileService) ResetStreak(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.profile == nil {
		return
	}
	ps.profile.Streak = 0
	ps.persistLocked(ctx)
}

// OnGoalAchieved advances the streak when the ledger reports a met goal.
func (ps *ProfileService) OnGoalAchieved(ctx context.Context, dateKey string) {
	slog.Info("daily goal achieved", slog.String("date", dateKey))
	ps.IncrementStreak(ctx)
}

// Clear forgets the in-memory profile. Stored data is removed by the caller.
func (ps *ProfileService) Clear() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.profile = nil
}

func (ps *ProfileService) persistLocked(ctx context.Context) {
	if err := ps.store.Save(ctx, repository.KeyProfile, ps.profile); err != nil {
		slog.Warn("saving profile error, keeping it in memory", slog.String("error", err.Error()))
	}
}

func (ps *ProfileService) goalChanged(ctx context.Context) {
	ps.mu.Lock()
	listeners := make([]func(ctx context.Context), len(ps.listeners))
	copy(listeners, ps.listeners)
	ps.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}
