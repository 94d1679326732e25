package api

import (
	"context"

	"github.com/limbo/hydrobuddy/internal/service"
	"github.com/limbo/hydrobuddy/pkg/entity"
)

type ProfileServiceI interface {
	Profile() *entity.UserProfile
	Badges() []entity.Badge
	WaterGoal() (int, bool)
	CreateProfile(ctx context.Context, req *service.CreateProfileRequest) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, upd service.ProfileUpdate) (*entity.UserProfile, error)
	UpdateDetails(ctx context.Context, req *service.CreateProfileRequest) (*entity.UserProfile, error)
	ResetStreak(ctx context.Context)
}

type IntakeServiceI interface {
	RecordIntake(ctx context.Context, amountMl int) (entity.DayIntake, error)
	ResetToday(ctx context.Context) entity.DayIntake
	Today() entity.DayIntake
	GoalAchievedToday() bool
	TodayPercentage() float64
	WeeklySeries() []entity.SeriesPoint
	MonthlySeries() []entity.SeriesPoint
	History(from, to string) ([]entity.DayIntake, error)
}

type WeatherServiceI interface {
	Current() entity.Weather
	Refresh(ctx context.Context) entity.Weather
}

type ReminderServiceI interface {
	Settings() entity.ReminderSettings
	UpdateSettings(ctx context.Context, upd service.ReminderUpdate) (entity.ReminderSettings, error)
	RequestPermission(ctx context.Context) (service.Permission, error)
	Permission() service.Permission
	State() string
}

type DataResetter interface {
	ResetAll(ctx context.Context) error
}
