package service

import (
	"context"

	"github.com/limbo/hydrobuddy/pkg/entity"
)

//go:generate mockgen -destination=mocks/notifier_mock.go -package=mocks github.com/limbo/hydrobuddy/internal/service Notifier

type WeightUnit string

const (
	UnitKg WeightUnit = "kg"
	UnitLb WeightUnit = "lb"
)

type CreateProfileRequest struct {
	Name   string     `validate:"notblank,max=100"`
	Weight float64    `validate:"required,gt=0,finite"`
	Unit   WeightUnit `validate:"omitempty,oneof=kg lb"`
}

// ProfileUpdate merges non-nil fields into the stored profile.
type ProfileUpdate struct {
	Name        *string  `validate:"omitnil,notblank,max=100"`
	WeightKg    *float64 `validate:"omitnil,gt=0,finite"`
	WaterGoalMl *int     `validate:"omitnil,gt=0"`
	Streak      *int     `validate:"omitnil,gte=0"`
}

type IntakeRequest struct {
	AmountMl int `validate:"gt=0"`
}

// ReminderUpdate merges non-nil fields into the reminder settings.
type ReminderUpdate struct {
	Enabled         *bool
	IntervalMinutes *int    `validate:"omitnil,gt=0,lte=1440"`
	StartTime       *string `validate:"omitnil,clock"`
	EndTime         *string `validate:"omitnil,clock"`
}

// GoalProvider exposes the current daily goal. ok is false before onboarding.
type GoalProvider interface {
	WaterGoal() (goal int, ok bool)
}

// GoalObserver is told once per day when the intake reaches the goal.
type GoalObserver interface {
	OnGoalAchieved(ctx context.Context, dateKey string)
}

// GoalSetter lets the weather service overwrite the goal.
type GoalSetter interface {
	GoalProvider
	SetWaterGoal(ctx context.Context, goal int) error
}

// WeatherProvider fetches current conditions for a city name or "lat,lon".
type WeatherProvider interface {
	Current(ctx context.Context, location string) (*entity.Weather, error)
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type Notification struct {
	Title string
	Body  string
	Icon  string
}

// Notifier is the platform notification sink.
type Notifier interface {
	Permission() Permission
	// Prompts the user. Only called while the permission is default
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, n Notification) error
}
