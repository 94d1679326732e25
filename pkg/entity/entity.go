package entity

import (
	"time"

	"github.com/google/uuid"
)

// Badge ids of the fixed catalog
const (
	BadgeThreeDayStreak    = "three-day-streak"
	BadgeHeatMaster        = "heat-master"
	BadgeHydrationStreaker = "hydration-streaker"
)

type UserProfile struct {
	Name        string  `json:"name"`
	WeightKg    float64 `json:"weight"`
	WaterGoalMl int     `json:"waterGoal"`
	Streak      int     `json:"streak"`
	Badges      []Badge `json:"badges"`
}

// Clone returns a deep copy so callers can't mutate service-owned state.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	c.Badges = make([]Badge, len(p.Badges))
	for i, b := range p.Badges {
		c.Badges[i] = b.clone()
	}
	return &c
}

type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

func (b Badge) clone() Badge {
	if b.UnlockedAt != nil {
		at := *b.UnlockedAt
		b.UnlockedAt = &at
	}
	return b
}

// DefaultBadges returns a fresh, fully locked copy of the badge catalog.
func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          BadgeThreeDayStreak,
			Name:        "3-Day Streak",
			Description: "Reached your water goal for 3 consecutive days",
			Icon:        "trophy",
		},
		{
			ID:          BadgeHeatMaster,
			Name:        "Heat Master",
			Description: "Met your water goal on a hot day",
			Icon:        "flame",
		},
		{
			ID:          BadgeHydrationStreaker,
			Name:        "Hydration Streaker",
			Description: "Reached your water goal for 7 consecutive days",
			Icon:        "medal",
		},
	}
}

type IntakeEntry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	AmountMl  int       `json:"amount"`
}

// DayIntake is the record of a single day. AmountMl always equals the sum of Entries.
type DayIntake struct {
	Date     string        `json:"date"`
	AmountMl int           `json:"amount"`
	Entries  []IntakeEntry `json:"entries"`
}

func NewDayIntake(date string) DayIntake {
	return DayIntake{
		Date:    date,
		Entries: []IntakeEntry{},
	}
}

func (d DayIntake) Clone() DayIntake {
	entries := make([]IntakeEntry, len(d.Entries))
	copy(entries, d.Entries)
	d.Entries = entries
	return d
}

type SeriesPoint struct {
	Date     string `json:"date"`
	AmountMl int    `json:"amount"`
}

type Weather struct {
	TempC       float64 `json:"temp"`
	HumidityPct float64 `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Loading     bool    `json:"loading"`
	Error       string  `json:"error,omitempty"`
}

type ReminderSettings struct {
	Enabled         bool   `json:"enabled"`
	IntervalMinutes int    `json:"interval"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
}

func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Enabled:         false,
		IntervalMinutes: 120,
		StartTime:       "08:00",
		EndTime:         "20:00",
	}
}
