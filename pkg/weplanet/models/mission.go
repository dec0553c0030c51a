package models

import (
	"time"
)

// MissionType sets the period a mission's progress is counted over
type MissionType string

const (
	MissionDaily     MissionType = "daily"
	MissionWeekly    MissionType = "weekly"
	MissionMonthly   MissionType = "monthly"
	MissionSpecial   MissionType = "special"
	MissionChallenge MissionType = "challenge"
)

// Valid reports whether t is a known mission type
func (t MissionType) Valid() bool {
	switch t {
	case MissionDaily, MissionWeekly, MissionMonthly, MissionSpecial, MissionChallenge:
		return true
	}
	return false
}

// Recurring reports whether the mission restarts every day, week or month.
// Special missions and challenges run once between StartDate and EndDate.
func (t MissionType) Recurring() bool {
	switch t {
	case MissionDaily, MissionWeekly, MissionMonthly:
		return true
	}
	return false
}

// Mission is a goal a user works towards during a period. Metric is a numeric
// expression over the user's activities in the period; the mission completes
// once it reaches TargetValue.
type Mission struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Title            string           `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Description      string           `gorm:"type:text;not null" json:"description"`
	ShortDescription string           `gorm:"size:300" json:"short_description"`
	MissionType      MissionType      `gorm:"type:varchar(20);not null;index" json:"mission_type"`
	Category         ActivityCategory `gorm:"type:varchar(30)" json:"category,omitempty"`
	DifficultyLevel  int              `gorm:"not null" json:"difficulty_level"`
	Metric           string           `gorm:"type:text;not null" json:"metric"`
	TargetValue      float64          `gorm:"not null" json:"target_value"`
	PointsReward     int              `gorm:"not null" json:"points_reward"`
	ExperienceReward int              `gorm:"not null" json:"experience_reward"`
	BadgeRewardID    *uint            `json:"badge_reward_id,omitempty"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	IsActive         bool             `gorm:"not null;index" json:"is_active"`

	// Relationships
	BadgeReward *Badge `gorm:"foreignKey:BadgeRewardID" json:"-"`
}

// UserMission tracks one user's progress on a mission for one period. A
// recurring mission gets a new row every period.
type UserMission struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_mission_period" json:"user_id"`
	MissionID   uint       `gorm:"not null;uniqueIndex:idx_user_mission_period" json:"mission_id"`
	StartedAt   time.Time  `gorm:"not null;uniqueIndex:idx_user_mission_period" json:"started_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Progress    float64    `gorm:"not null" json:"progress"`
	IsCompleted bool       `gorm:"not null" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	Mission Mission `gorm:"foreignKey:MissionID" json:"mission"`
}

// ProgressPercentage returns progress towards target, capped at 100
func (um *UserMission) ProgressPercentage(target float64) float64 {
	if target <= 0 {
		if um.IsCompleted {
			return 100
		}
		return 0
	}
	pct := um.Progress / target * 100
	if pct > 100 {
		return 100
	}
	return float64(int(pct*100+0.5)) / 100
}
