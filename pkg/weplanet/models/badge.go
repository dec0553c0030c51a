package models

import (
	"time"
)

// BadgeCategory groups badges by difficulty
type BadgeCategory string

const (
	BadgeCategoryBeginner     BadgeCategory = "beginner"
	BadgeCategoryIntermediate BadgeCategory = "intermediate"
	BadgeCategoryAdvanced     BadgeCategory = "advanced"
	BadgeCategorySpecial      BadgeCategory = "special"
)

// Badge is an achievement granted when Criteria, a boolean expression over the
// user's statistics, evaluates to true.
type Badge struct {
	ID               uint          `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Name             string        `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description      string        `gorm:"type:text;not null" json:"description"`
	Icon             string        `gorm:"size:100" json:"icon"`
	Category         BadgeCategory `gorm:"type:varchar(20);not null" json:"category"`
	Criteria         string        `gorm:"type:text;not null" json:"criteria"`
	PointsReward     int           `gorm:"not null;default:0" json:"points_reward"`
	ExperienceReward int           `gorm:"not null;default:0" json:"experience_reward"`
	IsActive         bool          `gorm:"not null;default:true" json:"is_active"`
	IsHidden         bool          `gorm:"not null;default:false" json:"is_hidden"`
}

// UserBadge records a badge earned by a user
type UserBadge struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`

	// Relationships
	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge"`
}
