package models

import (
	"time"

	"gorm.io/gorm"
)

// ExperiencePerLevel is the experience needed to advance one level
const ExperiencePerLevel = 1000

// User represents a user in the system
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	AvatarURL    string         `gorm:"size:500" json:"avatar_url"`
	Bio          string         `gorm:"type:text" json:"bio"`
	Location     string         `gorm:"size:100" json:"location"`

	// Gamification
	TotalPoints      int     `gorm:"not null;default:0" json:"total_points"`
	Level            int     `gorm:"not null;default:1" json:"level"`
	ExperiencePoints int     `gorm:"not null;default:0" json:"experience_points"`
	StreakDays       int     `gorm:"not null;default:0" json:"streak_days"`
	TotalActivities  int     `gorm:"not null;default:0" json:"total_activities"`
	TotalCO2Saved    float64 `gorm:"not null;default:0" json:"total_co2_saved"`

	// Settings
	Active              bool `gorm:"not null;default:true" json:"is_active"`
	IsPublicProfile     bool `gorm:"not null;default:true" json:"is_public_profile"`
	NotificationEnabled bool `gorm:"not null;default:true" json:"notification_enabled"`

	LastLoginAt    *time.Time `json:"last_login_at"`
	LastActivityAt *time.Time `json:"last_activity_at"`

	// Relationships
	FamilyMemberships []FamilyMembership `gorm:"foreignKey:UserID" json:"family_memberships,omitempty"`
	APIKeys           []APIKey           `gorm:"foreignKey:UserID" json:"api_keys,omitempty"`
	Badges            []UserBadge        `gorm:"foreignKey:UserID" json:"badges,omitempty"`
}

// DisplayName returns the full name, falling back to the username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// AddExperience adds xp and recomputes the level. It reports whether the
// user levelled up.
func (u *User) AddExperience(xp int) bool {
	u.ExperiencePoints += xp
	level := LevelForExperience(u.ExperiencePoints)
	if level > u.Level {
		u.Level = level
		return true
	}
	return false
}

// RecordActivityDay updates the streak for an activity performed at t.
// A second activity on the same day leaves the streak unchanged, an activity on
// the following day extends it, anything else restarts it at 1.
func (u *User) RecordActivityDay(t time.Time) {
	t = t.UTC()
	if u.LastActivityAt != nil {
		last := truncateDay(u.LastActivityAt.UTC())
		today := truncateDay(t)
		switch {
		case today.Equal(last):
			if u.StreakDays == 0 {
				u.StreakDays = 1
			}
		case today.Equal(last.AddDate(0, 0, 1)):
			u.StreakDays++
		case today.Before(last):
			// backdated activity, streak untouched
			return
		default:
			u.StreakDays = 1
		}
	} else {
		u.StreakDays = 1
	}
	u.LastActivityAt = &t
}

// LevelForExperience returns the level reached with xp experience points
func LevelForExperience(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/ExperiencePerLevel + 1
}

// ExperienceForLevel returns the experience needed to reach level
func ExperienceForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * ExperiencePerLevel
}

// LevelProgress returns the percentage (0..100) towards the next level
func LevelProgress(xp int) float64 {
	level := LevelForExperience(xp)
	current := ExperienceForLevel(level)
	next := ExperienceForLevel(level + 1)
	return float64(xp-current) / float64(next-current) * 100
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
