package models

import (
	"errors"
	"time"
)

const (
	// DefaultMaxMembers is the capacity of a new family
	DefaultMaxMembers = 10
	// MaxMembersLimit is the largest capacity a family can be configured with
	MaxMembersLimit = 50
	// DefaultMonthlyTargetPoints is the monthly goal of a new family
	DefaultMonthlyTargetPoints = 1000
	// InviteCodeLength is the length of a family invite code
	InviteCodeLength = 8
)

var (
	// ErrFamilyFull is returned when a family has no free seat
	ErrFamilyFull = errors.New("family has reached its maximum number of members")
	// ErrFamilyEmpty is returned when decrementing a family without members
	ErrFamilyEmpty = errors.New("family has no active members")
)

// Family is a group of users pooling their eco activities.
// TotalPoints, TotalActivities, TotalCO2Saved and MemberCount are cached
// aggregates maintained incrementally; MemberCount always equals the number of
// active memberships.
type Family struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	InviteCode  string    `gorm:"size:16;uniqueIndex;not null" json:"invite_code"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`

	// Settings
	IsPublic            bool   `gorm:"not null" json:"is_public"`
	MaxMembers          int    `gorm:"not null" json:"max_members"`
	FamilyGoal          string `gorm:"type:text" json:"family_goal"`
	MonthlyTargetPoints int    `gorm:"not null" json:"monthly_target_points"`

	// Aggregates
	TotalPoints     int     `gorm:"not null;default:0" json:"total_points"`
	TotalActivities int     `gorm:"not null;default:0" json:"total_activities"`
	TotalCO2Saved   float64 `gorm:"not null;default:0" json:"total_co2_saved"`
	MemberCount     int     `gorm:"not null;default:0" json:"member_count"`

	// Relationships
	Creator User               `gorm:"foreignKey:CreatorID" json:"-"`
	Members []FamilyMembership `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// IsFull reports whether another member can be admitted
func (f *Family) IsFull() bool {
	return f.MemberCount >= f.MaxMembers
}

// AveragePointsPerMember returns total points divided by the active member count
func (f *Family) AveragePointsPerMember() float64 {
	if f.MemberCount <= 0 {
		return 0
	}
	return float64(f.TotalPoints) / float64(f.MemberCount)
}

// MonthlyGoalProgress returns the percentage (0..100) of the monthly target
// reached by pointsThisMonth. A zero target yields 0.
func (f *Family) MonthlyGoalProgress(pointsThisMonth int) float64 {
	if f.MonthlyTargetPoints <= 0 {
		return 0
	}
	progress := float64(pointsThisMonth) / float64(f.MonthlyTargetPoints) * 100
	if progress > 100 {
		return 100
	}
	return progress
}
