package models

import (
	"errors"
	"time"
)

// FamilyRole represents a user's role within a specific family
type FamilyRole string

const (
	FamilyRoleCreator FamilyRole = "creator"
	FamilyRoleAdmin   FamilyRole = "admin"
	FamilyRoleMember  FamilyRole = "member"
)

var (
	// ErrInvalidRole is returned when parsing an unknown role
	ErrInvalidRole = errors.New("invalid family role")
	// ErrMembershipInactive is returned when acting on an inactive membership
	ErrMembershipInactive = errors.New("membership is not active")
	// ErrMembershipActive is returned when reactivating an active membership
	ErrMembershipActive = errors.New("membership is already active")
)

// ParseFamilyRole converts a string into a FamilyRole
func ParseFamilyRole(s string) (FamilyRole, error) {
	switch FamilyRole(s) {
	case FamilyRoleCreator:
		return FamilyRoleCreator, nil
	case FamilyRoleAdmin:
		return FamilyRoleAdmin, nil
	case FamilyRoleMember:
		return FamilyRoleMember, nil
	}
	return "", ErrInvalidRole
}

// Valid reports whether r is one of the known roles
func (r FamilyRole) Valid() bool {
	_, err := ParseFamilyRole(string(r))
	return err == nil
}

// CanManageFamily reports whether the role may edit family settings and members
func (r FamilyRole) CanManageFamily() bool {
	switch r {
	case FamilyRoleCreator, FamilyRoleAdmin:
		return true
	case FamilyRoleMember:
		return false
	}
	return false
}

// CanRemoveMembers reports whether the role may remove other members
func (r FamilyRole) CanRemoveMembers() bool {
	switch r {
	case FamilyRoleCreator:
		return true
	case FamilyRoleAdmin, FamilyRoleMember:
		return false
	}
	return false
}

// CanChangeRoles reports whether the role may change another member's role
func (r FamilyRole) CanChangeRoles() bool {
	switch r {
	case FamilyRoleCreator:
		return true
	case FamilyRoleAdmin, FamilyRoleMember:
		return false
	}
	return false
}

// CanTransferOwnership reports whether the role may hand the family to another member
func (r FamilyRole) CanTransferOwnership() bool {
	switch r {
	case FamilyRoleCreator:
		return true
	case FamilyRoleAdmin, FamilyRoleMember:
		return false
	}
	return false
}

// CanVerifyActivities reports whether the role may verify or reject activities
func (r FamilyRole) CanVerifyActivities() bool {
	return r.CanManageFamily()
}

// FamilyMembership links one user to one family. There is at most one row per
// (family, user) pair; leaving flips IsActive to false and rejoining flips it back.
type FamilyMembership struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	FamilyID            uint       `gorm:"not null;uniqueIndex:idx_family_user" json:"family_id"`
	UserID              uint       `gorm:"not null;uniqueIndex:idx_family_user;index" json:"user_id"`
	Role                FamilyRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	Nickname            string     `gorm:"size:50" json:"nickname"`
	PointsContributed   int        `gorm:"not null;default:0" json:"points_contributed"`
	ActivitiesCount     int        `gorm:"not null;default:0" json:"activities_count"`
	IsActive            bool       `gorm:"not null;default:true;index" json:"is_active"`
	NotificationEnabled bool       `gorm:"not null;default:true" json:"notification_enabled"`
	JoinedAt            time.Time  `json:"joined_at"`
	LastActivityAt      *time.Time `json:"last_activity_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Family Family `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"-"`
}

// Deactivate moves the membership from Active to Inactive
func (m *FamilyMembership) Deactivate() error {
	if !m.IsActive {
		return ErrMembershipInactive
	}
	m.IsActive = false
	return nil
}

// Reactivate moves an Inactive membership back to Active as a plain member
func (m *FamilyMembership) Reactivate(now time.Time) error {
	if m.IsActive {
		return ErrMembershipActive
	}
	m.IsActive = true
	m.Role = FamilyRoleMember
	m.JoinedAt = now
	return nil
}
