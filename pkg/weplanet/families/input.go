package families

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Field limits
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxGoalLength        = 500
	MaxNicknameLength    = 50
)

// CreateInput holds the attributes of a new family. Nil pointers take the defaults.
type CreateInput struct {
	Name                string
	Description         string
	IsPublic            bool
	MaxMembers          *int
	FamilyGoal          string
	MonthlyTargetPoints *int
}

func (in *CreateInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.FamilyGoal = strings.TrimSpace(in.FamilyGoal)

	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateLength("description", in.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := validateLength("family_goal", in.FamilyGoal, MaxGoalLength); err != nil {
		return err
	}
	if in.MaxMembers != nil {
		if err := validateMaxMembers(*in.MaxMembers); err != nil {
			return err
		}
	}
	if in.MonthlyTargetPoints != nil {
		if err := validateMonthlyTarget(*in.MonthlyTargetPoints); err != nil {
			return err
		}
	}
	return nil
}

// UpdateInput is a partial update; only non-nil fields are applied
type UpdateInput struct {
	Name                *string
	Description         *string
	IsPublic            *bool
	MaxMembers          *int
	FamilyGoal          *string
	MonthlyTargetPoints *int
}

// changes validates the input and returns the column updates it describes
func (in UpdateInput) changes() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if err := validateLength("description", desc, MaxDescriptionLength); err != nil {
			return nil, err
		}
		updates["description"] = desc
	}
	if in.FamilyGoal != nil {
		goal := strings.TrimSpace(*in.FamilyGoal)
		if err := validateLength("family_goal", goal, MaxGoalLength); err != nil {
			return nil, err
		}
		updates["family_goal"] = goal
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}
	if in.MaxMembers != nil {
		if err := validateMaxMembers(*in.MaxMembers); err != nil {
			return nil, err
		}
		updates["max_members"] = *in.MaxMembers
	}
	if in.MonthlyTargetPoints != nil {
		if err := validateMonthlyTarget(*in.MonthlyTargetPoints); err != nil {
			return nil, err
		}
		updates["monthly_target_points"] = *in.MonthlyTargetPoints
	}
	return updates, nil
}

// MemberUpdate is a partial update of a membership
type MemberUpdate struct {
	Nickname            *string
	NotificationEnabled *bool
	Role                *models.FamilyRole
}

func validateName(name string) error {
	if name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	return validateLength("name", name, MaxNameLength)
}

func validateLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

func validateMaxMembers(n int) error {
	if n < 1 || n > models.MaxMembersLimit {
		return ValidationError{Field: "max_members", Message: fmt.Sprintf("must be between 1 and %d", models.MaxMembersLimit)}
	}
	return nil
}

func validateMonthlyTarget(n int) error {
	if n < 0 {
		return ValidationError{Field: "monthly_target_points", Message: "must be greater than or equal to 0"}
	}
	return nil
}
