package activities

import (
	"errors"

	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

var (
	// ErrActivityNotFound is returned for an unknown activity id
	ErrActivityNotFound = errors.New("activity not found")
	// ErrNotFamilyMember is returned when the user is not an active member of the family
	ErrNotFamilyMember = errors.New("not an active member of this family")
	// ErrPermissionDenied is returned when the member's role does not allow the action
	ErrPermissionDenied = errors.New("insufficient family role")
	// ErrUserNotFound is returned when the acting user no longer exists
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports an invalid input field
type ValidationError = validation.ValidationError
