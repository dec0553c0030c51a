package families

import (
	"errors"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// Not found
var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrInviteCodeNotFound = errors.New("no family matches this invite code")
	ErrMembershipNotFound = errors.New("membership not found")
)

// Permission
var (
	ErrNotMember        = errors.New("not an active member of this family")
	ErrPrivateFamily    = errors.New("this family is private")
	ErrPermissionDenied = errors.New("your role does not allow this operation")
)

// Rejected by the membership rules
var (
	ErrFamilyFull       = models.ErrFamilyFull
	ErrTransferRequired = errors.New("the creator must name a successor before leaving a family with other members")
	ErrSelfRemoval      = errors.New("you cannot remove yourself, leave the family instead")
)

// Conflict
var (
	ErrConflict            = errors.New("the family was modified concurrently, please retry")
	ErrInviteCodeExhausted = errors.New("could not allocate a unique invite code")
)

// ValidationError reports an invalid input field
type ValidationError = validation.ValidationError
