package families

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weplanet/weplanet/pkg/weplanet/invitecode"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/metrics"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// maxCodeAttempts bounds the retries when an invite code collides
const maxCodeAttempts = 10

// Join outcome messages
const (
	MsgJoined        = "joined the family"
	MsgRejoined      = "rejoined the family"
	MsgAlreadyMember = "already a member of this family"
)

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces the invite code generator
func WithCodeGenerator(g invitecode.Generator) Option {
	return func(s *Service) { s.newCode = g }
}

// Service owns every state transition of families and memberships.
//
// Each mutation runs in one transaction that first locks the family row, so
// member_count and the set of active memberships change together. Seats are
// taken with a guarded increment that never lets member_count pass max_members.
type Service struct {
	db      *gorm.DB
	now     func() time.Time
	newCode invitecode.Generator
	log     zerolog.Logger
}

// NewService creates a family lifecycle service
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:      db,
		now:     time.Now,
		newCode: invitecode.Generate,
		log:     logging.NewPackageLogger("families"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FamilyView is a family as seen by one user
type FamilyView struct {
	Family          *models.Family
	CurrentUserRole *models.FamilyRole
}

// IsMember reports whether the viewing user holds an active membership
func (v *FamilyView) IsMember() bool {
	return v.CurrentUserRole != nil
}

// JoinResult describes the outcome of a join attempt. Success is false when the
// user already was an active member.
type JoinResult struct {
	Success    bool
	Message    string
	Family     *models.Family
	Membership *models.FamilyMembership
}

// LeaveResult describes the outcome of a leave
type LeaveResult struct {
	FamilyDeleted bool
	NewCreatorID  uint
}

// ListForUser returns the active memberships of a user with their families
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.FamilyMembership, error) {
	var memberships []models.FamilyMembership
	err := s.db.WithContext(ctx).
		Preload("Family").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("joined_at DESC, id DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	return memberships, nil
}

// Create makes a new family with userID as its creator and only member
func (s *Service) Create(ctx context.Context, userID uint, in CreateInput) (*models.Family, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	family := models.Family{
		Name:                in.Name,
		Description:         in.Description,
		CreatorID:           userID,
		IsPublic:            in.IsPublic,
		MaxMembers:          models.DefaultMaxMembers,
		FamilyGoal:          in.FamilyGoal,
		MonthlyTargetPoints: models.DefaultMonthlyTargetPoints,
		MemberCount:         1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.MaxMembers != nil {
		family.MaxMembers = *in.MaxMembers
	}
	if in.MonthlyTargetPoints != nil {
		family.MonthlyTargetPoints = *in.MonthlyTargetPoints
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.uniqueInviteCode(tx)
		if err != nil {
			return err
		}
		family.InviteCode = code

		if err := tx.Create(&family).Error; err != nil {
			return err
		}
		membership := models.FamilyMembership{
			FamilyID:            family.ID,
			UserID:              userID,
			Role:                models.FamilyRoleCreator,
			IsActive:            true,
			NotificationEnabled: true,
			JoinedAt:            now,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, wrap("create family", err)
	}

	metrics.FamiliesCreated.Inc()
	s.log.Info().Uint(logging.FAMILY_ID, family.ID).Uint(logging.USER_ID, userID).Msg("family created")
	return s.loadWithMembers(ctx, family.ID)
}

// Get returns a family with its active roster. Private families are only
// visible to their members.
func (s *Service) Get(ctx context.Context, familyID, userID uint) (*FamilyView, error) {
	family, err := s.loadWithMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}

	view := &FamilyView{Family: family}
	for _, m := range family.Members {
		if m.UserID == userID {
			role := m.Role
			view.CurrentUserRole = &role
			break
		}
	}
	if !view.IsMember() && !family.IsPublic {
		return nil, ErrPrivateFamily
	}
	return view, nil
}

// ListMembers returns the active roster with the visibility rules of Get
func (s *Service) ListMembers(ctx context.Context, familyID, userID uint) ([]models.FamilyMembership, error) {
	view, err := s.Get(ctx, familyID, userID)
	if err != nil {
		return nil, err
	}
	return view.Family.Members, nil
}

// Update applies a partial update to the family settings. Creators and admins only.
func (s *Service) Update(ctx context.Context, familyID, userID uint, in UpdateInput) (*models.Family, error) {
	updates, err := in.changes()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		family, err := lockFamily(tx, familyID)
		if err != nil {
			return err
		}
		requester, err := requireMember(tx, familyID, userID)
		if err != nil {
			return err
		}
		if !requester.Role.CanManageFamily() {
			return ErrPermissionDenied
		}
		if in.MaxMembers != nil && *in.MaxMembers < family.MemberCount {
			return ValidationError{
				Field:   "max_members",
				Message: fmt.Sprintf("cannot be lower than the current member count (%d)", family.MemberCount),
			}
		}
		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = s.now().UTC()
		return tx.Model(&models.Family{}).Where("id = ?", familyID).Updates(updates).Error
	})
	if err != nil {
		return nil, wrap("update family", err)
	}
	return s.loadWithMembers(ctx, familyID)
}

// JoinByCode admits userID into the family holding code. When familyID is not
// zero the code must belong to that family. Joining as an active member is a
// no-op reported with Success=false; an inactive membership is reactivated.
func (s *Service) JoinByCode(ctx context.Context, userID, familyID uint, code string) (*JoinResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ValidationError{Field: "invite_code", Message: "is required"}
	}
	if !invitecode.Valid(code) {
		metrics.FamilyJoins.WithLabelValues("invalid_code").Inc()
		return nil, wrap("join family", ErrInviteCodeNotFound)
	}

	var result *JoinResult
	outcome := "joined"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("invite_code = ?", code)
		if familyID != 0 {
			q = q.Where("id = ?", familyID)
		}
		var family models.Family
		if err := q.First(&family).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteCodeNotFound
			}
			return err
		}

		now := s.now().UTC()
		var membership models.FamilyMembership
		err := tx.Where("family_id = ? AND user_id = ?", family.ID, userID).First(&membership).Error
		switch {
		case err == nil && membership.IsActive:
			outcome = "already_member"
			result = &JoinResult{Success: false, Message: MsgAlreadyMember, Family: &family, Membership: &membership}
			return nil

		case err == nil:
			if family.IsFull() {
				return ErrFamilyFull
			}
			if err := takeSeat(tx, family.ID); err != nil {
				return err
			}
			if err := membership.Reactivate(now); err != nil {
				return err
			}
			err := tx.Model(&membership).Updates(map[string]interface{}{
				"is_active": membership.IsActive,
				"role":      membership.Role,
				"joined_at": membership.JoinedAt,
			}).Error
			if err != nil {
				return err
			}
			outcome = "rejoined"
			result = &JoinResult{Success: true, Message: MsgRejoined}

		case errors.Is(err, gorm.ErrRecordNotFound):
			if family.IsFull() {
				return ErrFamilyFull
			}
			if err := takeSeat(tx, family.ID); err != nil {
				return err
			}
			membership = models.FamilyMembership{
				FamilyID:            family.ID,
				UserID:              userID,
				Role:                models.FamilyRoleMember,
				IsActive:            true,
				NotificationEnabled: true,
				JoinedAt:            now,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
			result = &JoinResult{Success: true, Message: MsgJoined}

		default:
			return err
		}

		family.MemberCount++
		result.Family = &family
		result.Membership = &membership
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrFamilyFull) {
			metrics.FamilyJoins.WithLabelValues("full").Inc()
		}
		return nil, wrap("join family", err)
	}

	metrics.FamilyJoins.WithLabelValues(outcome).Inc()
	if result.Success {
		s.log.Info().Uint(logging.FAMILY_ID, result.Family.ID).Uint(logging.USER_ID, userID).Str(logging.EVENT, outcome).Msg("member joined")
	}
	return result, nil
}

// UpdateMember edits another membership. Creators and admins may change the
// nickname and notification flag; only the creator may change roles, and only
// between admin and member.
func (s *Service) UpdateMember(ctx context.Context, familyID, requesterID, membershipID uint, in MemberUpdate) (*models.FamilyMembership, error) {
	updates := make(map[string]interface{})
	if in.Nickname != nil {
		nickname := strings.TrimSpace(*in.Nickname)
		if utf8.RuneCountInString(nickname) > MaxNicknameLength {
			return nil, ValidationError{Field: "nickname", Message: fmt.Sprintf("must be at most %d characters", MaxNicknameLength)}
		}
		updates["nickname"] = nickname
	}
	if in.NotificationEnabled != nil {
		updates["notification_enabled"] = *in.NotificationEnabled
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockFamily(tx, familyID); err != nil {
			return err
		}
		requester, err := requireMember(tx, familyID, requesterID)
		if err != nil {
			return err
		}
		if !requester.Role.CanManageFamily() {
			return ErrPermissionDenied
		}

		var target models.FamilyMembership
		err = tx.Where("id = ? AND family_id = ? AND is_active = ?", membershipID, familyID, true).First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		if in.Role != nil {
			if !requester.Role.CanChangeRoles() {
				return ErrPermissionDenied
			}
			role, err := models.ParseFamilyRole(string(*in.Role))
			if err != nil {
				return ValidationError{Field: "role", Message: "must be one of: admin member"}
			}
			if role == models.FamilyRoleCreator {
				return ValidationError{Field: "role", Message: "use the ownership transfer to appoint a new creator"}
			}
			if target.Role == models.FamilyRoleCreator {
				return ValidationError{Field: "role", Message: "the creator's role only changes through ownership transfer"}
			}
			updates["role"] = role
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&target).Updates(updates).Error
	})
	if err != nil {
		return nil, wrap("update member", err)
	}

	var membership models.FamilyMembership
	if err := s.db.WithContext(ctx).Preload("User").First(&membership, membershipID).Error; err != nil {
		return nil, fmt.Errorf("reload member: %w", err)
	}
	return &membership, nil
}

// RemoveMember deactivates another member's membership. Creator only.
func (s *Service) RemoveMember(ctx context.Context, familyID, requesterID, membershipID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockFamily(tx, familyID); err != nil {
			return err
		}
		requester, err := requireMember(tx, familyID, requesterID)
		if err != nil {
			return err
		}
		if !requester.Role.CanRemoveMembers() {
			return ErrPermissionDenied
		}

		var target models.FamilyMembership
		if err := tx.Where("id = ? AND family_id = ?", membershipID, familyID).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}
		if target.UserID == requesterID {
			return ErrSelfRemoval
		}
		if err := target.Deactivate(); err != nil {
			return ErrMembershipNotFound
		}
		if err := deactivate(tx, &target); err != nil {
			return err
		}
		_, err = releaseSeat(tx, familyID)
		return err
	})
	if err != nil {
		return wrap("remove member", err)
	}

	metrics.MembersRemoved.Inc()
	s.log.Info().Uint(logging.FAMILY_ID, familyID).Uint(logging.USER_ID, requesterID).Uint("membership_id", membershipID).Msg("member removed")
	return nil
}

// Leave deactivates the requester's membership. A creator leaving a family
// that still has other members must name a successor in transferTo; the
// successor becomes creator before the creator's seat is released. The family
// is deleted when its last member leaves.
func (s *Service) Leave(ctx context.Context, familyID, userID uint, transferTo *uint) (*LeaveResult, error) {
	result := &LeaveResult{}
	kind := "member"
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockFamily(tx, familyID); err != nil {
			return err
		}
		membership, err := activeMembership(tx, familyID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		switch membership.Role {
		case models.FamilyRoleCreator:
			if transferTo == nil {
				var others int64
				err := tx.Model(&models.FamilyMembership{}).
					Where("family_id = ? AND is_active = ? AND user_id <> ?", familyID, true, userID).
					Count(&others).Error
				if err != nil {
					return err
				}
				if others > 0 {
					return ErrTransferRequired
				}
				break
			}
			if *transferTo == userID {
				return ValidationError{Field: "transfer_to_user_id", Message: "must be another member of the family"}
			}
			if err := promoteCreator(tx, familyID, *transferTo); err != nil {
				return err
			}
			result.NewCreatorID = *transferTo
			kind = "transfer"
		case models.FamilyRoleAdmin, models.FamilyRoleMember:
		default:
			return fmt.Errorf("membership %d: %w", membership.ID, models.ErrInvalidRole)
		}

		if err := membership.Deactivate(); err != nil {
			return err
		}
		if err := deactivate(tx, membership); err != nil {
			return err
		}
		remaining, err := releaseSeat(tx, familyID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			result.FamilyDeleted = true
			kind = "dissolve"
			return deleteFamily(tx, familyID)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("leave family", err)
	}

	metrics.FamilyLeaves.WithLabelValues(kind).Inc()
	s.log.Info().Uint(logging.FAMILY_ID, familyID).Uint(logging.USER_ID, userID).Str(logging.EVENT, kind).Msg("member left")
	return result, nil
}

// LeaveAll removes userID from every family they belong to, as when the
// account is deleted. Families the user created pass to their oldest admin,
// or failing that their oldest member; families left empty are deleted.
func (s *Service) LeaveAll(ctx context.Context, userID uint) error {
	memberships, err := s.ListForUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		var transferTo *uint
		if m.Role == models.FamilyRoleCreator {
			successor, err := s.successor(ctx, m.FamilyID, userID)
			if err != nil {
				return wrap("leave all families", err)
			}
			transferTo = successor
		}
		if _, err := s.Leave(ctx, m.FamilyID, userID, transferTo); err != nil {
			return err
		}
	}
	return nil
}

// successor picks the member who inherits a family from its creator. It is
// nil when the creator is alone.
func (s *Service) successor(ctx context.Context, familyID, creatorID uint) (*uint, error) {
	var next models.FamilyMembership
	err := s.db.WithContext(ctx).
		Where("family_id = ? AND is_active = ? AND user_id <> ?", familyID, true, creatorID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN role = ? THEN 0 ELSE 1 END, joined_at ASC, id ASC",
			Vars: []interface{}{models.FamilyRoleAdmin},
		}}).
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next.UserID, nil
}

// TransferOwnership makes another active member the creator. The previous
// creator stays in the family as an admin.
func (s *Service) TransferOwnership(ctx context.Context, familyID, requesterID, newCreatorID uint) (*models.Family, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockFamily(tx, familyID); err != nil {
			return err
		}
		requester, err := requireMember(tx, familyID, requesterID)
		if err != nil {
			return err
		}
		if !requester.Role.CanTransferOwnership() {
			return ErrPermissionDenied
		}
		if newCreatorID == requesterID {
			return ValidationError{Field: "user_id", Message: "must be another member of the family"}
		}
		if err := promoteCreator(tx, familyID, newCreatorID); err != nil {
			return err
		}
		return tx.Model(requester).Update("role", models.FamilyRoleAdmin).Error
	})
	if err != nil {
		return nil, wrap("transfer ownership", err)
	}

	s.log.Info().Uint(logging.FAMILY_ID, familyID).Uint(logging.USER_ID, requesterID).Uint("new_creator_id", newCreatorID).Msg("ownership transferred")
	return s.loadWithMembers(ctx, familyID)
}

func (s *Service) uniqueInviteCode(tx *gorm.DB) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		var count int64
		if err := tx.Model(&models.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		s.log.Debug().Int("attempt", i+1).Msg("invite code collision")
	}
	return "", ErrInviteCodeExhausted
}

func (s *Service) loadWithMembers(ctx context.Context, familyID uint) (*models.Family, error) {
	var family models.Family
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("joined_at ASC, id ASC")
		}).
		Preload("Members.User").
		First(&family, familyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("load family: %w", err)
	}
	return &family, nil
}

// lockFamily loads the family row under a write lock. SQLite has no row locks;
// there the single connection pool serialises transactions instead.
func lockFamily(tx *gorm.DB, familyID uint) (*models.Family, error) {
	var family models.Family
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func activeMembership(tx *gorm.DB, familyID, userID uint) (*models.FamilyMembership, error) {
	var m models.FamilyMembership
	if err := tx.Where("family_id = ? AND user_id = ? AND is_active = ?", familyID, userID, true).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func requireMember(tx *gorm.DB, familyID, userID uint) (*models.FamilyMembership, error) {
	m, err := activeMembership(tx, familyID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotMember
	}
	return m, err
}

// promoteCreator hands the creator role and the family's creator reference to
// the active member userID
func promoteCreator(tx *gorm.DB, familyID, userID uint) error {
	target, err := activeMembership(tx, familyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("new creator: %w", ErrMembershipNotFound)
		}
		return err
	}
	if err := tx.Model(target).Update("role", models.FamilyRoleCreator).Error; err != nil {
		return err
	}
	return tx.Model(&models.Family{}).Where("id = ?", familyID).Update("creator_id", userID).Error
}

// takeSeat increments member_count unless the family is full
func takeSeat(tx *gorm.DB, familyID uint) error {
	res := tx.Model(&models.Family{}).
		Where("id = ? AND member_count < max_members", familyID).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFamilyFull
	}
	return nil
}

// releaseSeat decrements member_count and returns the remaining count
func releaseSeat(tx *gorm.DB, familyID uint) (int, error) {
	res := tx.Model(&models.Family{}).
		Where("id = ? AND member_count > 0", familyID).
		UpdateColumn("member_count", gorm.Expr("member_count - ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, models.ErrFamilyEmpty
	}
	var family models.Family
	if err := tx.Select("id", "member_count").First(&family, familyID).Error; err != nil {
		return 0, err
	}
	return family.MemberCount, nil
}

func deactivate(tx *gorm.DB, m *models.FamilyMembership) error {
	return tx.Model(m).Update("is_active", false).Error
}

// deleteFamily removes the family and its memberships. Activities keep their
// family_id as history.
func deleteFamily(tx *gorm.DB, familyID uint) error {
	if err := tx.Where("family_id = ?", familyID).Delete(&models.FamilyMembership{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Family{}, familyID).Error
}

// wrap adds the operation to err; unique constraint races become ErrConflict
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	var verr ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
