package families

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/database"
	"github.com/weplanet/weplanet/pkg/weplanet/invitecode"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Wednesday
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Open(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func newTestService(db *gorm.DB, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(db, opts...)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func intPtr(v int) *int                              { return &v }
func uintPtr(v uint) *uint                           { return &v }
func strPtr(v string) *string                        { return &v }
func boolPtr(v bool) *bool                           { return &v }
func rolePtr(r models.FamilyRole) *models.FamilyRole { return &r }

func createFamily(t *testing.T, svc *Service, creator models.User, in CreateInput) *models.Family {
	if in.Name == "" {
		in.Name = "Smiths"
	}
	family, err := svc.Create(context.Background(), creator.ID, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return family
}

func join(t *testing.T, svc *Service, user models.User, family *models.Family) *JoinResult {
	result, err := svc.JoinByCode(context.Background(), user.ID, 0, family.InviteCode)
	if err != nil {
		t.Fatalf("JoinByCode for %s failed: %v", user.Username, err)
	}
	return result
}

func membershipOf(t *testing.T, db *gorm.DB, familyID, userID uint) models.FamilyMembership {
	var m models.FamilyMembership
	if err := db.Where("family_id = ? AND user_id = ?", familyID, userID).First(&m).Error; err != nil {
		t.Fatalf("membership (%d, %d) not found: %v", familyID, userID, err)
	}
	return m
}

// assertInvariants checks that member_count matches the active memberships and
// that a non-empty family has exactly one active creator, matching creator_id.
func assertInvariants(t *testing.T, db *gorm.DB, familyID uint) {
	t.Helper()

	var family models.Family
	if err := db.First(&family, familyID).Error; err != nil {
		var count int64
		db.Model(&models.FamilyMembership{}).Where("family_id = ?", familyID).Count(&count)
		if count != 0 {
			t.Errorf("Deleted family %d still has %d memberships", familyID, count)
		}
		return
	}

	var active int64
	db.Model(&models.FamilyMembership{}).Where("family_id = ? AND is_active = ?", familyID, true).Count(&active)
	if int64(family.MemberCount) != active {
		t.Errorf("member_count = %d, active memberships = %d", family.MemberCount, active)
	}
	if family.MemberCount > family.MaxMembers {
		t.Errorf("member_count %d exceeds max_members %d", family.MemberCount, family.MaxMembers)
	}

	var creators []models.FamilyMembership
	db.Where("family_id = ? AND is_active = ? AND role = ?", familyID, true, models.FamilyRoleCreator).Find(&creators)
	if active > 0 && len(creators) != 1 {
		t.Errorf("Expected exactly one active creator, got %d", len(creators))
	}
	if len(creators) == 1 && creators[0].UserID != family.CreatorID {
		t.Errorf("creator_id = %d, creator membership belongs to %d", family.CreatorID, creators[0].UserID)
	}
}

func TestCreateFamily(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user1 := createTestUser(t, db, "user1")

	family := createFamily(t, svc, user1, CreateInput{
		Name:                "Smiths",
		IsPublic:            false,
		MonthlyTargetPoints: intPtr(500),
	})

	if family.MemberCount != 1 {
		t.Errorf("Expected member_count 1, got %d", family.MemberCount)
	}
	if len(family.Members) != 1 || family.Members[0].UserID != user1.ID || family.Members[0].Role != models.FamilyRoleCreator {
		t.Fatalf("Expected user1 as the single creator member, got %+v", family.Members)
	}
	if !invitecode.Valid(family.InviteCode) {
		t.Errorf("Expected an 8 character invite code, got %q", family.InviteCode)
	}
	if family.MonthlyTargetPoints != 500 || family.IsPublic {
		t.Errorf("Unexpected settings: target=%d public=%v", family.MonthlyTargetPoints, family.IsPublic)
	}
	if family.MaxMembers != models.DefaultMaxMembers {
		t.Errorf("Expected default max_members %d, got %d", models.DefaultMaxMembers, family.MaxMembers)
	}
	if family.TotalPoints != 0 || family.TotalActivities != 0 || family.TotalCO2Saved != 0 {
		t.Error("Expected zero aggregates on a new family")
	}
	if family.CreatorID != user1.ID {
		t.Errorf("Expected creator_id %d, got %d", user1.ID, family.CreatorID)
	}
	assertInvariants(t, db, family.ID)
}

func TestCreateFamilyDefaultsAndZeroTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user := createTestUser(t, db, "user1")

	family := createFamily(t, svc, user, CreateInput{Name: "Defaults"})
	if family.MonthlyTargetPoints != models.DefaultMonthlyTargetPoints {
		t.Errorf("Expected default target %d, got %d", models.DefaultMonthlyTargetPoints, family.MonthlyTargetPoints)
	}

	zero := createFamily(t, svc, user, CreateInput{Name: "Zero", MonthlyTargetPoints: intPtr(0), MaxMembers: intPtr(3)})
	if zero.MonthlyTargetPoints != 0 {
		t.Errorf("Expected explicit zero target to be kept, got %d", zero.MonthlyTargetPoints)
	}
	if zero.MaxMembers != 3 {
		t.Errorf("Expected max_members 3, got %d", zero.MaxMembers)
	}
}

func TestCreateFamilyValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user := createTestUser(t, db, "user1")

	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"empty name", CreateInput{Name: "   "}, "name"},
		{"long name", CreateInput{Name: strings.Repeat("a", MaxNameLength+1)}, "name"},
		{"negative target", CreateInput{Name: "x", MonthlyTargetPoints: intPtr(-1)}, "monthly_target_points"},
		{"zero capacity", CreateInput{Name: "x", MaxMembers: intPtr(0)}, "max_members"},
		{"capacity over limit", CreateInput{Name: "x", MaxMembers: intPtr(models.MaxMembersLimit + 1)}, "max_members"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), user.ID, tt.in)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, verr.Field)
			}
		})
	}

	var count int64
	db.Model(&models.Family{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no family to be created, got %d", count)
	}
}

func TestCreateFamilyRetriesInviteCodeCollision(t *testing.T) {
	db := setupTestDB(t)
	codes := []string{"AAAAAAAA", "AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	var mu sync.Mutex
	gen := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}
	svc := newTestService(db, WithCodeGenerator(gen))
	user := createTestUser(t, db, "user1")

	first := createFamily(t, svc, user, CreateInput{Name: "First"})
	second := createFamily(t, svc, user, CreateInput{Name: "Second"})

	if first.InviteCode != "AAAAAAAA" {
		t.Errorf("Expected first code AAAAAAAA, got %s", first.InviteCode)
	}
	if second.InviteCode != "BBBBBBBB" {
		t.Errorf("Expected colliding code to be regenerated, got %s", second.InviteCode)
	}
}

func TestCreateFamilyInviteCodeExhausted(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db, WithCodeGenerator(func() (string, error) { return "SAMECODE", nil }))
	user := createTestUser(t, db, "user1")

	createFamily(t, svc, user, CreateInput{Name: "First"})
	_, err := svc.Create(context.Background(), user.ID, CreateInput{Name: "Second"})
	if !errors.Is(err, ErrInviteCodeExhausted) {
		t.Errorf("Expected ErrInviteCodeExhausted, got %v", err)
	}
}

func TestGetFamilyVisibility(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	owner := createTestUser(t, db, "owner")
	outsider := createTestUser(t, db, "outsider")
	ctx := context.Background()

	private := createFamily(t, svc, owner, CreateInput{Name: "Private", Description: "ours"})
	public := createFamily(t, svc, owner, CreateInput{Name: "Public", IsPublic: true})

	view, err := svc.Get(ctx, private.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if view.Family.Name != "Private" || view.Family.Description != "ours" || view.Family.InviteCode != private.InviteCode {
		t.Errorf("Round trip mismatch: %+v", view.Family)
	}
	if !view.IsMember() || *view.CurrentUserRole != models.FamilyRoleCreator {
		t.Errorf("Expected owner to be creator, got %v", view.CurrentUserRole)
	}

	if _, err := svc.Get(ctx, private.ID, outsider.ID); !errors.Is(err, ErrPrivateFamily) {
		t.Errorf("Expected ErrPrivateFamily, got %v", err)
	}

	view, err = svc.Get(ctx, public.ID, outsider.ID)
	if err != nil {
		t.Fatalf("Expected public family to be visible: %v", err)
	}
	if view.IsMember() {
		t.Error("Expected outsider not to be a member")
	}

	if _, err := svc.Get(ctx, 9999, owner.ID); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("Expected ErrFamilyNotFound, got %v", err)
	}
}

func TestJoinByCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")
	family := createFamily(t, svc, user1, CreateInput{})

	result := join(t, svc, user2, family)
	if !result.Success || result.Message != MsgJoined {
		t.Errorf("Expected successful join, got %+v", result)
	}
	if result.Family.MemberCount != 2 {
		t.Errorf("Expected member_count 2, got %d", result.Family.MemberCount)
	}
	if result.Membership.Role != models.FamilyRoleMember {
		t.Errorf("Expected role member, got %s", result.Membership.Role)
	}
	assertInvariants(t, db, family.ID)

	// Joining again is a no-op
	again := join(t, svc, user2, family)
	if again.Success || again.Message != MsgAlreadyMember {
		t.Errorf("Expected already-member result, got %+v", again)
	}
	var reloaded models.Family
	db.First(&reloaded, family.ID)
	if reloaded.MemberCount != 2 {
		t.Errorf("Expected member_count to stay 2, got %d", reloaded.MemberCount)
	}
	assertInvariants(t, db, family.ID)
}

func TestJoinScopedToFamily(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")
	ctx := context.Background()

	first := createFamily(t, svc, user1, CreateInput{Name: "First"})
	second := createFamily(t, svc, user1, CreateInput{Name: "Second"})

	if _, err := svc.JoinByCode(ctx, user2.ID, second.ID, first.InviteCode); !errors.Is(err, ErrInviteCodeNotFound) {
		t.Errorf("Expected ErrInviteCodeNotFound for mismatched family, got %v", err)
	}
	if _, err := svc.JoinByCode(ctx, user2.ID, 0, "NOPE0000"); !errors.Is(err, ErrInviteCodeNotFound) {
		t.Errorf("Expected ErrInviteCodeNotFound for unknown code, got %v", err)
	}
	if _, err := svc.JoinByCode(ctx, user2.ID, 0, ""); err == nil {
		t.Error("Expected validation error for empty code")
	}
	for _, code := range []string{"ABC", "ABCD-123", "ABCDEFGHJ", "ÄBCDEFG"} {
		if _, err := svc.JoinByCode(ctx, user2.ID, 0, code); !errors.Is(err, ErrInviteCodeNotFound) {
			t.Errorf("Expected ErrInviteCodeNotFound for malformed code %q, got %v", code, err)
		}
	}

	// Codes are case-insensitive on input
	result, err := svc.JoinByCode(ctx, user2.ID, first.ID, " "+strings.ToLower(first.InviteCode)+" ")
	if err != nil || !result.Success {
		t.Fatalf("Expected scoped join to succeed, got %+v, %v", result, err)
	}
}

func TestJoinCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")
	user3 := createTestUser(t, db, "user3")
	family := createFamily(t, svc, user1, CreateInput{MaxMembers: intPtr(2)})

	join(t, svc, user2, family)

	_, err := svc.JoinByCode(context.Background(), user3.ID, 0, family.InviteCode)
	if !errors.Is(err, ErrFamilyFull) {
		t.Fatalf("Expected ErrFamilyFull, got %v", err)
	}

	var count int64
	db.Model(&models.FamilyMembership{}).Where("family_id = ? AND user_id = ?", family.ID, user3.ID).Count(&count)
	if count != 0 {
		t.Error("Expected no membership row for the rejected user")
	}
	assertInvariants(t, db, family.ID)
}

func TestRejoinReactivatesMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")
	user3 := createTestUser(t, db, "user3")
	family := createFamily(t, svc, user1, CreateInput{MaxMembers: intPtr(2)})

	first := join(t, svc, user2, family)
	svc.UpdateMember(ctx, family.ID, user1.ID, first.Membership.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)})

	if _, err := svc.Leave(ctx, family.ID, user2.ID, nil); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	assertInvariants(t, db, family.ID)

	// The freed seat is taken by someone else, so the rejoin must fail
	join(t, svc, user3, family)
	if _, err := svc.JoinByCode(ctx, user2.ID, 0, family.InviteCode); !errors.Is(err, ErrFamilyFull) {
		t.Fatalf("Expected ErrFamilyFull on rejoin, got %v", err)
	}

	if _, err := svc.Leave(ctx, family.ID, user3.ID, nil); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	result := join(t, svc, user2, family)
	if !result.Success || result.Message != MsgRejoined {
		t.Errorf("Expected rejoin, got %+v", result)
	}
	if result.Membership.ID != first.Membership.ID {
		t.Errorf("Expected membership %d to be reactivated, got %d", first.Membership.ID, result.Membership.ID)
	}
	if result.Membership.Role != models.FamilyRoleMember {
		t.Errorf("Expected reactivated role member, got %s", result.Membership.Role)
	}

	var rows int64
	db.Model(&models.FamilyMembership{}).Where("family_id = ? AND user_id = ?", family.ID, user2.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("Expected one membership row per (family, user), got %d", rows)
	}
	assertInvariants(t, db, family.ID)
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	creator := createTestUser(t, db, "creator")
	family := createFamily(t, svc, creator, CreateInput{MaxMembers: intPtr(5)})

	users := make([]models.User, 12)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("joiner%d", i))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		joined  int
		full    int
		unknown []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			_, err := svc.JoinByCode(context.Background(), u.ID, 0, family.InviteCode)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, ErrFamilyFull):
				full++
			default:
				unknown = append(unknown, err)
			}
		}(u)
	}
	wg.Wait()

	if len(unknown) > 0 {
		t.Fatalf("Unexpected errors: %v", unknown)
	}
	if joined != 4 || full != 8 {
		t.Errorf("Expected 4 joins and 8 rejections, got %d and %d", joined, full)
	}
	assertInvariants(t, db, family.ID)
}

func TestUpdateFamily(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")

	family := createFamily(t, svc, creator, CreateInput{Name: "Before", Description: "keep me", IsPublic: true})
	adminJoin := join(t, svc, admin, family)
	join(t, svc, member, family)
	if _, err := svc.UpdateMember(ctx, family.ID, creator.ID, adminJoin.Membership.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)}); err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	updated, err := svc.Update(ctx, family.ID, admin.ID, UpdateInput{Name: strPtr("After"), IsPublic: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update by admin failed: %v", err)
	}
	if updated.Name != "After" || updated.IsPublic {
		t.Errorf("Expected name After and private, got %q public=%v", updated.Name, updated.IsPublic)
	}
	if updated.Description != "keep me" {
		t.Errorf("Expected absent fields to stay untouched, got description %q", updated.Description)
	}

	if _, err := svc.Update(ctx, family.ID, member.ID, UpdateInput{Name: strPtr("Nope")}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied for member, got %v", err)
	}
	if _, err := svc.Update(ctx, family.ID, outsider.ID, UpdateInput{Name: strPtr("Nope")}); !errors.Is(err, ErrNotMember) {
		t.Errorf("Expected ErrNotMember for outsider, got %v", err)
	}

	_, err = svc.Update(ctx, family.ID, creator.ID, UpdateInput{MaxMembers: intPtr(2)})
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Field != "max_members" {
		t.Errorf("Expected max_members validation error, got %v", err)
	}

	updated, err = svc.Update(ctx, family.ID, creator.ID, UpdateInput{MaxMembers: intPtr(3), MonthlyTargetPoints: intPtr(0)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.MaxMembers != 3 || updated.MonthlyTargetPoints != 0 {
		t.Errorf("Unexpected settings after update: max=%d target=%d", updated.MaxMembers, updated.MonthlyTargetPoints)
	}
}

func TestUpdateMemberRoles(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")

	family := createFamily(t, svc, creator, CreateInput{})
	adminM := join(t, svc, admin, family).Membership
	memberM := join(t, svc, member, family).Membership
	creatorM := membershipOf(t, db, family.ID, creator.ID)

	promoted, err := svc.UpdateMember(ctx, family.ID, creator.ID, adminM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)})
	if err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	if promoted.Role != models.FamilyRoleAdmin || promoted.User.Username != "admin" {
		t.Errorf("Unexpected promoted membership: %+v", promoted)
	}

	renamed, err := svc.UpdateMember(ctx, family.ID, admin.ID, memberM.ID, MemberUpdate{Nickname: strPtr("Kiddo"), NotificationEnabled: boolPtr(false)})
	if err != nil {
		t.Fatalf("Admin nickname update failed: %v", err)
	}
	if renamed.Nickname != "Kiddo" || renamed.NotificationEnabled {
		t.Errorf("Unexpected membership after update: %+v", renamed)
	}

	if _, err := svc.UpdateMember(ctx, family.ID, admin.ID, memberM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected admins not to change roles, got %v", err)
	}
	if _, err := svc.UpdateMember(ctx, family.ID, member.ID, adminM.ID, MemberUpdate{Nickname: strPtr("x")}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected members not to edit others, got %v", err)
	}

	var verr ValidationError
	_, err = svc.UpdateMember(ctx, family.ID, creator.ID, memberM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleCreator)})
	if !errors.As(err, &verr) || verr.Field != "role" {
		t.Errorf("Expected role validation error for creator escalation, got %v", err)
	}
	_, err = svc.UpdateMember(ctx, family.ID, creator.ID, creatorM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleMember)})
	if !errors.As(err, &verr) {
		t.Errorf("Expected validation error when re-roling the creator, got %v", err)
	}
	_, err = svc.UpdateMember(ctx, family.ID, creator.ID, memberM.ID, MemberUpdate{Role: rolePtr("owner")})
	if !errors.As(err, &verr) {
		t.Errorf("Expected validation error for unknown role, got %v", err)
	}
	_, err = svc.UpdateMember(ctx, family.ID, creator.ID, memberM.ID, MemberUpdate{Nickname: strPtr(strings.Repeat("n", MaxNicknameLength+1))})
	if !errors.As(err, &verr) || verr.Field != "nickname" {
		t.Errorf("Expected nickname validation error, got %v", err)
	}
	if _, err := svc.UpdateMember(ctx, family.ID, creator.ID, 9999, MemberUpdate{Nickname: strPtr("x")}); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound, got %v", err)
	}

	assertInvariants(t, db, family.ID)
}

func TestRemoveMember(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	admin := createTestUser(t, db, "admin")
	member := createTestUser(t, db, "member")

	family := createFamily(t, svc, creator, CreateInput{})
	adminM := join(t, svc, admin, family).Membership
	memberM := join(t, svc, member, family).Membership
	creatorM := membershipOf(t, db, family.ID, creator.ID)
	svc.UpdateMember(ctx, family.ID, creator.ID, adminM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)})

	if err := svc.RemoveMember(ctx, family.ID, admin.ID, memberM.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected admins not to remove members, got %v", err)
	}
	if err := svc.RemoveMember(ctx, family.ID, creator.ID, creatorM.ID); !errors.Is(err, ErrSelfRemoval) {
		t.Errorf("Expected ErrSelfRemoval, got %v", err)
	}

	if err := svc.RemoveMember(ctx, family.ID, creator.ID, memberM.ID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if m := membershipOf(t, db, family.ID, member.ID); m.IsActive {
		t.Error("Expected removed membership to be inactive")
	}
	assertInvariants(t, db, family.ID)

	if err := svc.RemoveMember(ctx, family.ID, creator.ID, memberM.ID); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound for removed member, got %v", err)
	}

	var reloaded models.Family
	db.First(&reloaded, family.ID)
	if reloaded.MemberCount != 2 {
		t.Errorf("Expected member_count 2, got %d", reloaded.MemberCount)
	}
}

func TestLeaveWithTransferScenarios(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")

	family := createFamily(t, svc, user1, CreateInput{Name: "Smiths", MonthlyTargetPoints: intPtr(500)})
	join(t, svc, user2, family)

	// C: creator cannot leave without naming a successor
	if _, err := svc.Leave(ctx, family.ID, user1.ID, nil); !errors.Is(err, ErrTransferRequired) {
		t.Fatalf("Expected ErrTransferRequired, got %v", err)
	}
	assertInvariants(t, db, family.ID)

	// D: leave with transfer
	result, err := svc.Leave(ctx, family.ID, user1.ID, uintPtr(user2.ID))
	if err != nil {
		t.Fatalf("Leave with transfer failed: %v", err)
	}
	if result.FamilyDeleted || result.NewCreatorID != user2.ID {
		t.Errorf("Unexpected leave result: %+v", result)
	}
	if m := membershipOf(t, db, family.ID, user2.ID); m.Role != models.FamilyRoleCreator {
		t.Errorf("Expected user2 to be creator, got %s", m.Role)
	}
	if m := membershipOf(t, db, family.ID, user1.ID); m.IsActive {
		t.Error("Expected user1 membership to be inactive")
	}
	var reloaded models.Family
	db.First(&reloaded, family.ID)
	if reloaded.MemberCount != 1 || reloaded.CreatorID != user2.ID {
		t.Errorf("Expected member_count 1 and creator user2, got %d and %d", reloaded.MemberCount, reloaded.CreatorID)
	}
	assertInvariants(t, db, family.ID)

	// E: the sole member leaves and the family is deleted
	result, err = svc.Leave(ctx, family.ID, user2.ID, nil)
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !result.FamilyDeleted {
		t.Error("Expected the family to be deleted")
	}
	if _, err := svc.Get(ctx, family.ID, user2.ID); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("Expected ErrFamilyNotFound after deletion, got %v", err)
	}
	assertInvariants(t, db, family.ID)
}

func TestLeaveErrors(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")

	family := createFamily(t, svc, creator, CreateInput{})
	join(t, svc, member, family)

	if _, err := svc.Leave(ctx, family.ID, outsider.ID, nil); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound for outsider, got %v", err)
	}
	if _, err := svc.Leave(ctx, family.ID, creator.ID, uintPtr(outsider.ID)); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound for non-member successor, got %v", err)
	}
	if _, err := svc.Leave(ctx, family.ID, creator.ID, uintPtr(creator.ID)); err == nil {
		t.Error("Expected error when naming yourself as successor")
	}
	if _, err := svc.Leave(ctx, 9999, creator.ID, nil); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("Expected ErrFamilyNotFound, got %v", err)
	}

	// Nothing changed
	if m := membershipOf(t, db, family.ID, creator.ID); !m.IsActive || m.Role != models.FamilyRoleCreator {
		t.Errorf("Expected creator membership untouched, got %+v", m)
	}
	assertInvariants(t, db, family.ID)

	// Plain members leave freely
	if _, err := svc.Leave(ctx, family.ID, member.ID, nil); err != nil {
		t.Fatalf("Member leave failed: %v", err)
	}
	assertInvariants(t, db, family.ID)
}

func TestSoleCreatorLeaveDeletesFamily(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	family := createFamily(t, svc, creator, CreateInput{})

	result, err := svc.Leave(ctx, family.ID, creator.ID, nil)
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if !result.FamilyDeleted {
		t.Error("Expected family to be deleted")
	}

	var count int64
	db.Model(&models.Family{}).Where("id = ?", family.ID).Count(&count)
	if count != 0 {
		t.Error("Expected family row to be gone")
	}
	db.Model(&models.FamilyMembership{}).Where("family_id = ?", family.ID).Count(&count)
	if count != 0 {
		t.Error("Expected memberships to be deleted with the family")
	}
}

func TestTransferOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	creator := createTestUser(t, db, "creator")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")

	family := createFamily(t, svc, creator, CreateInput{})
	join(t, svc, member, family)

	if _, err := svc.TransferOwnership(ctx, family.ID, member.ID, creator.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied for non-creator, got %v", err)
	}
	if _, err := svc.TransferOwnership(ctx, family.ID, creator.ID, outsider.ID); !errors.Is(err, ErrMembershipNotFound) {
		t.Errorf("Expected ErrMembershipNotFound for outsider, got %v", err)
	}

	updated, err := svc.TransferOwnership(ctx, family.ID, creator.ID, member.ID)
	if err != nil {
		t.Fatalf("TransferOwnership failed: %v", err)
	}
	if updated.CreatorID != member.ID || updated.MemberCount != 2 {
		t.Errorf("Expected creator %d and 2 members, got %d and %d", member.ID, updated.CreatorID, updated.MemberCount)
	}
	if m := membershipOf(t, db, family.ID, creator.ID); m.Role != models.FamilyRoleAdmin || !m.IsActive {
		t.Errorf("Expected previous creator to be an active admin, got %+v", m)
	}
	assertInvariants(t, db, family.ID)
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	user1 := createTestUser(t, db, "user1")
	user2 := createTestUser(t, db, "user2")

	first := createFamily(t, svc, user1, CreateInput{Name: "First"})
	createFamily(t, svc, user2, CreateInput{Name: "Other"})
	join(t, svc, user2, first)

	memberships, err := svc.ListForUser(ctx, user2.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(memberships) != 2 {
		t.Fatalf("Expected 2 families, got %d", len(memberships))
	}

	svc.Leave(ctx, first.ID, user2.ID, nil)
	memberships, _ = svc.ListForUser(ctx, user2.ID)
	if len(memberships) != 1 || memberships[0].Family.Name != "Other" {
		t.Errorf("Expected only the Other family after leaving, got %+v", memberships)
	}
}

func TestLeaveAll(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(db)
	ctx := context.Background()
	leaver := createTestUser(t, db, "leaver")
	member := createTestUser(t, db, "member")
	admin := createTestUser(t, db, "admin")
	other := createTestUser(t, db, "other")

	shared := createFamily(t, svc, leaver, CreateInput{Name: "Shared"})
	join(t, svc, member, shared)
	adminM := join(t, svc, admin, shared).Membership
	if _, err := svc.UpdateMember(ctx, shared.ID, leaver.ID, adminM.ID, MemberUpdate{Role: rolePtr(models.FamilyRoleAdmin)}); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	solo := createFamily(t, svc, leaver, CreateInput{Name: "Solo"})
	joined := createFamily(t, svc, other, CreateInput{Name: "Joined"})
	join(t, svc, leaver, joined)

	if err := svc.LeaveAll(ctx, leaver.ID); err != nil {
		t.Fatalf("LeaveAll failed: %v", err)
	}

	memberships, _ := svc.ListForUser(ctx, leaver.ID)
	if len(memberships) != 0 {
		t.Errorf("Expected no families left, got %d", len(memberships))
	}
	var reloaded models.Family
	db.First(&reloaded, shared.ID)
	if reloaded.CreatorID != admin.ID || reloaded.MemberCount != 2 {
		t.Errorf("Expected admin to inherit the family with 2 members, got creator %d and %d members", reloaded.CreatorID, reloaded.MemberCount)
	}
	assertInvariants(t, db, shared.ID)
	assertInvariants(t, db, joined.ID)
	if err := db.First(&models.Family{}, solo.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected the solo family to be deleted, got %v", err)
	}

	if err := svc.LeaveAll(ctx, leaver.ID); err != nil {
		t.Errorf("LeaveAll without families failed: %v", err)
	}
}
