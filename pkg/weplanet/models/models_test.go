package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	tables := []string{"users", "families", "family_memberships", "eco_activities", "badges", "user_badges", "missions", "user_missions", "api_keys", "notification_settings"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestUserModel(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "test@example.com", Username: "tester", PasswordHash: "hashed_password"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}
	if user.Level != 1 {
		t.Errorf("Expected default level 1, got %d", user.Level)
	}

	dup := User{Email: "test@example.com", Username: "other", PasswordHash: "hash"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating user with duplicate email")
	}

	dup = User{Email: "other@example.com", Username: "tester", PasswordHash: "hash"}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating user with duplicate username")
	}
}

func TestFamilyMembershipUniquePair(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user := User{Email: "a@example.com", Username: "a", PasswordHash: "hash"}
	db.Create(&user)
	family := Family{Name: "Green", InviteCode: "ABCD1234", CreatorID: user.ID, MaxMembers: DefaultMaxMembers}
	db.Create(&family)

	m := FamilyMembership{FamilyID: family.ID, UserID: user.ID, Role: FamilyRoleCreator, IsActive: true, JoinedAt: time.Now()}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}

	again := FamilyMembership{FamilyID: family.ID, UserID: user.ID, Role: FamilyRoleMember, IsActive: true, JoinedAt: time.Now()}
	if err := db.Create(&again).Error; err == nil {
		t.Error("Expected duplicate (family, user) membership to be rejected")
	}

	var loaded Family
	db.Preload("Members").First(&loaded, family.ID)
	if len(loaded.Members) != 1 {
		t.Errorf("Expected 1 membership, got %d", len(loaded.Members))
	}
}

func TestFamilyRolePermissions(t *testing.T) {
	tests := []struct {
		role          FamilyRole
		manage        bool
		removeMembers bool
		changeRoles   bool
	}{
		{FamilyRoleCreator, true, true, true},
		{FamilyRoleAdmin, true, false, false},
		{FamilyRoleMember, false, false, false},
		{FamilyRole("owner"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanManageFamily(); got != tt.manage {
				t.Errorf("CanManageFamily() = %v, want %v", got, tt.manage)
			}
			if got := tt.role.CanRemoveMembers(); got != tt.removeMembers {
				t.Errorf("CanRemoveMembers() = %v, want %v", got, tt.removeMembers)
			}
			if got := tt.role.CanChangeRoles(); got != tt.changeRoles {
				t.Errorf("CanChangeRoles() = %v, want %v", got, tt.changeRoles)
			}
		})
	}
}

func TestParseFamilyRole(t *testing.T) {
	if r, err := ParseFamilyRole("admin"); err != nil || r != FamilyRoleAdmin {
		t.Errorf("ParseFamilyRole(admin) = %q, %v", r, err)
	}
	if _, err := ParseFamilyRole("superuser"); err != ErrInvalidRole {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}

func TestMembershipLifecycle(t *testing.T) {
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := FamilyMembership{Role: FamilyRoleAdmin, IsActive: true, JoinedAt: joined}

	if err := m.Reactivate(joined); err != ErrMembershipActive {
		t.Errorf("Expected ErrMembershipActive, got %v", err)
	}
	if err := m.Deactivate(); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if err := m.Deactivate(); err != ErrMembershipInactive {
		t.Errorf("Expected ErrMembershipInactive, got %v", err)
	}

	later := joined.Add(48 * time.Hour)
	if err := m.Reactivate(later); err != nil {
		t.Fatalf("Reactivate failed: %v", err)
	}
	if !m.IsActive || m.Role != FamilyRoleMember || !m.JoinedAt.Equal(later) {
		t.Errorf("Unexpected membership after reactivation: %+v", m)
	}
}

func TestFamilyHelpers(t *testing.T) {
	f := Family{MaxMembers: 2, MemberCount: 1, TotalPoints: 300, MonthlyTargetPoints: 1000}

	if f.IsFull() {
		t.Error("Expected family with a free seat not to be full")
	}
	f.MemberCount = 2
	if !f.IsFull() {
		t.Error("Expected family to be full")
	}
	if got := f.AveragePointsPerMember(); got != 150 {
		t.Errorf("AveragePointsPerMember() = %v, want 150", got)
	}
	if got := f.MonthlyGoalProgress(250); got != 25 {
		t.Errorf("MonthlyGoalProgress(250) = %v, want 25", got)
	}
	if got := f.MonthlyGoalProgress(5000); got != 100 {
		t.Errorf("MonthlyGoalProgress(5000) = %v, want 100", got)
	}
	f.MonthlyTargetPoints = 0
	if got := f.MonthlyGoalProgress(10); got != 0 {
		t.Errorf("Expected 0 progress with zero target, got %v", got)
	}

	empty := Family{}
	if got := empty.AveragePointsPerMember(); got != 0 {
		t.Errorf("Expected 0 average for empty family, got %v", got)
	}
}

func TestRecordActivityDay(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }

	u := User{}
	u.RecordActivityDay(day(1, 9))
	if u.StreakDays != 1 {
		t.Fatalf("Expected streak 1 after first activity, got %d", u.StreakDays)
	}

	u.RecordActivityDay(day(1, 18))
	if u.StreakDays != 1 {
		t.Errorf("Expected same-day activity to keep streak 1, got %d", u.StreakDays)
	}

	u.RecordActivityDay(day(2, 8))
	u.RecordActivityDay(day(3, 23))
	if u.StreakDays != 3 {
		t.Errorf("Expected streak 3 after consecutive days, got %d", u.StreakDays)
	}

	u.RecordActivityDay(day(6, 10))
	if u.StreakDays != 1 {
		t.Errorf("Expected streak reset to 1 after a gap, got %d", u.StreakDays)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{2500, 3},
	}
	for _, tt := range tests {
		if got := LevelForExperience(tt.xp); got != tt.level {
			t.Errorf("LevelForExperience(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}

	u := User{Level: 1}
	if u.AddExperience(500) {
		t.Error("Expected no level up at 500 xp")
	}
	if !u.AddExperience(600) {
		t.Error("Expected level up at 1100 xp")
	}
	if u.Level != 2 {
		t.Errorf("Expected level 2, got %d", u.Level)
	}
	if got := LevelProgress(1250); got != 25 {
		t.Errorf("LevelProgress(1250) = %v, want 25", got)
	}
}

func TestActivityCategoryValid(t *testing.T) {
	if !CategoryTransportation.Valid() {
		t.Error("Expected transportation to be valid")
	}
	if ActivityCategory("teleport").Valid() {
		t.Error("Expected unknown category to be invalid")
	}
}

func TestMissionTypes(t *testing.T) {
	for _, mt := range []MissionType{MissionDaily, MissionWeekly, MissionMonthly} {
		if !mt.Valid() || !mt.Recurring() {
			t.Errorf("Expected %s to be a valid recurring type", mt)
		}
	}
	for _, mt := range []MissionType{MissionSpecial, MissionChallenge} {
		if !mt.Valid() || mt.Recurring() {
			t.Errorf("Expected %s to be a valid one-off type", mt)
		}
	}
	if MissionType("yearly").Valid() {
		t.Error("Expected unknown mission type to be invalid")
	}
}

func TestUserMissionProgressPercentage(t *testing.T) {
	um := UserMission{Progress: 1}
	if got := um.ProgressPercentage(3); got != 33.33 {
		t.Errorf("ProgressPercentage(3) = %v, want 33.33", got)
	}
	um.Progress = 5
	if got := um.ProgressPercentage(3); got != 100 {
		t.Errorf("Expected progress capped at 100, got %v", got)
	}
	if got := um.ProgressPercentage(0); got != 0 {
		t.Errorf("Expected 0 for an incomplete zero target, got %v", got)
	}
}
