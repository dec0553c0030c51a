package badges

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/database"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

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

func TestCompileCriteria(t *testing.T) {
	valid := []string{
		"total_activities >= 1",
		"total_points >= 500 && streak_days >= 3",
		"total_co2_saved > 10.5 || level >= 5",
	}
	for _, src := range valid {
		if _, err := Compile(src); err != nil {
			t.Errorf("Compile(%q) failed: %v", src, err)
		}
	}

	invalid := []string{
		"",
		"total_points + 1",
		"unknown_stat > 3",
		"total_points >=",
	}
	for _, src := range invalid {
		if _, err := Compile(src); !errors.Is(err, ErrInvalidCriteria) {
			t.Errorf("Compile(%q): expected ErrInvalidCriteria, got %v", src, err)
		}
	}
}

func TestCriteriaMatch(t *testing.T) {
	c, err := Compile("total_points >= 100 && streak_days >= 2")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	ok, err := c.Match(Env{TotalPoints: 150, StreakDays: 2})
	if err != nil || !ok {
		t.Errorf("Expected match, got %v, %v", ok, err)
	}
	ok, _ = c.Match(Env{TotalPoints: 150, StreakDays: 1})
	if ok {
		t.Error("Expected no match for a short streak")
	}
}

func TestAwardGrantsOnceWithRewards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "user1")

	first := models.Badge{Name: "First", Description: "d", Category: models.BadgeCategoryBeginner, Criteria: "total_activities >= 1", PointsReward: 10, ExperienceReward: 1000}
	far := models.Badge{Name: "Far", Description: "d", Category: models.BadgeCategoryAdvanced, Criteria: "total_activities >= 100"}
	for _, b := range []*models.Badge{&first, &far} {
		if err := svc.Create(ctx, b); err != nil {
			t.Fatalf("Create badge failed: %v", err)
		}
	}

	user.TotalActivities = 1
	user.TotalPoints = 20
	awarded, err := svc.Award(db, &user)
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if len(awarded) != 1 || awarded[0].BadgeID != first.ID {
		t.Fatalf("Expected only the First badge, got %+v", awarded)
	}
	if user.TotalPoints != 30 || user.ExperiencePoints != 1000 || user.Level != 2 {
		t.Errorf("Expected rewards applied, got points=%d xp=%d level=%d", user.TotalPoints, user.ExperiencePoints, user.Level)
	}

	var stored models.User
	db.First(&stored, user.ID)
	if stored.TotalPoints != 30 || stored.Level != 2 {
		t.Errorf("Expected rewards persisted, got points=%d level=%d", stored.TotalPoints, stored.Level)
	}

	again, err := svc.Award(db, &user)
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Expected no badge to be granted twice, got %d", len(again))
	}
}

func TestAwardSkipsInactiveAndBrokenBadges(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	user := createTestUser(t, db, "user1")

	inactive := models.Badge{Name: "Retired", Description: "d", Category: models.BadgeCategorySpecial, Criteria: "true"}
	db.Create(&inactive)
	db.Model(&inactive).Update("is_active", false)
	// Bypasses Create so the broken criteria reach the table
	broken := models.Badge{Name: "Broken", Description: "d", Category: models.BadgeCategorySpecial, Criteria: "nope >"}
	db.Create(&broken)
	good := models.Badge{Name: "Good", Description: "d", Category: models.BadgeCategoryBeginner, Criteria: "total_activities >= 0"}
	db.Create(&good)

	awarded, err := svc.Award(db, &user)
	if err != nil {
		t.Fatalf("Award failed: %v", err)
	}
	if len(awarded) != 1 || awarded[0].BadgeID != good.ID {
		t.Errorf("Expected only the Good badge, got %+v", awarded)
	}
}

func TestCreateRejectsInvalidCriteria(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	err := svc.Create(context.Background(), &models.Badge{Name: "Bad", Description: "d", Category: models.BadgeCategoryBeginner, Criteria: "total_points"})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Errorf("Expected ErrInvalidCriteria, got %v", err)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if created != len(DefaultBadges) {
		t.Errorf("Expected %d badges, got %d", len(DefaultBadges), created)
	}

	created, err = svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if created != 0 {
		t.Errorf("Expected second seed to create nothing, got %d", created)
	}

	visible, _ := svc.ListVisible(ctx)
	hidden := 0
	for _, b := range DefaultBadges {
		if b.IsHidden {
			hidden++
		}
	}
	if len(visible) != len(DefaultBadges)-hidden {
		t.Errorf("Expected %d visible badges, got %d", len(DefaultBadges)-hidden, len(visible))
	}
}

func TestBadgeHandlers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	svc.SeedDefaults(context.Background())
	user := createTestUser(t, db, "user1")
	user.TotalActivities = 1
	svc.Award(db, &user)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/badges")
	g.Use(auth.AuthMiddleware())
	NewHandler(svc).RegisterRoutes(g)

	token, _ := auth.GenerateToken(user.ID, user.Email, user.Username)

	req, _ := http.NewRequest("GET", "/badges", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var list []BadgeResponse
	json.Unmarshal(resp.Body.Bytes(), &list)
	for _, b := range list {
		if b.Name == "Planet Keeper" {
			t.Error("Expected hidden badge to be excluded")
		}
	}

	req, _ = http.NewRequest("GET", "/badges/earned", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var earned []EarnedBadgeResponse
	json.Unmarshal(resp.Body.Bytes(), &earned)
	if len(earned) != 1 || earned[0].Badge.Name != "First Step" {
		t.Errorf("Expected First Step earned, got %+v", earned)
	}
}
