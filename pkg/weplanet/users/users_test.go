package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/database"
	"github.com/weplanet/weplanet/pkg/weplanet/families"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Register()
	r := gin.New()
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	h := NewHandler(db, families.NewService(db))
	h.now = func() time.Time { return testNow }
	h.RegisterRoutes(api.Group("/users"))
	h.RegisterAccountRoutes(api.Group("/users"))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, username string, points int) models.User {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: hash,
		FullName:     "User " + username,
		Active:       true,
		TotalPoints:  points,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func doRequest(router *gin.Engine, method, path string, user models.User, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, _ := auth.GenerateToken(user.ID, user.Email, user.Username)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGetMe(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)

	resp := doRequest(router, "GET", "/api/users/me", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got auth.UserResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Username != "alice" {
		t.Errorf("Expected username alice, got %s", got.Username)
	}
	if got.Level != 1 {
		t.Errorf("Expected level 1, got %d", got.Level)
	}
}

func TestUpdateMePartial(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)

	resp := doRequest(router, "PUT", "/api/users/me", user, map[string]interface{}{
		"bio":               "  composting enthusiast ",
		"is_public_profile": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got auth.UserResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Bio != "composting enthusiast" {
		t.Errorf("Expected trimmed bio, got %q", got.Bio)
	}
	if got.IsPublicProfile {
		t.Error("Expected profile to be private")
	}
	if got.FullName != "User alice" {
		t.Errorf("Expected full name to be untouched, got %q", got.FullName)
	}
	if !got.Notifications {
		t.Error("Expected notifications to stay enabled")
	}

	resp = doRequest(router, "PUT", "/api/users/me", user, map[string]interface{}{
		"location": string(bytes.Repeat([]byte("x"), 101)),
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for long location, got %d", resp.Code)
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)

	resp := doRequest(router, "PUT", "/api/users/me/password", user, ChangePasswordRequest{
		CurrentPassword: "wrongpass1",
		NewPassword:     "newpassword1",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong current password, got %d", resp.Code)
	}

	resp = doRequest(router, "PUT", "/api/users/me/password", user, ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "lettersonly",
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for weak password, got %d", resp.Code)
	}

	resp = doRequest(router, "PUT", "/api/users/me/password", user, ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var stored models.User
	db.First(&stored, user.ID)
	if !auth.CheckPassword("newpassword1", stored.PasswordHash) {
		t.Error("Expected new password to be stored")
	}
	if auth.CheckPassword("password123", stored.PasswordHash) {
		t.Error("Expected old password to stop working")
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	createTestUser(t, db, "top", 500)
	createTestUser(t, db, "second", 300)
	user := createTestUser(t, db, "alice", 200)
	createTestUser(t, db, "bottom", 100)
	inactive := createTestUser(t, db, "gone", 900)
	db.Model(&inactive).Update("active", false)
	db.Model(&user).Updates(map[string]interface{}{"experience_points": 1250, "level": 2})

	resp := doRequest(router, "GET", "/api/users/me/stats", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got StatsResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Rank != 3 {
		t.Errorf("Expected rank 3, got %d", got.Rank)
	}
	if got.ExperienceForNext != 2000 {
		t.Errorf("Expected 2000 xp for next level, got %d", got.ExperienceForNext)
	}
	if got.LevelProgress != 25 {
		t.Errorf("Expected level progress 25, got %v", got.LevelProgress)
	}
	if got.TotalPoints != 200 {
		t.Errorf("Expected 200 points, got %d", got.TotalPoints)
	}
}

func TestRanking(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	for i := 0; i < 12; i++ {
		createTestUser(t, db, fmt.Sprintf("user%02d", i), i*10)
	}
	tied := createTestUser(t, db, "tied", 110)
	inactive := createTestUser(t, db, "gone", 1000)
	db.Model(&inactive).Update("active", false)

	resp := doRequest(router, "GET", "/api/users/ranking", tied, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var entries []RankingEntry
	json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != DefaultRankingLimit {
		t.Fatalf("Expected %d entries, got %d", DefaultRankingLimit, len(entries))
	}
	if entries[0].Username != "user11" || entries[1].Username != "tied" {
		t.Errorf("Expected user11 then tied, got %s then %s", entries[0].Username, entries[1].Username)
	}
	if entries[0].DisplayName != "User user11" {
		t.Errorf("Expected display name from full name, got %q", entries[0].DisplayName)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, e.Rank)
		}
		if e.Username == "gone" {
			t.Error("Inactive user should not be ranked")
		}
	}

	resp = doRequest(router, "GET", "/api/users/ranking?limit=3", tied, nil)
	json.Unmarshal(resp.Body.Bytes(), &entries)
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(entries))
	}
}

func TestGetProfileRedaction(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	viewer := createTestUser(t, db, "viewer", 0)
	private := createTestUser(t, db, "private", 250)
	db.Model(&private).Updates(map[string]interface{}{"is_public_profile": false, "bio": "secret"})

	resp := doRequest(router, "GET", fmt.Sprintf("/api/users/%d", private.ID), viewer, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if _, ok := body["total_points"]; ok {
		t.Error("Private profile should not expose points")
	}
	if _, ok := body["bio"]; ok {
		t.Error("Private profile should not expose bio")
	}
	if body["username"] != "private" {
		t.Errorf("Expected username private, got %v", body["username"])
	}

	resp = doRequest(router, "GET", fmt.Sprintf("/api/users/%d", private.ID), private, nil)
	body = nil
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["total_points"] != float64(250) {
		t.Errorf("Expected owner to see 250 points, got %v", body["total_points"])
	}

	resp = doRequest(router, "GET", fmt.Sprintf("/api/users/%d", viewer.ID), private, nil)
	body = nil
	json.Unmarshal(resp.Body.Bytes(), &body)
	if _, ok := body["total_points"]; !ok {
		t.Error("Public profile should expose points")
	}

	resp = doRequest(router, "GET", "/api/users/9999", viewer, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}

	resp = doRequest(router, "GET", "/api/users/abc", viewer, nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestUsersRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/api/users/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestDeactivateAndReactivate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)

	resp := doRequest(router, "POST", "/api/users/me/deactivate", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var stored models.User
	db.First(&stored, user.ID)
	if stored.Active {
		t.Error("Expected account to be inactive")
	}

	resp = doRequest(router, "POST", "/api/users/me/reactivate", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	db.First(&stored, user.ID)
	if !stored.Active {
		t.Error("Expected account to be active again")
	}
}

func TestDeleteMe(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)
	heir := createTestUser(t, db, "bob", 0)

	svc := families.NewService(db)
	family, err := svc.Create(context.Background(), user.ID, families.CreateInput{Name: "Smiths"})
	if err != nil {
		t.Fatalf("Create family failed: %v", err)
	}
	if _, err := svc.JoinByCode(context.Background(), heir.ID, 0, family.InviteCode); err != nil {
		t.Fatalf("JoinByCode failed: %v", err)
	}
	key := models.APIKey{UserID: user.ID, KeyHash: "hash", KeyPrefix: "wpk_abcd"}
	if err := db.Create(&key).Error; err != nil {
		t.Fatalf("Failed to create api key: %v", err)
	}

	resp := doRequest(router, "DELETE", "/api/users/me", user, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", resp.Code, resp.Body.String())
	}

	if err := db.First(&models.User{}, user.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected deleted user to be hidden, got %v", err)
	}
	var deleted models.User
	if err := db.Unscoped().First(&deleted, user.ID).Error; err != nil || deleted.Active {
		t.Errorf("Expected an inactive soft-deleted row, got %+v (%v)", deleted, err)
	}
	var keys int64
	db.Model(&models.APIKey{}).Where("user_id = ?", user.ID).Count(&keys)
	if keys != 0 {
		t.Errorf("Expected api keys to be revoked, %d left", keys)
	}
	var reloaded models.Family
	db.First(&reloaded, family.ID)
	if reloaded.CreatorID != heir.ID || reloaded.MemberCount != 1 {
		t.Errorf("Expected bob to inherit the family, got creator %d with %d members", reloaded.CreatorID, reloaded.MemberCount)
	}

	resp = doRequest(router, "GET", "/api/users/me", user, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after deletion, got %d", resp.Code)
	}
}

func TestActivitySummary(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 40)
	last := testNow.Add(-48 * time.Hour)
	db.Model(&user).Update("last_activity_at", last)

	family, err := families.NewService(db).Create(context.Background(), user.ID, families.CreateInput{Name: "Smiths"})
	if err != nil {
		t.Fatalf("Create family failed: %v", err)
	}
	for _, at := range []time.Time{last, testNow.Add(-10 * 24 * time.Hour)} {
		activity := models.EcoActivity{
			CreatedAt: at,
			Title:     "Recycled",
			Category:  models.CategoryRecycle,
			UserID:    user.ID,
			FamilyID:  family.ID,
		}
		if err := db.Create(&activity).Error; err != nil {
			t.Fatalf("Failed to create activity: %v", err)
		}
	}

	resp := doRequest(router, "GET", "/api/users/me/activity-summary", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got ActivitySummaryResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.RecentActivities != 1 {
		t.Errorf("Expected 1 recent activity, got %d", got.RecentActivities)
	}
	if got.Username != "alice" || got.TotalPoints != 40 || got.Level != 1 {
		t.Errorf("Unexpected summary: %+v", got)
	}
	if got.LastActivity == nil || !got.LastActivity.Equal(last) {
		t.Errorf("Expected last activity %v, got %v", last, got.LastActivity)
	}
}

func TestNotificationSettings(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "alice", 0)

	resp := doRequest(router, "GET", "/api/users/me/notifications/settings", user, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got models.NotificationSettings
	json.Unmarshal(resp.Body.Bytes(), &got)
	if !got.EmailNotifications || !got.MissionNotifications || got.WeeklySummary {
		t.Errorf("Expected default settings, got %+v", got)
	}

	resp = doRequest(router, "PUT", "/api/users/me/notifications/settings", user, map[string]interface{}{
		"weekly_summary":     true,
		"push_notifications": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got = models.NotificationSettings{}
	json.Unmarshal(resp.Body.Bytes(), &got)
	if !got.WeeklySummary || got.PushNotifications || !got.EmailNotifications {
		t.Errorf("Unexpected settings after update: %+v", got)
	}

	var rows int64
	db.Model(&models.NotificationSettings{}).Where("user_id = ?", user.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("Expected a single settings row, got %d", rows)
	}

	resp = doRequest(router, "PUT", "/api/users/me/notifications/settings", user, map[string]interface{}{"weekly_summary": "often"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a non-boolean value, got %d", resp.Code)
	}
}
