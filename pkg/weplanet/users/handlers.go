package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/families"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// Ranking limits
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// Handler handles user profile requests
type Handler struct {
	db       *gorm.DB
	families *families.Service
	now      func() time.Time
}

// NewHandler creates a new users handler. Deleted accounts leave their
// families through fam.
func NewHandler(db *gorm.DB, fam *families.Service) *Handler {
	return &Handler{db: db, families: fam, now: time.Now}
}

// UpdateProfileRequest is a partial profile update
type UpdateProfileRequest struct {
	FullName            *string `json:"full_name" binding:"omitempty,max=100"`
	AvatarURL           *string `json:"avatar_url" binding:"omitempty,max=500"`
	Bio                 *string `json:"bio" binding:"omitempty,max=1000"`
	Location            *string `json:"location" binding:"omitempty,max=100"`
	IsPublicProfile     *bool   `json:"is_public_profile"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// StatsResponse is the caller's progress
type StatsResponse struct {
	TotalPoints       int        `json:"total_points"`
	Level             int        `json:"level"`
	ExperiencePoints  int        `json:"experience_points"`
	ExperienceForNext int        `json:"experience_for_next_level"`
	LevelProgress     float64    `json:"level_progress"`
	StreakDays        int        `json:"streak_days"`
	TotalActivities   int        `json:"total_activities"`
	TotalCO2Saved     float64    `json:"total_co2_saved"`
	BadgesEarned      int64      `json:"badges_earned"`
	FamiliesCount     int64      `json:"families_count"`
	Rank              int64      `json:"rank"`
	LastActivityAt    *time.Time `json:"last_activity_at"`
}

// RankingEntry is one row of the user ranking
type RankingEntry struct {
	Rank          int     `json:"rank"`
	UserID        uint    `json:"user_id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"display_name"`
	AvatarURL     string  `json:"avatar_url"`
	TotalPoints   int     `json:"total_points"`
	Level         int     `json:"level"`
	TotalCO2Saved float64 `json:"total_co2_saved"`
}

// ProfileResponse is another user's profile. Private profiles only carry the
// identity fields.
type ProfileResponse struct {
	ID              uint     `json:"id"`
	Username        string   `json:"username"`
	FullName        string   `json:"full_name"`
	AvatarURL       string   `json:"avatar_url"`
	IsPublicProfile bool     `json:"is_public_profile"`
	Bio             string   `json:"bio,omitempty"`
	Location        string   `json:"location,omitempty"`
	TotalPoints     *int     `json:"total_points,omitempty"`
	Level           *int     `json:"level,omitempty"`
	TotalActivities *int     `json:"total_activities,omitempty"`
	TotalCO2Saved   *float64 `json:"total_co2_saved,omitempty"`
	StreakDays      *int     `json:"streak_days,omitempty"`
}

// Me returns the caller's profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Success 200 {object} auth.UserResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, auth.NewUserResponse(user))
}

// UpdateMe updates the caller's profile
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} auth.UserResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.IsPublicProfile != nil {
		updates["is_public_profile"] = *req.IsPublicProfile
	}
	if req.NotificationEnabled != nil {
		updates["notification_enabled"] = *req.NotificationEnabled
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			internalError(c, err)
			return
		}
		if err := h.db.First(user, user.ID).Error; err != nil {
			internalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, auth.NewUserResponse(user))
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]string "Wrong current password"
// @Security BearerAuth
// @Router /users/me/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}
	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		var verr validation.ValidationError
		errors.As(err, &verr)
		validation.Respond(c, validation.ValidationError{Field: "new_password", Message: verr.Message})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		internalError(c, err)
		return
	}
	if err := h.db.Model(user).Update("password_hash", hash).Error; err != nil {
		internalError(c, err)
		return
	}

	log := logging.FromContext(c)
	log.Info().Uint(logging.USER_ID, user.ID).Msg("password changed")
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Stats returns the caller's progress and global rank
// @Summary My statistics
// @Tags users
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /users/me/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp := StatsResponse{
		TotalPoints:       user.TotalPoints,
		Level:             user.Level,
		ExperiencePoints:  user.ExperiencePoints,
		ExperienceForNext: models.ExperienceForLevel(user.Level + 1),
		LevelProgress:     models.LevelProgress(user.ExperiencePoints),
		StreakDays:        user.StreakDays,
		TotalActivities:   user.TotalActivities,
		TotalCO2Saved:     user.TotalCO2Saved,
		LastActivityAt:    user.LastActivityAt,
	}

	var higher int64
	err := h.db.Model(&models.User{}).
		Where("active = ? AND total_points > ?", true, user.TotalPoints).
		Count(&higher).Error
	if err != nil {
		internalError(c, err)
		return
	}
	resp.Rank = higher + 1
	h.db.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).Count(&resp.BadgesEarned)
	h.db.Model(&models.FamilyMembership{}).Where("user_id = ? AND is_active = ?", user.ID, true).Count(&resp.FamiliesCount)

	c.JSON(http.StatusOK, resp)
}

// Ranking lists active users by points
// @Summary User ranking
// @Tags users
// @Produce json
// @Param limit query int false "Number of users (default 10, max 100)"
// @Success 200 {array} RankingEntry
// @Security BearerAuth
// @Router /users/ranking [get]
func (h *Handler) Ranking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultRankingLimit)))
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	if limit > MaxRankingLimit {
		limit = MaxRankingLimit
	}

	var users []models.User
	err := h.db.Where("active = ?", true).
		Order("total_points DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		internalError(c, err)
		return
	}

	entries := make([]RankingEntry, len(users))
	for i, u := range users {
		entries[i] = RankingEntry{
			Rank:          i + 1,
			UserID:        u.ID,
			Username:      u.Username,
			DisplayName:   u.DisplayName(),
			AvatarURL:     u.AvatarURL,
			TotalPoints:   u.TotalPoints,
			Level:         u.Level,
			TotalCO2Saved: u.TotalCO2Saved,
		}
	}
	c.JSON(http.StatusOK, entries)
}

// Get returns another user's profile
// @Summary Get user profile
// @Description Private profiles are reduced to identity fields unless requested by their owner
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	callerID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.Where("id = ? AND active = ?", id, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		internalError(c, err)
		return
	}

	resp := ProfileResponse{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		IsPublicProfile: user.IsPublicProfile,
	}
	if user.IsPublicProfile || user.ID == callerID {
		resp.Bio = user.Bio
		resp.Location = user.Location
		resp.TotalPoints = &user.TotalPoints
		resp.Level = &user.Level
		resp.TotalActivities = &user.TotalActivities
		resp.TotalCO2Saved = &user.TotalCO2Saved
		resp.StreakDays = &user.StreakDays
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers user routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.PUT("/me", h.UpdateMe)
	rg.DELETE("/me", h.DeleteMe)
	rg.PUT("/me/password", h.ChangePassword)
	rg.GET("/me/stats", h.Stats)
	rg.GET("/me/activity-summary", h.ActivitySummary)
	rg.POST("/me/deactivate", h.Deactivate)
	rg.GET("/me/notifications/settings", h.NotificationSettings)
	rg.PUT("/me/notifications/settings", h.UpdateNotificationSettings)
	rg.GET("/ranking", h.Ranking)
	rg.GET("/:id", h.Get)
}

func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func internalError(c *gin.Context, err error) {
	log := logging.FromContext(c)
	log.Error().Err(err).Str(logging.PACKAGE, "users").Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
