package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// RecentActivityWindow is how far back the activity summary counts activities
const RecentActivityWindow = 7 * 24 * time.Hour

// ActivitySummaryResponse is a short view of the caller's recent activity
type ActivitySummaryResponse struct {
	UserID           uint       `json:"user_id"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name"`
	AvatarURL        string     `json:"avatar_url"`
	RecentActivities int64      `json:"recent_activities"`
	TotalPoints      int        `json:"total_points"`
	Level            int        `json:"level"`
	LastActivity     *time.Time `json:"last_activity"`
}

// NotificationSettingsRequest is a partial update of the notification preferences
type NotificationSettingsRequest struct {
	EmailNotifications   *bool `json:"email_notifications"`
	PushNotifications    *bool `json:"push_notifications"`
	ActivityReminders    *bool `json:"activity_reminders"`
	FamilyUpdates        *bool `json:"family_updates"`
	BadgeNotifications   *bool `json:"badge_notifications"`
	MissionNotifications *bool `json:"mission_notifications"`
	WeeklySummary        *bool `json:"weekly_summary"`
}

// Deactivate disables the caller's account. API keys stop working and the
// user drops out of rankings until the account is reactivated.
// @Summary Deactivate my account
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /users/me/deactivate [post]
func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Reactivate enables a deactivated account. It needs a JWT since API keys of
// inactive users are refused.
// @Summary Reactivate my account
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/me/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.db.Model(user).Update("active", active).Error; err != nil {
		internalError(c, err)
		return
	}

	event, message := "deactivated", "Account deactivated"
	if active {
		event, message = "reactivated", "Account reactivated"
	}
	log := logging.FromContext(c)
	log.Info().Uint(logging.USER_ID, user.ID).Str(logging.EVENT, event).Msg("account status changed")
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// DeleteMe deletes the caller's account. The user leaves every family,
// handing created families to a successor, and their API keys are revoked.
// Usernames and emails of deleted accounts stay reserved.
// @Summary Delete my account
// @Tags users
// @Success 204 "Account deleted"
// @Security BearerAuth
// @Router /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.families.LeaveAll(ctx, user.ID); err != nil {
		internalError(c, err)
		return
	}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.APIKey{}).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Update("active", false).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		internalError(c, err)
		return
	}

	log := logging.FromContext(c)
	log.Info().Uint(logging.USER_ID, user.ID).Str(logging.EVENT, "deleted").Msg("account status changed")
	c.Status(http.StatusNoContent)
}

// ActivitySummary returns the caller's activity over the last week
// @Summary My activity summary
// @Tags users
// @Produce json
// @Success 200 {object} ActivitySummaryResponse
// @Security BearerAuth
// @Router /users/me/activity-summary [get]
func (h *Handler) ActivitySummary(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp := ActivitySummaryResponse{
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		AvatarURL:    user.AvatarURL,
		TotalPoints:  user.TotalPoints,
		Level:        user.Level,
		LastActivity: user.LastActivityAt,
	}
	since := h.now().UTC().Add(-RecentActivityWindow)
	err := h.db.Model(&models.EcoActivity{}).
		Where("user_id = ? AND created_at >= ?", user.ID, since).
		Count(&resp.RecentActivities).Error
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NotificationSettings returns the caller's notification preferences
// @Summary Get notification settings
// @Tags users
// @Produce json
// @Success 200 {object} models.NotificationSettings
// @Security BearerAuth
// @Router /users/me/notifications/settings [get]
func (h *Handler) NotificationSettings(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	settings, err := h.notificationSettings(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateNotificationSettings changes the given notification preferences
// @Summary Update notification settings
// @Tags users
// @Accept json
// @Produce json
// @Param request body NotificationSettingsRequest true "Preferences to change"
// @Success 200 {object} models.NotificationSettings
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /users/me/notifications/settings [put]
func (h *Handler) UpdateNotificationSettings(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req NotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	settings, err := h.notificationSettings(user.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	updates := make(map[string]interface{})
	for column, value := range map[string]*bool{
		"email_notifications":   req.EmailNotifications,
		"push_notifications":    req.PushNotifications,
		"activity_reminders":    req.ActivityReminders,
		"family_updates":        req.FamilyUpdates,
		"badge_notifications":   req.BadgeNotifications,
		"mission_notifications": req.MissionNotifications,
		"weekly_summary":        req.WeeklySummary,
	} {
		if value != nil {
			updates[column] = *value
		}
	}
	if len(updates) > 0 {
		if err := h.db.Model(settings).Updates(updates).Error; err != nil {
			internalError(c, err)
			return
		}
		if err := h.db.First(settings, settings.ID).Error; err != nil {
			internalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, settings)
}

// notificationSettings loads the user's preferences, storing the defaults on
// first access
func (h *Handler) notificationSettings(userID uint) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := h.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.DefaultNotificationSettings(userID)
	if err := h.db.Create(&settings).Error; err != nil {
		// lost a race with a concurrent first access
		if again := h.db.Where("user_id = ?", userID).First(&settings).Error; again == nil {
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

// RegisterAccountRoutes registers the routes that must stay reachable while
// the account is inactive
func (h *Handler) RegisterAccountRoutes(rg *gin.RouterGroup) {
	rg.POST("/me/reactivate", h.Reactivate)
}
