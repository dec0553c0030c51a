package models

import "time"

// NotificationSettings holds a user's notification preferences. Rows are
// created on first access.
type NotificationSettings struct {
	ID                   uint      `gorm:"primarykey" json:"-"`
	CreatedAt            time.Time `json:"-"`
	UpdatedAt            time.Time `json:"updated_at"`
	UserID               uint      `gorm:"not null;uniqueIndex" json:"-"`
	EmailNotifications   bool      `gorm:"not null" json:"email_notifications"`
	PushNotifications    bool      `gorm:"not null" json:"push_notifications"`
	ActivityReminders    bool      `gorm:"not null" json:"activity_reminders"`
	FamilyUpdates        bool      `gorm:"not null" json:"family_updates"`
	BadgeNotifications   bool      `gorm:"not null" json:"badge_notifications"`
	MissionNotifications bool      `gorm:"not null" json:"mission_notifications"`
	WeeklySummary        bool      `gorm:"not null" json:"weekly_summary"`
}

// DefaultNotificationSettings returns the preferences of a new user
func DefaultNotificationSettings(userID uint) NotificationSettings {
	return NotificationSettings{
		UserID:               userID,
		EmailNotifications:   true,
		PushNotifications:    true,
		ActivityReminders:    true,
		FamilyUpdates:        true,
		BadgeNotifications:   true,
		MissionNotifications: true,
		WeeklySummary:        false,
	}
}
