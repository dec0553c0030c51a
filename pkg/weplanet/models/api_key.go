package models

import (
	"time"

	"gorm.io/gorm"
)

// APIKeyPrefix starts every generated API key
const APIKeyPrefix = "wpk_"

// APIKey grants programmatic access on behalf of a user
type APIKey struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	KeyHash     string         `gorm:"size:64;not null;uniqueIndex" json:"-"`
	KeyPrefix   string         `gorm:"size:16;not null" json:"key_prefix"` // shown to identify the key
	Description string         `gorm:"size:255" json:"description"`
	LastUsedAt  *time.Time     `json:"last_used_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
