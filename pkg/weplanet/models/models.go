package models

import "gorm.io/gorm"

// AllModels returns all models for migration.
// Users come first since every other table references them.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Family{},
		&FamilyMembership{},
		&EcoActivity{},
		&Badge{},
		&UserBadge{},
		&Mission{},
		&UserMission{},
		&APIKey{},
		&NotificationSettings{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
