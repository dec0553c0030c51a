package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityCategory classifies an eco activity
type ActivityCategory string

const (
	CategoryRecycle        ActivityCategory = "recycle"
	CategoryEnergySaving   ActivityCategory = "energy_saving"
	CategoryWaterSaving    ActivityCategory = "water_saving"
	CategoryTransportation ActivityCategory = "transportation"
	CategoryWasteReduction ActivityCategory = "waste_reduction"
	CategoryGreenPurchase  ActivityCategory = "green_purchase"
	CategoryOther          ActivityCategory = "other"
)

// ActivityCategories lists every category in display order
var ActivityCategories = []ActivityCategory{
	CategoryRecycle,
	CategoryEnergySaving,
	CategoryWaterSaving,
	CategoryTransportation,
	CategoryWasteReduction,
	CategoryGreenPurchase,
	CategoryOther,
}

// Valid reports whether c is a known category
func (c ActivityCategory) Valid() bool {
	for _, known := range ActivityCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ActivityStatus is the verification state of an activity
type ActivityStatus string

const (
	ActivityStatusPending  ActivityStatus = "pending"
	ActivityStatusVerified ActivityStatus = "verified"
	ActivityStatusRejected ActivityStatus = "rejected"
)

// EcoActivity is one logged environmentally beneficial action. Activities
// are append-only; they outlive the family they were recorded for.
type EcoActivity struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Category    ActivityCategory `gorm:"type:varchar(30);not null;index" json:"category"`

	Points       int     `gorm:"not null;default:0" json:"points"`
	CO2Reduction float64 `gorm:"column:co2_reduction;not null;default:0" json:"co2_reduction"`
	WaterSaved   float64 `gorm:"not null;default:0" json:"water_saved"`
	EnergySaved  float64 `gorm:"not null;default:0" json:"energy_saved"`

	PhotoURL string `gorm:"size:500" json:"photo_url,omitempty"`

	UserID   uint `gorm:"not null;index" json:"user_id"`
	FamilyID uint `gorm:"not null;index" json:"family_id"`

	Status           ActivityStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	VerifiedByID     *uint          `json:"verified_by,omitempty"`
	VerificationNote string         `gorm:"type:text" json:"verification_note,omitempty"`
	VerifiedAt       *time.Time     `json:"verified_at,omitempty"`

	LocationName string   `gorm:"size:100" json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	ActivityDate time.Time `gorm:"not null" json:"activity_date"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeSave stores every timestamp in UTC. SQLite keeps times as text, so
// period filters only compare correctly when all rows share one zone.
func (a *EcoActivity) BeforeSave(*gorm.DB) error {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	a.ActivityDate = a.ActivityDate.UTC()
	if a.VerifiedAt != nil {
		t := a.VerifiedAt.UTC()
		a.VerifiedAt = &t
	}
	return nil
}

// EnvironmentalImpact scores the measured savings of the activity
func (a *EcoActivity) EnvironmentalImpact() float64 {
	score := a.CO2Reduction*10 + a.WaterSaved*0.1 + a.EnergySaved*5
	return float64(int(score*100+0.5)) / 100
}
