package activities

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weplanet/weplanet/pkg/weplanet/badges"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/metrics"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Field limits and paging defaults
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxLocationLength    = 100
	DefaultPageSize      = 20
	MaxPageSize          = 100
)

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service records eco activities and keeps the user, family and membership
// aggregates in step with them
type Service struct {
	db     *gorm.DB
	badges *badges.Service
	now    func() time.Time
	log    zerolog.Logger
}

// NewService creates an activity service that evaluates badges with b
func NewService(db *gorm.DB, b *badges.Service, opts ...Option) *Service {
	s := &Service{
		db:     db,
		badges: b,
		now:    time.Now,
		log:    logging.NewPackageLogger("activities"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordInput holds a new activity
type RecordInput struct {
	FamilyID     uint
	Title        string
	Description  string
	Category     models.ActivityCategory
	CO2Reduction float64
	WaterSaved   float64
	EnergySaved  float64
	PhotoURL     string
	LocationName string
	Latitude     *float64
	Longitude    *float64
	ActivityDate *time.Time
}

func (in *RecordInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.LocationName = strings.TrimSpace(in.LocationName)

	switch n := utf8.RuneCountInString(in.Title); {
	case n == 0:
		return ValidationError{Field: "title", Message: "is required"}
	case n > MaxTitleLength:
		return ValidationError{Field: "title", Message: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return ValidationError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)}
	}
	if utf8.RuneCountInString(in.LocationName) > MaxLocationLength {
		return ValidationError{Field: "location_name", Message: fmt.Sprintf("must be at most %d characters", MaxLocationLength)}
	}
	if !in.Category.Valid() {
		return ValidationError{Field: "category", Message: "is not a known activity category"}
	}
	for field, v := range map[string]float64{
		"co2_reduction": in.CO2Reduction,
		"water_saved":   in.WaterSaved,
		"energy_saved":  in.EnergySaved,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ValidationError{Field: field, Message: "must be a non-negative number"}
		}
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return ValidationError{Field: "longitude", Message: "must be between -180 and 180"}
	}
	return nil
}

// RecordResult is a recorded activity with its side effects on the user
type RecordResult struct {
	Activity          *models.EcoActivity
	User              *models.User
	LevelUp           bool
	NewBadges         []models.UserBadge
	CompletedMissions []models.UserMission
}

// Record stores an activity for userID in the given family. The activity, the
// user's totals, the family aggregates, the membership counters, mission
// progress and any badge earned by the new totals are written in one
// transaction.
func (s *Service) Record(ctx context.Context, userID uint, in RecordInput) (*RecordResult, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	activityDate := now
	if in.ActivityDate != nil {
		activityDate = in.ActivityDate.UTC()
	}
	points := CalculatePoints(in.Category, in.CO2Reduction)

	result := &RecordResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership models.FamilyMembership
		err := tx.Where("family_id = ? AND user_id = ? AND is_active = ?", in.FamilyID, userID, true).First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFamilyMember
			}
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		activity := models.EcoActivity{
			Title:        in.Title,
			Description:  in.Description,
			Category:     in.Category,
			Points:       points,
			CO2Reduction: in.CO2Reduction,
			WaterSaved:   in.WaterSaved,
			EnergySaved:  in.EnergySaved,
			PhotoURL:     in.PhotoURL,
			UserID:       userID,
			FamilyID:     in.FamilyID,
			Status:       models.ActivityStatusPending,
			LocationName: in.LocationName,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			ActivityDate: activityDate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Omit("User").Create(&activity).Error; err != nil {
			return err
		}

		user.TotalPoints += points
		user.TotalActivities++
		user.TotalCO2Saved += in.CO2Reduction
		result.LevelUp = user.AddExperience(points)
		user.RecordActivityDay(activityDate)
		err = tx.Model(&user).Updates(map[string]interface{}{
			"total_points":      user.TotalPoints,
			"total_activities":  user.TotalActivities,
			"total_co2_saved":   user.TotalCO2Saved,
			"experience_points": user.ExperiencePoints,
			"level":             user.Level,
			"streak_days":       user.StreakDays,
			"last_activity_at":  user.LastActivityAt,
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Family{}).Where("id = ?", in.FamilyID).Updates(map[string]interface{}{
			"total_points":     gorm.Expr("total_points + ?", points),
			"total_activities": gorm.Expr("total_activities + ?", 1),
			"total_co2_saved":  gorm.Expr("total_co2_saved + ?", in.CO2Reduction),
		}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&membership).Updates(map[string]interface{}{
			"points_contributed": gorm.Expr("points_contributed + ?", points),
			"activities_count":   gorm.Expr("activities_count + ?", 1),
			"last_activity_at":   now,
		}).Error
		if err != nil {
			return err
		}

		if s.badges != nil {
			levelBefore := user.Level
			completed, err := s.badges.AdvanceMissions(tx, &user, now)
			if err != nil {
				return err
			}
			result.CompletedMissions = completed
			earned, err := s.badges.Award(tx, &user)
			if err != nil {
				return err
			}
			result.NewBadges = earned
			if user.Level > levelBefore {
				result.LevelUp = true
			}
		}

		result.Activity = &activity
		result.User = &user
		return nil
	})
	if err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("record activity: %w", err)
	}

	metrics.ActivitiesRecorded.WithLabelValues(string(in.Category)).Inc()
	metrics.BadgesAwarded.Add(float64(len(result.NewBadges)))
	s.log.Info().
		Uint(logging.USER_ID, userID).
		Uint(logging.FAMILY_ID, in.FamilyID).
		Str("category", string(in.Category)).
		Int("points", points).
		Msg("activity recorded")
	return result, nil
}

// Filter narrows an activity listing. Without FamilyID only the user's own
// activities are listed.
type Filter struct {
	FamilyID uint
	Category models.ActivityCategory
	Status   models.ActivityStatus
	Page     int
	Size     int
}

// Page is one page of activities
type Page struct {
	Activities []models.EcoActivity
	Total      int64
	Page       int
	Size       int
	Pages      int
}

// List returns the activities visible to userID, newest first
func (s *Service) List(ctx context.Context, userID uint, f Filter) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, ValidationError{Field: "category", Message: "is not a known activity category"}
	}
	switch f.Status {
	case "", models.ActivityStatusPending, models.ActivityStatusVerified, models.ActivityStatusRejected:
	default:
		return nil, ValidationError{Field: "status", Message: "must be one of: pending verified rejected"}
	}

	db := s.db.WithContext(ctx)
	q := db.Model(&models.EcoActivity{})
	if f.FamilyID != 0 {
		if err := requireActiveMember(db, f.FamilyID, userID); err != nil {
			return nil, err
		}
		q = q.Where("family_id = ?", f.FamilyID)
	} else {
		q = q.Where("user_id = ?", userID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	page := &Page{Page: f.Page, Size: f.Size}
	if err := q.Count(&page.Total).Error; err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	err := q.Order("created_at DESC, id DESC").
		Offset((f.Page - 1) * f.Size).
		Limit(f.Size).
		Find(&page.Activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	page.Pages = int((page.Total + int64(f.Size) - 1) / int64(f.Size))
	return page, nil
}

// Verify sets the verification status of an activity. Only creators and admins
// of the activity's family may verify.
func (s *Service) Verify(ctx context.Context, activityID, verifierID uint, status models.ActivityStatus, note string) (*models.EcoActivity, error) {
	switch status {
	case models.ActivityStatusVerified, models.ActivityStatusRejected:
	default:
		return nil, ValidationError{Field: "status", Message: "must be one of: verified rejected"}
	}

	db := s.db.WithContext(ctx)
	var activity models.EcoActivity
	if err := db.First(&activity, activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("verify activity: %w", err)
	}

	var membership models.FamilyMembership
	err := db.Where("family_id = ? AND user_id = ? AND is_active = ?", activity.FamilyID, verifierID, true).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFamilyMember
		}
		return nil, fmt.Errorf("verify activity: %w", err)
	}
	if !membership.Role.CanVerifyActivities() {
		return nil, ErrPermissionDenied
	}

	now := s.now().UTC()
	err = db.Model(&activity).Updates(map[string]interface{}{
		"status":            status,
		"verified_by_id":    verifierID,
		"verification_note": strings.TrimSpace(note),
		"verified_at":       now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("verify activity: %w", err)
	}

	s.log.Info().Uint("activity_id", activityID).Uint(logging.USER_ID, verifierID).Str("status", string(status)).Msg("activity verified")
	if err := db.First(&activity, activityID).Error; err != nil {
		return nil, fmt.Errorf("verify activity: %w", err)
	}
	return &activity, nil
}

func requireActiveMember(db *gorm.DB, familyID, userID uint) error {
	var count int64
	err := db.Model(&models.FamilyMembership{}).
		Where("family_id = ? AND user_id = ? AND is_active = ?", familyID, userID, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFamilyMember
	}
	return nil
}
