package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/families"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Stats summarises a user's activity
type Stats struct {
	TotalActivities          int     `json:"total_activities"`
	TotalPoints              int     `json:"total_points"`
	TotalCO2Saved            float64 `json:"total_co2_saved"`
	TotalWaterSaved          float64 `json:"total_water_saved"`
	TotalEnergySaved         float64 `json:"total_energy_saved"`
	ActivitiesThisWeek       int     `json:"activities_this_week"`
	ActivitiesThisMonth      int     `json:"activities_this_month"`
	PointsThisWeek           int     `json:"points_this_week"`
	PointsThisMonth          int     `json:"points_this_month"`
	FavoriteCategory         *string `json:"favorite_category"`
	StreakDays               int     `json:"streak_days"`
	AveragePointsPerActivity float64 `json:"average_points_per_activity"`
	EnvironmentalImpactScore float64 `json:"environmental_impact_score"`
}

// UserStats computes the statistics of userID with the same week and month
// boundaries as the family statistics
func (s *Service) UserStats(ctx context.Context, userID uint) (*Stats, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("activity stats: %w", err)
	}

	now := s.now().UTC()
	stats := &Stats{
		TotalActivities:          user.TotalActivities,
		TotalPoints:              user.TotalPoints,
		TotalCO2Saved:            user.TotalCO2Saved,
		StreakDays:               user.StreakDays,
		EnvironmentalImpactScore: user.TotalCO2Saved * 10,
	}
	if user.TotalActivities > 0 {
		stats.AveragePointsPerActivity = float64(user.TotalPoints) / float64(user.TotalActivities)
	}

	var savings struct {
		Water  float64
		Energy float64
	}
	err := db.Model(&models.EcoActivity{}).
		Select("COALESCE(SUM(water_saved), 0) AS water, COALESCE(SUM(energy_saved), 0) AS energy").
		Where("user_id = ?", userID).
		Scan(&savings).Error
	if err != nil {
		return nil, fmt.Errorf("activity stats: %w", err)
	}
	stats.TotalWaterSaved = savings.Water
	stats.TotalEnergySaved = savings.Energy

	week, err := userTotalsSince(db, userID, families.WeekStart(now))
	if err != nil {
		return nil, fmt.Errorf("activity stats: %w", err)
	}
	month, err := userTotalsSince(db, userID, families.MonthStart(now))
	if err != nil {
		return nil, fmt.Errorf("activity stats: %w", err)
	}
	stats.ActivitiesThisWeek, stats.PointsThisWeek = week.Activities, week.Points
	stats.ActivitiesThisMonth, stats.PointsThisMonth = month.Activities, month.Points

	var favorite []struct {
		Category string
		Total    int
	}
	err = db.Model(&models.EcoActivity{}).
		Select("category, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("category").
		Order("total DESC, category ASC").
		Limit(1).
		Scan(&favorite).Error
	if err != nil {
		return nil, fmt.Errorf("activity stats: %w", err)
	}
	if len(favorite) > 0 {
		stats.FavoriteCategory = &favorite[0].Category
	}
	return stats, nil
}

// PeriodSummary counts the activities and points of a period
type PeriodSummary struct {
	Activities int `json:"activities"`
	Points     int `json:"points"`
}

func userTotalsSince(db *gorm.DB, userID uint, since time.Time) (PeriodSummary, error) {
	var t PeriodSummary
	err := db.Model(&models.EcoActivity{}).
		Select("COUNT(*) AS activities, COALESCE(SUM(points), 0) AS points").
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Scan(&t).Error
	return t, err
}

// CO2PerTree is the kg of CO2 one tree absorbs per day, used to express
// savings as trees
const CO2PerTree = 0.02

// DashboardUser is the user part of the dashboard
type DashboardUser struct {
	Username        string `json:"username"`
	Level           int    `json:"level"`
	TotalPoints     int    `json:"total_points"`
	TotalActivities int    `json:"total_activities"`
	StreakDays      int    `json:"streak_days"`
}

// EnvironmentalImpact expresses the user's CO2 savings
type EnvironmentalImpact struct {
	TotalCO2Saved   float64 `json:"total_co2_saved"`
	EquivalentTrees int     `json:"equivalent_trees"`
}

// Dashboard is the home screen summary of a user
type Dashboard struct {
	User                DashboardUser       `json:"user"`
	Today               PeriodSummary       `json:"today"`
	Week                PeriodSummary       `json:"week"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmental_impact"`
}

// Dashboard summarises userID's day and week. Today starts at midnight UTC
// and the week on Monday, as in the statistics.
func (s *Service) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	now := s.now().UTC()
	today, err := userTotalsSince(db, userID, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	week, err := userTotalsSince(db, userID, families.WeekStart(now))
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &Dashboard{
		User: DashboardUser{
			Username:        user.Username,
			Level:           user.Level,
			TotalPoints:     user.TotalPoints,
			TotalActivities: user.TotalActivities,
			StreakDays:      user.StreakDays,
		},
		Today: today,
		Week:  week,
		EnvironmentalImpact: EnvironmentalImpact{
			TotalCO2Saved:   user.TotalCO2Saved,
			EquivalentTrees: int(user.TotalCO2Saved / CO2PerTree),
		},
	}, nil
}
