package families

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Ranking limits
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// Stats is a read-only projection of a family's activity
type Stats struct {
	TotalActivities          int           `json:"total_activities"`
	TotalPoints              int           `json:"total_points"`
	TotalCO2Saved            float64       `json:"total_co2_saved"`
	MemberCount              int           `json:"member_count"`
	ActivitiesThisWeek       int           `json:"activities_this_week"`
	ActivitiesThisMonth      int           `json:"activities_this_month"`
	PointsThisWeek           int           `json:"points_this_week"`
	PointsThisMonth          int           `json:"points_this_month"`
	AveragePointsPerMember   float64       `json:"average_points_per_member"`
	MostActiveMember         *ActiveMember `json:"most_active_member"`
	FavoriteActivityCategory *string       `json:"favorite_activity_category"`
	MonthlyGoalProgress      float64       `json:"monthly_goal_progress"`
}

// ActiveMember is the member with the most activities this month
type ActiveMember struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	ActivityCount int    `json:"activity_count"`
}

// RankingEntry is one row of the public family ranking
type RankingEntry struct {
	Rank                   int
	Family                 models.Family
	AveragePointsPerMember float64
}

type periodTotals struct {
	Activities int
	Points     int
}

// Stats computes week and month aggregates for a family. Weeks start on Monday
// and months on the first, both at 00:00 UTC. Only active members may read them.
func (s *Service) Stats(ctx context.Context, familyID, userID uint) (*Stats, error) {
	db := s.db.WithContext(ctx)

	var family models.Family
	if err := db.First(&family, familyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("family stats: %w", err)
	}
	if _, err := requireMember(db, familyID, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	weekStart := WeekStart(now)
	monthStart := MonthStart(now)

	week, err := periodTotalsSince(db, familyID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("family stats: %w", err)
	}
	month, err := periodTotalsSince(db, familyID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("family stats: %w", err)
	}

	stats := &Stats{
		TotalActivities:        family.TotalActivities,
		TotalPoints:            family.TotalPoints,
		TotalCO2Saved:          family.TotalCO2Saved,
		MemberCount:            family.MemberCount,
		ActivitiesThisWeek:     week.Activities,
		ActivitiesThisMonth:    month.Activities,
		PointsThisWeek:         week.Points,
		PointsThisMonth:        month.Points,
		AveragePointsPerMember: family.AveragePointsPerMember(),
		MonthlyGoalProgress:    family.MonthlyGoalProgress(month.Points),
	}

	stats.MostActiveMember, err = mostActiveMember(db, familyID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("family stats: %w", err)
	}
	stats.FavoriteActivityCategory, err = favoriteCategory(db, familyID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("family stats: %w", err)
	}
	return stats, nil
}

// Ranking lists public families by total points, ties going to the older family
func (s *Service) Ranking(ctx context.Context, limit int) ([]RankingEntry, error) {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	if limit > MaxRankingLimit {
		limit = MaxRankingLimit
	}

	var families []models.Family
	err := s.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("total_points DESC, id ASC").
		Limit(limit).
		Find(&families).Error
	if err != nil {
		return nil, fmt.Errorf("family ranking: %w", err)
	}

	entries := make([]RankingEntry, len(families))
	for i, f := range families {
		entries[i] = RankingEntry{
			Rank:                   i + 1,
			Family:                 f,
			AveragePointsPerMember: f.AveragePointsPerMember(),
		}
	}
	return entries, nil
}

// WeekStart returns Monday 00:00 UTC of the week containing t
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of t's month at 00:00 UTC
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func periodTotalsSince(db *gorm.DB, familyID uint, since time.Time) (periodTotals, error) {
	var totals periodTotals
	err := db.Model(&models.EcoActivity{}).
		Select("COUNT(*) AS activities, COALESCE(SUM(points), 0) AS points").
		Where("family_id = ? AND created_at >= ?", familyID, since.UTC()).
		Scan(&totals).Error
	return totals, err
}

// mostActiveMember counts this month's activities of active members in this
// family. Ties go to the lowest user id.
func mostActiveMember(db *gorm.DB, familyID uint, since time.Time) (*ActiveMember, error) {
	var rows []struct {
		UserID        uint
		ActivityCount int
	}
	err := db.Table("family_memberships AS m").
		Select("m.user_id AS user_id, COUNT(a.id) AS activity_count").
		Joins("JOIN eco_activities AS a ON a.user_id = m.user_id AND a.family_id = m.family_id").
		Where("m.family_id = ? AND m.is_active = ? AND a.created_at >= ?", familyID, true, since.UTC()).
		Group("m.user_id").
		Order("activity_count DESC, m.user_id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	var user models.User
	if err := db.First(&user, rows[0].UserID).Error; err != nil {
		return nil, err
	}
	return &ActiveMember{
		UserID:        user.ID,
		Username:      user.Username,
		FullName:      user.FullName,
		ActivityCount: rows[0].ActivityCount,
	}, nil
}

// favoriteCategory returns this month's most frequent category, ties going to
// the alphabetically first
func favoriteCategory(db *gorm.DB, familyID uint, since time.Time) (*string, error) {
	var rows []struct {
		Category string
		Total    int
	}
	err := db.Model(&models.EcoActivity{}).
		Select("category, COUNT(*) AS total").
		Where("family_id = ? AND created_at >= ?", familyID, since.UTC()).
		Group("category").
		Order("total DESC, category ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0].Category, nil
}
