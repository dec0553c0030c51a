package badges

import (
	"context"
	"fmt"

	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// DefaultBadges is the badge set installed on a fresh database
var DefaultBadges = []models.Badge{
	{
		Name:             "First Step",
		Description:      "Record your first eco activity",
		Icon:             "seedling",
		Category:         models.BadgeCategoryBeginner,
		Criteria:         "total_activities >= 1",
		PointsReward:     10,
		ExperienceReward: 10,
	},
	{
		Name:             "Eco Regular",
		Description:      "Record 10 eco activities",
		Icon:             "leaf",
		Category:         models.BadgeCategoryBeginner,
		Criteria:         "total_activities >= 10",
		PointsReward:     50,
		ExperienceReward: 50,
	},
	{
		Name:             "Point Collector",
		Description:      "Earn 500 points",
		Icon:             "star",
		Category:         models.BadgeCategoryIntermediate,
		Criteria:         "total_points >= 500",
		PointsReward:     50,
		ExperienceReward: 100,
	},
	{
		Name:             "Week Streak",
		Description:      "Be active seven days in a row",
		Icon:             "fire",
		Category:         models.BadgeCategoryIntermediate,
		Criteria:         "streak_days >= 7",
		PointsReward:     70,
		ExperienceReward: 100,
	},
	{
		Name:             "Carbon Cutter",
		Description:      "Save 100 kg of CO2",
		Icon:             "cloud",
		Category:         models.BadgeCategoryAdvanced,
		Criteria:         "total_co2_saved >= 100",
		PointsReward:     100,
		ExperienceReward: 200,
	},
	{
		Name:             "Month Streak",
		Description:      "Be active thirty days in a row",
		Icon:             "trophy",
		Category:         models.BadgeCategoryAdvanced,
		Criteria:         "streak_days >= 30",
		PointsReward:     300,
		ExperienceReward: 500,
	},
	{
		Name:             "Planet Keeper",
		Description:      "Reach level 10",
		Icon:             "globe",
		Category:         models.BadgeCategorySpecial,
		Criteria:         "level >= 10",
		PointsReward:     500,
		ExperienceReward: 0,
		IsHidden:         true,
	},
}

// SeedDefaults installs the badges of DefaultBadges that are missing by name.
// It returns the number of badges created.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	created := 0
	for _, def := range DefaultBadges {
		var count int64
		if err := db.Model(&models.Badge{}).Where("name = ?", def.Name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("seed badges: %w", err)
		}
		if count > 0 {
			continue
		}
		badge := def
		if err := s.Create(ctx, &badge); err != nil {
			return created, fmt.Errorf("seed badge %q: %w", def.Name, err)
		}
		created++
	}
	if created > 0 {
		s.log.Info().Int("created", created).Msg("default badges seeded")
	}
	return created, nil
}

// DefaultMissions is the mission set installed on a fresh database
var DefaultMissions = []models.Mission{
	{
		Title:            "Daily Green Habit",
		Description:      "Record at least one eco activity today",
		ShortDescription: "One activity today",
		MissionType:      models.MissionDaily,
		DifficultyLevel:  1,
		Metric:           "activities",
		TargetValue:      1,
		PointsReward:     5,
		ExperienceReward: 10,
		IsActive:         true,
	},
	{
		Title:            "Recycling Week",
		Description:      "Recycle three times this week",
		ShortDescription: "Three recycling activities",
		MissionType:      models.MissionWeekly,
		Category:         models.CategoryRecycle,
		DifficultyLevel:  2,
		Metric:           "activities",
		TargetValue:      3,
		PointsReward:     20,
		ExperienceReward: 30,
		IsActive:         true,
	},
	{
		Title:            "Well Rounded Week",
		Description:      "Log activities in four different categories this week",
		ShortDescription: "Four categories",
		MissionType:      models.MissionWeekly,
		DifficultyLevel:  3,
		Metric:           "len(categories)",
		TargetValue:      4,
		PointsReward:     40,
		ExperienceReward: 60,
		IsActive:         true,
	},
	{
		Title:            "Carbon Month",
		Description:      "Save 20 kg of CO2 this month",
		ShortDescription: "20 kg of CO2",
		MissionType:      models.MissionMonthly,
		DifficultyLevel:  3,
		Metric:           "co2_saved",
		TargetValue:      20,
		PointsReward:     100,
		ExperienceReward: 150,
		IsActive:         true,
	},
}

// SeedMissions installs the missions of DefaultMissions that are missing by
// title. It returns the number of missions created.
func (s *Service) SeedMissions(ctx context.Context) (int, error) {
	db := s.db.WithContext(ctx)
	created := 0
	for _, def := range DefaultMissions {
		var count int64
		if err := db.Model(&models.Mission{}).Where("title = ?", def.Title).Count(&count).Error; err != nil {
			return created, fmt.Errorf("seed missions: %w", err)
		}
		if count > 0 {
			continue
		}
		mission := def
		if err := s.CreateMission(ctx, &mission); err != nil {
			return created, fmt.Errorf("seed mission %q: %w", def.Title, err)
		}
		created++
	}
	if created > 0 {
		s.log.Info().Int("created", created).Msg("default missions seeded")
	}
	return created, nil
}
