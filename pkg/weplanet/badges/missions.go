package badges

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/families"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

var (
	// ErrInvalidMetric is returned for mission metrics that do not compile to a number
	ErrInvalidMetric = errors.New("invalid mission metric")
	// ErrInvalidMission is returned when a mission definition is inconsistent
	ErrInvalidMission = errors.New("invalid mission")
)

// MissionEnv is what a mission metric can refer to: the user's activities
// within the mission period, restricted to the mission category when it has one
type MissionEnv struct {
	Activities  int            `expr:"activities"`
	Points      int            `expr:"points"`
	CO2Saved    float64        `expr:"co2_saved"`
	WaterSaved  float64        `expr:"water_saved"`
	EnergySaved float64        `expr:"energy_saved"`
	Categories  map[string]int `expr:"categories"`
}

// Metric is a compiled mission metric
type Metric struct {
	source  string
	program *vm.Program
}

// CompileMetric type checks source against MissionEnv and requires a numeric result
func CompileMetric(source string) (*Metric, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", ErrInvalidMetric)
	}
	program, err := expr.Compile(source, expr.Env(MissionEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidMetric, source, err)
	}
	return &Metric{source: source, program: program}, nil
}

// Value evaluates the metric against env
func (m *Metric) Value(env MissionEnv) (float64, error) {
	if env.Categories == nil {
		env.Categories = map[string]int{}
	}
	out, err := expr.Run(m.program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", m.source, err)
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("evaluate %q: %w: got %T", m.source, ErrInvalidMetric, out)
}

// MissionPeriod returns the window of m that contains at. ok is false when a
// one-off mission is not running at that time.
func MissionPeriod(m *models.Mission, at time.Time) (start time.Time, end *time.Time, ok bool) {
	at = at.UTC()
	var next time.Time
	switch m.MissionType {
	case models.MissionDaily:
		start = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		next = start.AddDate(0, 0, 1)
	case models.MissionWeekly:
		start = families.WeekStart(at)
		next = start.AddDate(0, 0, 7)
	case models.MissionMonthly:
		start = families.MonthStart(at)
		next = start.AddDate(0, 1, 0)
	default:
		if m.StartDate == nil || at.Before(m.StartDate.UTC()) {
			return time.Time{}, nil, false
		}
		if m.EndDate != nil && !at.Before(m.EndDate.UTC()) {
			return time.Time{}, nil, false
		}
		start = m.StartDate.UTC()
		if m.EndDate != nil {
			e := m.EndDate.UTC()
			end = &e
		}
		return start, end, true
	}
	return start, &next, true
}

// CreateMission validates and stores a mission. The metric must compile and
// evaluate against an empty period.
func (s *Service) CreateMission(ctx context.Context, m *models.Mission) error {
	m.Title = strings.TrimSpace(m.Title)
	switch {
	case m.Title == "" || utf8.RuneCountInString(m.Title) > 200:
		return fmt.Errorf("%w: title must be 1-200 characters", ErrInvalidMission)
	case !m.MissionType.Valid():
		return fmt.Errorf("%w: unknown mission type %q", ErrInvalidMission, m.MissionType)
	case m.Category != "" && !m.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidMission, m.Category)
	case m.DifficultyLevel < 1 || m.DifficultyLevel > 5:
		return fmt.Errorf("%w: difficulty must be between 1 and 5", ErrInvalidMission)
	case m.TargetValue <= 0 || math.IsNaN(m.TargetValue) || math.IsInf(m.TargetValue, 0):
		return fmt.Errorf("%w: target must be a positive number", ErrInvalidMission)
	case !m.MissionType.Recurring() && m.StartDate == nil:
		return fmt.Errorf("%w: %s missions need a start date", ErrInvalidMission, m.MissionType)
	case m.StartDate != nil && m.EndDate != nil && !m.EndDate.After(*m.StartDate):
		return fmt.Errorf("%w: end date must be after the start date", ErrInvalidMission)
	}

	metric, err := s.metrics.get(m.Metric)
	if err != nil {
		return err
	}
	if _, err := metric.Value(MissionEnv{}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMetric, err)
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	return nil
}

// ActiveMissions returns the missions running at the current time
func (s *Service) ActiveMissions(ctx context.Context) ([]models.Mission, error) {
	var all []models.Mission
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("difficulty_level ASC, id ASC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}

	now := s.now()
	running := all[:0]
	for i := range all {
		if _, _, ok := MissionPeriod(&all[i], now); ok {
			running = append(running, all[i])
		}
	}
	return running, nil
}

// UserMissions returns the user's mission records, current periods first
func (s *Service) UserMissions(ctx context.Context, userID uint) ([]models.UserMission, error) {
	var missions []models.UserMission
	err := s.db.WithContext(ctx).
		Preload("Mission").
		Where("user_id = ?", userID).
		Order("started_at DESC, mission_id ASC").
		Find(&missions).Error
	if err != nil {
		return nil, fmt.Errorf("list user missions: %w", err)
	}
	return missions, nil
}

// AdvanceMissions recomputes the user's progress on every mission running at
// at, completing those that reach their target. Rewards, including a reward
// badge, are applied to user and saved through tx. It returns the missions
// completed by this call.
func (s *Service) AdvanceMissions(tx *gorm.DB, user *models.User, at time.Time) ([]models.UserMission, error) {
	var missions []models.Mission
	if err := tx.Where("is_active = ?", true).Order("id ASC").Find(&missions).Error; err != nil {
		return nil, fmt.Errorf("load missions: %w", err)
	}

	envs := make(map[string]MissionEnv)
	var completed []models.UserMission
	points, xp := 0, 0
	for i := range missions {
		mission := &missions[i]
		start, end, ok := MissionPeriod(mission, at)
		if !ok {
			continue
		}

		var um models.UserMission
		err := tx.Where("user_id = ? AND mission_id = ? AND started_at = ?", user.ID, mission.ID, start).First(&um).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			um = models.UserMission{UserID: user.ID, MissionID: mission.ID, StartedAt: start, ExpiresAt: end}
		case err != nil:
			return nil, fmt.Errorf("load user mission: %w", err)
		case um.IsCompleted:
			continue
		}

		metric, err := s.metrics.get(mission.Metric)
		if err != nil {
			s.log.Warn().Err(err).Uint("mission_id", mission.ID).Msg("skipping mission with invalid metric")
			continue
		}
		var endUnix int64
		if end != nil {
			endUnix = end.Unix()
		}
		key := fmt.Sprintf("%d|%d|%s", start.Unix(), endUnix, mission.Category)
		env, ok := envs[key]
		if !ok {
			env, err = periodEnv(tx, user.ID, start, end, mission.Category)
			if err != nil {
				return nil, err
			}
			envs[key] = env
		}
		value, err := metric.Value(env)
		if err != nil {
			s.log.Warn().Err(err).Uint("mission_id", mission.ID).Msg("mission evaluation failed")
			continue
		}

		um.Progress = value
		if value >= mission.TargetValue {
			now := at.UTC()
			um.IsCompleted = true
			um.CompletedAt = &now
		}
		if err := tx.Omit("Mission").Save(&um).Error; err != nil {
			return nil, fmt.Errorf("save user mission: %w", err)
		}
		if !um.IsCompleted {
			continue
		}

		um.Mission = *mission
		completed = append(completed, um)
		points += mission.PointsReward
		xp += mission.ExperienceReward
		if mission.BadgeRewardID != nil {
			if err := s.grantBadge(tx, user.ID, *mission.BadgeRewardID, at); err != nil {
				return nil, err
			}
		}
	}

	if len(completed) == 0 {
		return nil, nil
	}

	user.TotalPoints += points
	user.AddExperience(xp)
	err := tx.Model(user).Updates(map[string]interface{}{
		"total_points":      user.TotalPoints,
		"experience_points": user.ExperiencePoints,
		"level":             user.Level,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("apply mission rewards: %w", err)
	}

	for _, um := range completed {
		s.log.Info().Uint(logging.USER_ID, user.ID).Str("mission", um.Mission.Title).Msg("mission completed")
	}
	return completed, nil
}

// grantBadge records a reward badge unless the user already holds it. The
// badge's own rewards are not applied.
func (s *Service) grantBadge(tx *gorm.DB, userID, badgeID uint, at time.Time) error {
	var count int64
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", userID, badgeID).Count(&count).Error; err != nil {
		return fmt.Errorf("check reward badge: %w", err)
	}
	if count > 0 {
		return nil
	}
	ub := models.UserBadge{UserID: userID, BadgeID: badgeID, EarnedAt: at.UTC()}
	if err := tx.Omit("Badge").Create(&ub).Error; err != nil {
		return fmt.Errorf("grant reward badge %d: %w", badgeID, err)
	}
	return nil
}

func periodEnv(tx *gorm.DB, userID uint, start time.Time, end *time.Time, category models.ActivityCategory) (MissionEnv, error) {
	q := tx.Model(&models.EcoActivity{}).Where("user_id = ? AND created_at >= ?", userID, start.UTC())
	if end != nil {
		q = q.Where("created_at < ?", end.UTC())
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []struct {
		Category   string
		Activities int
		Points     int
		CO2        float64
		Water      float64
		Energy     float64
	}
	err := q.Select("category, COUNT(*) AS activities, COALESCE(SUM(points), 0) AS points, " +
		"COALESCE(SUM(co2_reduction), 0) AS co2, COALESCE(SUM(water_saved), 0) AS water, " +
		"COALESCE(SUM(energy_saved), 0) AS energy").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return MissionEnv{}, fmt.Errorf("mission progress: %w", err)
	}

	env := MissionEnv{Categories: make(map[string]int, len(rows))}
	for _, r := range rows {
		env.Activities += r.Activities
		env.Points += r.Points
		env.CO2Saved += r.CO2
		env.WaterSaved += r.Water
		env.EnergySaved += r.Energy
		env.Categories[r.Category] = r.Activities
	}
	return env, nil
}
