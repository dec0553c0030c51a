package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service evaluates and grants badges and tracks missions
type Service struct {
	db      *gorm.DB
	now     func() time.Time
	cache   *programCache[*Criteria]
	metrics *programCache[*Metric]
	log     zerolog.Logger
}

// NewService creates a badge service
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:      db,
		now:     time.Now,
		cache:   newProgramCache(Compile),
		metrics: newProgramCache(CompileMetric),
		log:     logging.NewPackageLogger("badges"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new badge after checking that its criteria compile
func (s *Service) Create(ctx context.Context, badge *models.Badge) error {
	if _, err := s.cache.get(badge.Criteria); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(badge).Error; err != nil {
		return fmt.Errorf("create badge: %w", err)
	}
	return nil
}

// Award grants every active badge the user has not earned yet and whose
// criteria hold for the user's current statistics. Rewards are added to user
// and saved through tx. It returns the newly earned badges.
func (s *Service) Award(tx *gorm.DB, user *models.User) ([]models.UserBadge, error) {
	earned := tx.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", user.ID)

	var candidates []models.Badge
	err := tx.Where("is_active = ?", true).
		Where("id NOT IN (?)", earned).
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}

	env := EnvFor(user)
	var awarded []models.UserBadge
	points, xp := 0, 0
	for _, badge := range candidates {
		criteria, err := s.cache.get(badge.Criteria)
		if err != nil {
			s.log.Warn().Err(err).Uint("badge_id", badge.ID).Msg("skipping badge with invalid criteria")
			continue
		}
		ok, err := criteria.Match(env)
		if err != nil {
			s.log.Warn().Err(err).Uint("badge_id", badge.ID).Msg("badge evaluation failed")
			continue
		}
		if !ok {
			continue
		}

		ub := models.UserBadge{UserID: user.ID, BadgeID: badge.ID, EarnedAt: s.now().UTC(), Badge: badge}
		if err := tx.Omit("Badge").Create(&ub).Error; err != nil {
			return nil, fmt.Errorf("award badge %d: %w", badge.ID, err)
		}
		awarded = append(awarded, ub)
		points += badge.PointsReward
		xp += badge.ExperienceReward
	}

	if len(awarded) == 0 {
		return nil, nil
	}

	user.TotalPoints += points
	user.AddExperience(xp)
	err = tx.Model(user).Updates(map[string]interface{}{
		"total_points":      user.TotalPoints,
		"experience_points": user.ExperiencePoints,
		"level":             user.Level,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("apply badge rewards: %w", err)
	}

	for _, ub := range awarded {
		s.log.Info().Uint(logging.USER_ID, user.ID).Str("badge", ub.Badge.Name).Msg("badge awarded")
	}
	return awarded, nil
}

// ListVisible returns the active badges that are not hidden
func (s *Service) ListVisible(ctx context.Context) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND is_hidden = ?", true, false).
		Order("id ASC").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

// Earned returns the badges earned by a user, newest first
func (s *Service) Earned(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var earned []models.UserBadge
	err := s.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC, id DESC").
		Find(&earned).Error
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}
	return earned, nil
}
