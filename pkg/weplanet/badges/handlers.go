package badges

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
)

// Handler handles badge requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new badges handler around svc
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// BadgeResponse represents a badge in API responses
type BadgeResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Icon             string `json:"icon"`
	Category         string `json:"category"`
	Criteria         string `json:"criteria"`
	PointsReward     int    `json:"points_reward"`
	ExperienceReward int    `json:"experience_reward"`
}

// EarnedBadgeResponse is a badge with the time it was earned
type EarnedBadgeResponse struct {
	Badge    BadgeResponse `json:"badge"`
	EarnedAt time.Time     `json:"earned_at"`
}

func newBadgeResponse(b *models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:               b.ID,
		Name:             b.Name,
		Description:      b.Description,
		Icon:             b.Icon,
		Category:         string(b.Category),
		Criteria:         b.Criteria,
		PointsReward:     b.PointsReward,
		ExperienceReward: b.ExperienceReward,
	}
}

// List returns the available badges
// @Summary List badges
// @Description Active badges that are not hidden
// @Tags badges
// @Produce json
// @Success 200 {array} BadgeResponse
// @Security BearerAuth
// @Router /badges [get]
func (h *Handler) List(c *gin.Context) {
	badges, err := h.svc.ListVisible(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	resp := make([]BadgeResponse, len(badges))
	for i := range badges {
		resp[i] = newBadgeResponse(&badges[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Earned returns the caller's badges
// @Summary List earned badges
// @Tags badges
// @Produce json
// @Success 200 {array} EarnedBadgeResponse
// @Security BearerAuth
// @Router /badges/earned [get]
func (h *Handler) Earned(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	earned, err := h.svc.Earned(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}

	resp := make([]EarnedBadgeResponse, len(earned))
	for i := range earned {
		resp[i] = EarnedBadgeResponse{
			Badge:    newBadgeResponse(&earned[i].Badge),
			EarnedAt: earned[i].EarnedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// MissionResponse represents a mission in API responses
type MissionResponse struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"short_description"`
	MissionType      string     `json:"mission_type"`
	Category         string     `json:"category,omitempty"`
	DifficultyLevel  int        `json:"difficulty_level"`
	Metric           string     `json:"metric"`
	TargetValue      float64    `json:"target_value"`
	PointsReward     int        `json:"points_reward"`
	ExperienceReward int        `json:"experience_reward"`
	BadgeRewardID    *uint      `json:"badge_reward_id,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	EndDate          *time.Time `json:"end_date,omitempty"`
}

// UserMissionResponse is the caller's progress on a mission for one period
type UserMissionResponse struct {
	ID                 uint            `json:"id"`
	Mission            MissionResponse `json:"mission"`
	Progress           float64         `json:"progress"`
	ProgressPercentage float64         `json:"progress_percentage"`
	IsCompleted        bool            `json:"is_completed"`
	StartedAt          time.Time       `json:"started_at"`
	ExpiresAt          *time.Time      `json:"expires_at"`
	CompletedAt        *time.Time      `json:"completed_at"`
}

func newMissionResponse(m *models.Mission) MissionResponse {
	return MissionResponse{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		MissionType:      string(m.MissionType),
		Category:         string(m.Category),
		DifficultyLevel:  m.DifficultyLevel,
		Metric:           m.Metric,
		TargetValue:      m.TargetValue,
		PointsReward:     m.PointsReward,
		ExperienceReward: m.ExperienceReward,
		BadgeRewardID:    m.BadgeRewardID,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
	}
}

// NewUserMissionResponse builds the API view of a user mission
func NewUserMissionResponse(um *models.UserMission) UserMissionResponse {
	return UserMissionResponse{
		ID:                 um.ID,
		Mission:            newMissionResponse(&um.Mission),
		Progress:           um.Progress,
		ProgressPercentage: um.ProgressPercentage(um.Mission.TargetValue),
		IsCompleted:        um.IsCompleted,
		StartedAt:          um.StartedAt,
		ExpiresAt:          um.ExpiresAt,
		CompletedAt:        um.CompletedAt,
	}
}

// Missions returns the missions running now
// @Summary List missions
// @Description Active missions whose period includes the current time
// @Tags badges
// @Produce json
// @Success 200 {array} MissionResponse
// @Security BearerAuth
// @Router /badges/missions [get]
func (h *Handler) Missions(c *gin.Context) {
	missions, err := h.svc.ActiveMissions(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	resp := make([]MissionResponse, len(missions))
	for i := range missions {
		resp[i] = newMissionResponse(&missions[i])
	}
	c.JSON(http.StatusOK, resp)
}

// MyMissions returns the caller's mission progress
// @Summary List my missions
// @Description Progress on every mission period the caller has recorded activity in
// @Tags badges
// @Produce json
// @Success 200 {array} UserMissionResponse
// @Security BearerAuth
// @Router /badges/missions/mine [get]
func (h *Handler) MyMissions(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	missions, err := h.svc.UserMissions(c.Request.Context(), userID)
	if err != nil {
		internalError(c, err)
		return
	}

	resp := make([]UserMissionResponse, len(missions))
	for i := range missions {
		resp[i] = NewUserMissionResponse(&missions[i])
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers badge routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/earned", h.Earned)
	rg.GET("/missions", h.Missions)
	rg.GET("/missions/mine", h.MyMissions)
}

func internalError(c *gin.Context, err error) {
	log := logging.FromContext(c)
	log.Error().Err(err).Str(logging.PACKAGE, "badges").Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
