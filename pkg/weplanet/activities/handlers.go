package activities

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// Handler handles activity requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new activities handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateActivityRequest represents a request to record an activity
type CreateActivityRequest struct {
	FamilyID     uint       `json:"family_id" binding:"required"`
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description" binding:"max=1000"`
	Category     string     `json:"category" binding:"required,oneof=recycle energy_saving water_saving transportation waste_reduction green_purchase other"`
	CO2Reduction float64    `json:"co2_reduction" binding:"gte=0"`
	WaterSaved   float64    `json:"water_saved" binding:"gte=0"`
	EnergySaved  float64    `json:"energy_saved" binding:"gte=0"`
	PhotoURL     string     `json:"photo_url" binding:"omitempty,url,max=500"`
	LocationName string     `json:"location_name" binding:"max=100"`
	Latitude     *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	ActivityDate *time.Time `json:"activity_date"`
}

// VerifyRequest sets the verification outcome of an activity
type VerifyRequest struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
	Note   string `json:"note" binding:"max=1000"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID                  uint       `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Category            string     `json:"category"`
	Points              int        `json:"points"`
	CO2Reduction        float64    `json:"co2_reduction"`
	WaterSaved          float64    `json:"water_saved"`
	EnergySaved         float64    `json:"energy_saved"`
	EnvironmentalImpact float64    `json:"environmental_impact"`
	PhotoURL            string     `json:"photo_url,omitempty"`
	UserID              uint       `json:"user_id"`
	FamilyID            uint       `json:"family_id"`
	Status              string     `json:"status"`
	VerifiedBy          *uint      `json:"verified_by,omitempty"`
	VerificationNote    string     `json:"verification_note,omitempty"`
	VerifiedAt          *time.Time `json:"verified_at,omitempty"`
	LocationName        string     `json:"location_name,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	ActivityDate        time.Time  `json:"activity_date"`
	CreatedAt           time.Time  `json:"created_at"`
}

// RecordResponse is a recorded activity with the user's updated progress
type RecordResponse struct {
	Activity          ActivityResponse `json:"activity"`
	TotalPoints       int              `json:"total_points"`
	Level             int              `json:"level"`
	LevelUp           bool             `json:"level_up"`
	StreakDays        int              `json:"streak_days"`
	NewBadges         []string         `json:"new_badges"`
	CompletedMissions []string         `json:"completed_missions"`
}

// ListResponse is one page of activities
type ListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Size       int                `json:"size"`
	Pages      int                `json:"pages"`
}

func newActivityResponse(a *models.EcoActivity) ActivityResponse {
	return ActivityResponse{
		ID:                  a.ID,
		Title:               a.Title,
		Description:         a.Description,
		Category:            string(a.Category),
		Points:              a.Points,
		CO2Reduction:        a.CO2Reduction,
		WaterSaved:          a.WaterSaved,
		EnergySaved:         a.EnergySaved,
		EnvironmentalImpact: a.EnvironmentalImpact(),
		PhotoURL:            a.PhotoURL,
		UserID:              a.UserID,
		FamilyID:            a.FamilyID,
		Status:              string(a.Status),
		VerifiedBy:          a.VerifiedByID,
		VerificationNote:    a.VerificationNote,
		VerifiedAt:          a.VerifiedAt,
		LocationName:        a.LocationName,
		Latitude:            a.Latitude,
		Longitude:           a.Longitude,
		ActivityDate:        a.ActivityDate,
		CreatedAt:           a.CreatedAt,
	}
}

// Create records a new activity
// @Summary Record eco activity
// @Description Records an activity for a family the caller belongs to and updates points, level, streak and badges
// @Tags activities
// @Accept json
// @Produce json
// @Param request body CreateActivityRequest true "Activity"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 403 {object} map[string]string "Not a family member"
// @Security BearerAuth
// @Router /activities [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	result, err := h.svc.Record(c.Request.Context(), userID, RecordInput{
		FamilyID:     req.FamilyID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     models.ActivityCategory(req.Category),
		CO2Reduction: req.CO2Reduction,
		WaterSaved:   req.WaterSaved,
		EnergySaved:  req.EnergySaved,
		PhotoURL:     req.PhotoURL,
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ActivityDate: req.ActivityDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	names := make([]string, len(result.NewBadges))
	for i, ub := range result.NewBadges {
		names[i] = ub.Badge.Name
	}
	missions := make([]string, len(result.CompletedMissions))
	for i, um := range result.CompletedMissions {
		missions[i] = um.Mission.Title
	}
	c.JSON(http.StatusCreated, RecordResponse{
		Activity:          newActivityResponse(result.Activity),
		TotalPoints:       result.User.TotalPoints,
		Level:             result.User.Level,
		LevelUp:           result.LevelUp,
		StreakDays:        result.User.StreakDays,
		NewBadges:         names,
		CompletedMissions: missions,
	})
}

// List returns a page of activities
// @Summary List eco activities
// @Description The caller's own activities, or a family's when family_id is given
// @Tags activities
// @Produce json
// @Param family_id query int false "Family ID"
// @Param category query string false "Category"
// @Param status query string false "pending, verified or rejected"
// @Param page query int false "Page (default 1)"
// @Param size query int false "Page size (default 20, max 100)"
// @Success 200 {object} ListResponse
// @Failure 403 {object} map[string]string "Not a family member"
// @Security BearerAuth
// @Router /activities [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	filter := Filter{
		Category: models.ActivityCategory(c.Query("category")),
		Status:   models.ActivityStatus(c.Query("status")),
	}
	if raw := c.Query("family_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			validation.Respond(c, ValidationError{Field: "family_id", Message: "must be a family ID"})
			return
		}
		filter.FamilyID = uint(id)
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))

	page, err := h.svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ListResponse{
		Activities: make([]ActivityResponse, len(page.Activities)),
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		Pages:      page.Pages,
	}
	for i := range page.Activities {
		resp.Activities[i] = newActivityResponse(&page.Activities[i])
	}
	c.JSON(http.StatusOK, resp)
}

// Stats returns the caller's activity statistics
// @Summary My activity statistics
// @Tags activities
// @Produce json
// @Success 200 {object} Stats
// @Security BearerAuth
// @Router /activities/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	stats, err := h.svc.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard returns the caller's home screen summary
// @Summary Dashboard summary
// @Description Today's and this week's activity with the caller's environmental impact
// @Tags dashboard
// @Produce json
// @Success 200 {object} Dashboard
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *Handler) Dashboard(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	summary, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Verify verifies or rejects an activity
// @Summary Verify eco activity
// @Description Creator or admin of the activity's family only
// @Tags activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param request body VerifyRequest true "Verification"
// @Success 200 {object} ActivityResponse
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Activity not found"
// @Security BearerAuth
// @Router /activities/{id}/verify [put]
func (h *Handler) Verify(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	activity, err := h.svc.Verify(c.Request.Context(), uint(id), userID, models.ActivityStatus(req.Status), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newActivityResponse(activity))
}

// RegisterRoutes registers activity routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/stats", h.Stats)
	rg.PUT("/:id/verify", h.Verify)
}

// RegisterDashboardRoutes registers the dashboard summary
func (h *Handler) RegisterDashboardRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Dashboard)
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrActivityNotFound, http.StatusNotFound},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrNotFamilyMember, http.StatusForbidden},
	{ErrPermissionDenied, http.StatusForbidden},
}

func respondError(c *gin.Context, err error) {
	var verr ValidationError
	if errors.As(err, &verr) {
		validation.Respond(c, verr)
		return
	}
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}

	log := logging.FromContext(c)
	log.Error().Err(err).Str(logging.PACKAGE, "activities").Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
