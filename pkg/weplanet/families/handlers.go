package families

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// Handler handles family requests
type Handler struct {
	svc *Service
}

// NewHandler creates a new families handler
func NewHandler(db *gorm.DB, opts ...Option) *Handler {
	return &Handler{svc: NewService(db, opts...)}
}

// CreateFamilyRequest represents a request to create a family
type CreateFamilyRequest struct {
	Name                string `json:"name" binding:"required,min=1,max=100"`
	Description         string `json:"description" binding:"max=500"`
	IsPublic            bool   `json:"is_public"`
	MaxMembers          *int   `json:"max_members" binding:"omitempty,min=1,max=50"`
	FamilyGoal          string `json:"family_goal" binding:"max=500"`
	MonthlyTargetPoints *int   `json:"monthly_target_points" binding:"omitempty,gte=0"`
}

// UpdateFamilyRequest represents a partial family update
type UpdateFamilyRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description         *string `json:"description" binding:"omitempty,max=500"`
	IsPublic            *bool   `json:"is_public"`
	MaxMembers          *int    `json:"max_members" binding:"omitempty,min=1,max=50"`
	FamilyGoal          *string `json:"family_goal" binding:"omitempty,max=500"`
	MonthlyTargetPoints *int    `json:"monthly_target_points" binding:"omitempty,gte=0"`
}

// JoinRequest carries an invite code
type JoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required,max=16"`
}

// TransferRequest names the new creator
type TransferRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// FamilyResponse represents a family in API responses
type FamilyResponse struct {
	ID                  uint             `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	InviteCode          string           `json:"invite_code,omitempty"`
	CreatorID           uint             `json:"creator_id"`
	IsPublic            bool             `json:"is_public"`
	MaxMembers          int              `json:"max_members"`
	FamilyGoal          string           `json:"family_goal"`
	MonthlyTargetPoints int              `json:"monthly_target_points"`
	TotalPoints         int              `json:"total_points"`
	TotalActivities     int              `json:"total_activities"`
	TotalCO2Saved       float64          `json:"total_co2_saved"`
	MemberCount         int              `json:"member_count"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Members             []MemberResponse `json:"members,omitempty"`
	CurrentUserRole     *string          `json:"current_user_role,omitempty"`
	CurrentUserIsMember bool             `json:"current_user_is_member"`
}

// FamilyListItem is a family in the caller's family list
type FamilyListItem struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	MemberCount int       `json:"member_count"`
	MaxMembers  int       `json:"max_members"`
	TotalPoints int       `json:"total_points"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// JoinResponse reports the outcome of a join attempt
type JoinResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FamilyID   uint   `json:"family_id"`
	FamilyName string `json:"family_name"`
	Role       string `json:"role"`
}

// LeaveResponse reports the outcome of a leave
type LeaveResponse struct {
	Message       string `json:"message"`
	FamilyDeleted bool   `json:"family_deleted"`
	NewCreatorID  *uint  `json:"new_creator_id,omitempty"`
}

// RankingResponse is one row of the family ranking
type RankingResponse struct {
	Rank                   int     `json:"rank"`
	FamilyID               uint    `json:"family_id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	TotalPoints            int     `json:"total_points"`
	TotalActivities        int     `json:"total_activities"`
	MemberCount            int     `json:"member_count"`
	AveragePointsPerMember float64 `json:"average_points_per_member"`
}

func newFamilyResponse(f *models.Family, role *models.FamilyRole) FamilyResponse {
	resp := FamilyResponse{
		ID:                  f.ID,
		Name:                f.Name,
		Description:         f.Description,
		CreatorID:           f.CreatorID,
		IsPublic:            f.IsPublic,
		MaxMembers:          f.MaxMembers,
		FamilyGoal:          f.FamilyGoal,
		MonthlyTargetPoints: f.MonthlyTargetPoints,
		TotalPoints:         f.TotalPoints,
		TotalActivities:     f.TotalActivities,
		TotalCO2Saved:       f.TotalCO2Saved,
		MemberCount:         f.MemberCount,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
		CurrentUserIsMember: role != nil,
	}
	// The invite code is a credential; only members see it.
	if role != nil {
		r := string(*role)
		resp.CurrentUserRole = &r
		resp.InviteCode = f.InviteCode
	}
	resp.Members = make([]MemberResponse, len(f.Members))
	for i := range f.Members {
		resp.Members[i] = newMemberResponse(&f.Members[i])
	}
	return resp
}

// List returns the families the user is an active member of
// @Summary List my families
// @Tags families
// @Produce json
// @Success 200 {array} FamilyListItem
// @Security BearerAuth
// @Router /families [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	memberships, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]FamilyListItem, len(memberships))
	for i, m := range memberships {
		items[i] = FamilyListItem{
			ID:          m.Family.ID,
			Name:        m.Family.Name,
			Description: m.Family.Description,
			IsPublic:    m.Family.IsPublic,
			MemberCount: m.Family.MemberCount,
			MaxMembers:  m.Family.MaxMembers,
			TotalPoints: m.Family.TotalPoints,
			Role:        string(m.Role),
			JoinedAt:    m.JoinedAt,
		}
	}
	c.JSON(http.StatusOK, items)
}

// Create creates a new family with the caller as creator
// @Summary Create family
// @Description Create a family; the caller becomes its creator and first member
// @Tags families
// @Accept json
// @Produce json
// @Param request body CreateFamilyRequest true "Family details"
// @Success 201 {object} FamilyResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /families [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	family, err := h.svc.Create(c.Request.Context(), userID, CreateInput{
		Name:                req.Name,
		Description:         req.Description,
		IsPublic:            req.IsPublic,
		MaxMembers:          req.MaxMembers,
		FamilyGoal:          req.FamilyGoal,
		MonthlyTargetPoints: req.MonthlyTargetPoints,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	role := models.FamilyRoleCreator
	c.JSON(http.StatusCreated, newFamilyResponse(family, &role))
}

// Get returns a family
// @Summary Get family
// @Description Members see any of their families; others only public ones
// @Tags families
// @Produce json
// @Param id path int true "Family ID"
// @Success 200 {object} FamilyResponse
// @Failure 403 {object} map[string]string "Private family"
// @Failure 404 {object} map[string]string "Family not found"
// @Security BearerAuth
// @Router /families/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	view, err := h.svc.Get(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFamilyResponse(view.Family, view.CurrentUserRole))
}

// Update updates family settings
// @Summary Update family
// @Description Partial update; creator or admin only
// @Tags families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param request body UpdateFamilyRequest true "Fields to change"
// @Success 200 {object} FamilyResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Family not found"
// @Security BearerAuth
// @Router /families/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	family, err := h.svc.Update(c.Request.Context(), familyID, userID, UpdateInput{
		Name:                req.Name,
		Description:         req.Description,
		IsPublic:            req.IsPublic,
		MaxMembers:          req.MaxMembers,
		FamilyGoal:          req.FamilyGoal,
		MonthlyTargetPoints: req.MonthlyTargetPoints,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newFamilyResponse(family, roleOf(family, userID)))
}

// Join joins the family in the path with its invite code
// @Summary Join family
// @Tags families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param request body JoinRequest true "Invite code"
// @Success 200 {object} JoinResponse
// @Failure 400 {object} map[string]string "Family is full"
// @Failure 404 {object} map[string]string "Invite code does not match"
// @Security BearerAuth
// @Router /families/{id}/join [post]
func (h *Handler) Join(c *gin.Context) {
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}
	h.join(c, familyID)
}

// JoinByCode joins whichever family holds the invite code
// @Summary Join family by invite code
// @Tags families
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Invite code"
// @Success 200 {object} JoinResponse
// @Failure 400 {object} map[string]string "Family is full"
// @Failure 404 {object} map[string]string "Unknown invite code"
// @Security BearerAuth
// @Router /families/join-by-code [post]
func (h *Handler) JoinByCode(c *gin.Context) {
	h.join(c, 0)
}

func (h *Handler) join(c *gin.Context, familyID uint) {
	userID, _ := auth.GetUserID(c)

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	result, err := h.svc.JoinByCode(c.Request.Context(), userID, familyID, req.InviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, JoinResponse{
		Success:    result.Success,
		Message:    result.Message,
		FamilyID:   result.Family.ID,
		FamilyName: result.Family.Name,
		Role:       string(result.Membership.Role),
	})
}

// Leave leaves a family
// @Summary Leave family
// @Description A creator leaving a family with other members must name a successor
// @Tags families
// @Produce json
// @Param id path int true "Family ID"
// @Param transfer_to_user_id query int false "User ID of the new creator"
// @Success 200 {object} LeaveResponse
// @Failure 400 {object} map[string]string "Successor required"
// @Failure 404 {object} map[string]string "Not a member"
// @Security BearerAuth
// @Router /families/{id}/leave [delete]
func (h *Handler) Leave(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	var transferTo *uint
	if raw := c.Query("transfer_to_user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			validation.Respond(c, ValidationError{Field: "transfer_to_user_id", Message: "must be a user ID"})
			return
		}
		v := uint(id)
		transferTo = &v
	}

	result, err := h.svc.Leave(c.Request.Context(), familyID, userID, transferTo)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := LeaveResponse{Message: "Left the family", FamilyDeleted: result.FamilyDeleted}
	if result.NewCreatorID != 0 {
		resp.NewCreatorID = &result.NewCreatorID
	}
	if result.FamilyDeleted {
		resp.Message = "Left the family; the family was deleted as it has no members left"
	}
	c.JSON(http.StatusOK, resp)
}

// Transfer hands the creator role to another member
// @Summary Transfer ownership
// @Description Creator only; the previous creator becomes an admin
// @Tags families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param request body TransferRequest true "New creator"
// @Success 200 {object} FamilyResponse
// @Failure 403 {object} map[string]string "Creator only"
// @Failure 404 {object} map[string]string "Target is not a member"
// @Security BearerAuth
// @Router /families/{id}/transfer [post]
func (h *Handler) Transfer(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	family, err := h.svc.TransferOwnership(c.Request.Context(), familyID, userID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFamilyResponse(family, roleOf(family, userID)))
}

// Stats returns the family statistics
// @Summary Family statistics
// @Tags families
// @Produce json
// @Param id path int true "Family ID"
// @Success 200 {object} Stats
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Family not found"
// @Security BearerAuth
// @Router /families/{id}/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Ranking lists public families by points
// @Summary Family ranking
// @Tags families
// @Produce json
// @Param limit query int false "Number of families (default 10, max 100)"
// @Success 200 {array} RankingResponse
// @Security BearerAuth
// @Router /families/ranking [get]
func (h *Handler) Ranking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultRankingLimit)))

	entries, err := h.svc.Ranking(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RankingResponse, len(entries))
	for i, e := range entries {
		resp[i] = RankingResponse{
			Rank:                   e.Rank,
			FamilyID:               e.Family.ID,
			Name:                   e.Family.Name,
			Description:            e.Family.Description,
			TotalPoints:            e.Family.TotalPoints,
			TotalActivities:        e.Family.TotalActivities,
			MemberCount:            e.Family.MemberCount,
			AveragePointsPerMember: e.AveragePointsPerMember,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers family routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/ranking", h.Ranking)
	rg.POST("/join-by-code", h.JoinByCode)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/join", h.Join)
	rg.DELETE("/:id/leave", h.Leave)
	rg.POST("/:id/transfer", h.Transfer)
	rg.GET("/:id/stats", h.Stats)
}

func familyIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID"})
		return 0, false
	}
	return uint(id), true
}

func roleOf(f *models.Family, userID uint) *models.FamilyRole {
	for _, m := range f.Members {
		if m.UserID == userID {
			role := m.Role
			return &role
		}
	}
	return nil
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{ErrFamilyNotFound, http.StatusNotFound},
	{ErrInviteCodeNotFound, http.StatusNotFound},
	{ErrMembershipNotFound, http.StatusNotFound},
	{ErrNotMember, http.StatusForbidden},
	{ErrPrivateFamily, http.StatusForbidden},
	{ErrPermissionDenied, http.StatusForbidden},
	{ErrFamilyFull, http.StatusBadRequest},
	{ErrTransferRequired, http.StatusBadRequest},
	{ErrSelfRemoval, http.StatusBadRequest},
	{ErrConflict, http.StatusConflict},
	{ErrInviteCodeExhausted, http.StatusConflict},
}

// respondError maps a service error to its HTTP status. Unknown errors are
// logged and answered with a generic message.
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
	log.Error().Err(err).Str(logging.PACKAGE, "families").Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
