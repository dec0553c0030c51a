package families

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/weplanet/weplanet/pkg/weplanet/auth"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// MemberResponse represents a family member in API responses
type MemberResponse struct {
	ID                  uint       `json:"id"`
	UserID              uint       `json:"user_id"`
	Username            string     `json:"username"`
	FullName            string     `json:"full_name"`
	AvatarURL           string     `json:"avatar_url"`
	Role                string     `json:"role"`
	Nickname            string     `json:"nickname"`
	PointsContributed   int        `json:"points_contributed"`
	ActivitiesCount     int        `json:"activities_count"`
	IsActive            bool       `json:"is_active"`
	NotificationEnabled bool       `json:"notification_enabled"`
	JoinedAt            time.Time  `json:"joined_at"`
	LastActivityAt      *time.Time `json:"last_activity_at"`
}

// UpdateMemberRequest represents a partial membership update
type UpdateMemberRequest struct {
	Nickname            *string `json:"nickname" binding:"omitempty,max=50"`
	NotificationEnabled *bool   `json:"notification_enabled"`
	Role                *string `json:"role" binding:"omitempty,oneof=admin member"`
}

func newMemberResponse(m *models.FamilyMembership) MemberResponse {
	return MemberResponse{
		ID:                  m.ID,
		UserID:              m.UserID,
		Username:            m.User.Username,
		FullName:            m.User.FullName,
		AvatarURL:           m.User.AvatarURL,
		Role:                string(m.Role),
		Nickname:            m.Nickname,
		PointsContributed:   m.PointsContributed,
		ActivitiesCount:     m.ActivitiesCount,
		IsActive:            m.IsActive,
		NotificationEnabled: m.NotificationEnabled,
		JoinedAt:            m.JoinedAt,
		LastActivityAt:      m.LastActivityAt,
	}
}

// ListMembers returns the active members of a family
// @Summary List family members
// @Tags families
// @Produce json
// @Param id path int true "Family ID"
// @Success 200 {array} MemberResponse
// @Failure 403 {object} map[string]string "Private family"
// @Failure 404 {object} map[string]string "Family not found"
// @Security BearerAuth
// @Router /families/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}

	memberships, err := h.svc.ListMembers(c.Request.Context(), familyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i := range memberships {
		members[i] = newMemberResponse(&memberships[i])
	}
	c.JSON(http.StatusOK, members)
}

// UpdateMember updates a membership
// @Summary Update family member
// @Description Creator or admin; only the creator may change roles
// @Tags families
// @Accept json
// @Produce json
// @Param id path int true "Family ID"
// @Param memberId path int true "Membership ID"
// @Param request body UpdateMemberRequest true "Fields to change"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /families/{id}/members/{memberId} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	update := MemberUpdate{Nickname: req.Nickname, NotificationEnabled: req.NotificationEnabled}
	if req.Role != nil {
		role := models.FamilyRole(*req.Role)
		update.Role = &role
	}

	membership, err := h.svc.UpdateMember(c.Request.Context(), familyID, userID, memberID, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newMemberResponse(membership))
}

// RemoveMember removes a member from the family
// @Summary Remove family member
// @Description Creator only; the creator cannot remove themselves
// @Tags families
// @Produce json
// @Param id path int true "Family ID"
// @Param memberId path int true "Membership ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Self removal"
// @Failure 403 {object} map[string]string "Creator only"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /families/{id}/members/{memberId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	familyID, ok := familyIDParam(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), familyID, userID, memberID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.PUT("/:id/members/:memberId", h.UpdateMember)
	rg.DELETE("/:id/members/:memberId", h.RemoveMember)
}

func memberIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("memberId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return 0, false
	}
	return uint(id), true
}
