package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/weplanet/weplanet/pkg/weplanet/logging"
	"github.com/weplanet/weplanet/pkg/weplanet/models"
	"github.com/weplanet/weplanet/pkg/weplanet/validation"
)

// Handler handles authentication requests
type Handler struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, log: logging.NewPackageLogger("auth")}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"max=100"`
}

// LoginRequest represents the login request body. Login accepts an email
// address or a username.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         UserResponse `json:"user"`
}

// AvailabilityResponse answers a username or email availability check
type AvailabilityResponse struct {
	Available bool     `json:"available"`
	Reason    string   `json:"reason,omitempty"`
	Issues    []string `json:"issues,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
}

// Availability reasons
const (
	ReasonInvalidFormat = "invalid_format"
	ReasonAlreadyTaken  = "already_taken"
)

// UserResponse represents user data in responses
type UserResponse struct {
	ID               uint       `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name"`
	AvatarURL        string     `json:"avatar_url"`
	Bio              string     `json:"bio"`
	Location         string     `json:"location"`
	TotalPoints      int        `json:"total_points"`
	Level            int        `json:"level"`
	ExperiencePoints int        `json:"experience_points"`
	StreakDays       int        `json:"streak_days"`
	TotalActivities  int        `json:"total_activities"`
	TotalCO2Saved    float64    `json:"total_co2_saved"`
	IsActive         bool       `json:"is_active"`
	IsPublicProfile  bool       `json:"is_public_profile"`
	Notifications    bool       `json:"notification_enabled"`
	LastActivityAt   *time.Time `json:"last_activity_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewUserResponse builds the public representation of a user
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		FullName:         u.FullName,
		AvatarURL:        u.AvatarURL,
		Bio:              u.Bio,
		Location:         u.Location,
		TotalPoints:      u.TotalPoints,
		Level:            u.Level,
		ExperiencePoints: u.ExperiencePoints,
		StreakDays:       u.StreakDays,
		TotalActivities:  u.TotalActivities,
		TotalCO2Saved:    u.TotalCO2Saved,
		IsActive:         u.Active,
		IsPublicProfile:  u.IsPublicProfile,
		Notifications:    u.NotificationEnabled,
		LastActivityAt:   u.LastActivityAt,
		CreatedAt:        u.CreatedAt,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account and receive a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 409 {object} map[string]string "Email or username already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		validation.Respond(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if taken, _ := h.taken("email = ?", email); taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if taken, _ := h.taken("username = ?", req.Username); taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := models.User{
		Email:               email,
		Username:            req.Username,
		PasswordHash:        hashedPassword,
		FullName:            strings.TrimSpace(req.FullName),
		Level:               1,
		Active:              true,
		IsPublicProfile:     true,
		NotificationEnabled: true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email or username already registered"})
			return
		}
		h.log.Error().Err(err).Msg("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	resp, err := newAuthResponse(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.log.Info().Uint(logging.USER_ID, user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, resp)
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email or username and password to receive a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Account disabled"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	login := strings.TrimSpace(req.Login)
	var user models.User
	if err := h.db.Where("email = ? OR username = ?", strings.ToLower(login), login).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	now := time.Now().UTC()
	if err := h.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		h.log.Warn().Err(err).Uint(logging.USER_ID, user.ID).Msg("update last login")
	}
	user.LastLoginAt = &now

	resp, err := newAuthResponse(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new access and refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Failure 403 {object} map[string]string "Account disabled"
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	claims, err := ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		msg := "Invalid refresh token"
		if errors.Is(err, ErrExpiredToken) {
			msg = "Refresh token has expired"
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	resp, err := newAuthResponse(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckUsername reports whether a username can be registered
// @Summary Check username availability
// @Tags auth
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} AvailabilityResponse
// @Router /auth/check-username/{username} [get]
func (h *Handler) CheckUsername(c *gin.Context) {
	username := c.Param("username")
	if err := validation.ValidateUsername(username); err != nil {
		c.JSON(http.StatusOK, AvailabilityResponse{Reason: ReasonInvalidFormat, Issues: issues(err)})
		return
	}
	taken, err := h.taken("username = ?", username)
	if err != nil {
		h.log.Error().Err(err).Msg("check username")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusOK, AvailabilityResponse{Reason: ReasonAlreadyTaken})
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Available: true, Username: username})
}

// CheckEmail reports whether an email address can be registered
// @Summary Check email availability
// @Tags auth
// @Produce json
// @Param email path string true "Email address"
// @Success 200 {object} AvailabilityResponse
// @Router /auth/check-email/{email} [get]
func (h *Handler) CheckEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if err := validation.ValidateEmail(email); err != nil {
		c.JSON(http.StatusOK, AvailabilityResponse{Reason: ReasonInvalidFormat, Issues: issues(err)})
		return
	}
	taken, err := h.taken("email = ?", email)
	if err != nil {
		h.log.Error().Err(err).Msg("check email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusOK, AvailabilityResponse{Reason: ReasonAlreadyTaken})
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Available: true, Email: email})
}

// taken includes deleted accounts, whose email and username stay reserved
func (h *Handler) taken(query, value string) (bool, error) {
	var count int64
	err := h.db.Unscoped().Model(&models.User{}).Where(query, value).Count(&count).Error
	return count > 0, err
}

func issues(err error) []string {
	var out []string
	for _, msg := range validation.Fields(err) {
		out = append(out, msg)
	}
	return out
}

func newAuthResponse(user *models.User) (AuthResponse, error) {
	token, err := GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		return AuthResponse{}, err
	}
	refresh, err := GenerateRefreshToken(user.ID, user.Email, user.Username)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, RefreshToken: refresh, TokenType: "bearer", User: NewUserResponse(user)}, nil
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Account disabled"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(&user))
}

// Logout handles user logout (client-side token invalidation)
// @Summary Logout
// @Description Logout the current user (client-side token invalidation)
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out successfully"
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/refresh", h.Refresh)
	rg.GET("/check-username/:username", h.CheckUsername)
	rg.GET("/check-email/:email", h.CheckEmail)
	rg.GET("/me", AuthMiddleware(), h.Me)
}
