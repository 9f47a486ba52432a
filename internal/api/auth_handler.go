package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, the current staff member and staff accounts.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Staff StaffResponse `json:"staff"`
}

// --- Handler Methods ---

// Login godoc
// @Summary Log in a staff member
// @Description Authenticates a staff member and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, staff, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		Staff: MapStaffToResponse(staff),
	})
}

// Me godoc
// @Summary Get the current staff member
// @Description Returns the authenticated staff member and the panels they may open.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StaffResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Staff member no longer exists"
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	staffID, err := getStaffIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify staff member from token.")
		return
	}

	staff, err := h.authService.CurrentStaff(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapStaffToResponse(staff))
}

// RegisterStaff godoc
// @Summary Create a staff account
// @Description Creates an admin or trainer account. Admin only.
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param staff body service.RegisterInput true "Account details"
// @Success 201 {object} StaffResponse "Staff member created"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/staff [post]
func (h *AuthHandler) RegisterStaff(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	staff, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapStaffToResponse(staff))
}

// ListStaff godoc
// @Summary List staff accounts
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role (admin, trainer)"
// @Success 200 {array} StaffResponse
// @Failure 400 {object} gin.H "Unknown role"
// @Router /admin/staff [get]
func (h *AuthHandler) ListStaff(c *gin.Context) {
	staff, err := h.authService.ListStaff(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapStaffListToResponse(staff))
}
