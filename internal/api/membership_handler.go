package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"bunker/gym-admin/internal/service"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxExpiringDays caps the ?days= window of the expiring list.
const maxExpiringDays = 366

// MembershipHandler serves plans and membership sales.
type MembershipHandler struct {
	membershipService service.MembershipService
	logger            *zap.Logger
}

func NewMembershipHandler(membershipService service.MembershipService, logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService, logger: logger}
}

// --- Plans ---

// ListPlans godoc
// @Summary List membership plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only plans offered for new sales, cheapest first"
// @Success 200 {array} domain.MembershipPlan
// @Router /admin/plans [get]
func (h *MembershipHandler) ListPlans(c *gin.Context) {
	var (
		plans []domain.MembershipPlan
		err   error
	)
	if activeOnly, _ := strconv.ParseBool(c.Query("active")); activeOnly {
		plans, err = h.membershipService.ListActivePlans(c.Request.Context())
	} else {
		plans, err = h.membershipService.ListPlans(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan godoc
// @Summary Get a membership plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.MembershipPlan
// @Failure 404 {object} gin.H "Plan not found"
// @Router /admin/plans/{planId} [get]
func (h *MembershipHandler) GetPlan(c *gin.Context) {
	id, ok := idParam(c, "planId")
	if !ok {
		return
	}

	plan, err := h.membershipService.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreatePlan godoc
// @Summary Create a membership plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body service.PlanInput true "Plan details"
// @Success 201 {object} domain.MembershipPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/plans [post]
func (h *MembershipHandler) CreatePlan(c *gin.Context) {
	var req service.PlanInput
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.membershipService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdatePlan godoc
// @Summary Update a membership plan
// @Description Duration and price are frozen once any membership references the plan.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param plan body service.PlanInput true "Plan details"
// @Success 200 {object} domain.MembershipPlan
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 409 {object} gin.H "Plan already sold"
// @Router /admin/plans/{planId} [put]
func (h *MembershipHandler) UpdatePlan(c *gin.Context) {
	id, ok := idParam(c, "planId")
	if !ok {
		return
	}
	var req service.PlanInput
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.membershipService.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeactivatePlan godoc
// @Summary Stop offering a plan for new sales
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.MembershipPlan
// @Failure 404 {object} gin.H "Plan not found"
// @Router /admin/plans/{planId}/deactivate [post]
func (h *MembershipHandler) DeactivatePlan(c *gin.Context) {
	id, ok := idParam(c, "planId")
	if !ok {
		return
	}

	plan, err := h.membershipService.DeactivatePlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Memberships ---

// ListMemberships godoc
// @Summary List memberships, newest first
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param memberId query string false "Only this member's memberships"
// @Param status query string false "Stored status (active, expired, cancelled)"
// @Success 200 {array} MembershipResponse
// @Failure 400 {object} gin.H "Invalid filter"
// @Router /admin/memberships [get]
func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	var filter repository.MembershipFilter
	if raw := c.Query("memberId"); raw != "" {
		memberID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid memberId format")
			return
		}
		filter.MemberIDs = []primitive.ObjectID{memberID}
	}
	filter.Status = domain.MembershipStatus(c.Query("status"))
	if filter.Status != "" && !filter.Status.Valid() {
		abortWithError(c, http.StatusBadRequest, "Invalid status filter")
		return
	}

	views, err := h.membershipService.ListMemberships(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMembershipViewsToResponse(views))
}

// ExpiringMemberships godoc
// @Summary List memberships about to expire
// @Description Active memberships ending between today and today plus the threshold, soonest first.
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param days query int false "Threshold in days (defaults to the configured threshold)"
// @Success 200 {array} MembershipResponse
// @Failure 400 {object} gin.H "Invalid days"
// @Router /admin/memberships/expiring [get]
func (h *MembershipHandler) ExpiringMemberships(c *gin.Context) {
	threshold := -1
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 || days > maxExpiringDays {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("days must be an integer between 0 and %d", maxExpiringDays))
			return
		}
		threshold = days
	}

	views, err := h.membershipService.ExpiringMemberships(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMembershipViewsToResponse(views))
}

// GetMembership godoc
// @Summary Get a membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} MembershipResponse
// @Failure 404 {object} gin.H "Membership not found"
// @Router /admin/memberships/{membershipId} [get]
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	id, ok := idParam(c, "membershipId")
	if !ok {
		return
	}

	view, err := h.membershipService.GetMembership(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMembershipViewToResponse(view))
}

// CreateMembership godoc
// @Summary Sell a membership
// @Description End date is start date plus plan duration minus one day. Amount defaults to the plan price.
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Sale details"
// @Success 201 {object} MembershipResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Member or plan not found"
// @Failure 409 {object} gin.H "Plan not offered"
// @Router /admin/memberships [post]
func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	h.sell(c, h.membershipService.CreateMembership)
}

// RenewMembership godoc
// @Summary Renew a member's membership
// @Description Starts the day after the current membership ends when it is still valid, otherwise today.
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sale body SaleRequest true "Renewal details (startDate is ignored)"
// @Success 201 {object} MembershipResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Member or plan not found"
// @Failure 409 {object} gin.H "Plan not offered"
// @Router /admin/memberships/renew [post]
func (h *MembershipHandler) RenewMembership(c *gin.Context) {
	h.sell(c, h.membershipService.RenewMembership)
}

func (h *MembershipHandler) sell(c *gin.Context, op func(ctx context.Context, in service.SaleInput) (*service.MembershipView, error)) {
	var req SaleRequest
	if !bindJSON(c, &req) {
		return
	}
	staffID, _ := getStaffIDFromContext(c)
	in, err := req.toInput(staffID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := op(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapMembershipViewToResponse(view))
}

// CancelMembership godoc
// @Summary Cancel a membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} MembershipResponse
// @Failure 404 {object} gin.H "Membership not found"
// @Router /admin/memberships/{membershipId}/cancel [post]
func (h *MembershipHandler) CancelMembership(c *gin.Context) {
	h.transition(c, h.membershipService.CancelMembership)
}

// ExpireMembership godoc
// @Summary Mark a membership as expired
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} MembershipResponse
// @Failure 404 {object} gin.H "Membership not found"
// @Router /admin/memberships/{membershipId}/expire [post]
func (h *MembershipHandler) ExpireMembership(c *gin.Context) {
	h.transition(c, h.membershipService.ExpireMembership)
}

func (h *MembershipHandler) transition(c *gin.Context, op func(ctx context.Context, id primitive.ObjectID) (*service.MembershipView, error)) {
	id, ok := idParam(c, "membershipId")
	if !ok {
		return
	}

	view, err := op(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMembershipViewToResponse(view))
}
