package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/repository"
	"bunker/gym-admin/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MemberHandler serves member records, photos and trainer links.
type MemberHandler struct {
	memberService     service.MemberService
	membershipService service.MembershipService
	trainerService    service.TrainerService
	logger            *zap.Logger
}

func NewMemberHandler(
	memberService service.MemberService,
	membershipService service.MembershipService,
	trainerService service.TrainerService,
	logger *zap.Logger,
) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		membershipService: membershipService,
		trainerService:    trainerService,
		logger:            logger,
	}
}

type AssignTrainerRequest struct {
	TrainerID primitive.ObjectID `json:"trainerId"`
}

// ListMembers godoc
// @Summary List members with their current membership
// @Description Each member carries its current membership and countdown; the response also counts members by validity.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name search"
// @Param status query string false "Member status (active, inactive, suspended)"
// @Success 200 {object} MemberListResponse
// @Failure 400 {object} gin.H "Unknown status"
// @Router /admin/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	filter := repository.MemberFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: domain.MemberStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		abortWithError(c, http.StatusBadRequest, "Invalid status filter")
		return
	}

	summary, err := h.memberService.ListMembers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSummaryToResponse(summary))
}

// CreateMember godoc
// @Summary Enroll a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param member body MemberRequest true "Member details"
// @Success 201 {object} MemberResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /admin/members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req MemberRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapMemberToResponse(member))
}

// GetMember godoc
// @Summary Get a member profile
// @Description Returns the member, its current membership, its full membership history and its trainer.
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} MemberProfileResponse
// @Failure 404 {object} gin.H "Member not found"
// @Router /admin/members/{memberId} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	profile, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// UpdateMember godoc
// @Summary Update a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param member body MemberRequest true "Member details"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Member not found"
// @Router /admin/members/{memberId} [put]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}
	var req MemberRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// DeleteMember godoc
// @Summary Delete a member
// @Description Removes the member with its sessions, memberships, trainer link and photo.
// @Tags Members
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 204
// @Failure 404 {object} gin.H "Member not found"
// @Router /admin/members/{memberId} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CurrentMembership godoc
// @Summary Get the membership that currently counts for a member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} MembershipResponse
// @Failure 404 {object} gin.H "Member not found or no current membership"
// @Router /admin/members/{memberId}/current-membership [get]
func (h *MemberHandler) CurrentMembership(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	view, err := h.membershipService.CurrentForMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMembershipViewToResponse(view))
}

// PhotoUploadURL godoc
// @Summary Get a presigned URL to upload a member photo
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param request body UploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadTicket
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 404 {object} gin.H "Member not found"
// @Router /admin/members/{memberId}/photo/upload-url [post]
func (h *MemberHandler) PhotoUploadURL(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}
	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.memberService.PhotoUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ConfirmPhoto godoc
// @Summary Attach an uploaded photo to a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param request body ConfirmUploadRequest true "Object key from the upload ticket"
// @Success 200 {object} MemberResponse
// @Failure 400 {object} gin.H "Key was not issued for this member"
// @Failure 404 {object} gin.H "Member not found"
// @Router /admin/members/{memberId}/photo/confirm [post]
func (h *MemberHandler) ConfirmPhoto(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.ConfirmPhoto(c.Request.Context(), id, req.Key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapMemberToResponse(member))
}

// PhotoURL godoc
// @Summary Get a presigned URL to view a member photo
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} DownloadURLResponse
// @Failure 404 {object} gin.H "Member or photo not found"
// @Router /admin/members/{memberId}/photo-url [get]
func (h *MemberHandler) PhotoURL(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	url, err := h.memberService.PhotoURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}

// GetTrainer godoc
// @Summary Get the trainer assigned to a member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {object} StaffResponse
// @Failure 404 {object} gin.H "No trainer assigned"
// @Router /admin/members/{memberId}/trainer [get]
func (h *MemberHandler) GetTrainer(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	trainer, err := h.trainerService.TrainerForMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapStaffToResponse(trainer))
}

// AssignTrainer godoc
// @Summary Assign or replace the trainer of a member
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Param request body AssignTrainerRequest true "Trainer to assign"
// @Success 200 {object} domain.TrainerMember
// @Failure 400 {object} gin.H "Staff member is not a trainer"
// @Failure 404 {object} gin.H "Member or trainer not found"
// @Router /admin/members/{memberId}/trainer [put]
func (h *MemberHandler) AssignTrainer(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}
	var req AssignTrainerRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.trainerService.AssignTrainer(c.Request.Context(), id, req.TrainerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// UnassignTrainer godoc
// @Summary Remove the trainer of a member
// @Tags Members
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 204
// @Router /admin/members/{memberId}/trainer [delete]
func (h *MemberHandler) UnassignTrainer(c *gin.Context) {
	id, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	if err := h.trainerService.UnassignTrainer(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
