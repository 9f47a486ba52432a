package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrainerHandler serves the trainer panel: assigned members, routines and sessions.
type TrainerHandler struct {
	trainerService  service.TrainerService
	routineService  service.RoutineService
	trainingService service.TrainingService
	logger          *zap.Logger
}

func NewTrainerHandler(
	trainerService service.TrainerService,
	routineService service.RoutineService,
	trainingService service.TrainingService,
	logger *zap.Logger,
) *TrainerHandler {
	return &TrainerHandler{
		trainerService:  trainerService,
		routineService:  routineService,
		trainingService: trainingService,
		logger:          logger,
	}
}

// --- Trainers and their members ---

// ListTrainers godoc
// @Summary List trainer accounts
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} StaffResponse
// @Router /admin/trainers [get]
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.trainerService.ListTrainers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapStaffListToResponse(trainers))
}

// GetMyMembers godoc
// @Summary List the members assigned to the authenticated trainer
// @Description Each member carries its current membership and countdown.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MemberListResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /trainer/members [get]
func (h *TrainerHandler) GetMyMembers(c *gin.Context) {
	trainerID, err := getStaffIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}

	summary, err := h.trainerService.MembersForTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSummaryToResponse(summary))
}

// --- Routine templates ---

// ListRoutines godoc
// @Summary List routine templates
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.RoutineTemplate
// @Router /trainer/routines [get]
func (h *TrainerHandler) ListRoutines(c *gin.Context) {
	routines, err := h.routineService.ListRoutines(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Get a routine template with its exercises
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 200 {object} domain.RoutineWithExercises
// @Failure 404 {object} gin.H "Routine not found"
// @Router /trainer/routines/{routineId} [get]
func (h *TrainerHandler) GetRoutine(c *gin.Context) {
	id, ok := idParam(c, "routineId")
	if !ok {
		return
	}

	routine, err := h.routineService.GetRoutine(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// CreateRoutine godoc
// @Summary Create a routine template
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body service.RoutineInput true "Routine with ordered exercises"
// @Success 201 {object} domain.RoutineWithExercises
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /trainer/routines [post]
func (h *TrainerHandler) CreateRoutine(c *gin.Context) {
	staffID, err := getStaffIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify staff member from token.")
		return
	}
	var req service.RoutineInput
	if !bindJSON(c, &req) {
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), staffID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// UpdateRoutine godoc
// @Summary Update a routine template
// @Description The exercise list is replaced only when replaceExercises=true.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Param replaceExercises query bool false "Replace the exercise lines"
// @Param routine body service.RoutineInput true "Routine details"
// @Success 200 {object} domain.RoutineWithExercises
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine or exercise not found"
// @Router /trainer/routines/{routineId} [put]
func (h *TrainerHandler) UpdateRoutine(c *gin.Context) {
	id, ok := idParam(c, "routineId")
	if !ok {
		return
	}
	var req service.RoutineInput
	if !bindJSON(c, &req) {
		return
	}
	replace, _ := strconv.ParseBool(c.Query("replaceExercises"))

	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), id, req, replace)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine template and its exercise lines
// @Tags Routines
// @Security BearerAuth
// @Param routineId path string true "Routine ID"
// @Success 204
// @Failure 404 {object} gin.H "Routine not found"
// @Router /trainer/routines/{routineId} [delete]
func (h *TrainerHandler) DeleteRoutine(c *gin.Context) {
	id, ok := idParam(c, "routineId")
	if !ok {
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Training sessions ---

// CreateSession godoc
// @Summary Log a training session
// @Description Trainer defaults to the caller; date defaults to today.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body SessionRequest true "Session with ordered exercises"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Member, trainer or exercise not found"
// @Router /trainer/sessions [post]
func (h *TrainerHandler) CreateSession(c *gin.Context) {
	var req SessionRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TrainerID == nil || req.TrainerID.IsZero() {
		staffID, err := getStaffIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify staff member from token.")
			return
		}
		req.TrainerID = &staffID
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	session, err := h.trainingService.CreateSession(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// ListSessions godoc
// @Summary List sessions of one day
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} SessionResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /trainer/sessions [get]
func (h *TrainerHandler) ListSessions(c *gin.Context) {
	date, err := parseOptionalDate("date", c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var sessions []domain.SessionDetails
	if date == nil {
		sessions, err = h.trainingService.TodaySessions(c.Request.Context())
	} else {
		sessions, err = h.trainingService.ListSessionsByDate(c.Request.Context(), *date)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// TodaySessions godoc
// @Summary List today's sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} SessionResponse
// @Router /trainer/sessions/today [get]
func (h *TrainerHandler) TodaySessions(c *gin.Context) {
	sessions, err := h.trainingService.TodaySessions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// MemberSessions godoc
// @Summary List a member's sessions, most recent first
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member ID"
// @Success 200 {array} SessionResponse
// @Failure 404 {object} gin.H "Member not found"
// @Router /trainer/members/{memberId}/sessions [get]
func (h *TrainerHandler) MemberSessions(c *gin.Context) {
	memberID, ok := idParam(c, "memberId")
	if !ok {
		return
	}

	sessions, err := h.trainingService.ListMemberSessions(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// GetSession godoc
// @Summary Get a session with its exercises
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Session not found"
// @Router /trainer/sessions/{sessionId} [get]
func (h *TrainerHandler) GetSession(c *gin.Context) {
	id, ok := idParam(c, "sessionId")
	if !ok {
		return
	}

	session, err := h.trainingService.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteSession godoc
// @Summary Delete a session and its exercises
// @Tags Sessions
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 204
// @Failure 404 {object} gin.H "Session not found"
// @Router /trainer/sessions/{sessionId} [delete]
func (h *TrainerHandler) DeleteSession(c *gin.Context) {
	id, ok := idParam(c, "sessionId")
	if !ok {
		return
	}

	if err := h.trainingService.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateSessionExercise godoc
// @Summary Record the results of one session exercise
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionExerciseId path string true "Session exercise ID"
// @Param results body service.SessionExerciseUpdate true "Results"
// @Success 200 {object} domain.SessionExercise
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Session exercise not found"
// @Router /trainer/session-exercises/{sessionExerciseId} [put]
func (h *TrainerHandler) UpdateSessionExercise(c *gin.Context) {
	id, ok := idParam(c, "sessionExerciseId")
	if !ok {
		return
	}
	var req service.SessionExerciseUpdate
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.trainingService.UpdateSessionExercise(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

// DeleteSessionExercise godoc
// @Summary Remove one exercise from a session
// @Tags Sessions
// @Security BearerAuth
// @Param sessionExerciseId path string true "Session exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Session exercise not found"
// @Router /trainer/session-exercises/{sessionExerciseId} [delete]
func (h *TrainerHandler) DeleteSessionExercise(c *gin.Context) {
	id, ok := idParam(c, "sessionExerciseId")
	if !ok {
		return
	}

	if err := h.trainingService.DeleteSessionExercise(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
