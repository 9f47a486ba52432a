package api

import (
	"bunker/gym-admin/internal/domain"
	"bunker/gym-admin/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MuscleGroup string    `json:"muscleGroup,omitempty"`
	Equipment   string    `json:"equipment,omitempty"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	HasVideo    bool      `json:"hasVideo"` // An uploaded demo is available via /video-url
	CreatedAt   time.Time `json:"createdAt"`
}

type ExerciseGroupResponse struct {
	MuscleGroup string             `json:"muscleGroup"`
	Exercises   []ExerciseResponse `json:"exercises"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		MuscleGroup: ex.MuscleGroup,
		Equipment:   ex.Equipment,
		VideoURL:    ex.VideoURL,
		HasVideo:    ex.VideoKey != "",
		CreatedAt:   ex.CreatedAt,
	}
}

func mapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	out := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		out[i] = MapExerciseToResponse(&exercises[i])
	}
	return out
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Add an exercise to the catalog
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body service.ExerciseInput true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /admin/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /trainer/exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mapExercisesToResponse(exercises))
}

// GroupedExercises godoc
// @Summary List the exercise catalog grouped by muscle group
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseGroupResponse
// @Router /trainer/exercises/grouped [get]
func (h *ExerciseHandler) GroupedExercises(c *gin.Context) {
	groups, err := h.exerciseService.GroupExercises(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]ExerciseGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = ExerciseGroupResponse{MuscleGroup: g.MuscleGroup, Exercises: mapExercisesToResponse(g.Exercises)}
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /trainer/exercises/{exerciseId} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param exercise body service.ExerciseInput true "Exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /admin/exercises/{exerciseId} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}
	var req service.ExerciseInput
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Description Routine and session lines keep their row with the exercise reference cleared.
// @Tags Exercises
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /admin/exercises/{exerciseId} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VideoUploadURL godoc
// @Summary Get a presigned URL to upload a demo video
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param request body UploadURLRequest true "Video content type"
// @Success 200 {object} service.UploadTicket
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /admin/exercises/{exerciseId}/video/upload-url [post]
func (h *ExerciseHandler) VideoUploadURL(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}
	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.exerciseService.VideoUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ConfirmVideo godoc
// @Summary Attach an uploaded demo video to an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Param request body ConfirmUploadRequest true "Object key from the upload ticket"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Key was not issued for this exercise"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /admin/exercises/{exerciseId}/video/confirm [post]
func (h *ExerciseHandler) ConfirmVideo(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.ConfirmVideo(c.Request.Context(), id, req.Key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// VideoURL godoc
// @Summary Get a presigned URL to watch the demo video
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} DownloadURLResponse
// @Failure 404 {object} gin.H "Exercise or video not found"
// @Router /trainer/exercises/{exerciseId}/video-url [get]
func (h *ExerciseHandler) VideoURL(c *gin.Context) {
	id, ok := idParam(c, "exerciseId")
	if !ok {
		return
	}

	url, err := h.exerciseService.VideoURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}
