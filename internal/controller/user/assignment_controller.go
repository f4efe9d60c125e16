package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type AssignmentController struct {
	assignmentService service.AssignmentService
}

func NewAssignmentController(as service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentService: as}
}

// Submit godoc
// @Summary Submit an assignment
// @Description Creates the caller's submission, or replaces it and resets it to pending when one exists.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmissionCreateDTO true "Assignment id and submission link"
// @Success 201 {object} dto.SubmissionAckDTO "First submission"
// @Success 200 {object} dto.SubmissionAckDTO "Resubmission"
// @Failure 400 {object} dto.ErrorResponse "assignmentId or submissionUrl missing"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	var req dto.SubmissionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	ack, created, err := c.assignmentService.Submit(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit assignment")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, ack)
}

// GetSubmission godoc
// @Summary Get a submission
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId query string true "Assignment ID"
// @Param userId query string false "Another learner (instructor/admin only)"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse "assignmentId missing"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view another user's submission"
// @Failure 404 {object} dto.ErrorResponse "No submission"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/submit [get]
func (c *AssignmentController) GetSubmission(ctx *gin.Context) {
	submission, err := c.assignmentService.GetSubmission(ctx.Request.Context(), middleware.CallerFrom(ctx), ctx.Query("assignmentId"), ctx.Query("userId"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve submission")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}

// Grade godoc
// @Summary Grade a submission
// @Description Only the course instructor or an admin may grade. The score must not exceed the assignment's max score.
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param grade body dto.GradeSubmissionDTO true "Score and feedback"
// @Success 200 {object} dto.GradeResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields or score out of range"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/grade [post]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	var req dto.GradeSubmissionDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.assignmentService.Grade(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to grade submission")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListSubmissions godoc
// @Summary List submissions of an assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param assignmentId query string true "Assignment ID"
// @Param status query string false "pending, graded or revision_needed"
// @Success 200 {array} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse "assignmentId missing or unknown status"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/grade [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	submissions, err := c.assignmentService.ListSubmissions(ctx.Request.Context(), middleware.CallerFrom(ctx), ctx.Query("assignmentId"), ctx.Query("status"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve submissions")
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}
