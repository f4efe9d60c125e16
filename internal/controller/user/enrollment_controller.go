package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type EnrollmentController struct {
	enrollmentService service.EnrollmentService
}

func NewEnrollmentController(es service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: es}
}

// Unenroll godoc
// @Summary Leave a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UnenrollRequestDTO true "Course to leave"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "courseId missing"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Not enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/unenroll [post]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	var req dto.UnenrollRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), middleware.CallerFrom(ctx), req.CourseID); err != nil {
		controller.RespondError(ctx, err, "Failed to unenroll")
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
