package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type AdminAssignmentController struct {
	assignmentService service.AssignmentService
}

func NewAdminAssignmentController(as service.AssignmentService) *AdminAssignmentController {
	return &AdminAssignmentController{assignmentService: as}
}

// CreateAssignment godoc
// @Summary (Admin) Create an assignment
// @Tags Admin - Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body dto.AssignmentCreateDTO true "Assignment data"
// @Success 201 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not an instructor of this course"
// @Failure 404 {object} dto.ErrorResponse "Course or module not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/assignments [post]
func (c *AdminAssignmentController) CreateAssignment(ctx *gin.Context) {
	var req dto.AssignmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	assignment, err := c.assignmentService.CreateAssignment(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create assignment")
		return
	}
	ctx.JSON(http.StatusCreated, assignment)
}
