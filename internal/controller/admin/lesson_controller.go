package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type AdminLessonController struct {
	lessonService service.LessonService
}

func NewAdminLessonController(ls service.LessonService) *AdminLessonController {
	return &AdminLessonController{lessonService: ls}
}

// CreateLesson godoc
// @Summary (Admin) Create a lesson
// @Description Adds a text, video or quiz lesson to a course module. Quiz lessons need a non-empty question list where every question has an id and a correctAnswer.
// @Tags Admin - Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson body dto.LessonCreateDTO true "Lesson data"
// @Success 201 {object} dto.AdminLessonResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or question list"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not an instructor of this course"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/lessons [post]
func (c *AdminLessonController) CreateLesson(ctx *gin.Context) {
	var req dto.LessonCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	lesson, err := c.lessonService.CreateLesson(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create lesson")
		return
	}
	ctx.JSON(http.StatusCreated, lesson)
}
