package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type QuizController struct {
	quizService   service.QuizService
	lessonService service.LessonService
}

func NewQuizController(qs service.QuizService, ls service.LessonService) *QuizController {
	return &QuizController{quizService: qs, lessonService: ls}
}

// SubmitAttempt godoc
// @Summary Submit a quiz attempt
// @Description Grades the submitted answers against the stored answer key and records one attempt. Client supplied correctness flags are ignored.
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.QuizAttemptSubmitDTO true "Quiz id, course id and answers"
// @Success 201 {object} dto.QuizAttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields or quiz not in course"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 500 {object} dto.ErrorResponse "Quiz misconfigured or attempt could not be saved"
// @Router /quizzes/attempt [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	var req dto.QuizAttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}

	result, err := c.quizService.SubmitAttempt(ctx.Request.Context(), middleware.CallerFrom(ctx), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to save quiz attempt")
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListResults godoc
// @Summary List quiz attempts
// @Description Returns the caller's attempts for a course, newest first. Instructors and admins may pass userId.
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param courseId query string true "Course ID"
// @Param lessonId query string false "Only attempts of this quiz"
// @Param userId query string false "Another learner (instructor/admin only)"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} dto.QuizAttemptDTO
// @Failure 400 {object} dto.ErrorResponse "courseId missing or bad paging"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view another user's results"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /quizzes/results [get]
func (c *QuizController) ListResults(ctx *gin.Context) {
	query := dto.QuizResultsQuery{
		UserID:   ctx.Query("userId"),
		CourseID: ctx.Query("courseId"),
		LessonID: ctx.Query("lessonId"),
	}
	if query.CourseID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "courseId is required"})
		return
	}
	var ok bool
	if query.Limit, ok = intQuery(ctx, "limit"); !ok {
		return
	}
	if query.Offset, ok = intQuery(ctx, "offset"); !ok {
		return
	}

	results, err := c.quizService.ListResults(ctx.Request.Context(), middleware.CallerFrom(ctx), query)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve quiz results")
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// GetLesson godoc
// @Summary Get a lesson
// @Description Returns a lesson of a course the caller is enrolled in. Quiz lessons list their questions without answers.
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param lesson_id path string true "Lesson ID"
// @Success 200 {object} dto.LessonResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the course"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lessons/{lesson_id} [get]
func (c *QuizController) GetLesson(ctx *gin.Context) {
	lesson, err := c.lessonService.GetLesson(ctx.Request.Context(), middleware.CallerFrom(ctx), ctx.Param("lesson_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve lesson")
		return
	}
	ctx.JSON(http.StatusOK, lesson)
}

func intQuery(ctx *gin.Context, key string) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + key})
		return 0, false
	}
	return v, true
}
