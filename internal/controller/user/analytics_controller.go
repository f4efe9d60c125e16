package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(as service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: as}
}

// LearnerAnalytics godoc
// @Summary Learner progress and engagement
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Another learner (admin only)"
// @Success 200 {object} dto.LearnerAnalyticsDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view this learner"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/learner [get]
func (c *AnalyticsController) LearnerAnalytics(ctx *gin.Context) {
	analytics, err := c.analyticsService.GetLearnerAnalytics(ctx.Request.Context(), middleware.CallerFrom(ctx), ctx.Query("userId"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load learner analytics")
		return
	}
	ctx.JSON(http.StatusOK, analytics)
}
