package router

import (
	"github.com/gin-gonic/gin"
	adminctrl "github.com/lshigami/Learnhub/internal/controller/admin"
	userctrl "github.com/lshigami/Learnhub/internal/controller/user"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type Controllers struct {
	Quiz            *userctrl.QuizController
	Enrollment      *userctrl.EnrollmentController
	Payment         *userctrl.PaymentController
	Assignment      *userctrl.AssignmentController
	Analytics       *userctrl.AnalyticsController
	AdminLesson     *adminctrl.AdminLessonController
	AdminAssignment *adminctrl.AdminAssignmentController
}

// RegisterRoutes mounts every API route under /api/v1.
func RegisterRoutes(router *gin.Engine, auth *middleware.Authenticator, c Controllers) {
	api := router.Group("/api/v1")

	// signed by the payment provider, not by a user token
	api.POST("/payments/webhook", c.Payment.Webhook)

	authed := api.Group("", auth.RequireAuth())
	{
		authed.POST("/quizzes/attempt", c.Quiz.SubmitAttempt)
		authed.GET("/quizzes/results", c.Quiz.ListResults)
		authed.GET("/lessons/:lesson_id", c.Quiz.GetLesson)

		authed.POST("/enrollments/unenroll", c.Enrollment.Unenroll)
		authed.POST("/payments/checkout", c.Payment.Checkout)

		authed.POST("/assignments/submit", c.Assignment.Submit)
		authed.GET("/assignments/submit", c.Assignment.GetSubmission)
		authed.POST("/assignments/grade", c.Assignment.Grade)
		authed.GET("/assignments/grade", c.Assignment.ListSubmissions)

		authed.GET("/analytics/learner", c.Analytics.LearnerAnalytics)
	}

	admin := api.Group("/admin", auth.RequireAuth(), middleware.RequireRole(service.RoleAdmin, service.RoleInstructor))
	{
		admin.POST("/lessons", c.AdminLesson.CreateLesson)
		admin.POST("/assignments", c.AdminAssignment.CreateAssignment)
	}
}
