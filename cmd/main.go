package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/database"
	_ "github.com/lshigami/Learnhub/docs"
	adminctrl "github.com/lshigami/Learnhub/internal/controller/admin"
	userctrl "github.com/lshigami/Learnhub/internal/controller/user"
	"github.com/lshigami/Learnhub/internal/gateway"
	"github.com/lshigami/Learnhub/internal/logger"
	"github.com/lshigami/Learnhub/internal/mailer"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/lshigami/Learnhub/internal/router"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Learnhub API
// @version 1.0
// @description Course quizzes with server-side grading, assignments, enrollments, payments and learner analytics.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			middleware.NewAuthenticator,
			gateway.NewStripeClient,
			mailer.New,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewCourseRepository,
			repository.NewLessonRepository,
			repository.NewQuizAttemptRepository,
			repository.NewEnrollmentRepository,
			repository.NewPaymentRepository,
			repository.NewPaymentEventRepository,
			repository.NewAuditLogRepository,
			repository.NewAssignmentRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewQuizService,
			service.NewLessonService,
			service.NewEnrollmentService,
			service.NewCheckoutService,
			service.NewWebhookService,
			service.NewPaymentSweeper,
			service.NewAssignmentService,
			service.NewAnalyticsService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewQuizController,
			userctrl.NewEnrollmentController,
			userctrl.NewPaymentController,
			userctrl.NewAssignmentController,
			userctrl.NewAnalyticsController,
			adminctrl.NewAdminLessonController,
			adminctrl.NewAdminAssignmentController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(func(lc fx.Lifecycle, sweeper *service.PaymentSweeper) error {
			return sweeper.Start(lc)
		}),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	logger.SetLevel(cfg.LogLevel, cfg.Server.GinMode == gin.ReleaseMode)
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.Server.CORSOrigins) == 0 || (len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	auth *middleware.Authenticator,
	quizCtrl *userctrl.QuizController,
	enrollmentCtrl *userctrl.EnrollmentController,
	paymentCtrl *userctrl.PaymentController,
	assignmentCtrl *userctrl.AssignmentController,
	analyticsCtrl *userctrl.AnalyticsController,
	adminLessonCtrl *adminctrl.AdminLessonController,
	adminAssignmentCtrl *adminctrl.AdminAssignmentController,
) {
	router.RegisterRoutes(engine, auth, router.Controllers{
		Quiz:            quizCtrl,
		Enrollment:      enrollmentCtrl,
		Payment:         paymentCtrl,
		Assignment:      assignmentCtrl,
		Analytics:       analyticsCtrl,
		AdminLesson:     adminLessonCtrl,
		AdminAssignment: adminAssignmentCtrl,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Learnhub API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}
