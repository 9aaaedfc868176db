package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/omidh/sheetgrade/config"
	"github.com/omidh/sheetgrade/database"
	"github.com/omidh/sheetgrade/internal/controller"
	"github.com/omidh/sheetgrade/internal/logger"
	"github.com/omidh/sheetgrade/internal/model"
	"github.com/omidh/sheetgrade/internal/repository"
	"github.com/omidh/sheetgrade/internal/scanner"
	"github.com/omidh/sheetgrade/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Answer-Sheet Grading API
// @version 1.0
// @description Batch answer-sheet ingestion and grading: scanned exam sheets are recognized by external workers, reconciled against the exam's answer key, and persisted as graded results. Also serves the monthly normalized grade report.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			scanner.NewExecFactory,
			service.NewStorageProvider,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewParticipantRepository,
			repository.NewSubmissionRepository,
			repository.NewClassSheetRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAnswerKeyService,
			service.NewScoreService,
			service.NewReconcileService,
			service.NewBatchScanService,
			service.NewSingleScanService,
			service.NewManualEntryService,
			service.NewMonthlyGradeService,
			service.NewSheetStorageService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewScanController,
			controller.NewGradeController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Route Gin's request log through zerolog so everything lands in one stream.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Corrected sheet images are served straight from the public dir.
	r.Static("/uploads", "./public/uploads")

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	scanCtrl *controller.ScanController,
	gradeCtrl *controller.GradeController,
) {
	api := router.Group("/api/v1")
	{
		scanGroup := api.Group("/scan")
		scanGroup.POST("/batch", scanCtrl.BatchScan)
		scanGroup.POST("/sheet", scanCtrl.ScanSheet)
		scanGroup.POST("/manual", scanCtrl.ManualEntry)

		api.GET("/exams/:exam_id/answer-key", scanCtrl.GetAnswerKey)
		api.GET("/grades/monthly", gradeCtrl.GetMonthlyGrades)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Sheet grading server starting on port %s", cfg.Server.Port)
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
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Exam{},
		&model.ExamQuestion{},
		&model.ExamParticipant{},
		&model.ExamSubmission{},
		&model.ClassSheetEntry{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
