package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/chrischiuowo/space-room-api/internal/handlers"
	"github.com/chrischiuowo/space-room-api/internal/middleware"
	"github.com/chrischiuowo/space-room-api/internal/models"
	"github.com/chrischiuowo/space-room-api/internal/repositories"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/chrischiuowo/space-room-api/pkg/config"
	"github.com/chrischiuowo/space-room-api/pkg/logger"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Logger.Info("global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the follow service so the caller can run the intent reconciler.
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, cld *cloudinary.Cloudinary, firebaseAuthClient *auth.Client) (*service.FollowService, error) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Upload{},
		&models.FollowIntent{},
	)
	if err != nil {
		return nil, err
	}
	logger.Logger.Info("PostgreSQL auto-migrations completed")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDBName)
	userRepo := repositories.NewMongoUserRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)
	uploadRepo := repositories.NewPostgresUploadRepository(pgdb)
	journalRepo := repositories.NewPostgresFollowJournalRepository(pgdb)

	// --- Initialize Services ---
	followService := service.NewFollowService(userRepo, journalRepo)
	noticeService := service.NewNoticeService(userRepo, postRepo, commentRepo)
	profileService := service.NewProfileService(userRepo, postRepo, commentRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Logger.Info("auth routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	authHandler.RegisterProtectedAuthRoutes(api)

	userHandler := handlers.NewUserHandler(userRepo, noticeService, profileService)
	userHandler.RegisterUserRoutes(api)
	logger.Logger.Info("user routes configured")

	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(api)
	logger.Logger.Info("follow routes configured")

	postHandler := handlers.NewPostHandler(postRepo, profileService)
	postHandler.RegisterPostRoutes(api)
	logger.Logger.Info("post routes configured")

	likeHandler := handlers.NewLikeHandler(postRepo, profileService)
	likeHandler.RegisterLikeRoutes(api)
	logger.Logger.Info("like routes configured")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, profileService)
	commentHandler.RegisterCommentRoutes(api)
	logger.Logger.Info("comment routes configured")

	uploadHandler := handlers.NewUploadHandler(uploadRepo, cld)
	uploadHandler.RegisterUploadRoutes(api)
	logger.Logger.Info("upload routes configured")

	logger.Logger.Info("all routes configured", zap.String("env", cfg.Env))
	return followService, nil
}
