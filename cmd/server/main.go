package main

import (
	"context"
	"log"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/chrischiuowo/space-room-api/internal/cache"
	"github.com/chrischiuowo/space-room-api/internal/router"
	"github.com/chrischiuowo/space-room-api/internal/service"
	"github.com/chrischiuowo/space-room-api/pkg/config"
	"github.com/chrischiuowo/space-room-api/pkg/firebase"
	"github.com/chrischiuowo/space-room-api/pkg/logger"
	"github.com/chrischiuowo/space-room-api/validators"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const reconcileInterval = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	defer logger.Logger.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Logger.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	cache.InitRedis(cfg.RedisAddr)

	var cld *cloudinary.Cloudinary
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			logger.Logger.Fatal("failed to initialize Cloudinary", zap.Error(err))
		}
	} else {
		logger.Logger.Warn("CLOUDINARY_URL not set, image uploads disabled")
	}

	ctx := context.Background()
	var firebaseApp *firebase.App
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Logger.Warn("Firebase init failed, firebase login disabled", zap.Error(err))
		}
	}
	var firebaseAuth = firebaseAuthClient(firebaseApp)

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)

	followService, err := router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, cld, firebaseAuth)
	if err != nil {
		logger.Logger.Fatal("failed to set up routes", zap.Error(err))
	}

	go runReconciler(ctx, followService)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// runReconciler replays stale pending follow intents at startup and then on
// an interval, repairing half-applied edge writes.
func runReconciler(ctx context.Context, follows *service.FollowService) {
	reconcile := func() {
		n, err := follows.Reconcile(ctx)
		if err != nil {
			logger.Logger.Error("follow reconciliation failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Logger.Info("replayed stale follow intents", zap.Int("count", n))
		}
	}

	reconcile()
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()
	for range ticker.C {
		reconcile()
	}
}

func firebaseAuthClient(app *firebase.App) *auth.Client {
	if app == nil {
		return nil
	}
	return app.AuthClient
}
