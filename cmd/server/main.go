package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpro/tracker/internal/api"
	"fitpro/tracker/internal/app"
	"fitpro/tracker/internal/config"
	"fitpro/tracker/internal/logging"
	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/repository"
	"fitpro/tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// @title Fitness Tracker API
// @version 1.0
// @description Workouts, nutrition, goals and analytics for individual users.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	logging.Setup(cfg.Log)
	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}
	log.Info("starting fitness tracker server")

	// --- Database ---
	store, err := app.OpenStore(cfg.Database)
	if err != nil {
		log.Fatalf("could not open %s store: %v", cfg.Database.Driver, err)
	}
	log.Infof("document store ready (%s)", cfg.Database.Driver)

	// --- Storage ---
	ctx := context.Background()
	files, err := app.OpenFileStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("could not initialize %s file storage: %v", cfg.Storage.Driver, err)
	}

	// --- Metrics ---
	var (
		metricsManager *metrics.Manager
		gatherer       prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := metrics.SetupPrometheus()
		metricsManager = metrics.NewManager(cfg.Metrics.Namespace, "server", reg)
		gatherer = reg
	}

	// --- Calorie estimator ---
	est := app.NewEstimator(cfg.Estimator, files, metricsManager)
	go func() {
		initCtx, cancel := context.WithTimeout(context.Background(), cfg.Estimator.InitTimeout)
		defer cancel()
		if err := est.Init(initCtx); err != nil {
			log.Warnf("calorie model unavailable, using fallback formula: %v", err)
			return
		}
		log.Info("calorie model ready")
	}()

	// --- Services ---
	locks := service.NewUserLocks()
	clock := time.Now
	workoutRepo := repository.NewWorkoutRepository(store)
	mealRepo := repository.NewNutritionRepository(store)
	goalRepo := repository.NewGoalRepository(store)
	profileService := service.NewProfileService(repository.NewProfileRepository(store), locks)
	services := api.Services{
		Auth:      service.NewAuthService(repository.NewUserRepository(store), locks, cfg.JWT.Secret, cfg.JWT.Expiration, clock),
		Profile:   profileService,
		Workout:   service.NewWorkoutService(workoutRepo, goalRepo, profileService, est, metricsManager, locks, clock),
		Nutrition: service.NewNutritionService(mealRepo, metricsManager, locks, clock),
		Goal:      service.NewGoalService(goalRepo, metricsManager, locks, clock),
		Analytics: service.NewAnalyticsService(workoutRepo, mealRepo, profileService, clock),
	}

	// --- HTTP ---
	if logging.GetLevel(cfg.Log.Level) < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	api.SetupRoutes(router, cfg.JWT.Secret, services, metricsManager, gatherer)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	err = multierr.Combine(
		server.Shutdown(ctxShutdown),
		store.Close(),
	)
	if err != nil {
		log.Errorf("shutdown: %v", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
