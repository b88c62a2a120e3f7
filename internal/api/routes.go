package api

import (
	"net/http"

	"fitpro/tracker/internal/metrics"
	"fitpro/tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the routes dispatch to.
type Services struct {
	Auth      service.AuthService
	Profile   service.ProfileService
	Workout   service.WorkoutService
	Nutrition service.NutritionService
	Goal      service.GoalService
	Analytics service.AnalyticsService
}

// SetupRoutes registers all routes on router. /metrics is only served when
// gatherer is not nil.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	svc Services,
	m *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	router.Use(PanicRecovery(m), RequestMetrics(m))

	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Profile)
	workoutHandler := NewWorkoutHandler(svc.Workout)
	nutritionHandler := NewNutritionHandler(svc.Nutrition)
	goalHandler := NewGoalHandler(svc.Goal)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			uid, ok := userID(c)
			if !ok {
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": uid})
		})

		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.SaveProfile)
			profileGroup.GET("/overview", profileHandler.GetOverview)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.LogWorkout)
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}
		protected.POST("/estimate", workoutHandler.Estimate)

		nutritionGroup := protected.Group("/nutrition")
		{
			nutritionGroup.POST("", nutritionHandler.LogMeal)
			nutritionGroup.GET("", nutritionHandler.GetMeals)
			nutritionGroup.GET("/daily", nutritionHandler.GetDaily)
			nutritionGroup.DELETE("/:id", nutritionHandler.DeleteMeal)
		}

		goalGroup := protected.Group("/goals")
		{
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.GET("", goalHandler.GetGoals)
			goalGroup.PUT("/:id/value", goalHandler.SetValue)
			goalGroup.POST("/:id/increment", goalHandler.Increment)
			goalGroup.POST("/:id/complete", goalHandler.Complete)
			goalGroup.DELETE("/:id", goalHandler.DeleteGoal)
		}

		analyticsGroup := protected.Group("/analytics")
		{
			analyticsGroup.GET("/energy", analyticsHandler.EnergyBalance)
			analyticsGroup.GET("/trend", analyticsHandler.Trend)
			analyticsGroup.GET("/consistency", analyticsHandler.Consistency)
			analyticsGroup.GET("/patterns", analyticsHandler.Patterns)
		}
	}
}
