package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/tasktracker/tasktracker-api/internal/config"
	"github.com/tasktracker/tasktracker-api/internal/constants"
	"github.com/tasktracker/tasktracker-api/internal/database"
	"github.com/tasktracker/tasktracker-api/internal/handlers"
	"github.com/tasktracker/tasktracker-api/internal/identity"
	"github.com/tasktracker/tasktracker-api/internal/logger"
	"github.com/tasktracker/tasktracker-api/internal/middleware"
	"github.com/tasktracker/tasktracker-api/internal/storage"
	"github.com/tasktracker/tasktracker-api/internal/store"
	"github.com/tasktracker/tasktracker-api/internal/tracker"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	log := logger.New(cfg.GinMode)
	defer log.Sync()

	// Open the document store
	var docStore storage.Store
	if cfg.StoreDriver == "file" {
		fs, err := storage.NewFileStore(cfg.StorePath, log)
		if err != nil {
			log.Fatal("failed to open file store", zap.Error(err))
		}
		docStore = fs
	} else {
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		docStore = storage.NewGormStore(db, log)
	}

	// Identity provider and identity-scoped data store
	provider, err := identity.NewProvider(docStore, log)
	if err != nil {
		log.Fatal("failed to initialize identity provider", zap.Error(err))
	}
	dataStore := store.New(docStore, provider, log)
	timeTracker := tracker.New(dataStore, log)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware: Redis when configured, cookies otherwise
	var sessionStore sessions.Store
	if cfg.RedisHost != "" {
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			cfg.RedisHost+":"+cfg.RedisPort,
			"", // username (empty for default user)
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			log.Fatal("failed to create Redis session store", zap.Error(err))
		}
		sessionStore = rs
	} else {
		sessionStore = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(provider)
	taskHandler := handlers.NewTaskHandler(dataStore)
	habitHandler := handlers.NewHabitHandler(dataStore)
	goalHandler := handlers.NewGoalHandler(dataStore)
	timeEntryHandler := handlers.NewTimeEntryHandler(dataStore)
	dashboardHandler := handlers.NewDashboardHandler(dataStore)
	timerHandler := handlers.NewTimerHandler(timeTracker)

	// The app is deployed under a fixed sub-path prefix
	root := r.Group(cfg.BasePath)

	// Health check endpoint
	root.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskTracker API is running",
		})
	})

	// API routes
	api := root.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(provider), authHandler.GetCurrentIdentity)
			auth.PATCH("/profile", middleware.RequireAuth(provider), authHandler.UpdateProfile)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(provider))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Habit routes (protected)
		habits := api.Group("/habits")
		habits.Use(middleware.RequireAuth(provider))
		{
			habits.GET("", habitHandler.ListHabits)
			habits.POST("", habitHandler.CreateHabit)
			habits.PATCH("/:id", habitHandler.UpdateHabit)
			habits.DELETE("/:id", habitHandler.DeleteHabit)
			habits.POST("/:id/toggle", habitHandler.ToggleCompletion)
		}

		// Goal routes (protected)
		goals := api.Group("/goals")
		goals.Use(middleware.RequireAuth(provider))
		{
			goals.GET("", goalHandler.ListGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.PATCH("/:id", goalHandler.UpdateGoal)
			goals.DELETE("/:id", goalHandler.DeleteGoal)
			goals.POST("/:id/milestones", goalHandler.AddMilestone)
			goals.POST("/:id/milestones/:milestone_id/toggle", goalHandler.ToggleMilestone)
		}

		// Time entry routes (protected)
		timeEntries := api.Group("/time-entries")
		timeEntries.Use(middleware.RequireAuth(provider))
		{
			timeEntries.GET("", timeEntryHandler.ListTimeEntries)
			timeEntries.POST("", timeEntryHandler.CreateTimeEntry)
			timeEntries.PATCH("/:id", timeEntryHandler.UpdateTimeEntry)
			timeEntries.DELETE("/:id", timeEntryHandler.DeleteTimeEntry)
		}

		// Stopwatch routes (protected)
		timer := api.Group("/timer")
		timer.Use(middleware.RequireAuth(provider))
		{
			timer.GET("", timerHandler.Status)
			timer.POST("/start", timerHandler.Start)
			timer.POST("/pause", timerHandler.Pause)
			timer.POST("/resume", timerHandler.Resume)
			timer.POST("/stop", timerHandler.Stop)
		}

		// Dashboard routes (protected)
		dashboard := api.Group("")
		dashboard.Use(middleware.RequireAuth(provider))
		{
			dashboard.GET("/dashboard", dashboardHandler.Dashboard)
			dashboard.GET("/analytics", dashboardHandler.Analytics)
		}
	}

	// Start server
	log.Info("server starting", zap.String("addr", cfg.Addr), zap.String("base_path", cfg.BasePath))
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
