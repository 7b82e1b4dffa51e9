package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/vicharak/vicharak-api/internal/authz"
	"github.com/vicharak/vicharak-api/internal/config"
	"github.com/vicharak/vicharak-api/internal/constants"
	"github.com/vicharak/vicharak-api/internal/database"
	"github.com/vicharak/vicharak-api/internal/handlers"
	"github.com/vicharak/vicharak-api/internal/middleware"
	"github.com/vicharak/vicharak-api/internal/repository"
	"github.com/vicharak/vicharak-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	vicharRepo := repository.NewVicharRepository(db)
	collaboratorRepo := repository.NewCollaboratorRepository(db)
	roleRepo := repository.NewRoleRepository(db)

	// Initialize services
	resolver := authz.NewResolver(collaboratorRepo)
	authService := services.NewAuthService(userRepo)
	vicharService := services.NewVicharService(vicharRepo, resolver)
	collaboratorService := services.NewCollaboratorService(collaboratorRepo, vicharRepo, roleRepo, userRepo, resolver)
	roleService := services.NewRoleService(roleRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	vicharHandler := handlers.NewVicharHandler(vicharService, collaboratorService)
	collaboratorHandler := handlers.NewCollaboratorHandler(collaboratorService)
	roleHandler := handlers.NewRoleHandler(roleService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Vicharak API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/me/password", middleware.RequireAuth(), authHandler.UpdatePassword)
		}

		// User listing (protected)
		api.GET("/users", middleware.RequireAuth(), authHandler.ListUsers)

		// Vichar routes (protected)
		vichars := api.Group("/vichars")
		vichars.Use(middleware.RequireAuth())
		{
			vichars.GET("", vicharHandler.ListVichars)
			vichars.POST("", vicharHandler.CreateVichar)
			vichars.GET("/deleted", vicharHandler.ListDeletedVichars)
			vichars.GET("/:id", vicharHandler.GetVichar)
			vichars.PUT("/:id", vicharHandler.UpdateVichar)
			vichars.DELETE("/:id", vicharHandler.DeleteVichar)
			vichars.POST("/:id/restore", vicharHandler.RestoreVichar)
			vichars.DELETE("/:id/permanent", vicharHandler.PermanentlyDeleteVichar)

			vichars.GET("/:id/collaborators", collaboratorHandler.ListCollaborators)
			vichars.POST("/:id/collaborators", collaboratorHandler.AddCollaborator)
			vichars.PUT("/:id/collaborators/:user_id", collaboratorHandler.UpdateCollaborator)
			vichars.DELETE("/:id/collaborators/:user_id", collaboratorHandler.RemoveCollaborator)
		}

		// Role routes (protected; writes are staff only)
		roles := api.Group("/roles")
		roles.Use(middleware.RequireAuth())
		{
			roles.GET("", roleHandler.ListRoles)
			roles.GET("/:id", roleHandler.GetRole)
			roles.POST("", middleware.RequireStaff(), roleHandler.CreateRole)
			roles.PUT("/:id", middleware.RequireStaff(), roleHandler.UpdateRole)
			roles.DELETE("/:id", middleware.RequireStaff(), roleHandler.DeleteRole)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
