package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/solarrank/backend/internal/config"
	"github.com/emilythestrangee/solarrank/backend/internal/database"
	"github.com/emilythestrangee/solarrank/backend/internal/handlers"
	"github.com/emilythestrangee/solarrank/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	cfg     *config.Config
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	cfg := config.Load()

	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), cfg)

	newServer := &Server{
		db:      db,
		cfg:     cfg,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Periodically purge revoked and expired refresh tokens; the sweep
	// stops when the server shuts down.
	stop := newServer.startTokenSweep(cfg.TokenSweep)
	server.RegisterOnShutdown(func() { close(stop) })

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/signup", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)
		api.POST("/auth/refresh", s.handler.Auth.Refresh)
		api.POST("/auth/logout", s.handler.Auth.Logout)

		// Leaderboard (public, cached)
		api.GET("/users", s.handler.User.GetUsers)

		// Feed: viewer vote is attached when a valid token is present
		api.GET("/posts", middleware.OptionalAuthMiddleware(s.handler.Sessions), s.handler.Post.GetPosts)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.handler.Sessions))
		{
			protected.GET("/auth/verify", s.handler.Auth.Verify)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.GET("/posts/:id", s.handler.Post.GetPost)
			protected.POST("/posts/:id/vote", s.handler.Post.VotePost)
			protected.DELETE("/posts/:id/vote", s.handler.Post.UnvotePost)

			protected.GET("/posts/:id/comments", s.handler.Comment.GetComments)
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.POST("/comments/:id/vote", s.handler.Comment.VoteComment)
			protected.DELETE("/comments/:id/vote", s.handler.Comment.UnvoteComment)

			protected.GET("/users/:username", s.handler.User.GetUserProfile)
			protected.PUT("/users/:username", s.handler.User.UpdateUserProfile)
		}
	}

	return r
}

func (s *Server) startTokenSweep(every time.Duration) chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := s.handler.Tokens.PurgeStale()
				if err != nil {
					log.Printf("token sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("token sweep removed %d stale tokens", n)
				}
			case <-stop:
				return
			}
		}
	}()
	return stop
}
