package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/handlers"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/validation"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config) *http.Server {
	// Initialize database and run migrations
	db := database.New(cfg)

	// Seed the tag vocabulary and demo data through the bootstrap connection
	bootstrap, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := bootstrap.Seed(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	if err := bootstrap.Close(); err != nil {
		log.Printf("Failed to close bootstrap connection: %v", err)
	}

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	validation.Register()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), cfg, store)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

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

	// Uploaded images are served statically
	r.Static("/images", s.cfg.UploadDir)

	// API routes
	api := r.Group("/api")
	{
		// Guest routes
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Everything else requires a valid bearer token
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.db.GetDB()))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.GET("/users/:user_id", s.handler.User.GetUser)
			protected.PATCH("/users/:user_id/update", s.handler.User.UpdateUser)
			protected.GET("/users/:user_id/posts", s.handler.Post.GetUserPosts)

			protected.POST("/posts/create", s.handler.Post.CreatePost)
			protected.GET("/posts", s.handler.Post.GetPosts)
			protected.GET("/posts/:post_id", s.handler.Post.GetPost)

			// The like routes keep the original GET form alongside POST
			protected.GET("/posts/:post_id/likes", s.handler.Post.Like)
			protected.POST("/posts/:post_id/likes", s.handler.Post.Like)
			protected.GET("/posts/:post_id/likes/delete", s.handler.Post.Unlike)
			protected.POST("/posts/:post_id/likes/delete", s.handler.Post.Unlike)

			protected.POST("/posts/:post_id/ratings", s.handler.Post.Rate)
			protected.POST("/posts/:post_id/ratings/delete", s.handler.Post.Unrate)

			protected.POST("/posts/:post_id/comments", s.handler.Post.CreateComment)
			protected.GET("/posts/:post_id/comments", s.handler.Post.GetComments)

			protected.GET("/tags", s.handler.Tag.GetTags)
			protected.GET("/tags/:tag_id/posts", s.handler.Post.GetPostsByTag)
		}
	}

	return r
}
