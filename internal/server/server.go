package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/resolvedesk/backend/config"
	"github.com/resolvedesk/backend/internal/api"
	"github.com/resolvedesk/backend/internal/router"
	"github.com/resolvedesk/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New assembles services, handlers and routes into a runnable server.
// redisClient may be nil; rate limiting is then disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	complaintService := service.NewComplaintService(db, log.Default())
	categoryService := service.NewCategoryService(db)

	engine := router.SetupRouter(router.Options{
		AuthHandler:      api.NewAuthHandler(authService),
		ComplaintHandler: api.NewComplaintHandler(complaintService),
		CategoryHandler:  api.NewCategoryHandler(categoryService),
		TokenValidator:   authService,
		RedisClient:      redisClient,
		CORSOrigins:      cfg.CORSOrigins,
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		db: db,
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
