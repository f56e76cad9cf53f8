package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/resolvedesk/backend/internal/api"
	"github.com/resolvedesk/backend/internal/middleware"
)

// Options carries everything SetupRouter needs to assemble the route table.
// RedisClient may be nil, in which case rate limiting is disabled.
type Options struct {
	AuthHandler      *api.AuthHandler
	ComplaintHandler *api.ComplaintHandler
	CategoryHandler  *api.CategoryHandler
	TokenValidator   middleware.TokenValidator
	RedisClient      *redis.Client
	CORSOrigins      []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/health", api.HealthCheck)
	router.GET("/api/health", api.HealthCheck)

	var loginLimiter, submitLimiter gin.HandlerFunc
	if opts.RedisClient != nil {
		loginLimiter = middleware.NewLoginRateLimiter(opts.RedisClient).ByClientIP()
		submitLimiter = middleware.NewSubmissionRateLimiter(opts.RedisClient).ByUser()
	}

	v1 := router.Group("/api/v1")

	opts.AuthHandler.RegisterRoutes(v1, loginLimiter)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(opts.TokenValidator))
	{
		opts.ComplaintHandler.RegisterRoutes(protected, submitLimiter)
		opts.CategoryHandler.RegisterRoutes(protected)
	}

	return router
}
