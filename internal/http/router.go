package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mingus-outlook/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
// jwtSvc y metrics son opcionales: sin jwtSvc las rutas de outlook quedan abiertas.
func NewRouter(
	logger *zap.Logger,
	outlookH *OutlookHandler,
	tierH *TierHandler,
	healthH *HealthHandler,
	jwtSvc *service.JWTService,
	metrics http.Handler,
) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Healthz)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	tiers := r.Group("/tiers")
	tiers.GET("", tierH.ListTiers)
	tiers.GET("/:tier", tierH.GetTier)
	tiers.GET("/:tier/features/:feature", tierH.GetFeatureAccess)

	outlooks := r.Group("/daily-outlook")
	if jwtSvc != nil {
		outlooks.Use(JWTAuthMiddleware(jwtSvc))
	}
	outlooks.GET("/:user_id", outlookH.GetDailyOutlook)
	outlooks.POST("/:user_id/regenerate", outlookH.RegenerateDailyOutlook)
	outlooks.GET("/:user_id/history", outlookH.ListHistory)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
