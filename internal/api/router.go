package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"forklift-fleet-backend/internal/mw"
)

// RouterConfig tunes the middleware of the router.
type RouterConfig struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		private := api.Group("")
		private.Use(mw.RequireSession(h.sessions), mw.FlushOnWrite(cacheStore))

		private.POST("/auth/logout", h.Logout)
		private.GET("/users/me", h.GetCurrentUser)

		registerCollection(private, h, forkliftCollection, caching)
		registerCollection(private, h, operatorCollection, caching)
		registerCollection(private, h, maintenanceCollection, caching)
		registerCollection(private, h, gasSupplyCollection, caching)
		registerCollection(private, h, operationCollection, caching)

		private.GET("/forklifts/:id/maintenance-due", h.GetMaintenanceDue)
		private.GET("/operators/:id/certificates", h.GetOperatorCertificates)
		private.GET("/certificates/classify", h.ClassifyCertificate)
		private.GET("/dashboard", caching, h.GetDashboard)

		private.GET("/subscriptions", h.GetSubscription)
		private.PUT("/subscriptions", h.PutSubscription)
		private.DELETE("/subscriptions", h.DeleteSubscription)
	}

	return r
}
