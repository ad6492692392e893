package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lifeflow-backend/internal/core/auth"
	"lifeflow-backend/internal/core/config"
	"lifeflow-backend/internal/core/server"
	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/service"
	"lifeflow-backend/internal/transport/http/ez"
	"lifeflow-backend/internal/transport/http/handler"
	mdw "lifeflow-backend/internal/transport/http/middleware"
	resp "lifeflow-backend/internal/transport/http/response"
)

// Deps is everything the API engine needs; main builds it.
type Deps struct {
	Logger   *zap.Logger
	Config   *config.Config
	JWT      *auth.JWTer
	Revoker  auth.Revoker // nil: logout only clears the cookie
	Services *service.Services
	Registry *prometheus.Registry
	Health   func(ctx context.Context) error
}

func NewAPIEngine(d Deps) *gin.Engine {
	l := d.Logger
	if l == nil {
		l = zap.NewNop()
	}
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	cfg := d.Config

	r := server.NewRouter(l, server.Options{AllowOrigins: cfg.CORS.AllowOrigins, Recovery: mdw.PanicResponse})
	r.Use(mdw.RequestID(), mdw.AccessLog(l), mdw.Metrics(reg))
	if lim := cfg.Limits; lim.RPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	// the deadline also bounds the wait for a concurrency slot
	if cfg.Limits.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(cfg.Limits.TimeoutSec) * time.Second))
	}
	if cfg.Limits.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(cfg.Limits.Concurrency))
	}
	if cfg.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(cfg.Limits.MaxBodyBytes))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
	})
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Blood is flowing.") })
	r.GET("/health", health(d.Health, l))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	svc := d.Services
	authn := mdw.RequireAuth(d.JWT, d.Revoker, l)
	groups := handler.Groups{
		Public:  ez.New(r.Group(""), l),
		Session: ez.New(r.Group("", authn), l),
		Staff:   ez.New(r.Group("", authn, mdw.RequireRole(svc.Users, l, domain.RoleAdmin, domain.RoleVolunteer)), l),
		Admin:   ez.New(r.Group("", authn, mdw.RequireRole(svc.Users, l, domain.RoleAdmin)), l),
	}

	cookie := auth.CookieOptions{Secure: cfg.Cookie.Secure, Domain: cfg.Cookie.Domain}
	var mods Registry
	mods.Register(
		handler.NewAuthHandler(d.JWT, d.Revoker, cookie, l),
		handler.NewRegionHandler(svc.Regions),
		handler.NewUserHandler(svc.Users),
		handler.NewRequestHandler(svc.Requests, svc.Export),
		handler.NewBlogHandler(svc.Blogs),
		handler.NewPaymentHandler(svc.Payments, svc.Stats),
	)
	mods.MountAll(groups)
	return r
}

func health(check func(context.Context) error, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "database unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	}
}
