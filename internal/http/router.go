// Package httpapi mounts the feedback API on a Gin engine: global
// middleware, the public submission and stats routes, and the admin group.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-feedback-backend/docs"
	"github.com/tbourn/go-feedback-backend/internal/config"
	"github.com/tbourn/go-feedback-backend/internal/http/handlers"
	"github.com/tbourn/go-feedback-backend/internal/http/middleware"
	"github.com/tbourn/go-feedback-backend/internal/llm"
	"github.com/tbourn/go-feedback-backend/internal/repo"
	"github.com/tbourn/go-feedback-backend/internal/services"
)

// maxBodyBytes caps every request body. A review is far smaller.
const maxBodyBytes = 1 << 20

// RegisterRoutes installs middleware and routes on r.
//
// store holds the feedback records and gen drafts the three generated texts.
// db keeps idempotency keys; nil disables replay.
//
// Global middleware runs in this order: tracing, request id, logging,
// recovery, body limit, gzip, metrics, CORS, security headers. POST
// /feedback adds the idempotency check and then the rate limiter, which a
// replay skips. The admin group adds the secret check and no-store.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store repo.RecordStore, gen llm.Generator, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderAdminSecret},
			QuietPaths:  []string{"/health", "/metrics"},
		}),
		middleware.Recovery(),
		limitBody(maxBodyBytes),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.Metrics(),
	)
	r.Use(corsHandlers(cfg.CORS)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:        cfg.Security.EnableHSTS,
		HSTSMaxAge:        cfg.Security.HSTSMaxAge,
		EnablePolicy:      true,
		CSP:               middleware.APIContentSecurityPolicy,
		CSPExemptPrefixes: []string{"/swagger/"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	responder := services.NewResponseGenerator(gen, cfg.LLM.Timeout)
	fbSvc := services.NewFeedbackService(store, responder, time.Now)
	fbSvc.MaxReviewRunes = cfg.MaxReviewRunes
	dashSvc := services.NewDashboardService(fbSvc)
	idem := repo.NewIdempotencyKeys(db, cfg.IdempotencyTTL)
	h := handlers.New(fbSvc, dashSvc, idem)

	limiter := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClient())

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.POST("/feedback",
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Lookup),
		limiter.Handler(),
		h.SubmitFeedback,
	)
	api.GET("/stats", h.Stats)

	admin := api.Group("/admin",
		middleware.AdminAuth(cfg.AdminSecret),
		middleware.SecurityHeaders(middleware.SecurityOptions{NoStore: true}),
	)
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/feedback", h.ListFeedback)
	admin.GET("/feedback/:id", h.GetFeedback)
}

// corsHandlers allows any origin without credentials when origins is empty,
// and otherwise only the listed ones. Allow-Origin is also set on plain
// requests that carry no preflight.
func corsHandlers(c config.CORSConfig) []gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
			middleware.HeaderAdminSecret, middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{
			"X-Request-ID", "Content-Length", "ETag", "Retry-After",
			handlers.HeaderIdempotencyReplayed,
		},
		MaxAge: 12 * time.Hour,
	}

	var echo gin.HandlerFunc
	if len(c.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
		echo = func(ctx *gin.Context) {
			ctx.Header("Access-Control-Allow-Origin", "*")
			ctx.Next()
		}
	} else {
		cc.AllowOrigins = c.AllowedOrigins
		allowed := make(map[string]bool, len(c.AllowedOrigins))
		for _, o := range c.AllowedOrigins {
			allowed[o] = true
		}
		echo = func(ctx *gin.Context) {
			if o := ctx.GetHeader("Origin"); allowed[o] {
				ctx.Header("Access-Control-Allow-Origin", o)
				ctx.Writer.Header().Add("Vary", "Origin")
			}
			ctx.Next()
		}
	}
	return []gin.HandlerFunc{echo, cors.New(cc)}
}

func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix treats "" and "/" as the root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
