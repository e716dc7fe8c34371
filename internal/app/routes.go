package app

import (
	"net/http"

	"Social/internal/cache"
	"Social/internal/config"
	"Social/internal/handlers"
	"Social/internal/metrics"
	"Social/internal/repo"
	"Social/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine. rdb may be nil.
func Setup(r *gin.Engine, cfg config.Config, log *zap.Logger, db *sqlx.DB, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, db))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	accountRepo := repo.NewSQLAccountRepo(db, log)
	accountSvc := service.NewAccountService(accountRepo)
	accountHandler := handlers.NewAccountHandler(accountSvc, cfg.HTTP.EchoPassword)
	registerAccountRoutes(r, accountHandler)

	var messageCache *cache.MessageCache
	if rdb != nil {
		messageCache = cache.NewMessageCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	messageRepo := repo.NewSQLMessageRepo(db, log)
	messageSvc := service.NewMessageService(messageRepo, accountRepo, messageCache, log)
	messageHandler := handlers.NewMessageHandler(messageSvc)
	registerMessageRoutes(r, messageHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Social API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
		})
	}
}

func healthHandler(cfg config.Config, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": cfg.App.Env})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAccountRoutes(r gin.IRoutes, h *handlers.AccountHandler) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}

func registerMessageRoutes(r gin.IRoutes, h *handlers.MessageHandler) {
	r.POST("/messages", h.Create)
	r.GET("/messages", h.List)
	r.GET("/messages/:id", h.GetByID)
	r.PATCH("/messages/:id", h.Update)
	r.DELETE("/messages/:id", h.Delete)
	r.GET("/accounts/:id/messages", h.ListByAccount)
}
