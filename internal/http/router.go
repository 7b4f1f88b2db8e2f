package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/cache"
	"github.com/geocoder89/sharedfeed/internal/config"
	"github.com/geocoder89/sharedfeed/internal/http/handlers"
	"github.com/geocoder89/sharedfeed/internal/http/middlewares"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"github.com/geocoder89/sharedfeed/internal/security"
	"github.com/geocoder89/sharedfeed/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router wires into handlers. Cache, Prom,
// Gatherer and Ping are optional.
type Deps struct {
	Cfg      config.Config
	Users    service.UserStore
	Posts    service.PostStore
	Tokens   *auth.Manager
	Cache    cache.Store
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     func(ctx context.Context) error
}

func NewRouter(log *slog.Logger, d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(d.Cfg.ServiceName))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(d.Cfg.MaxBodyBytes))

	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(observability.Handler(d.Gatherer)))
	}

	authSvc := service.NewAuthService(d.Users, d.Tokens, security.NewPasswordEncoder(d.Cfg.PasswordPepper))
	feedSvc := service.NewFeedService(d.Users, d.Posts)
	postSvc := service.NewPostService(d.Users, d.Posts)
	if d.Cache != nil {
		feedSvc.WithCache(d.Cache)
		postSvc.WithCache(d.Cache)
	}

	authHandler := handlers.NewAuthHandler(authSvc)
	postsHandler := handlers.NewPostsHandler(postSvc, feedSvc)
	authMW := middlewares.NewAuthMiddleware(d.Tokens)
	requireJSON := middlewares.RequireJSON()

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", requireJSON, authHandler.Login)
		authGroup.POST("/signup", requireJSON, authHandler.Signup)
		// bearer-only refresh carries no body, so no content-type check here
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	r.POST("/posts", authMW.RequireAuth(), requireJSON, postsHandler.CreatePost)
	r.GET("/posts", authMW.RequireAuth(), postsHandler.ListFeed)
	r.POST("/posts/search", requireJSON, postsHandler.Search)

	return r
}
