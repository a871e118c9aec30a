package api

import (
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/yatube/internal/api/handler"
	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/pkg/response"
)

type RouterConfig struct {
	ServiceName    string
	TracingEnabled bool
	CookieName     string
	LoginPath      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(cfg RouterConfig, h *handler.Handler, sessions middleware.Authenticator) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = true
	r.SetHTMLTemplate(h.Templates())

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	if sentry.CurrentHub().Client() != nil {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Auth(sessions, cfg.CookieName))

	r.NoRoute(response.NotFound)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	login := middleware.RequireLogin(cfg.LoginPath)

	r.GET("/healthz", h.Health)

	r.GET("/", h.Index)
	r.GET("/group/:slug/", h.GroupPosts)
	r.GET("/profile/:username/", h.Profile)
	r.GET("/posts/:post_id/", h.PostDetail)

	authed := r.Group("/", login)
	{
		authed.GET("/follow/", h.FollowIndex)
		authed.GET("/create/", h.PostCreate)
		authed.POST("/create/", h.PostCreate)
		authed.GET("/posts/:post_id/edit/", h.PostEdit)
		authed.POST("/posts/:post_id/edit/", h.PostEdit)
		authed.GET("/posts/:post_id/delete/", h.PostDelete)
		authed.POST("/posts/:post_id/comment/", h.AddComment)
	}

	toggles := r.Group("/", login, limiter.Middleware())
	{
		toggles.GET("/profile/:username/follow/", h.ProfileFollow)
		toggles.GET("/profile/:username/unfollow/", h.ProfileUnfollow)
		toggles.GET("/group/:slug/follow/", h.GroupFollow)
		toggles.GET("/group/:slug/unfollow/", h.GroupUnfollow)
	}

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", h.Signup)
		auth.POST("/signup/", limiter.Middleware(), h.Signup)
		auth.GET("/login/", h.Login)
		auth.POST("/login/", limiter.Middleware(), h.Login)
		auth.GET("/logout/", h.Logout)
	}

	return r
}
