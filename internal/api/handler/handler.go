package handler

import (
	"errors"
	"html/template"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Handler holds every dependency the HTTP handlers use.
type Handler struct {
	feed     service.FeedService
	follows  service.SubscriptionService
	posts    service.PostService
	comments service.CommentService
	auth     service.AuthService

	homeCache *pagecache.Cache
	tmpl      *template.Template
	db        *gorm.DB

	cookie    CookieConfig
	loginPath string
}

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type Deps struct {
	Feed          service.FeedService
	Subscriptions service.SubscriptionService
	Posts         service.PostService
	Comments      service.CommentService
	Auth          service.AuthService
	HomeCache     *pagecache.Cache
	Templates     *template.Template
	DB            *gorm.DB
	Cookie        CookieConfig
	LoginPath     string
}

func New(d Deps) *Handler {
	return &Handler{
		feed:      d.Feed,
		follows:   d.Subscriptions,
		posts:     d.Posts,
		comments:  d.Comments,
		auth:      d.Auth,
		homeCache: d.HomeCache,
		tmpl:      d.Templates,
		db:        d.DB,
		cookie:    d.Cookie,
		loginPath: d.LoginPath,
	}
}

func (h *Handler) Templates() *template.Template { return h.tmpl }

// viewerID is empty for anonymous requests.
func viewerID(c *gin.Context) string {
	if v := middleware.CurrentViewer(c); v != nil {
		return v.ID
	}
	return ""
}

// fail maps service errors onto pages. Forbidden is handled by callers,
// which know the safe page to redirect to.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c)
	default:
		middleware.ReportError(c, err)
		response.ServerError(c)
	}
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}
