package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

const viewerKey = "viewer"

// Viewer is the authenticated caller of a request.
type Viewer struct {
	ID       string
	Username string
}

// Authenticator resolves a session token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth resolves the session cookie into a Viewer. Anonymous requests pass
// through; a cookie that no longer maps to a live user is dropped.
func Auth(sessions Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var viewer *Viewer
		if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
			u, err := sessions.Authenticate(c.Request.Context(), raw)
			switch {
			case errors.Is(err, service.ErrInvalidSession):
				logger.Debug("dropping invalid session", zap.Error(err))
				c.SetCookie(cookieName, "", -1, "/", "", false, true)
			case err != nil:
				logger.Warn("session lookup failed, serving as anonymous", zap.Error(err))
			default:
				viewer = &Viewer{ID: u.ID, Username: u.Username}
				c.Set(viewerKey, viewer)
			}
		}
		c.Set(response.BaseKey, gin.H{"Viewer": viewer, "Path": c.Request.URL.Path})
		c.Next()
	}
}

// CurrentViewer returns the request's viewer, or nil for anonymous callers.
func CurrentViewer(c *gin.Context) *Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(*Viewer); ok {
			return viewer
		}
	}
	return nil
}

// RequireLogin redirects anonymous callers to loginPath?next=<requested path>.
func RequireLogin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentViewer(c) != nil {
			c.Next()
			return
		}
		response.Redirect(c, LoginURL(loginPath, c.Request.URL.RequestURI()))
	}
}

// LoginURL builds the login redirect. Slashes in next stay unescaped.
func LoginURL(loginPath, next string) string {
	return loginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext accepts only local absolute paths as a post-login target.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
