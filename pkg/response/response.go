package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope used by machine-facing endpoints.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes data inside the envelope, with the status echoed as the code.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Code: status, Message: http.StatusText(status), Data: data})
}

// HTML page names shared by handlers and the template set.
const (
	NotFoundTemplate    = "errors/404.html"
	ServerErrorTemplate = "errors/500.html"
	ForbiddenTemplate   = "errors/403.html"
)

// Page renders a template with the request's base context merged in.
// Handlers register base values (current user etc.) under BaseKey.
func Page(c *gin.Context, status int, name string, data gin.H) {
	ctx := gin.H{}
	if base, ok := c.Get(BaseKey); ok {
		if h, ok := base.(gin.H); ok {
			for k, v := range h {
				ctx[k] = v
			}
		}
	}
	for k, v := range data {
		ctx[k] = v
	}
	c.HTML(status, name, ctx)
}

const BaseKey = "response.base"

func NotFound(c *gin.Context) {
	Page(c, http.StatusNotFound, NotFoundTemplate, gin.H{"Path": c.Request.URL.Path})
	c.Abort()
}

func ServerError(c *gin.Context) {
	Page(c, http.StatusInternalServerError, ServerErrorTemplate, nil)
	c.Abort()
}

func Forbidden(c *gin.Context) {
	Page(c, http.StatusForbidden, ForbiddenTemplate, nil)
	c.Abort()
}

// Redirect issues a 302 to a local path.
func Redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
	c.Abort()
}
