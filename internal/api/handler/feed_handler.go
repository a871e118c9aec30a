package handler

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/pkg/response"
)

// Index renders the global timeline. The feed fragment (posts and
// pagination) comes from the home cache; the surrounding layout is rendered
// per request so the navigation always reflects the current viewer.
func (h *Handler) Index(c *gin.Context) {
	page := c.Query("page")
	variant := homeVariant(page)
	fragment, err := h.homeCache.Fetch(c.Request.Context(), variant, func(ctx context.Context) ([]byte, error) {
		fp, err := h.feed.Home(ctx, page)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := h.tmpl.ExecuteTemplate(&buf, "includes/feed.html", gin.H{"Posts": fp.Posts, "Page": fp.Page}); err != nil {
			return nil, err
		}
		// pages past the end render the last page and get no key of their own
		if strconv.Itoa(fp.Page.Number) != variant {
			return nil, pagecache.SkipStore(buf.Bytes())
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Page(c, http.StatusOK, "posts/index.html", gin.H{"Feed": template.HTML(fragment)})
}

// homeVariant normalises the page parameter into a cache key suffix so
// "", "abc" and "1" share one entry. Numbers past the last page are not
// stored, so the keyspace is bounded by the real page count.
func homeVariant(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return "1"
	}
	return strconv.Itoa(n)
}

func (h *Handler) GroupPosts(c *gin.Context) {
	gf, err := h.feed.Group(c.Request.Context(), viewerID(c), c.Param("slug"), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Page(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Group":     gf.Group,
		"Posts":     gf.Posts,
		"Page":      gf.Page,
		"Following": gf.Following,
		"Followers": gf.Followers,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	af, err := h.feed.Author(c.Request.Context(), viewerID(c), c.Param("username"), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Page(c, http.StatusOK, "posts/profile.html", gin.H{
		"Author":    af.Author,
		"Posts":     af.Posts,
		"Page":      af.Page,
		"Following": af.Following,
		"Followers": af.Followers,
		"PostCount": af.PostCount,
		"Self":      af.Self,
	})
}

// FollowIndex is the viewer's subscription feed. Never cached.
func (h *Handler) FollowIndex(c *gin.Context) {
	fp, err := h.feed.Subscriptions(c.Request.Context(), viewerID(c), c.Query("page"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Page(c, http.StatusOK, "posts/follow.html", gin.H{"Posts": fp.Posts, "Page": fp.Page})
}
