package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

// ProfileFollow follows an author. Following yourself is silently ignored;
// either way the viewer lands back on the profile.
func (h *Handler) ProfileFollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.follows.FollowAuthor(c.Request.Context(), viewerID(c), username); err != nil {
		fail(c, err)
		return
	}
	response.Redirect(c, profilePath(username))
}

// ProfileUnfollow drops the edge to an author, if any.
func (h *Handler) ProfileUnfollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.follows.UnfollowAuthor(c.Request.Context(), viewerID(c), username); err != nil {
		fail(c, err)
		return
	}
	response.Redirect(c, profilePath(username))
}

// GroupFollow follows a group.
func (h *Handler) GroupFollow(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.follows.FollowGroup(c.Request.Context(), viewerID(c), slug); err != nil {
		fail(c, err)
		return
	}
	response.Redirect(c, groupPath(slug))
}

// GroupUnfollow drops the edge to a group, if any.
func (h *Handler) GroupUnfollow(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.follows.UnfollowGroup(c.Request.Context(), viewerID(c), slug); err != nil {
		fail(c, err)
		return
	}
	response.Redirect(c, groupPath(slug))
}

func profilePath(username string) string { return "/profile/" + url.PathEscape(username) + "/" }
func groupPath(slug string) string       { return "/group/" + url.PathEscape(slug) + "/" }
