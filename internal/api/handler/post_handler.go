package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

func postPath(id uint) string { return fmt.Sprintf("/posts/%d/", id) }

func (h *Handler) PostDetail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Page(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Post":     p,
		"IsAuthor": viewerID(c) == p.AuthorID,
	})
}

func (h *Handler) PostCreate(c *gin.Context) {
	var form service.PostForm
	if c.Request.Method == http.MethodGet {
		h.renderPostForm(c, http.StatusOK, form, nil, false)
		return
	}
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, http.StatusBadRequest, form, nil, false)
		return
	}
	_, err := h.posts.Create(c.Request.Context(), viewerID(c), form)
	var fe *service.FormError
	switch {
	case errors.As(err, &fe):
		h.renderPostForm(c, http.StatusOK, form, fe.Fields, false)
	case err != nil:
		fail(c, err)
	default:
		response.Redirect(c, profilePath(middleware.CurrentViewer(c).Username))
	}
}

func (h *Handler) PostEdit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if c.Request.Method == http.MethodGet {
		p, err := h.posts.Get(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		if p.AuthorID != viewerID(c) {
			response.Redirect(c, postPath(p.ID))
			return
		}
		h.renderPostForm(c, http.StatusOK, formFor(p), nil, true)
		return
	}

	var form service.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, http.StatusBadRequest, form, nil, true)
		return
	}
	p, err := h.posts.Edit(ctx, viewerID(c), id, form)
	var fe *service.FormError
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Redirect(c, postPath(p.ID))
	case errors.As(err, &fe):
		h.renderPostForm(c, http.StatusOK, form, fe.Fields, true)
	case err != nil:
		fail(c, err)
	default:
		response.Redirect(c, postPath(p.ID))
	}
}

func (h *Handler) PostDelete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, err := h.posts.Delete(c.Request.Context(), viewerID(c), id)
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Redirect(c, postPath(p.ID))
	case err != nil:
		fail(c, err)
	default:
		response.Redirect(c, profilePath(p.Author.Username))
	}
}

// AddComment always lands back on the post; an invalid comment is dropped.
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var form service.CommentForm
	_ = c.ShouldBind(&form)
	_, err := h.comments.Add(c.Request.Context(), viewerID(c), id, form)
	var fe *service.FormError
	if err != nil && !errors.As(err, &fe) {
		fail(c, err)
		return
	}
	response.Redirect(c, postPath(id))
}

func (h *Handler) renderPostForm(c *gin.Context, status int, form service.PostForm, errs map[string]string, edit bool) {
	groups, err := h.posts.Groups(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if errs == nil {
		errs = map[string]string{}
	}
	response.Page(c, status, "posts/create_post.html", gin.H{
		"Form":   form,
		"Errors": errs,
		"Groups": groups,
		"IsEdit": edit,
	})
}

func formFor(p *model.Post) service.PostForm {
	f := service.PostForm{Text: p.Text}
	if p.Group != nil {
		f.Group = p.Group.Slug
	}
	return f
}
