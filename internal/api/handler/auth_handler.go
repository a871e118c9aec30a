package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

func (h *Handler) Signup(c *gin.Context) {
	var form service.SignupForm
	if c.Request.Method == http.MethodGet {
		h.renderSignup(c, http.StatusOK, form, nil, "")
		return
	}
	_ = c.ShouldBind(&form)

	u, err := h.auth.Signup(c.Request.Context(), form)
	var fe *service.FormError
	switch {
	case errors.As(err, &fe):
		h.renderSignup(c, http.StatusOK, form, fe.Fields, "")
		return
	case errors.Is(err, service.ErrUsernameTaken):
		h.renderSignup(c, http.StatusOK, form, map[string]string{"username": "A user with that username already exists."}, "")
		return
	case err != nil:
		fail(c, err)
		return
	}

	if err := h.startSession(c, u); err != nil {
		fail(c, err)
		return
	}
	response.Redirect(c, "/")
}

func (h *Handler) Login(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"))
	if c.Request.Method == http.MethodGet {
		h.renderLogin(c, http.StatusOK, next, "", "")
		return
	}

	var form service.LoginForm
	_ = c.ShouldBind(&form)
	if n := middleware.SafeNext(c.PostForm("next")); n != "" {
		next = n
	}
	u, token, err := h.auth.Login(c.Request.Context(), form)
	var fe *service.FormError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.As(err, &fe):
		h.renderLogin(c, http.StatusOK, next, form.Username,
			"Please enter a correct username and password.")
		return
	case err != nil:
		fail(c, err)
		return
	}
	h.setCookie(c, token)
	if next == "" {
		next = profilePath(u.Username)
	}
	response.Redirect(c, next)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	// the base context was built before the cookie was dropped
	c.Set(response.BaseKey, gin.H{"Viewer": (*middleware.Viewer)(nil)})
	response.Page(c, http.StatusOK, "users/logged_out.html", nil)
}

func (h *Handler) startSession(c *gin.Context, u *model.User) error {
	token, err := h.auth.IssueToken(u)
	if err != nil {
		return err
	}
	h.setCookie(c, token)
	return nil
}

func (h *Handler) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) renderSignup(c *gin.Context, status int, form service.SignupForm, errs map[string]string, msg string) {
	if errs == nil {
		errs = map[string]string{}
	}
	form.Password, form.Password2 = "", ""
	response.Page(c, status, "users/signup.html", gin.H{"Form": form, "Errors": errs, "Error": msg})
}

func (h *Handler) renderLogin(c *gin.Context, status int, next, username, msg string) {
	response.Page(c, status, "users/login.html", gin.H{"Next": next, "Username": username, "Error": msg})
}
