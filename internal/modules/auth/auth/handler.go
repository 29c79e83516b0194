package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/pkg/response"
	sessionpkg "github.com/quillspace/core/internal/pkg/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, requireLogin gin.HandlerFunc) {
	a := r.Group("/auth")

	a.GET("/login/", h.loginForm)
	a.POST("/login/", h.login)
	a.POST("/registration/", h.register)
	a.POST("/logout/", requireLogin, h.logout)
}

// loginForm GET /auth/login/ — the target of the login-required redirect.
func (h *Handler) loginForm(c *gin.Context) {
	response.OK(c, gin.H{
		"form": LoginDTO{},
		"next": c.Query("next"),
	})
}

// login POST /auth/login/
// On success the session token is set as a cookie; when the request carried
// a ?next= path the client is sent back there, otherwise the token is
// returned directly.
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	token, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.ForbiddenMsg(c, "incorrect username or password")
			return
		}
		response.InternalError(c, err)
		return
	}

	setTokenCookie(c, token)
	if next := safeNextPath(c.Query("next")); next != "" {
		response.Redirect(c, next)
		return
	}
	response.OK(c, loginResponse{Token: token})
}

// register POST /auth/registration/
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		if errors.Is(err, errUsernameInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"id": u.ID, "username": u.Username})
}

// logout POST /auth/logout/  [auth]
func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	clearTokenCookie(c)
	response.Redirect(c, "/")
}

func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.TokenCookie, token, int(sessionpkg.DefaultTTL.Seconds()), "/", "", false, true)
}

func clearTokenCookie(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
}

// safeNextPath only honors same-site absolute paths, never full URLs.
func safeNextPath(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
