package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "ask/internal/errors"
	"ask/internal/middleware"
	"ask/internal/models"
	"ask/internal/rating"
	"ask/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	engine *rating.Engine
}

func NewAuthHandler(engine *rating.Engine) *AuthHandler {
	return &AuthHandler{engine: engine}
}

type signupRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Continue string `form:"continue" json:"continue"`
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Continue string `form:"continue" json:"continue"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}

	user, err := services.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		apperrors.Respond(c, apperrors.Conflict("This username is already taken."))
		return
	}
	if err != nil {
		RespondServiceError(c, err, "user")
		return
	}

	h.startSession(c, user, c.DefaultQuery("continue", req.Continue))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}

	user, err := services.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		apperrors.Respond(c, apperrors.BadParams("Invalid username or password.").WithCode("bad_credentials"))
		return
	}
	if err != nil {
		RespondServiceError(c, err, "user")
		return
	}

	h.startSession(c, user, c.DefaultQuery("continue", req.Continue))
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User, next string) {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		apperrors.Respond(c, apperrors.Internal("could not save session", err))
		return
	}

	slog.InfoContext(c.Request.Context(), "User logged in", "user_id", user.ID)
	next = safeRedirect(next)
	Done(c, next, gin.H{"user": user, "continue": next})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	if middleware.WantsJSON(c) {
		OK(c, nil)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// DeleteAccount removes the current user. Their votes are retracted first so
// no rating keeps a contribution from a user who no longer exists.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := services.DeleteUser(c.Request.Context(), h.engine, user.ID); err != nil {
		RespondServiceError(c, err, "user")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	OK(c, gin.H{"user_id": user.ID})
}
