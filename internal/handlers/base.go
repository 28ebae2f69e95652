package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	apperrors "ask/internal/errors"
	"ask/internal/middleware"
	"ask/internal/services"

	"github.com/gin-gonic/gin"
)

// OK writes a success body in the {"status":"ok", ...} envelope.
func OK(c *gin.Context, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	obj["status"] = "ok"
	c.JSON(http.StatusOK, obj)
}

// Done finishes a write: JSON clients get the envelope, browsers follow
// location.
func Done(c *gin.Context, location string, obj gin.H) {
	if middleware.WantsJSON(c) {
		OK(c, obj)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// RespondServiceError maps service-layer errors to client errors. what names
// the resource for not-found and forbidden messages.
func RespondServiceError(c *gin.Context, err error, what string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.Respond(c, apperrors.BadParams(verr.Message).WithField("field", verr.Field))
	case errors.Is(err, services.ErrNotFound):
		apperrors.Respond(c, apperrors.NotFound("The requested "+what+" was not found."))
	case errors.Is(err, services.ErrForbidden):
		apperrors.Respond(c, apperrors.Forbidden("This "+what+" belongs to another user."))
	default:
		apperrors.Respond(c, apperrors.Internal("internal server error", err))
	}
}

// safeRedirect only follows local paths. Browsers treat a backslash like a
// slash, so "/\host" counts as a network path too.
func safeRedirect(next string) string {
	if next == "" || strings.ContainsAny(next, "\\\r\n") {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
