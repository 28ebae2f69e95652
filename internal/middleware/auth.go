package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"ask/internal/db"
	apperrors "ask/internal/errors"
	"ask/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in user's id.
const SessionUserKey = "user_id"

// LoginPath is where browsers are sent when a page needs a user.
const LoginPath = "/login/"

// AuthRequired lets only logged-in users through. Ajax and JSON clients get
// a no_auth error, browsers are redirected to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		if WantsJSON(c) {
			apperrors.Respond(c, apperrors.NoAuth())
			return
		}

		c.Redirect(http.StatusFound, LoginPath+"?continue="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// APIAuthRequired always answers anonymous requests with no_auth.
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			apperrors.Respond(c, apperrors.NoAuth())
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserKey)

		if userID != nil {
			var user models.User
			result := db.DB.WithContext(c.Request.Context()).First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)
				c.Set(apperrors.ContextUserIDKey, user.ID)
			} else {
				// stale cookie for a removed account
				session.Delete(SessionUserKey)
				_ = session.Save()
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	user, exists := c.Get(CheckUserKey)
	if !exists {
		return nil
	}
	u, _ := user.(*models.User)
	return u
}

// WantsJSON reports whether the client is a script rather than a browser
// navigation.
func WantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return c.ContentType() == "application/json"
}
