package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"ask/internal/db"
	"ask/internal/logging"
	"ask/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("ask_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(LoadUser())
	r.GET("/test-login/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(SessionUserKey, uint(id))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	r.POST("/vote", APIAuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, "voted")
	})
	return r
}

func login(t *testing.T, r *gin.Engine, userID uint) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test-login/"+strconv.Itoa(int(userID)), nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func TestAuthRequired(t *testing.T) {
	conn := db.SetupTestDB(t)
	user := models.User{Username: "alice", Password: "x"}
	require.NoError(t, conn.Create(&user).Error)
	r := newRouter()

	t.Run("Browser is redirected to login", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?x=1", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login/?continue=%2Fprivate%3Fx%3D1", w.Header().Get("Location"))
	})

	t.Run("Ajax client gets no_auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "no_auth", body["code"])
		assert.Equal(t, "This action requires authorization", body["message"])
	})

	t.Run("Logged-in user passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		for _, c := range login(t, r, user.ID) {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})

	t.Run("Session of a removed user is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		for _, c := range login(t, r, 9999) {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
	})
}

func TestAPIAuthRequired(t *testing.T) {
	db.SetupTestDB(t)
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"no_auth"`)
}

func TestWantsJSON(t *testing.T) {
	cases := map[string]http.Header{
		"ajax":         {"X-Requested-With": {"XMLHttpRequest"}},
		"accept":       {"Accept": {"application/json, text/plain"}},
		"content type": {"Content-Type": {"application/json; charset=utf-8"}},
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
			c.Request.Header = header
			assert.True(t, WantsJSON(c))
		})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept", "text/html")
	assert.False(t, WantsJSON(c))
}

func TestCorrelationAndRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "json"))
	t.Cleanup(func() { slog.SetDefault(previous) })

	r := gin.New()
	r.Use(Correlation(), RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		id, ok := logging.CorrelationID(c.Request.Context())
		assert.True(t, ok)
		c.String(http.StatusOK, id)
	})

	t.Run("Generated id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 8)
		assert.Equal(t, id, w.Body.String())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Request served", entry["msg"])
		assert.Equal(t, id, entry["correlation_id"])
		assert.Equal(t, "/ping", entry["path"])
		assert.EqualValues(t, 200, entry["status"])
	})

	t.Run("Incoming id is kept", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("Malformed id is replaced", func(t *testing.T) {
		for _, incoming := range []string{
			"has space",
			"x\"><script>",
			"id=1;drop",
			strings.Repeat("a", 65),
		} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(RequestIDHeader, incoming)
			r.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			assert.NotEqual(t, incoming, id)
			assert.Len(t, id, 8, incoming)
		}
	})

	t.Run("UUID is kept", func(t *testing.T) {
		incoming := "6f1c2a4e-0b8d-4e5f-9a7b-3c2d1e0f9a8b"
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, incoming)
		r.ServeHTTP(w, req)

		assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	})
}
