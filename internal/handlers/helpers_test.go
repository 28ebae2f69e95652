package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ask/internal/db"
	"ask/internal/metrics"
	"ask/internal/middleware"
	"ask/internal/rating"
	"ask/internal/router"
	"ask/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	r      *gin.Engine
	conn   *gorm.DB
	engine *rating.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conn := db.SetupTestDB(t)
	utils.GetCache().Purge()

	reg := metrics.NewRegistry()
	ledger := rating.NewGormLedger(conn)
	engine := rating.NewEngine(ledger, metrics.NewVoteMetrics(reg))

	r := gin.New()
	r.Use(middleware.Correlation())
	r.Use(sessions.Sessions("ask_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(middleware.LoadUser())
	router.RegisterRoutes(r, router.Deps{
		Ledger:   ledger,
		Engine:   engine,
		Cache:    utils.GetCache(),
		Registry: reg,
	})

	return &testServer{r: r, conn: conn, engine: engine}
}

// client keeps the session cookie between requests.
type client struct {
	t       *testing.T
	s       *testServer
	cookies map[string]*http.Cookie
	browser bool
}

func (s *testServer) client(t *testing.T) *client {
	return &client{t: t, s: s, cookies: make(map[string]*http.Cookie)}
}

func (s *testServer) browser(t *testing.T) *client {
	c := s.client(t)
	c.browser = true
	return c
}

// do sends form values as a form post, anything else non-nil as JSON.
func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !c.browser {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.s.r.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) signup(username string) uint {
	c.t.Helper()
	w := c.do(http.MethodPost, "/signup/", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password",
	})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.User.ID
}

func (c *client) ask(title, text string) uint {
	c.t.Helper()
	w := c.do(http.MethodPost, "/ask/", gin.H{"title": title, "text": text})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Question struct {
			ID uint `json:"id"`
		} `json:"question"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Question.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
