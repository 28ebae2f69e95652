package handlers_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOnlyAPI(t *testing.T) {
	s := newTestServer(t)

	alice := s.client(t)
	aliceID := alice.signup("alice")
	bob := s.client(t)
	bob.signup("bob")

	first := alice.ask("First", "one")
	second := alice.ask("Second", "two")
	firstPath := strconv.Itoa(int(first))

	w := bob.do(http.MethodPost, "/question/"+firstPath+"/answer/", gin.H{"text": "bob answers"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.client(t).do(http.MethodPost, "/question/"+firstPath+"/answer/", gin.H{"text": "anonymous"})
	require.Equal(t, http.StatusOK, w.Code)

	w = bob.do(http.MethodPost, "/like/", url.Values{"question_id": {strconv.Itoa(int(second))}, "operation": {"Like"}})
	require.Equal(t, http.StatusOK, w.Code)

	anon := s.client(t)

	t.Run("Questions", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/questions/", nil))
		require.Len(t, list, 2)
		assert.Equal(t, map[string]any{"alice": "alice@example.com"}, list[0]["author"])
		for _, key := range []string{"id", "title", "text", "added_at", "rating"} {
			assert.Contains(t, list[0], key)
		}
	})

	t.Run("Popular", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/questions/popular/", nil))
		require.Len(t, list, 2)
		assert.Equal(t, "Second", list[0]["title"])
		assert.Equal(t, float64(1), list[0]["rating"])
	})

	t.Run("Answers", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/answers/", nil))
		require.Len(t, list, 2)
		assert.Equal(t, "First", list[0]["question"])
		assert.Equal(t, map[string]any{"bob": "bob@example.com"}, list[0]["author"])
		assert.Nil(t, list[1]["author"])

		list = decodeList(t, anon.do(http.MethodGet, "/api/question/"+firstPath+"/answers/", nil))
		assert.Len(t, list, 2)
	})

	t.Run("Users", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/users/", nil))
		require.Len(t, list, 2)
		assert.Equal(t, map[string]any{"username": "alice", "email": "alice@example.com"}, list[0])

		id := strconv.Itoa(int(aliceID))
		assert.Len(t, decodeList(t, anon.do(http.MethodGet, "/api/user/"+id+"/questions/", nil)), 2)
		assert.Empty(t, decodeList(t, anon.do(http.MethodGet, "/api/user/"+id+"/answers/", nil)))
	})

	t.Run("Likes", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/question/"+strconv.Itoa(int(second))+"/likes/", nil))
		require.Len(t, list, 1)
		assert.Equal(t, "bob", list[0]["username"])
	})

	t.Run("Unknown ids", func(t *testing.T) {
		for _, path := range []string{"/api/question/999/answers/", "/api/question/999/likes/"} {
			w := anon.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "invalid_question_id", decode(t, w)["code"])
		}
		for _, path := range []string{"/api/user/999/questions/", "/api/user/999/answers/"} {
			w := anon.do(http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "invalid_user_id", decode(t, w)["code"])
		}
	})

	t.Run("Writes invalidate cached lists", func(t *testing.T) {
		list := decodeList(t, anon.do(http.MethodGet, "/api/questions/popular/", nil))
		assert.Equal(t, float64(1), list[0]["rating"])

		w := alice.do(http.MethodPost, "/like/", url.Values{"question_id": {strconv.Itoa(int(second))}, "operation": {"Like"}})
		require.Equal(t, http.StatusOK, w.Code)

		list = decodeList(t, anon.do(http.MethodGet, "/api/questions/popular/", nil))
		assert.Equal(t, float64(2), list[0]["rating"])
	})
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)
	c := s.client(t)

	w := c.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])

	c.signup("alice")
	qid := c.ask("Q", "T")
	w = c.do(http.MethodPost, "/like/", url.Values{"question_id": {strconv.Itoa(int(qid))}, "operation": {"Like"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ask_votes_processed_total{result="applied"} 1`)
}
