package handlers

import (
	"errors"
	"net/http"

	apperrors "ask/internal/errors"
	"ask/internal/rating"
	"ask/internal/services"
	"ask/internal/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler serves the read-only /api listings from the shared cache.
type APIHandler struct {
	ledger rating.Ledger
	cache  *utils.GlobalCache
}

func NewAPIHandler(ledger rating.Ledger, cache *utils.GlobalCache) *APIHandler {
	return &APIHandler{ledger: ledger, cache: cache}
}

// cached serves the response for the request path from the cache, loading
// it with load on a miss. Errors are never cached, and neither is a result
// whose load overlapped a write.
func (h *APIHandler) cached(c *gin.Context, load func() (any, error)) {
	key := "api:" + c.Request.URL.Path
	if data := h.cache.Get(key); data != nil {
		c.JSON(http.StatusOK, data)
		return
	}

	gen := h.cache.Generation()
	data, err := load()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	h.cache.SetIfGeneration(key, data, gen)
	c.JSON(http.StatusOK, data)
}

func questionNotFound() *apperrors.Error {
	return apperrors.NotFound("The requested question was not found.").WithCode("invalid_question_id")
}

func userNotFound() *apperrors.Error {
	return apperrors.NotFound("The requested user was not found.").WithCode("invalid_user_id")
}

func (h *APIHandler) Questions(c *gin.Context) {
	h.cached(c, func() (any, error) {
		questions, err := services.AllQuestions(c.Request.Context(), services.OrderNew)
		if err != nil {
			return nil, err
		}
		return toAPIQuestions(questions), nil
	})
}

func (h *APIHandler) PopularQuestions(c *gin.Context) {
	h.cached(c, func() (any, error) {
		questions, err := services.AllQuestions(c.Request.Context(), services.OrderPopular)
		if err != nil {
			return nil, err
		}
		return toAPIQuestions(questions), nil
	})
}

func (h *APIHandler) Answers(c *gin.Context) {
	h.cached(c, func() (any, error) {
		answers, err := services.AllAnswers(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return toAPIAnswers(answers), nil
	})
}

func (h *APIHandler) QuestionAnswers(c *gin.Context) {
	h.cached(c, func() (any, error) {
		id, err := h.question(c)
		if err != nil {
			return nil, err
		}
		answers, err := services.AnswersForQuestion(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return toAPIAnswers(answers), nil
	})
}

func (h *APIHandler) QuestionLikes(c *gin.Context) {
	h.cached(c, func() (any, error) {
		id, err := h.question(c)
		if err != nil {
			return nil, err
		}
		users, err := h.ledger.Voters(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return toAPIUsers(users), nil
	})
}

func (h *APIHandler) Users(c *gin.Context) {
	h.cached(c, func() (any, error) {
		users, err := services.ListUsers(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return toAPIUsers(users), nil
	})
}

func (h *APIHandler) UserQuestions(c *gin.Context) {
	h.cached(c, func() (any, error) {
		id, err := h.user(c)
		if err != nil {
			return nil, err
		}
		questions, err := services.QuestionsByAuthor(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return toAPIQuestions(questions), nil
	})
}

func (h *APIHandler) UserAnswers(c *gin.Context) {
	h.cached(c, func() (any, error) {
		id, err := h.user(c)
		if err != nil {
			return nil, err
		}
		answers, err := services.AnswersByAuthor(c.Request.Context(), id)
		if err != nil {
			return nil, err
		}
		return toAPIAnswers(answers), nil
	})
}

// question resolves the :id parameter to an existing question.
func (h *APIHandler) question(c *gin.Context) (uint, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return 0, questionNotFound()
	}
	if _, err := services.GetQuestion(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return 0, questionNotFound()
		}
		return 0, err
	}
	return id, nil
}

func (h *APIHandler) user(c *gin.Context) (uint, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return 0, userNotFound()
	}
	if _, err := services.GetUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return 0, userNotFound()
		}
		return 0, err
	}
	return id, nil
}
