package handlers

import (
	"encoding/json"
	"errors"

	apperrors "ask/internal/errors"
	"ask/internal/middleware"
	"ask/internal/rating"
	"ask/internal/services"
	"ask/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	engine *rating.Engine
}

func NewVoteHandler(engine *rating.Engine) *VoteHandler {
	return &VoteHandler{engine: engine}
}

type voteRequest struct {
	QuestionID json.Number `form:"question_id" json:"question_id"`
	Operation  string      `form:"operation" json:"operation"`
}

// Like toggles the current user's opinion of a question. Routed behind
// APIAuthRequired, so anonymous callers never reach it.
func (h *VoteHandler) Like(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		apperrors.Respond(c, apperrors.NoAuth())
		return
	}

	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}

	questionID, ok := utils.ParseID(req.QuestionID.String())
	if !ok {
		apperrors.Respond(c, apperrors.BadParams("question_id must be a positive integer"))
		return
	}

	op, err := rating.ParseOperation(req.Operation)
	if err != nil {
		apperrors.Respond(c, apperrors.BadParams(`operation must be "Like" or "Dislike"`))
		return
	}

	res, err := h.engine.Apply(c.Request.Context(), questionID, user.ID, op)
	if errors.Is(err, rating.ErrUserNotFound) {
		// account deleted while this request was in flight
		apperrors.Respond(c, apperrors.NoAuth())
		return
	}
	if errors.Is(err, rating.ErrQuestionNotFound) {
		apperrors.Respond(c, apperrors.NotFound("The requested question was not found.").
			WithField("question_id", questionID))
		return
	}
	if err != nil {
		apperrors.Respond(c, apperrors.Internal("could not apply vote", err).
			WithField("question_id", questionID))
		return
	}

	services.InvalidateListings()

	OK(c, gin.H{
		"rating": res.Rating,
		"state":  res.State.String(),
		"delta":  res.Delta,
	})
}
