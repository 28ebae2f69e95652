package handlers

import (
	"encoding/json"

	apperrors "ask/internal/errors"
	"ask/internal/middleware"
	"ask/internal/services"
	"ask/internal/utils"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct{}

func NewAnswerHandler() *AnswerHandler {
	return &AnswerHandler{}
}

type answerRequest struct {
	Text string `form:"text" json:"text"`
}

// Create answers a question. Anyone may answer; anonymous answers are stored
// without an author.
func (h *AnswerHandler) Create(c *gin.Context) {
	questionID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("The requested question was not found."))
		return
	}

	var req answerRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}

	var authorID *uint
	if user := middleware.CurrentUser(c); user != nil {
		authorID = &user.ID
	}

	answer, err := services.CreateAnswer(c.Request.Context(), questionID, authorID, req.Text)
	if err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	Done(c, questionURL(questionID), gin.H{"answer": answer})
}

type deleteAnswerRequest struct {
	AnswerID json.Number `form:"answer_id" json:"answer_id"`
}

// Delete removes one of the current user's answers.
func (h *AnswerHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req deleteAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}
	answerID, ok := utils.ParseID(req.AnswerID.String())
	if !ok {
		apperrors.Respond(c, apperrors.BadParams("answer_id must be a positive integer"))
		return
	}

	questionID, err := services.DeleteAnswer(c.Request.Context(), answerID, user.ID)
	if err != nil {
		RespondServiceError(c, err, "answer")
		return
	}

	Done(c, questionURL(questionID), gin.H{"answer_id": answerID, "question_id": questionID})
}
