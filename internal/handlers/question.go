package handlers

import (
	"strconv"

	apperrors "ask/internal/errors"
	"ask/internal/middleware"
	"ask/internal/services"
	"ask/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct{}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

// New lists the newest questions first.
func (h *QuestionHandler) New(c *gin.Context) {
	h.list(c, services.OrderNew)
}

// Popular lists the best rated questions first.
func (h *QuestionHandler) Popular(c *gin.Context) {
	h.list(c, services.OrderPopular)
}

func (h *QuestionHandler) list(c *gin.Context, order services.Ordering) {
	page, err := services.ParsePage(c.Query("page"))
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Invalid page."))
		return
	}

	result, err := services.ListQuestions(c.Request.Context(), order, page)
	if err != nil {
		RespondServiceError(c, err, "page")
		return
	}

	views := make([]questionView, 0, len(result.Questions))
	for _, q := range result.Questions {
		views = append(views, newQuestionView(q))
	}

	OK(c, gin.H{
		"questions":    views,
		"page":         result.Page,
		"num_pages":    result.NumPages,
		"count":        result.Count,
		"has_next":     result.HasNext,
		"has_previous": result.HasPrevious,
	})
}

// Show returns a question with its answers, oldest answer first.
func (h *QuestionHandler) Show(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("The requested question was not found."))
		return
	}

	ctx := c.Request.Context()
	question, err := services.GetQuestion(ctx, id)
	if err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	answers, err := services.AnswersForQuestion(ctx, id)
	if err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	OK(c, gin.H{
		"question": newQuestionView(*question),
		"answers":  newAnswerViews(answers),
	})
}

type askRequest struct {
	Title string `form:"title" json:"title"`
	Text  string `form:"text" json:"text"`
}

// Ask creates a question owned by the current user.
func (h *QuestionHandler) Ask(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req askRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.BadParams("Malformed request body"))
		return
	}

	question, err := services.CreateQuestion(c.Request.Context(), user.ID, req.Title, req.Text)
	if err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	Done(c, questionURL(question.ID), gin.H{
		"question": newQuestionView(*question),
		"url":      questionURL(question.ID),
	})
}

// Mine lists the current user's questions.
func (h *QuestionHandler) Mine(c *gin.Context) {
	user := middleware.CurrentUser(c)

	questions, err := services.QuestionsByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, newQuestionView(q))
	}
	OK(c, gin.H{"questions": views})
}

// Delete removes one of the current user's questions.
func (h *QuestionHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("The requested question was not found."))
		return
	}

	if err := services.DeleteQuestion(c.Request.Context(), id, user.ID); err != nil {
		RespondServiceError(c, err, "question")
		return
	}

	Done(c, "/my-questions/", gin.H{"question_id": id})
}

func questionURL(id uint) string {
	return "/question/" + strconv.FormatUint(uint64(id), 10) + "/"
}
