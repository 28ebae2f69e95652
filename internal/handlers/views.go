package handlers

import (
	"html/template"
	"time"

	"ask/internal/models"
	"ask/internal/utils"
)

type questionView struct {
	models.Question
	TextHTML template.HTML `json:"text_html"`
}

type answerView struct {
	models.Answer
	TextHTML template.HTML `json:"text_html"`
}

func newQuestionView(q models.Question) questionView {
	return questionView{Question: q, TextHTML: utils.RenderMarkdown(q.Text)}
}

func newAnswerViews(answers []models.Answer) []answerView {
	views := make([]answerView, 0, len(answers))
	for _, a := range answers {
		views = append(views, answerView{Answer: a, TextHTML: utils.RenderMarkdown(a.Text)})
	}
	return views
}

// Read-only API shapes. Authors are rendered as {username: email}.

type apiQuestion struct {
	ID      uint              `json:"id"`
	Title   string            `json:"title"`
	Text    string            `json:"text"`
	AddedAt time.Time         `json:"added_at"`
	Rating  int               `json:"rating"`
	Author  map[string]string `json:"author"`
}

type apiAnswer struct {
	ID       uint              `json:"id"`
	Text     string            `json:"text"`
	AddedAt  time.Time         `json:"added_at"`
	Author   map[string]string `json:"author"`
	Question string            `json:"question"`
}

type apiUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func apiAuthor(u *models.User) map[string]string {
	if u == nil {
		return nil
	}
	return map[string]string{u.Username: u.Email}
}

func toAPIQuestions(questions []models.Question) []apiQuestion {
	out := make([]apiQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, apiQuestion{
			ID:      q.ID,
			Title:   q.Title,
			Text:    q.Text,
			AddedAt: q.AddedAt,
			Rating:  q.Rating,
			Author:  apiAuthor(q.Author),
		})
	}
	return out
}

func toAPIAnswers(answers []models.Answer) []apiAnswer {
	out := make([]apiAnswer, 0, len(answers))
	for _, a := range answers {
		out = append(out, apiAnswer{
			ID:       a.ID,
			Text:     a.Text,
			AddedAt:  a.AddedAt,
			Author:   apiAuthor(a.Author),
			Question: a.Question.Title,
		})
	}
	return out
}

func toAPIUsers(users []models.User) []apiUser {
	out := make([]apiUser, 0, len(users))
	for _, u := range users {
		out = append(out, apiUser{Username: u.Username, Email: u.Email})
	}
	return out
}
