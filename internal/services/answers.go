package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ask/internal/db"
	"ask/internal/models"

	"gorm.io/gorm"
)

const EmptyAnswerError = "You can't have an empty answer"

// CreateAnswer adds an answer to a question. authorID is nil for anonymous
// answers.
func CreateAnswer(ctx context.Context, questionID uint, authorID *uint, text string) (*models.Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("text", EmptyAnswerError)
	}

	conn := db.DB.WithContext(ctx)

	var count int64
	if err := conn.Model(&models.Question{}).Where("id = ?", questionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not look up question %d: %w", questionID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
	}

	answer := models.Answer{
		Text:       text,
		QuestionID: questionID,
		AuthorID:   authorID,
	}
	if err := conn.Create(&answer).Error; err != nil {
		return nil, fmt.Errorf("could not create answer: %w", err)
	}

	InvalidateListings()
	return &answer, nil
}

// AnswersForQuestion lists answers oldest first.
func AnswersForQuestion(ctx context.Context, questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := db.DB.WithContext(ctx).Preload("Author").Preload("Question").
		Where("question_id = ?", questionID).
		Order("added_at ASC, id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("could not list answers of question %d: %w", questionID, err)
	}
	return answers, nil
}

func AllAnswers(ctx context.Context) ([]models.Answer, error) {
	var answers []models.Answer
	err := db.DB.WithContext(ctx).Preload("Author").Preload("Question").
		Order("added_at ASC, id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("could not list answers: %w", err)
	}
	return answers, nil
}

func AnswersByAuthor(ctx context.Context, userID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := db.DB.WithContext(ctx).Preload("Author").Preload("Question").
		Where("author_id = ?", userID).
		Order("added_at ASC, id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("could not list answers of user %d: %w", userID, err)
	}
	return answers, nil
}

// DeleteAnswer removes an answer written by userID and returns the id of the
// question it belonged to.
func DeleteAnswer(ctx context.Context, answerID, userID uint) (uint, error) {
	conn := db.DB.WithContext(ctx)

	var answer models.Answer
	err := conn.Select("id", "question_id", "author_id").First(&answer, answerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("answer %d: %w", answerID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("could not load answer %d: %w", answerID, err)
	}
	if answer.AuthorID == nil || *answer.AuthorID != userID {
		return 0, fmt.Errorf("answer %d: %w", answerID, ErrForbidden)
	}

	if err := conn.Delete(&models.Answer{}, answerID).Error; err != nil {
		return 0, fmt.Errorf("could not delete answer %d: %w", answerID, err)
	}

	InvalidateListings()
	return answer.QuestionID, nil
}
