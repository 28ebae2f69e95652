package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"ask/internal/db"
	"ask/internal/models"

	"gorm.io/gorm"
)

// PageSize is the number of questions on one listing page.
const PageSize = 10

const (
	EmptyTitleError = "You can't have an empty question title"
	EmptyTextError  = "You can't have an empty question text"
	LongTitleError  = "Question title is too long"
)

var ErrInvalidPage = errors.New("invalid page number")

// Ordering of question listings.
type Ordering int

const (
	OrderNew Ordering = iota
	OrderPopular
)

func (o Ordering) clause() string {
	if o == OrderPopular {
		return "rating DESC, added_at DESC, id DESC"
	}
	return "added_at DESC, id DESC"
}

// Page is one page of a question listing.
type Page struct {
	Questions   []models.Question `json:"questions"`
	Page        int               `json:"page"`
	NumPages    int               `json:"num_pages"`
	Count       int64             `json:"count"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}

// ParsePage reads the page query parameter. Empty means the first page.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPage, raw)
	}
	return n, nil
}

// ListQuestions returns the requested page. Pages outside the range land on
// the last page; an empty listing still has one (empty) page.
func ListQuestions(ctx context.Context, order Ordering, page int) (*Page, error) {
	conn := db.DB.WithContext(ctx)

	var count int64
	if err := conn.Model(&models.Question{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not count questions: %w", err)
	}

	numPages := int((count + PageSize - 1) / PageSize)
	if numPages < 1 {
		numPages = 1
	}
	if page < 1 || page > numPages {
		page = numPages
	}

	questions := make([]models.Question, 0, PageSize)
	err := conn.Preload("Author").
		Order(order.clause()).
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("could not list questions: %w", err)
	}

	return &Page{
		Questions:   questions,
		Page:        page,
		NumPages:    numPages,
		Count:       count,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}, nil
}

// AllQuestions lists every question without paging.
func AllQuestions(ctx context.Context, order Ordering) ([]models.Question, error) {
	var questions []models.Question
	err := db.DB.WithContext(ctx).Preload("Author").Order(order.clause()).Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("could not list questions: %w", err)
	}
	return questions, nil
}

func QuestionsByAuthor(ctx context.Context, userID uint) ([]models.Question, error) {
	var questions []models.Question
	err := db.DB.WithContext(ctx).Preload("Author").
		Where("author_id = ?", userID).
		Order(OrderNew.clause()).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("could not list questions of user %d: %w", userID, err)
	}
	return questions, nil
}

func GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := db.DB.WithContext(ctx).Preload("Author").First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not load question %d: %w", id, err)
	}
	return &question, nil
}

// CreateQuestion stores a new question with a zero rating.
func CreateQuestion(ctx context.Context, authorID uint, title, text string) (*models.Question, error) {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	switch {
	case title == "":
		return nil, invalid("title", EmptyTitleError)
	case utf8.RuneCountInString(title) > models.QuestionTitleMaxLen:
		return nil, invalid("title", LongTitleError)
	case text == "":
		return nil, invalid("text", EmptyTextError)
	}

	question := models.Question{
		Title:    title,
		Text:     text,
		AuthorID: &authorID,
	}
	if err := db.DB.WithContext(ctx).Create(&question).Error; err != nil {
		return nil, fmt.Errorf("could not create question: %w", err)
	}

	InvalidateListings()
	return &question, nil
}

// DeleteQuestion removes a question owned by userID together with its answers
// and votes.
func DeleteQuestion(ctx context.Context, questionID, userID uint) error {
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		err := tx.Select("id", "author_id").First(&question, questionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if question.AuthorID == nil || *question.AuthorID != userID {
			return fmt.Errorf("question %d: %w", questionID, ErrForbidden)
		}

		if err := tx.Where("question_id = ?", questionID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
	if err != nil {
		return err
	}

	InvalidateListings()
	return nil
}
