package rating

import (
	"context"
	"errors"
	"fmt"

	"ask/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedger keeps votes in the sparse votes table and the aggregate in
// questions.rating.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// Atomically share-locks the user row, then locks the question row for the
// whole transaction, so sections on the same question queue behind each
// other. Account deletion holds the user row exclusively and takes the same
// order.
func (l *GormLedger) Atomically(ctx context.Context, questionID, userID uint, fn func(tx LedgerTx) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id").
			First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("could not lock user %d: %w", userID, err)
		}

		var question models.Question
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&question, questionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		if err != nil {
			return fmt.Errorf("could not lock question %d: %w", questionID, err)
		}

		return fn(&gormLedgerTx{tx: tx, questionID: questionID, userID: userID})
	})
}

func (l *GormLedger) VotedQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := l.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ?", userID).
		Order("question_id ASC").
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("could not list votes of user %d: %w", userID, err)
	}
	return ids, nil
}

func (l *GormLedger) Voters(ctx context.Context, questionID uint) ([]models.User, error) {
	var users []models.User
	err := l.db.WithContext(ctx).
		Joins("JOIN votes ON votes.user_id = users.id").
		Where("votes.question_id = ?", questionID).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("could not list voters of question %d: %w", questionID, err)
	}
	return users, nil
}

type gormLedgerTx struct {
	tx         *gorm.DB
	questionID uint
	userID     uint
}

func (t *gormLedgerTx) pair() *gorm.DB {
	return t.tx.Where("question_id = ? AND user_id = ?", t.questionID, t.userID)
}

func (t *gormLedgerTx) Vote(ctx context.Context) (VoteState, error) {
	var vote models.Vote
	err := t.pair().WithContext(ctx).Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NoVote, nil
	}
	if err != nil {
		return NoVote, fmt.Errorf("could not read vote: %w", err)
	}
	return StateOf(vote.IsLiked), nil
}

func (t *gormLedgerTx) UpsertVote(ctx context.Context, isLiked bool) error {
	vote := models.Vote{
		QuestionID: t.questionID,
		UserID:     t.userID,
		IsLiked:    isLiked,
	}
	err := t.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_liked", "updated_at"}),
	}).Create(&vote).Error
	if err != nil {
		return fmt.Errorf("could not save vote: %w", err)
	}
	return nil
}

func (t *gormLedgerTx) ClearVote(ctx context.Context) error {
	if err := t.pair().WithContext(ctx).Delete(&models.Vote{}).Error; err != nil {
		return fmt.Errorf("could not delete vote: %w", err)
	}
	return nil
}

func (t *gormLedgerTx) AdjustRating(ctx context.Context, delta int) (int, error) {
	db := t.tx.WithContext(ctx)
	err := db.Model(&models.Question{}).
		Where("id = ?", t.questionID).
		UpdateColumn("rating", gorm.Expr("rating + ?", delta)).Error
	if err != nil {
		return 0, fmt.Errorf("could not adjust rating: %w", err)
	}

	var question models.Question
	if err := db.Select("rating").First(&question, t.questionID).Error; err != nil {
		return 0, fmt.Errorf("could not read rating: %w", err)
	}
	return question.Rating, nil
}
