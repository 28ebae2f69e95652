package rating

import (
	"context"
	"errors"

	"ask/internal/models"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")
)

// LedgerTx is the ledger as seen from inside one serialized (question, user)
// section. Every call refers to that pair.
type LedgerTx interface {
	Vote(ctx context.Context) (VoteState, error)
	UpsertVote(ctx context.Context, isLiked bool) error
	ClearVote(ctx context.Context) error
	// AdjustRating adds delta to the question's rating and returns the result.
	AdjustRating(ctx context.Context, delta int) (int, error)
}

// Ledger stores vote rows and question ratings.
type Ledger interface {
	// Atomically runs fn with the (question, user) pair locked. Either all of
	// fn's writes persist or none do. Returns ErrUserNotFound or
	// ErrQuestionNotFound when either side no longer exists.
	Atomically(ctx context.Context, questionID, userID uint, fn func(tx LedgerTx) error) error
	// VotedQuestionIDs lists the questions the user holds an opinion on.
	VotedQuestionIDs(ctx context.Context, userID uint) ([]uint, error)
	// Voters lists the users holding an opinion on the question.
	Voters(ctx context.Context, questionID uint) ([]models.User, error)
}
