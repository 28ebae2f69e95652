package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ask/internal/metrics"
)

// Result describes one applied operation.
type Result struct {
	Previous VoteState
	State    VoteState
	Delta    int
	Rating   int
}

// Engine applies like/dislike operations through a Ledger.
type Engine struct {
	ledger  Ledger
	metrics *metrics.VoteMetrics
}

// NewEngine returns an engine writing to ledger. m may be nil.
func NewEngine(ledger Ledger, m *metrics.VoteMetrics) *Engine {
	return &Engine{ledger: ledger, metrics: m}
}

// Bind returns an engine writing to ledger with the same metrics. Used to run
// retractions inside a caller's transaction.
func (e *Engine) Bind(ledger Ledger) *Engine {
	return &Engine{ledger: ledger, metrics: e.metrics}
}

// Apply moves the user's vote on the question one step through the
// transition table and adjusts the rating by the matching delta, all in one
// ledger section. The caller has already authenticated userID.
func (e *Engine) Apply(ctx context.Context, questionID, userID uint, op Operation) (Result, error) {
	if op != Like && op != Dislike {
		e.record("invalid")
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}

	start := time.Now()
	var res Result
	err := e.ledger.Atomically(ctx, questionID, userID, func(tx LedgerTx) error {
		current, err := tx.Vote(ctx)
		if err != nil {
			return err
		}

		next, delta, err := Transition(current, op)
		if err != nil {
			return err
		}

		if next == NoVote {
			err = tx.ClearVote(ctx)
		} else {
			err = tx.UpsertVote(ctx, next == Liked)
		}
		if err != nil {
			return err
		}

		rating, err := tx.AdjustRating(ctx, delta)
		if err != nil {
			return err
		}

		res = Result{Previous: current, State: next, Delta: delta, Rating: rating}
		return nil
	})
	e.observe(start)

	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) || errors.Is(err, ErrUserNotFound) {
			e.record("not_found")
		} else {
			e.record("error")
		}
		return Result{}, err
	}

	e.record("applied")
	if e.metrics != nil {
		e.metrics.Transitions.WithLabelValues(res.Previous.String(), res.State.String()).Inc()
	}

	slog.DebugContext(ctx, "Vote applied",
		"question_id", questionID,
		"user_id", userID,
		"operation", string(op),
		"from", res.Previous.String(),
		"to", res.State.String(),
		"delta", res.Delta,
		"rating", res.Rating,
	)
	return res, nil
}

// RetractAll returns every opinion of the user to NoVote, undoing each
// contribution to the ratings. Used before a user is removed.
func (e *Engine) RetractAll(ctx context.Context, userID uint) (int, error) {
	ids, err := e.ledger.VotedQuestionIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	retracted := 0
	for _, questionID := range ids {
		err := e.ledger.Atomically(ctx, questionID, userID, func(tx LedgerTx) error {
			current, err := tx.Vote(ctx)
			if err != nil || current == NoVote {
				return err
			}
			if err := tx.ClearVote(ctx); err != nil {
				return err
			}
			if _, err := tx.AdjustRating(ctx, -current.contribution()); err != nil {
				return err
			}
			retracted++
			return nil
		})
		if errors.Is(err, ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return retracted, fmt.Errorf("could not retract vote on question %d: %w", questionID, err)
		}
	}
	return retracted, nil
}

func (e *Engine) record(result string) {
	if e.metrics != nil {
		e.metrics.VotesProcessed.WithLabelValues(result).Inc()
	}
}

func (e *Engine) observe(start time.Time) {
	if e.metrics != nil {
		e.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
	}
}
