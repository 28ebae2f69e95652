package rating

import (
	"errors"
	"fmt"
)

// VoteState is a user's standing on one question.
type VoteState int

const (
	NoVote VoteState = iota
	Liked
	Disliked
)

func (s VoteState) String() string {
	switch s {
	case Liked:
		return "liked"
	case Disliked:
		return "disliked"
	default:
		return "none"
	}
}

// contribution is what a state adds to the question's rating.
func (s VoteState) contribution() int {
	switch s {
	case Liked:
		return 1
	case Disliked:
		return -1
	default:
		return 0
	}
}

// StateOf maps a stored vote row onto its state.
func StateOf(isLiked bool) VoteState {
	if isLiked {
		return Liked
	}
	return Disliked
}

// Operation is what the user asks for. Repeating the held opinion retracts it.
type Operation string

const (
	Like    Operation = "Like"
	Dislike Operation = "Dislike"
)

var ErrInvalidOperation = errors.New("invalid operation")

// ParseOperation accepts exactly "Like" and "Dislike".
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case Like, Dislike:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
	}
}

type step struct {
	next  VoteState
	delta int
}

var transitions = map[VoteState]map[Operation]step{
	NoVote: {
		Like:    {next: Liked, delta: +1},
		Dislike: {next: Disliked, delta: -1},
	},
	Liked: {
		Like:    {next: NoVote, delta: -1},
		Dislike: {next: Disliked, delta: -2},
	},
	Disliked: {
		Like:    {next: Liked, delta: +2},
		Dislike: {next: NoVote, delta: +1},
	},
}

// Transition returns the state after op and the rating change it causes.
func Transition(current VoteState, op Operation) (VoteState, int, error) {
	byOp, ok := transitions[current]
	if !ok {
		return current, 0, fmt.Errorf("unknown vote state %d", current)
	}
	s, ok := byOp[op]
	if !ok {
		return current, 0, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	return s.next, s.delta, nil
}
