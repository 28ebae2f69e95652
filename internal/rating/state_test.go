package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		current VoteState
		op      Operation
		next    VoteState
		delta   int
	}{
		{NoVote, Like, Liked, +1},
		{NoVote, Dislike, Disliked, -1},
		{Liked, Like, NoVote, -1},
		{Liked, Dislike, Disliked, -2},
		{Disliked, Like, Liked, +2},
		{Disliked, Dislike, NoVote, +1},
	}

	for _, tc := range cases {
		t.Run(tc.current.String()+"/"+string(tc.op), func(t *testing.T) {
			next, delta, err := Transition(tc.current, tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.next, next)
			assert.Equal(t, tc.delta, delta)
			assert.Equal(t, tc.next.contribution()-tc.current.contribution(), delta,
				"delta must equal the change in contribution")
		})
	}
}

func TestTransitionRejectsUnknownInput(t *testing.T) {
	_, _, err := Transition(NoVote, Operation("Love"))
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, _, err = Transition(VoteState(42), Like)
	assert.Error(t, err)
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("Like")
	require.NoError(t, err)
	assert.Equal(t, Like, op)

	op, err = ParseOperation("Dislike")
	require.NoError(t, err)
	assert.Equal(t, Dislike, op)

	for _, bad := range []string{"", "like", "LIKE", "Dislike ", "Upvote"} {
		_, err := ParseOperation(bad)
		assert.ErrorIs(t, err, ErrInvalidOperation, bad)
	}
}

func TestVoteState(t *testing.T) {
	assert.Equal(t, "none", NoVote.String())
	assert.Equal(t, "liked", Liked.String())
	assert.Equal(t, "disliked", Disliked.String())

	assert.Equal(t, Liked, StateOf(true))
	assert.Equal(t, Disliked, StateOf(false))
}
