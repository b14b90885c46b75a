package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRequestAddVoteRemovesOpposingVoteFirst(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	request.AddVote("voter", VoteFor)
	require.Equal(t, []string{"voter"}, request.VotersFor)

	request.AddVote("voter", VoteAgainst)
	assert.Empty(t, request.VotersFor)
	assert.Equal(t, []string{"voter"}, request.VotersAgainst)
}

func TestEntryRequestRecastingIdenticalVoteIsNoOp(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	request.AddVote("voter", VoteFor)
	request.AddVote("voter", VoteFor)

	assert.Equal(t, []string{"voter"}, request.VotersFor)
}

func TestEntryRequestVoterAppearsInAtMostOneSet(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	for _, vote := range []VoteType{VoteFor, VoteAgainst, VoteFor, VoteAgainst} {
		request.AddVote("voter", vote)

		inFor, _ := request.UserVote("voter")
		if inFor == VoteFor {
			assert.NotContains(t, request.VotersAgainst, "voter")
		} else {
			assert.NotContains(t, request.VotersFor, "voter")
		}
	}
}

func TestEntryRequestRemoveVote(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	request.AddVote("voter", VoteFor)
	request.RemoveVote("voter", VoteFor)

	_, voted := request.UserVote("voter")
	assert.False(t, voted)
}

func TestEntryRequestVerdictThresholds(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	_, reached := request.GetVerdict(2, 2)
	require.False(t, reached)

	request.AddVote("a", VoteFor)
	_, reached = request.GetVerdict(2, 2)
	require.False(t, reached)

	request.AddVote("b", VoteFor)
	verdict, reached := request.GetVerdict(2, 2)
	require.True(t, reached)
	assert.Equal(t, VerdictAccepted, verdict)
}

func TestEntryRequestRejectionThreshold(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	request.AddVote("a", VoteAgainst)

	verdict, reached := request.GetVerdict(2, 1)
	require.True(t, reached)
	assert.Equal(t, VerdictRejected, verdict)
}

func TestEntryRequestForcedVerdictOverridesTallies(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	request.AddVote("a", VoteFor)
	request.AddVote("b", VoteFor)
	request.ForceVerdict("admin", VerdictRejected)

	verdict, reached := request.GetVerdict(2, 2)
	require.True(t, reached)
	assert.Equal(t, VerdictRejected, verdict)
}

func TestEntryRequestGetVerdictDoesNotMutate(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})
	request.AddVote("a", VoteFor)

	request.GetVerdict(1, 1)

	assert.False(t, request.IsResolved)
	assert.Equal(t, []string{"a"}, request.VotersFor)
}

func TestEntryRequestPartialID(t *testing.T) {
	request := NewEntryRequest("guild", "author", "role", EntryRequestFormData{})

	assert.Equal(t, "guild/author", request.PartialID())
	assert.Equal(t, "EntryRequests/guild/author", request.ID())
}
