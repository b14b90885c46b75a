package models

import (
	"slices"
	"time"
)

// VoteType is the stance a voter takes on an entry request.
type VoteType string

const (
	VoteFor     VoteType = "for"
	VoteAgainst VoteType = "against"
)

// Verdict is the outcome of entry-request voting.
type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
)

// ForcedVerdict is an administrator override. Once set it permanently fixes
// the outcome regardless of subsequent vote counts.
type ForcedVerdict struct {
	UserID  string  `json:"userId"`
	Verdict Verdict `json:"verdict"`
}

// EntryRequestFormData is what a prospective member submitted when
// requesting entry.
type EntryRequestFormData struct {
	Reason     string `json:"reason"`
	Aim        string `json:"aim"`
	WhereFound string `json:"whereFound"`
}

// EntryRequest is a prospective member's request to join, voted on by the
// guild's verifiers. Identified by guild and author; a user has at most one
// entry request per guild.
type EntryRequest struct {
	GuildID         string               `json:"guildId"`
	AuthorID        string               `json:"authorId"`
	CreatedAt       int64                `json:"createdAt"`
	RequestedRoleID string               `json:"requestedRoleId"`
	FormData        EntryRequestFormData `json:"formData"`
	IsResolved      bool                 `json:"isResolved"`
	ForcedVerdict   *ForcedVerdict       `json:"forcedVerdict,omitempty"`
	TicketChannelID string               `json:"ticketChannelId,omitempty"`
	VotersFor       []string             `json:"votersFor,omitempty"`
	VotersAgainst   []string             `json:"votersAgainst,omitempty"`
}

func NewEntryRequest(guildID, authorID, requestedRoleID string, formData EntryRequestFormData) *EntryRequest {
	return &EntryRequest{
		GuildID:         guildID,
		AuthorID:        authorID,
		CreatedAt:       time.Now().UnixMilli(),
		RequestedRoleID: requestedRoleID,
		FormData:        formData,
	}
}

func (r *EntryRequest) PartialID() string {
	return BuildPartialID(r.GuildID, r.AuthorID)
}

func (r *EntryRequest) ID() string {
	return BuildID(CollectionEntryRequests, r.GuildID, r.AuthorID)
}

func (r *EntryRequest) OwnerID() string {
	return r.AuthorID
}

// UserVote returns the stance the given user currently holds, if any.
func (r *EntryRequest) UserVote(userID string) (VoteType, bool) {
	if slices.Contains(r.VotersFor, userID) {
		return VoteFor, true
	}

	if slices.Contains(r.VotersAgainst, userID) {
		return VoteAgainst, true
	}

	return "", false
}

// AddVote records a vote for the given user. A prior opposing vote is removed
// first, so a voter appears in at most one of the two sets at any time.
// Re-casting an identical vote is a no-op.
func (r *EntryRequest) AddVote(userID string, vote VoteType) {
	if previous, ok := r.UserVote(userID); ok {
		if previous == vote {
			return
		}

		r.RemoveVote(userID, previous)
	}

	switch vote {
	case VoteFor:
		r.VotersFor = append(r.VotersFor, userID)
	case VoteAgainst:
		r.VotersAgainst = append(r.VotersAgainst, userID)
	}
}

// RemoveVote withdraws the given user's vote from the named set.
func (r *EntryRequest) RemoveVote(userID string, vote VoteType) {
	switch vote {
	case VoteFor:
		if index := slices.Index(r.VotersFor, userID); index >= 0 {
			r.VotersFor = slices.Delete(r.VotersFor, index, index+1)
		}
	case VoteAgainst:
		if index := slices.Index(r.VotersAgainst, userID); index >= 0 {
			r.VotersAgainst = slices.Delete(r.VotersAgainst, index, index+1)
		}
	}
}

// GetVerdict computes the request's outcome from the current vote tallies.
// A forced verdict always takes precedence. The function never mutates the
// request.
func (r *EntryRequest) GetVerdict(requiredFor, requiredAgainst int) (Verdict, bool) {
	if r.ForcedVerdict != nil {
		return r.ForcedVerdict.Verdict, true
	}

	if len(r.VotersFor) >= requiredFor {
		return VerdictAccepted, true
	}

	if len(r.VotersAgainst) >= requiredAgainst {
		return VerdictRejected, true
	}

	return "", false
}

// ForceVerdict records an administrator override.
func (r *EntryRequest) ForceVerdict(userID string, verdict Verdict) {
	r.ForcedVerdict = &ForcedVerdict{UserID: userID, Verdict: verdict}
}
