package models

import "time"

// AuthorisationStatus is the outcome of a user's verification on a guild.
type AuthorisationStatus string

const (
	StatusAuthorised AuthorisationStatus = "authorised"
	StatusRejected   AuthorisationStatus = "rejected"
)

// UserDocument stores per-user bot state, independent of any one guild.
type UserDocument struct {
	UserID    string                         `json:"userId"`
	CreatedAt int64                          `json:"createdAt"`
	Statuses  map[string]AuthorisationStatus `json:"statuses,omitempty"` // keyed by guild ID
}

func NewUserDocument(userID string) *UserDocument {
	return &UserDocument{UserID: userID, CreatedAt: time.Now().UnixMilli()}
}

func (u *UserDocument) PartialID() string {
	return BuildPartialID(u.UserID)
}

func (u *UserDocument) ID() string {
	return BuildID(CollectionUsers, u.UserID)
}

func (u *UserDocument) SetAuthorisationStatus(guildID string, status AuthorisationStatus) {
	if u.Statuses == nil {
		u.Statuses = map[string]AuthorisationStatus{}
	}

	u.Statuses[guildID] = status
}
