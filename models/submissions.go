package models

import (
	"strconv"
	"time"
)

// ReportFormData is what a member submitted when reporting other users.
type ReportFormData struct {
	Reason      string `json:"reason"`
	Users       string `json:"users"`
	MessageLink string `json:"messageLink,omitempty"`
}

// Report is a user report awaiting moderator resolution.
type Report struct {
	GuildID    string         `json:"guildId"`
	AuthorID   string         `json:"authorId"`
	CreatedAt  int64          `json:"createdAt"`
	FormData   ReportFormData `json:"formData"`
	IsResolved bool           `json:"isResolved"`
}

func NewReport(guildID, authorID string, formData ReportFormData) *Report {
	return &Report{GuildID: guildID, AuthorID: authorID, CreatedAt: time.Now().UnixMilli(), FormData: formData}
}

func (r *Report) PartialID() string {
	return BuildPartialID(r.GuildID, r.AuthorID, strconv.FormatInt(r.CreatedAt, 10))
}

func (r *Report) ID() string {
	return CollectionReports + IDSeparator + r.PartialID()
}

func (r *Report) OwnerID() string { return r.AuthorID }

// SuggestionFormData is what a member submitted when making a suggestion.
type SuggestionFormData struct {
	Suggestion string `json:"suggestion"`
}

// Suggestion is a community suggestion awaiting resolution.
type Suggestion struct {
	GuildID    string             `json:"guildId"`
	AuthorID   string             `json:"authorId"`
	CreatedAt  int64              `json:"createdAt"`
	FormData   SuggestionFormData `json:"formData"`
	IsResolved bool               `json:"isResolved"`
}

func NewSuggestion(guildID, authorID string, formData SuggestionFormData) *Suggestion {
	return &Suggestion{GuildID: guildID, AuthorID: authorID, CreatedAt: time.Now().UnixMilli(), FormData: formData}
}

func (s *Suggestion) PartialID() string {
	return BuildPartialID(s.GuildID, s.AuthorID, strconv.FormatInt(s.CreatedAt, 10))
}

func (s *Suggestion) ID() string {
	return CollectionSuggestions + IDSeparator + s.PartialID()
}

func (s *Suggestion) OwnerID() string { return s.AuthorID }

// ResourceFormData is what a member submitted when sharing a learning
// resource.
type ResourceFormData struct {
	Resource string `json:"resource"`
}

// Resource is a submitted learning resource awaiting review.
type Resource struct {
	GuildID    string           `json:"guildId"`
	AuthorID   string           `json:"authorId"`
	CreatedAt  int64            `json:"createdAt"`
	FormData   ResourceFormData `json:"formData"`
	IsResolved bool             `json:"isResolved"`
}

func NewResource(guildID, authorID string, formData ResourceFormData) *Resource {
	return &Resource{GuildID: guildID, AuthorID: authorID, CreatedAt: time.Now().UnixMilli(), FormData: formData}
}

func (r *Resource) PartialID() string {
	return BuildPartialID(r.GuildID, r.AuthorID, strconv.FormatInt(r.CreatedAt, 10))
}

func (r *Resource) ID() string {
	return CollectionResources + IDSeparator + r.PartialID()
}

func (r *Resource) OwnerID() string { return r.AuthorID }

// TicketType distinguishes user-opened standalone tickets from inquiry
// channels opened from an entry-request prompt.
type TicketType string

const (
	TicketStandalone TicketType = "standalone"
	TicketInquiry    TicketType = "inquiry"
)

// TicketFormData is what a member submitted when opening a ticket.
type TicketFormData struct {
	Topic string `json:"topic"`
}

// Ticket is an open support channel backed by a prompt.
type Ticket struct {
	GuildID   string         `json:"guildId"`
	AuthorID  string         `json:"authorId"`
	ChannelID string         `json:"channelId"`
	CreatedAt int64          `json:"createdAt"`
	Type      TicketType     `json:"type"`
	FormData  TicketFormData `json:"formData"`
	IsClosed  bool           `json:"isClosed"`
}

func NewTicket(guildID, authorID, channelID string, ticketType TicketType, formData TicketFormData) *Ticket {
	return &Ticket{
		GuildID:   guildID,
		AuthorID:  authorID,
		ChannelID: channelID,
		CreatedAt: time.Now().UnixMilli(),
		Type:      ticketType,
		FormData:  formData,
	}
}

func (t *Ticket) PartialID() string {
	return BuildPartialID(t.GuildID, t.AuthorID, t.ChannelID)
}

func (t *Ticket) ID() string {
	return CollectionTickets + IDSeparator + t.PartialID()
}

func (t *Ticket) OwnerID() string { return t.AuthorID }
